package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// =============================================================================
// SequenceListModel - Interactive sequence directory selection
// =============================================================================

// SequenceListModel is the bubbletea model behind render --pick.
type SequenceListModel struct {
	Sequences []sequenceDir
	Cursor    int
	Selected  *sequenceDir
	Height    int
	Offset    int
}

// NewSequenceListModel creates a new sequence list model.
func NewSequenceListModel(seqs []sequenceDir) SequenceListModel {
	return SequenceListModel{Sequences: seqs, Height: 15}
}

func (m SequenceListModel) Init() tea.Cmd {
	return nil
}

func (m SequenceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Sequences)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Sequences) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		case "enter":
			if len(m.Sequences) == 0 {
				return m, nil
			}
			seq := m.Sequences[m.Cursor]
			m.Selected = &seq
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m SequenceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Sequence"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Sequences))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		s := m.Sequences[i]
		rows = append(rows, []string{cursor, s.Rel, itoa(s.Frames)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Directory", "Frames").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Sequences))))

	return b.String()
}

// pickSequence runs the picker and returns the chosen directory, or "" if
// the user quit without choosing.
func pickSequence(seqs []sequenceDir) (string, error) {
	final, err := tea.NewProgram(NewSequenceListModel(seqs)).Run()
	if err != nil {
		return "", fmt.Errorf("sequence picker: %w", err)
	}
	m := final.(SequenceListModel)
	if m.Selected == nil {
		return "", nil
	}
	return m.Selected.Path, nil
}
