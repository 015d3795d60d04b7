package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testSequences(n int) []sequenceDir {
	out := make([]sequenceDir, n)
	for i := range out {
		out[i] = sequenceDir{Path: "/data/" + itoa(i), Rel: itoa(i), Frames: 10 + i}
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSequenceListNavigation(t *testing.T) {
	var m tea.Model = NewSequenceListModel(testSequences(3))
	for _, k := range []string{"down", "down", "down", "up"} {
		m, _ = m.Update(key(k))
	}
	got := m.(SequenceListModel)
	if got.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", got.Cursor)
	}

	m, cmd := m.Update(key("enter"))
	got = m.(SequenceListModel)
	if got.Selected == nil || got.Selected.Path != "/data/1" {
		t.Errorf("Selected = %+v, want /data/1", got.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestSequenceListScrolls(t *testing.T) {
	m := NewSequenceListModel(testSequences(20))
	m.Height = 5
	var model tea.Model = m
	for range 7 {
		model, _ = model.Update(key("j"))
	}
	got := model.(SequenceListModel)
	if got.Cursor != 7 || got.Offset != 3 {
		t.Errorf("Cursor, Offset = %d, %d, want 7, 3", got.Cursor, got.Offset)
	}

	model, _ = model.Update(key("g"))
	got = model.(SequenceListModel)
	if got.Cursor != 0 || got.Offset != 0 {
		t.Errorf("after home: Cursor, Offset = %d, %d, want 0, 0", got.Cursor, got.Offset)
	}
}

func TestSequenceListQuitWithoutSelection(t *testing.T) {
	var m tea.Model = NewSequenceListModel(testSequences(2))
	m, cmd := m.Update(key("q"))
	if m.(SequenceListModel).Selected != nil {
		t.Error("quit should not select")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestSequenceListView(t *testing.T) {
	view := NewSequenceListModel(testSequences(2)).View()
	for _, want := range []string{"Select Sequence", "Directory", "Frames", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
