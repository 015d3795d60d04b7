package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posetrail/pkg/history"
)

// historyCommand creates the history command for browsing past runs.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded render runs",
		Long: `Browse recorded render runs.

Every render and batch run is recorded in a local SQLite database under
$XDG_DATA_HOME/posetrail, or in MongoDB when [history] backend = "mongo"
is configured.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var (
		dir    string
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openHistoryStrict(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			opts := history.ListOptions{Limit: limit}
			if dir != "" {
				if opts.Dir, err = filepath.Abs(dir); err != nil {
					return err
				}
			}
			runs, err := store.List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if asJSON {
				return writeJSONTo(runs)
			}
			if len(runs) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Println(runsTable(runs))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "only show runs for this sequence directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "maximum number of runs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openHistoryStrict(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSONTo(rec)
			}
			printRun(rec)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printRun(r *history.Record) {
	fmt.Println(StyleTitle.Render("Run " + r.ID))
	printKeyValue("Status", string(r.Status))
	printKeyValue("Started", r.StartedAt.Local().Format(time.DateTime))
	printKeyValue("Took", r.Duration.Round(time.Millisecond).String())
	printKeyValue("Directory", r.Dir)
	printKeyValue("Mode", r.Mode+" / "+r.Layout)
	printKeyValue("Camera", r.Camera)
	printKeyValue("Engine", r.Engine)
	printKeyValue("Frames", fmt.Sprintf("%d placed of %d", r.Items, r.Frames))
	if r.Output != "" {
		printKeyValue("Output", r.Output)
	}
	if r.Error != "" {
		printKeyValue("Error", StyleError.Render(r.Error))
	}
}

func writeJSONTo(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
