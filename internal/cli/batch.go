package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/history"
	"github.com/matzehuels/posetrail/pkg/pipeline"
	"github.com/matzehuels/posetrail/pkg/render"
)

// batchFlags holds the batch command flags.
type batchFlags struct {
	renderFlags
	outDir       string
	workers      int
	skipExisting bool
	failFast     bool
}

// batchItem is the outcome of one sequence in a batch.
type batchItem struct {
	seq     sequenceDir
	output  string
	items   int
	elapsed time.Duration
	skipped bool
	err     error
}

// batchCommand creates the batch command for rendering a whole dataset.
func (c *CLI) batchCommand() *cobra.Command {
	var f batchFlags

	cmd := &cobra.Command{
		Use:   "batch [root]",
		Short: "Render every frame sequence under a dataset root",
		Long: `Render every frame sequence under a dataset root.

Every directory below root that contains frame files is planned and
rendered with the same options. Renders run in parallel; the worker count
defaults to a value derived from the available cores and memory. Each
render is bounded by --timeout (default 40m).

With --out-dir, outputs mirror the dataset layout under that directory;
otherwise each output is written inside its sequence directory.

Use --redis to share planned scenes between machines rendering the same
dataset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &f.planFlags, "")
			if err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), args[0], opts, f)
		},
	}

	addRenderFlags(cmd, &f.renderFlags)
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "write outputs under this directory, mirroring the dataset layout")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel renders (default: derived from CPU and memory)")
	cmd.Flags().BoolVar(&f.skipExisting, "skip-existing", true, "skip sequences whose output already exists")
	cmd.Flags().BoolVar(&f.failFast, "fail-fast", false, "stop at the first failed render")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, root string, base pipeline.Options, f batchFlags) error {
	installMetrics(c.Logger)

	seqs, err := discoverSequences(root, base.FrameOptions())
	if err != nil {
		return err
	}
	if f.workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers cannot be negative")
	}
	workers := f.workers
	if workers == 0 {
		workers = defaultWorkers(f.engine)
	}
	workers = min(workers, len(seqs))

	r, err := c.newRenderer(f.renderFlags)
	if err != nil {
		return err
	}
	base.Renderer = r

	runner, err := c.newRunner(ctx, f.noCache, f.redis)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store := c.openHistory(ctx, f.noHistory)
	defer store.Close()

	printInfo("Rendering %d sequences with %d workers (%s)", len(seqs), workers, r.Name())
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("0/%d done", len(seqs)))
	spinner.Start()

	results := make([]batchItem, len(seqs))
	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seq := range seqs {
		g.Go(func() error {
			item := c.renderSequence(gctx, runner, store, base, seq, f)
			results[i] = item

			mu.Lock()
			done++
			spinner.Update(fmt.Sprintf("%d/%d done", done, len(seqs)))
			mu.Unlock()

			if item.err != nil && f.failFast {
				return fmt.Errorf("%s: %w", seq.Rel, item.err)
			}
			return nil
		})
	}
	gerr := g.Wait()
	spinner.Stop()

	printNewline()
	fmt.Println(indent(batchTable(results)))
	printNewline()

	failed, skipped := 0, 0
	for _, it := range results {
		switch {
		case it.err != nil:
			failed++
		case it.skipped:
			skipped++
		}
	}
	prog.done(fmt.Sprintf("Batch finished: %d rendered, %d skipped, %d failed",
		len(seqs)-failed-skipped, skipped, failed))

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if gerr != nil {
		return gerr
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeRenderDispatch, "%d of %d renders failed", failed, len(seqs))
	}
	return nil
}

// renderSequence renders one sequence of a batch.
func (c *CLI) renderSequence(ctx context.Context, runner *pipeline.Runner, store history.Store, base pipeline.Options, seq sequenceDir, f batchFlags) batchItem {
	item := batchItem{seq: seq}
	if err := ctx.Err(); err != nil {
		item.err = err
		return item
	}

	opts := base
	opts.Dir = seq.Path
	if f.outDir != "" {
		opts.Output = filepath.Join(f.outDir, seq.Rel, render.DefaultBaseName)
	}
	if opts.Output == "" {
		item.output = render.DefaultOutput(opts.Dir, opts.Mode())
	} else {
		item.output = render.NormalizeOutput(opts.Output, opts.Mode())
	}

	if f.skipExisting {
		if _, err := os.Stat(item.output); err == nil {
			c.Logger.Debug("skipping rendered sequence", "dir", seq.Rel, "output", item.output)
			item.skipped = true
			return item
		}
	}

	start := time.Now()
	result, err := c.executeRecorded(ctx, runner, store, opts)
	item.elapsed = time.Since(start)
	if err != nil {
		c.Logger.Error("render failed", "dir", seq.Rel, "err", err)
		item.err = err
		return item
	}
	item.items = result.Stats.ItemCount
	item.output = result.Output.Path
	return item
}

func batchTable(results []batchItem) string {
	rows := make([][]string, 0, len(results))
	for _, it := range results {
		status := "ok"
		switch {
		case it.err != nil:
			status = "failed"
		case it.skipped:
			status = "skipped"
		}
		rows = append(rows, []string{
			it.seq.Rel,
			itoa(it.seq.Frames),
			status,
			it.elapsed.Round(time.Second).String(),
			it.output,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Sequence", "Frames", "Status", "Took", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			if col == 2 && row < len(results) {
				switch {
				case results[row].err != nil:
					return styleCell.Foreground(colorRed)
				case results[row].skipped:
					return styleCell.Foreground(colorGray)
				}
				return styleCell.Foreground(colorGreen)
			}
			return styleCell
		}).
		Render()
}
