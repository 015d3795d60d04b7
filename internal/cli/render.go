package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/history"
	"github.com/matzehuels/posetrail/pkg/pipeline"
	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/render/blender"
	"github.com/matzehuels/posetrail/pkg/render/preview"
)

// Render engines.
const (
	engineBlender = "blender"
	enginePreview = "preview"
	engineJSON    = "json"
)

// renderFlags extends the planning flags with engine selection.
type renderFlags struct {
	planFlags
	engine    string
	blender   string
	timeout   time.Duration
	view      string
	noHistory bool
}

func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	addPlanFlags(cmd, &f.planFlags)
	fl := cmd.Flags()
	fl.StringVarP(&f.engine, "engine", "e", engineBlender, "render engine: blender, preview, json")
	fl.StringVar(&f.blender, "blender", "", "Blender executable (default: blender on PATH)")
	fl.DurationVar(&f.timeout, "timeout", 0, "per-render timeout (default: 40m)")
	fl.StringVar(&f.view, "view", string(preview.Top), "preview projection: top, side")
	fl.BoolVar(&f.noHistory, "no-history", false, "do not record the run in the history")
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		f    renderFlags
		pick bool
	)

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Plan a frame directory and render it with Blender",
		Long: `Plan a frame directory and render it with Blender.

In composite mode (default) a sample of frames is rendered into one still
image (<output>.png, plus the <output>.blend scene). With --animation every
frame is rendered into a video (<output>.mp4). The default output is
<dir>/human_motion.png or <dir>/human_motion.mp4.

The scene description is always written next to the output as
<output>.scene.json. Use --engine preview for a quick 2D schematic or
--engine json to only write the scene file.

With --pick, the argument is a dataset root and the sequence is chosen
interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &f.planFlags, "")
			if err != nil {
				return err
			}
			dir, err := c.resolveRenderDir(args, pick, opts.FrameOptions())
			if err != nil || dir == "" {
				return err
			}
			opts.Dir = dir
			return c.runRender(cmd.Context(), opts, f)
		},
	}

	addRenderFlags(cmd, &f)
	cmd.Flags().StringVarP(&f.opts.Output, "output", "o", "", "output file (default: <dir>/human_motion.png|.mp4)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose a sequence interactively from a dataset root")

	return cmd
}

// resolveRenderDir returns the sequence directory from args, or from the
// interactive picker. An empty result means the user aborted.
func (c *CLI) resolveRenderDir(args []string, pick bool, fo frames.Options) (string, error) {
	if !pick {
		if len(args) == 0 {
			return "", errors.New(errors.ErrCodeInvalidConfig, "a frame directory is required (or use --pick)")
		}
		return args[0], nil
	}
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	seqs, err := discoverSequences(root, fo)
	if err != nil {
		return "", err
	}
	dir, err := pickSequence(seqs)
	if err != nil {
		return "", err
	}
	if dir == "" {
		printInfo("No sequence selected")
	}
	return dir, nil
}

// newRenderer builds the renderer selected by f.
func (c *CLI) newRenderer(f renderFlags) (render.Renderer, error) {
	switch f.engine {
	case engineBlender:
		bin := f.blender
		if bin == "" {
			bin = c.config.Blender.Binary
		}
		timeout := f.timeout
		if timeout == 0 {
			timeout = c.config.Blender.Timeout
		}
		return blender.New(blender.Options{Binary: bin, Timeout: timeout, Logger: c.Logger}), nil
	case enginePreview:
		view := preview.View(f.view)
		if !preview.ValidViews[view] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid preview view: %q (must be top or side)", f.view)
		}
		return preview.New(preview.Options{View: view}), nil
	case engineJSON:
		return render.JSONRenderer{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"invalid engine: %q (must be blender, preview or json)", f.engine)
	}
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, f renderFlags) error {
	r, err := c.newRenderer(f)
	if err != nil {
		return err
	}
	opts.Renderer = r

	runner, err := c.newRunner(ctx, f.noCache, f.redis)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store := c.openHistory(ctx, f.noHistory)
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s with %s...", opts.Dir, r.Name()))
	spinner.Start()
	result, err := c.executeRecorded(ctx, runner, store, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	spinner.Stop()

	printRenderResult(result)
	return nil
}

// executeRecorded runs the pipeline and records the run in store. History
// failures are logged, never returned.
func (c *CLI) executeRecorded(ctx context.Context, runner *pipeline.Runner, store history.Store, opts pipeline.Options) (*pipeline.Result, error) {
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		dir = opts.Dir
	}
	rec := history.NewRecord(dir)
	if opts.Renderer != nil {
		rec.Engine = opts.Renderer.Name()
	}

	// Defaults are resolved first so the record shows effective values.
	var result *pipeline.Result
	err = opts.ValidateAndSetDefaults()
	if err == nil {
		result, err = runner.Execute(ctx, opts)
	}
	rec.Stop()
	rec.Fail(err)
	fillRecord(rec, &opts, result)

	// The run context may be cancelled; history must still be written.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if serr := store.Save(saveCtx, rec); serr != nil {
		c.Logger.Warn("record history", "id", rec.ID, "err", serr)
	} else {
		c.Logger.Debug("recorded run", "id", rec.ID)
	}
	return result, err
}

func fillRecord(rec *history.Record, opts *pipeline.Options, result *pipeline.Result) {
	rec.Mode = string(opts.Mode())
	rec.Layout = string(opts.LayoutMode())
	rec.Camera = opts.Camera
	if data, err := json.Marshal(opts); err == nil {
		rec.Options = string(data)
	}
	if result == nil {
		return
	}
	rec.Frames = result.Stats.FrameCount
	rec.Items = result.Stats.ItemCount
	if result.Output != nil {
		rec.Output = result.Output.Path
	}
}

func printRenderResult(result *pipeline.Result) {
	printSuccess("Rendered %s (%s)", result.Scene.Mode, result.Stats.RenderTime.Round(time.Millisecond))
	for _, f := range result.Output.Files {
		printFile(f)
	}
	printStats(result.Stats.FrameCount, result.Stats.ItemCount, result.CacheInfo.PlanHit)
}
