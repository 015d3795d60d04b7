package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/pipeline"
	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/render/preview"
)

// previewCommand creates the preview command, a Blender-free dry run.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		f     planFlags
		view  string
		scale float32
	)

	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Draw a 2D schematic of the planned scene",
		Long: `Draw a 2D schematic of the planned scene.

Each placed frame is drawn as a box with its gradient color, together with
the ground and the camera. Use it to check spacing and framing before a
long Blender render. The output format follows the extension: .svg
(default), .png or .pdf (the latter two need rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := preview.View(view)
			if !preview.ValidViews[v] {
				return errors.New(errors.ErrCodeInvalidConfig, "invalid view: %q (must be top or side)", view)
			}
			opts, err := c.pipelineOptions(cmd, &f, args[0])
			if err != nil {
				return err
			}
			if opts.Output == "" {
				opts.Output = filepath.Join(opts.Dir, render.DefaultBaseName+".preview.svg")
			}
			opts.Renderer = preview.New(preview.Options{View: v, Scale: scale})

			runner, err := c.newRunner(cmd.Context(), f.noCache, f.redis)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printPreviewResult(opts.Dir, result)
			return nil
		},
	}

	addPlanFlags(cmd, &f)
	cmd.Flags().StringVarP(&f.opts.Output, "output", "o", "", "output file (default: <dir>/human_motion.preview.svg)")
	cmd.Flags().StringVar(&view, "view", string(preview.Top), "projection: top, side")
	cmd.Flags().Float32Var(&scale, "scale", 1, "inches per scene meter")

	return cmd
}

func printPreviewResult(dir string, result *pipeline.Result) {
	printSuccess("Preview written")
	printFile(result.Output.Path)
	printStats(result.Stats.FrameCount, result.Stats.ItemCount, result.CacheInfo.PlanHit)
	printNewline()
	printNextStep("Render", "posetrail render "+dir)
}
