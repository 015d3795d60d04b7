package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/pipeline"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// Plan output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// planCommand creates the plan command, which composes a scene without
// rendering it.
func (c *CLI) planCommand() *cobra.Command {
	var (
		f      planFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "plan [dir]",
		Short: "Compose a scene from a frame directory without rendering",
		Long: `Compose a scene from a frame directory without rendering.

The plan command indexes the frames of a directory, samples and aligns them,
lays them out and aims the camera. The default output is a summary table;
use --format json or yaml to export the scene description that 'render'
would hand to Blender.

Planned scenes are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &f, args[0])
			if err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), opts, f, format, output)
		},
	}

	addPlanFlags(cmd, &f)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the scene to a file instead of stdout (json, yaml)")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, opts pipeline.Options, f planFlags, format, output string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be table, json or yaml)", format)
	}

	runner, err := c.newRunner(ctx, f.noCache, f.redis)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Prepare(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Planned %d of %d frames", result.Stats.ItemCount, result.Stats.FrameCount))

	if format == formatTable {
		printPlanSummary(opts.Dir, result)
		return nil
	}

	data, err := encodeScene(result.Scene, format)
	if err != nil {
		return err
	}
	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Scene written")
	printFile(output)
	return nil
}

func encodeScene(s *scene.Scene, format string) ([]byte, error) {
	if format == formatYAML {
		return scene.MarshalYAML(s)
	}
	data, err := scene.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// printPlanSummary prints the placement table and camera for a planned scene.
func printPlanSummary(dir string, result *pipeline.Result) {
	s := result.Scene
	printSuccess("Planned %s scene (%s layout)", s.Mode, s.Layout)
	printStats(result.Stats.FrameCount, result.Stats.ItemCount, result.CacheInfo.PlanHit)
	printNewline()
	fmt.Println(indent(sceneTable(s)))
	printNewline()
	printCamera(s)
	printNewline()
	printNextStep("Render", "posetrail render "+dir)
}

func printCamera(s *scene.Scene) {
	cam := s.Camera
	printKeyValue("Camera", string(cam.Preset))
	printKeyValue("Position", fmt.Sprintf("%.3f, %.3f, %.3f", cam.Position.X, cam.Position.Y, cam.Position.Z))
	printKeyValue("Target", fmt.Sprintf("%.3f, %.3f, %.3f", cam.LookTarget.X, cam.LookTarget.Y, cam.LookTarget.Z))
	printKeyValue("Lens", fmt.Sprintf("%gmm (%.1f° × %.1f°)", cam.Lens, cam.HFOV, cam.VFOV))
	printKeyValue("Resolution", fmt.Sprintf("%dx%d", s.Resolution.Width, s.Resolution.Height))
	if s.Mode == scene.Animation {
		printKeyValue("Duration", fmt.Sprintf("%.2fs at %d fps", s.Duration(), s.FPS))
	}
}
