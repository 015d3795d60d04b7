package pipeline

import (
	"fmt"

	"github.com/matzehuels/posetrail/pkg/camera"
	"github.com/matzehuels/posetrail/pkg/floor"
	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/gradient"
	"github.com/matzehuels/posetrail/pkg/layout"
	"github.com/matzehuels/posetrail/pkg/sample"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// =============================================================================
// Scene Planning
// =============================================================================

// PlanScene turns an indexed sequence into a composed scene. It performs no
// I/O and is deterministic in its inputs.
//
// Composites sample K frames evenly and color them along the start→end
// gradient. Animations keep every frame in range, overlap them and use one
// body color.
func PlanScene(seq *frames.Sequence, opts Options) (*scene.Scene, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var chosen []frames.Record
	var colors []gradient.RGBA
	if opts.Animation {
		chosen = seq.Records()
		colors = gradient.Constant(len(chosen), opts.bodyColor)
	} else {
		k := opts.Frames
		if k == 0 {
			k = min(DefaultFrames, seq.Len())
		}
		idx, err := sample.Evenly(seq.Len(), k)
		if err != nil {
			return nil, err
		}
		chosen = seq.Pick(idx)
		opts.Logger.Debug("sampled frames", "of", seq.Len(), "indices", idx)
		colors = gradient.Colorize(len(chosen), opts.startColor, opts.endColor)
	}

	boxes := frames.Boxes(chosen)
	offsets, err := floor.Offsets(opts.policy, boxes)
	if err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}

	lay, err := layout.Plan(boxes, offsets, layout.Options{
		Mode:    opts.LayoutMode(),
		Spacing: opts.Spacing,
		Axis:    opts.axis,
	})
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	cam, err := camera.Plan(lay.Bounds,
		camera.Resolution{Width: opts.Width, Height: opts.Height},
		camera.Options{Preset: opts.preset, Lens: opts.Lens})
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	return scene.Compose(scene.Input{
		Mode:       opts.Mode(),
		Layout:     opts.LayoutMode(),
		Floor:      opts.policy.String(),
		Frames:     chosen,
		Placements: lay.Placements,
		Colors:     colors,
		Bounds:     lay.Bounds,
		Camera:     cam,
		FPS:        opts.FPS,
	})
}
