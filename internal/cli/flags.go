package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/floor"
	"github.com/matzehuels/posetrail/pkg/pipeline"
)

// planFlags holds the planning flags shared by plan, render, batch and preview.
type planFlags struct {
	opts       pipeline.Options
	resolution string
	noCache    bool
	redis      string
}

// addPlanFlags registers the planning flags on cmd.
func addPlanFlags(cmd *cobra.Command, f *planFlags) {
	fl := cmd.Flags()

	// Index flags
	fl.StringVar(&f.opts.Prefix, "prefix", "", "frame file prefix (default: frame)")
	fl.StringVar(&f.opts.Ext, "ext", "", "frame file extension (default: .obj)")
	fl.IntVar(&f.opts.StartFrame, "start-frame", 0, "skip this many frames from the start of the sequence")
	fl.IntVar(&f.opts.MaxFrames, "max-frames", 0, "use at most this many frames (0 = all)")

	// Plan flags
	fl.IntVarP(&f.opts.Frames, "frames", "k", 0, "number of frames in a composite (default: 8, capped at the sequence length)")
	fl.BoolVar(&f.opts.Separate, "separate", false, "spread frames along an axis instead of overlapping them")
	fl.Float32Var(&f.opts.Spacing, "spacing", 0, "gap between frames in separate mode (default: 1.5)")
	fl.StringVar(&f.opts.Axis, "axis", "", "separate-mode axis: x (default), y")
	fl.StringVar(&f.opts.Camera, "camera", "", "camera preset: left (default), right, front, up")
	fl.StringVar(&f.opts.Floor, "floor", "", "floor policy: "+strings.Join(floor.Names(), ", "))
	fl.StringVar(&f.opts.StartColor, "start-color", "", "gradient start color (#rrggbb, a CSS name or r,g,b[,a])")
	fl.StringVar(&f.opts.EndColor, "end-color", "", "gradient end color (#rrggbb, a CSS name or r,g,b[,a])")
	fl.StringVar(&f.opts.BodyColor, "body-color", "", "animation body color (#rrggbb, a CSS name or r,g,b[,a])")
	fl.BoolVar(&f.opts.Animation, "animation", false, "render every frame as a video instead of a composite")
	fl.StringVar(&f.resolution, "resolution", "", "output resolution WxH (default: 1920x1080)")
	fl.IntVar(&f.opts.FPS, "fps", 0, "animation frame rate (default: 30)")
	fl.Float32Var(&f.opts.Lens, "lens", 0, "camera focal length in mm (default: 35)")

	// Cache flags
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.opts.Refresh, "refresh", false, "replan even if a cached scene exists")
	fl.StringVar(&f.redis, "redis", "", "shared Redis cache URL (redis://host:port/db)")
}

// pipelineOptions resolves flags and config defaults into options for dir.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *planFlags, dir string) (pipeline.Options, error) {
	opts := f.opts
	resolution := f.resolution
	c.config.Defaults.apply(&opts, &resolution, cmd.Flags().Changed)

	opts.Dir = dir
	opts.Logger = c.Logger
	if resolution != "" {
		w, h, err := parseResolution(resolution)
		if err != nil {
			return opts, err
		}
		opts.Width, opts.Height = w, h
	}
	return opts, nil
}

// parseResolution parses "WIDTHxHEIGHT".
func parseResolution(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "invalid resolution %q (want WIDTHxHEIGHT)", s)
	}
	width, err1 := strconv.Atoi(w)
	height, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "invalid resolution %q (want WIDTHxHEIGHT)", s)
	}
	if err := errors.ValidateResolution(width, height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}
