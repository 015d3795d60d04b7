// Package pipeline provides the core planning pipeline for posetrail.
//
// This package implements the complete index → plan → render pipeline used
// by the CLI, the HTTP API and batch workers. By centralizing this logic,
// every entry point applies the same defaults and validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Index: Enumerate the frame files of a directory and read their bounds
//  2. Plan: Sample frames, align them to the floor, color them, lay them out,
//     aim a camera and compose the scene
//  3. Render: Hand the scene to a [render.Renderer]
//
// Planning is pure and deterministic: the same sequence and options always
// yield the same scene, which is what makes plan results cacheable.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Dir:      "motions/walk",
//	    Frames:   6,
//	    Separate: true,
//	    Renderer: blender.New(blender.Options{}),
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output.Path)
//
// Run individual stages:
//
//	seq, err := runner.Index(ctx, opts)
//	s, err := runner.Plan(ctx, seq, opts)
//	out, err := runner.Render(ctx, s, opts)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posetrail/pkg/cache"
	"github.com/matzehuels/posetrail/pkg/camera"
	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/floor"
	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/gradient"
	"github.com/matzehuels/posetrail/pkg/layout"
	"github.com/matzehuels/posetrail/pkg/mesh"
	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultFrames is the composite frame count when none is given. It is
	// capped at the number of available frames.
	DefaultFrames = 8

	// DefaultWidth is the default output width in pixels.
	DefaultWidth = 1920

	// DefaultHeight is the default output height in pixels.
	DefaultHeight = 1080

	// DefaultFPS is the default animation frame rate.
	DefaultFPS = scene.DefaultFPS

	// DefaultCamera is the default camera preset.
	DefaultCamera = string(camera.DefaultPreset)

	// DefaultAxis is the default separate-mode axis.
	DefaultAxis = "x"
)

// DefaultFloor is the default floor policy name.
var DefaultFloor = floor.DefaultPolicy.String()

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the planning pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Index options
	Dir        string `json:"dir"`
	Prefix     string `json:"prefix,omitempty"`
	Ext        string `json:"ext,omitempty"`
	StartFrame int    `json:"start_frame,omitempty"`
	MaxFrames  int    `json:"max_frames,omitempty"`

	// Plan options
	Frames     int     `json:"frames,omitempty"` // composite frame count K
	Separate   bool    `json:"separate,omitempty"`
	Spacing    float32 `json:"spacing,omitempty"`
	Axis       string  `json:"axis,omitempty"`
	Camera     string  `json:"camera,omitempty"`
	Floor      string  `json:"floor,omitempty"`
	StartColor string  `json:"start_color,omitempty"`
	EndColor   string  `json:"end_color,omitempty"`
	BodyColor  string  `json:"body_color,omitempty"`
	Animation  bool    `json:"animation,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	FPS        int     `json:"fps,omitempty"`
	Lens       float32 `json:"lens,omitempty"`

	// Render options
	Output  string `json:"output,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger       `json:"-"`
	Renderer render.Renderer   `json:"-"`
	Reader   mesh.BoundsReader `json:"-"`
	Workers  int               `json:"-"`

	// Resolved by ValidateAndSetDefaults.
	preset     camera.Preset
	policy     floor.Policy
	axis       layout.Axis
	startColor gradient.RGBA
	endColor   gradient.RGBA
	bodyColor  gradient.RGBA

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Sequence is the indexed frame sequence.
	Sequence *frames.Sequence

	// SequenceHash is the content hash of the sequence records.
	SequenceHash string

	// Scene is the composed scene.
	Scene *scene.Scene

	// Output describes the rendered files. Nil when rendering was skipped.
	Output *render.Output

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FrameCount int
	ItemCount  int
	IndexTime  time.Duration
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit bool // Whether the scene came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// Mode returns the scene mode selected by the options.
func (o *Options) Mode() scene.Mode {
	if o.Animation {
		return scene.Animation
	}
	return scene.Composite
}

// LayoutMode returns the layout mode selected by the options.
func (o *Options) LayoutMode() layout.Mode {
	if o.Separate {
		return layout.Separate
	}
	return layout.Overlapping
}

// FrameOptions returns the index options.
func (o *Options) FrameOptions() frames.Options {
	return frames.Options{
		Prefix:  o.Prefix,
		Ext:     o.Ext,
		Start:   o.StartFrame,
		Max:     o.MaxFrames,
		Workers: o.Workers,
	}
}

// ValidateAndSetDefaults checks the options and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
//
// Conflicting options fail with INVALID_CONFIG: a spacing without separate
// mode, and separate mode or a frame count combined with animation.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateDirectory(o.Dir); err != nil {
		return err
	}
	if o.Prefix == "" {
		o.Prefix = frames.DefaultPrefix
	}
	if o.Ext == "" {
		o.Ext = frames.DefaultExt
	}
	if err := errors.ValidateFilePrefix(o.Prefix); err != nil {
		return err
	}
	if err := errors.ValidateExtension(o.Ext); err != nil {
		return err
	}
	if o.StartFrame < 0 || o.MaxFrames < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"start frame and max frames cannot be negative (got %d, %d)", o.StartFrame, o.MaxFrames)
	}

	if o.Animation && o.Separate {
		return errors.New(errors.ErrCodeInvalidConfig, "separate layout cannot be used with animation")
	}
	if o.Animation && o.Frames != 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "a frame count cannot be used with animation, which renders every frame")
	}
	if !o.Separate && o.Spacing != 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "spacing requires separate layout")
	}
	if o.Frames < 0 {
		return errors.New(errors.ErrCodeInvalidSampleCount, "frame count must be positive, got %d", o.Frames)
	}
	if o.Separate {
		if o.Spacing == 0 {
			o.Spacing = layout.DefaultSpacing
		}
		if !layout.ValidSpacing(o.Spacing) {
			return errors.New(errors.ErrCodeInvalidSpacing, "spacing must be a positive finite number, got %g", o.Spacing)
		}
	}

	if err := o.resolveNames(); err != nil {
		return err
	}
	if err := o.resolveColors(); err != nil {
		return err
	}

	if o.Width == 0 && o.Height == 0 {
		o.Width, o.Height = DefaultWidth, DefaultHeight
	}
	if err := errors.ValidateResolution(o.Width, o.Height); err != nil {
		return err
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if err := errors.ValidateFPS(o.FPS); err != nil {
		return err
	}
	if o.Lens == 0 {
		o.Lens = camera.DefaultLens
	}
	if !(o.Lens > 0) || math.IsInf(float64(o.Lens), 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "lens must be a positive finite number, got %g", o.Lens)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) resolveNames() error {
	var err error
	if o.Camera == "" {
		o.Camera = DefaultCamera
	}
	if o.preset, err = camera.ParsePreset(o.Camera); err != nil {
		return err
	}
	if o.Floor == "" {
		o.Floor = DefaultFloor
	}
	if o.policy, err = floor.ParsePolicy(o.Floor); err != nil {
		return err
	}
	if o.Axis == "" {
		o.Axis = DefaultAxis
	}
	if o.axis, err = layout.ParseAxis(o.Axis); err != nil {
		return err
	}
	return nil
}

func (o *Options) resolveColors() error {
	parse := func(name, s string, def gradient.RGBA) (gradient.RGBA, error) {
		if s == "" {
			return def, nil
		}
		c, err := gradient.Parse(s)
		if err != nil {
			return gradient.RGBA{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", name)
		}
		return c, nil
	}
	var err error
	if o.startColor, err = parse("start color", o.StartColor, gradient.DefaultStart); err != nil {
		return err
	}
	if o.endColor, err = parse("end color", o.EndColor, gradient.DefaultEnd); err != nil {
		return err
	}
	if o.bodyColor, err = parse("body color", o.BodyColor, gradient.DefaultBody); err != nil {
		return err
	}
	return nil
}

// SceneKeyOpts returns cache key options for scene planning.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Animation:  o.Animation,
		Frames:     o.Frames,
		Mode:       string(o.LayoutMode()),
		Spacing:    o.Spacing,
		Axis:       o.axis.String(),
		Camera:     string(o.preset),
		Floor:      o.policy.String(),
		StartColor: rgba4(o.startColor),
		EndColor:   rgba4(o.endColor),
		BodyColor:  rgba4(o.bodyColor),
		Width:      o.Width,
		Height:     o.Height,
		FPS:        o.FPS,
		Lens:       o.Lens,
	}
}

func rgba4(c gradient.RGBA) [4]float64 {
	return [4]float64{c.R, c.G, c.B, c.A}
}
