// Package scene assembles a fully specified, render-ready scene.
//
// A [Scene] is the hand-off between the planner and a rendering engine: one
// entry per frame with its placement and color, a camera, a ground plane and
// the union bounding volume. [Compose] only checks that its inputs agree with
// each other; all geometry is computed upstream by the layout, floor and
// camera packages.
//
// Scenes are plain values. They are built per invocation, written to JSON for
// the renderer (or YAML for humans) and discarded.
package scene

import (
	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/camera"
	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/gradient"
	"github.com/matzehuels/posetrail/pkg/layout"
)

// Version is bumped when the JSON layout changes incompatibly.
const Version = 1

// Mode selects what the renderer produces.
type Mode string

const (
	// Composite renders the sampled frames into one still image.
	Composite Mode = "composite"
	// Animation renders every frame in range as a video.
	Animation Mode = "animation"
)

// ValidModes lists the supported modes.
var ValidModes = map[Mode]bool{Composite: true, Animation: true}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !ValidModes[m] {
		return "", errors.New(errors.ErrCodeInvalidConfig,
			"invalid scene mode: %q (must be one of: composite, animation)", s)
	}
	return m, nil
}

// DefaultFPS is the animation frame rate.
const DefaultFPS = 30

// GroundPadding is added on each side of the placed footprint.
const GroundPadding float32 = 0.5

// Item is one frame placed in the scene.
type Item struct {
	Frame         frames.Record    `json:"frame" yaml:"frame"`
	TemporalIndex int              `json:"temporal_index" yaml:"temporal_index"`
	Placement     layout.Placement `json:"placement" yaml:"placement"`
	Color         gradient.RGBA    `json:"color" yaml:"color"`
}

// Ground is a horizontal plane under the placed frames.
type Ground struct {
	Center math32.Vector3 `json:"center" yaml:"center"`
	Width  float32        `json:"width" yaml:"width"`
	Depth  float32        `json:"depth" yaml:"depth"`
}

// Scene is a complete, render-ready description.
type Scene struct {
	Version    int               `json:"version" yaml:"version"`
	Mode       Mode              `json:"mode" yaml:"mode"`
	Layout     layout.Mode       `json:"layout" yaml:"layout"`
	Floor      string            `json:"floor" yaml:"floor"`
	Items      []Item            `json:"items" yaml:"items"`
	Camera     camera.Spec       `json:"camera" yaml:"camera"`
	Ground     Ground            `json:"ground" yaml:"ground"`
	Bounds     math32.Box3       `json:"bounds" yaml:"bounds"`
	FPS        int               `json:"fps" yaml:"fps"`
	Resolution camera.Resolution `json:"resolution" yaml:"resolution"`
}

// Input gathers the planner outputs for [Compose].
type Input struct {
	Mode       Mode
	Layout     layout.Mode
	Floor      string
	Frames     []frames.Record
	Placements []layout.Placement
	Colors     []gradient.RGBA
	// Bounds is the union of all placed frames.
	Bounds math32.Box3
	Camera *camera.Spec
	// FPS applies to animations. Zero means DefaultFPS.
	FPS int
}

// Compose validates in and assembles a scene. Temporal indices are assigned
// 0..K-1 in frame order. Mismatched counts, unordered frames, a missing
// camera or an empty volume fail with SCENE_INCONSISTENCY.
func Compose(in Input) (*Scene, error) {
	if in.Mode == "" {
		in.Mode = Composite
	}
	if !ValidModes[in.Mode] {
		return nil, errors.New(errors.ErrCodeSceneInconsistency, "unknown scene mode %q", in.Mode)
	}
	k := len(in.Frames)
	if k == 0 {
		return nil, errors.New(errors.ErrCodeSceneInconsistency, "scene has no frames")
	}
	if len(in.Placements) != k || len(in.Colors) != k {
		return nil, errors.New(errors.ErrCodeSceneInconsistency,
			"count mismatch: %d frames, %d placements, %d colors", k, len(in.Placements), len(in.Colors))
	}
	if in.Camera == nil {
		return nil, errors.New(errors.ErrCodeSceneInconsistency, "scene has no camera")
	}
	if in.Bounds.IsEmpty() {
		return nil, errors.New(errors.ErrCodeSceneInconsistency, "scene bounds are empty")
	}
	if in.FPS == 0 {
		in.FPS = DefaultFPS
	}
	if in.Layout == "" {
		in.Layout = layout.Overlapping
	}

	items := make([]Item, k)
	for i := range k {
		items[i] = Item{
			Frame:         in.Frames[i],
			TemporalIndex: i,
			Placement:     in.Placements[i],
			Color:         in.Colors[i],
		}
	}

	s := &Scene{
		Version:    Version,
		Mode:       in.Mode,
		Layout:     in.Layout,
		Floor:      in.Floor,
		Items:      items,
		Camera:     *in.Camera,
		Ground:     GroundFor(in.Bounds, GroundPadding),
		Bounds:     in.Bounds,
		FPS:        in.FPS,
		Resolution: in.Camera.Resolution,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// GroundFor returns a plane covering the horizontal footprint of b plus pad
// on every side, at the height of its lowest point.
func GroundFor(b math32.Box3, pad float32) Ground {
	c := b.Center()
	size := b.Size()
	return Ground{
		Center: math32.Vec3(c.X, c.Y, b.Min.Z),
		Width:  size.X + 2*pad,
		Depth:  size.Y + 2*pad,
	}
}

// Validate checks the internal consistency of s. It is run by [Compose] and
// after decoding a scene file.
func (s *Scene) Validate() error {
	if !ValidModes[s.Mode] {
		return errors.New(errors.ErrCodeSceneInconsistency, "unknown scene mode %q", s.Mode)
	}
	if len(s.Items) == 0 {
		return errors.New(errors.ErrCodeSceneInconsistency, "scene has no items")
	}
	for i, it := range s.Items {
		if it.TemporalIndex != i {
			return errors.New(errors.ErrCodeSceneInconsistency,
				"item %d has temporal index %d", i, it.TemporalIndex)
		}
		if i > 0 && it.Frame.Number <= s.Items[i-1].Frame.Number {
			return errors.New(errors.ErrCodeSceneInconsistency,
				"frame %d follows frame %d", it.Frame.Number, s.Items[i-1].Frame.Number)
		}
		p := it.Placement
		if !finiteVec(p.Translation) || !finiteQuat(p.Rotation) || !finite(p.FloorOffset) {
			return errors.New(errors.ErrCodeSceneInconsistency,
				"item %d has a non-finite placement", i)
		}
	}
	c := s.Camera
	if !finiteVec(c.Position) || !finiteVec(c.LookTarget) || !finiteVec(c.Up) || !finiteQuat(c.Rotation) ||
		!finite(c.HFOV) || !finite(c.VFOV) || !finite(c.Lens) || !finite(c.FocusDistance) {
		return errors.New(errors.ErrCodeSceneInconsistency, "camera has non-finite values")
	}
	if !finiteVec(s.Ground.Center) || !finite(s.Ground.Width) || !finite(s.Ground.Depth) {
		return errors.New(errors.ErrCodeSceneInconsistency, "ground has non-finite values")
	}
	if !finiteVec(s.Bounds.Min) || !finiteVec(s.Bounds.Max) {
		return errors.New(errors.ErrCodeSceneInconsistency, "scene bounds are not finite")
	}
	if s.Resolution.Width <= 0 || s.Resolution.Height <= 0 {
		return errors.New(errors.ErrCodeSceneInconsistency,
			"invalid resolution %dx%d", s.Resolution.Width, s.Resolution.Height)
	}
	if s.Mode == Animation && s.FPS <= 0 {
		return errors.New(errors.ErrCodeSceneInconsistency, "animation needs a positive fps, got %d", s.FPS)
	}
	return nil
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func finiteVec(v math32.Vector3) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finiteQuat(q math32.Quat) bool {
	return finite(q.X) && finite(q.Y) && finite(q.Z) && finite(q.W)
}

// Len returns the number of items.
func (s *Scene) Len() int {
	return len(s.Items)
}

// Duration returns the animation length in seconds, or 0 for composites.
func (s *Scene) Duration() float64 {
	if s.Mode != Animation || s.FPS <= 0 {
		return 0
	}
	return float64(len(s.Items)) / float64(s.FPS)
}
