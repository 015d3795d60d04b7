// Package layout places sampled frames in world space.
//
// Two modes are supported:
//
//   - [Overlapping] keeps every frame at its recorded position. Global
//     trajectory is preserved and poses overlap where the subject stood
//     still.
//   - [Separate] drops global position and lines the frames up in equally
//     wide regions along a horizontal axis, like a contact sheet on the floor.
//
// Placements are declarative: a translation, a rotation (always identity)
// and the floor offset already folded into the translation's Z component.
// Nothing here touches mesh data.
package layout

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// Mode selects how frames are spread out.
type Mode string

const (
	Overlapping Mode = "overlapping"
	Separate    Mode = "separate"
)

// ValidModes is the set of supported layout modes.
var ValidModes = map[Mode]bool{
	Overlapping: true,
	Separate:    true,
}

// ParseMode resolves a layout mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !ValidModes[m] {
		return "", errors.New(errors.ErrCodeInvalidLayoutMode,
			"invalid layout mode: %q (must be one of: overlapping, separate)", s)
	}
	return m, nil
}

// Axis is the horizontal axis separate-mode regions advance along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// ParseAxis resolves "x" or "y".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return AxisX, errors.New(errors.ErrCodeInvalidConfig, "invalid layout axis: %q (must be x or y)", s)
}

// DefaultSpacing is the separate-mode region width as a multiple of the
// widest frame.
const DefaultSpacing float32 = 1.5

// Options configures [Plan].
type Options struct {
	Mode    Mode
	Spacing float32
	Axis    Axis
}

// Placement positions one frame.
type Placement struct {
	Translation math32.Vector3 `json:"translation" yaml:"translation"`
	Rotation    math32.Quat    `json:"rotation" yaml:"rotation"`
	FloorOffset float32        `json:"floor_offset" yaml:"floor_offset"`
}

// ValidSpacing reports whether s is a usable spacing multiplier: positive
// and finite. NaN fails.
func ValidSpacing(s float32) bool {
	return s > 0 && !math32.IsInf(s, 0)
}

// Result is the output of [Plan].
type Result struct {
	Placements []Placement
	// Bounds is the union of all placed bounding boxes.
	Bounds math32.Box3
	// RegionWidth is the per-frame region size in separate mode, 0 otherwise.
	RegionWidth float32
}

// Identity is the no-rotation quaternion.
func Identity() math32.Quat {
	return math32.NewQuat(0, 0, 0, 1)
}

// Plan computes one placement per bounding box. offsets holds the floor
// offset for each frame and must be as long as bounds.
//
// In separate mode the region width is the largest extent along the layout
// axis times the spacing, and frame i is shifted so its box center lands on
// i*width along that axis and on 0 along the other horizontal axis. A
// non-positive spacing fails with INVALID_SPACING.
func Plan(bounds []math32.Box3, offsets []float32, opts Options) (*Result, error) {
	if len(bounds) != len(offsets) {
		return nil, errors.New(errors.ErrCodeSceneInconsistency,
			"layout got %d bounding boxes but %d floor offsets", len(bounds), len(offsets))
	}
	if opts.Mode == "" {
		opts.Mode = Overlapping
	}
	if !ValidModes[opts.Mode] {
		return nil, errors.New(errors.ErrCodeInvalidLayoutMode, "invalid layout mode: %q", opts.Mode)
	}

	res := &Result{
		Placements: make([]Placement, len(bounds)),
		Bounds:     math32.B3Empty(),
	}

	switch opts.Mode {
	case Overlapping:
		for i := range bounds {
			res.Placements[i] = Placement{
				Translation: math32.Vec3(0, 0, offsets[i]),
				Rotation:    Identity(),
				FloorOffset: offsets[i],
			}
		}
	case Separate:
		if !ValidSpacing(opts.Spacing) {
			return nil, errors.New(errors.ErrCodeInvalidSpacing, "spacing must be a positive finite number, got %g", opts.Spacing)
		}
		res.RegionWidth = maxExtent(bounds, opts.Axis) * opts.Spacing
		for i, b := range bounds {
			c := b.Center()
			along := float32(i)*res.RegionWidth - component(c, opts.Axis)
			across := -component(c, other(opts.Axis))
			t := math32.Vec3(along, across, offsets[i])
			if opts.Axis == AxisY {
				t = math32.Vec3(across, along, offsets[i])
			}
			res.Placements[i] = Placement{
				Translation: t,
				Rotation:    Identity(),
				FloorOffset: offsets[i],
			}
		}
	}

	for i, b := range bounds {
		if b.IsEmpty() {
			continue
		}
		res.Bounds.ExpandByBox(b.Translate(res.Placements[i].Translation))
	}
	return res, nil
}

// Apply returns b moved by the placement.
func (p Placement) Apply(b math32.Box3) math32.Box3 {
	return b.Translate(p.Translation)
}

// String implements fmt.Stringer.
func (p Placement) String() string {
	t := p.Translation
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", t.X, t.Y, t.Z)
}

func maxExtent(bounds []math32.Box3, axis Axis) float32 {
	var m float32
	for _, b := range bounds {
		if b.IsEmpty() {
			continue
		}
		m = math32.Max(m, component(b.Size(), axis))
	}
	return m
}

func component(v math32.Vector3, axis Axis) float32 {
	if axis == AxisY {
		return v.Y
	}
	return v.X
}

func other(axis Axis) Axis {
	if axis == AxisY {
		return AxisX
	}
	return AxisY
}
