// Package camera derives a camera from a scene's bounding volume.
//
// A preset names the side the camera looks from:
//
//	left   from -X toward +X
//	right  from +X toward -X
//	front  from -Y toward +Y
//	up     from +Z looking down, image up is +Y
//
// The camera always aims at the center of the volume. Its distance is large
// enough that the volume's bounding sphere fits inside the narrower of the
// two fields of view, and never less than StandoffFactor times the volume's
// diagonal. Lateral presets sit slightly above the center (eye level) so the
// floor is visible.
//
// Orientation follows the renderer convention: the camera looks down its
// local -Z axis with +Y up.
package camera

import (
	"strings"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// Preset names a camera direction.
type Preset string

const (
	Left  Preset = "left"
	Right Preset = "right"
	Front Preset = "front"
	Up    Preset = "up"
)

// DefaultPreset is used when no preset is configured.
const DefaultPreset = Left

// ValidPresets is the set of supported presets.
var ValidPresets = map[Preset]bool{
	Left:  true,
	Right: true,
	Front: true,
	Up:    true,
}

// ParsePreset resolves a preset name. Unknown names fail with UNKNOWN_CAMERA_PRESET.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if !ValidPresets[p] {
		return "", errors.New(errors.ErrCodeUnknownCamera,
			"unknown camera preset: %q (must be one of: left, right, front, up)", s)
	}
	return p, nil
}

// Defaults mirror a 35mm lens on a full-frame sensor.
const (
	DefaultLens            float32 = 35
	DefaultSensorWidth     float32 = 36
	DefaultStandoffFactor  float32 = 1.5
	DefaultElevationFactor float32 = 0.3
	DefaultMinStandoff     float32 = 1
	DefaultFStop           float32 = 4
)

// Resolution is the output image size in pixels.
type Resolution struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultResolution is full HD.
var DefaultResolution = Resolution{Width: 1920, Height: 1080}

// Aspect returns width/height.
func (r Resolution) Aspect() float32 {
	return float32(r.Width) / float32(r.Height)
}

// Options tunes [Plan]. Zero fields take the package defaults.
type Options struct {
	Preset          Preset
	Lens            float32
	SensorWidth     float32
	StandoffFactor  float32
	ElevationFactor float32
	MinStandoff     float32
	FStop           float32
}

func (o *Options) setDefaults() {
	if o.Preset == "" {
		o.Preset = DefaultPreset
	}
	if o.Lens <= 0 {
		o.Lens = DefaultLens
	}
	if o.SensorWidth <= 0 {
		o.SensorWidth = DefaultSensorWidth
	}
	if o.StandoffFactor <= 0 {
		o.StandoffFactor = DefaultStandoffFactor
	}
	if o.ElevationFactor == 0 {
		o.ElevationFactor = DefaultElevationFactor
	}
	if o.MinStandoff <= 0 {
		o.MinStandoff = DefaultMinStandoff
	}
	if o.FStop <= 0 {
		o.FStop = DefaultFStop
	}
}

// Spec is a fully resolved camera.
type Spec struct {
	Preset     Preset         `json:"preset" yaml:"preset"`
	Position   math32.Vector3 `json:"position" yaml:"position"`
	LookTarget math32.Vector3 `json:"look_target" yaml:"look_target"`
	Up         math32.Vector3 `json:"up" yaml:"up"`
	Rotation   math32.Quat    `json:"rotation" yaml:"rotation"`
	// HFOV and VFOV are the full horizontal and vertical fields of view in degrees.
	HFOV          float32    `json:"hfov" yaml:"hfov"`
	VFOV          float32    `json:"vfov" yaml:"vfov"`
	Lens          float32    `json:"lens" yaml:"lens"`
	SensorWidth   float32    `json:"sensor_width" yaml:"sensor_width"`
	FocusDistance float32    `json:"focus_distance" yaml:"focus_distance"`
	FStop         float32    `json:"fstop" yaml:"fstop"`
	Resolution    Resolution `json:"resolution" yaml:"resolution"`
}

// FieldOfView returns the horizontal and vertical field of view in radians
// for a lens and sensor. The sensor width spans the longer image side.
func FieldOfView(lens, sensor float32, res Resolution) (h, v float32) {
	full := 2 * math32.Atan(sensor/(2*lens))
	aspect := res.Aspect()
	if aspect >= 1 {
		return full, 2 * math32.Atan(math32.Tan(full/2)/aspect)
	}
	return 2 * math32.Atan(math32.Tan(full/2)*aspect), full
}

// Plan positions a camera for bounds. It fails with UNKNOWN_CAMERA_PRESET for
// an unknown preset, INVALID_CONFIG for a non-positive resolution and
// SCENE_INCONSISTENCY for an empty volume.
func Plan(bounds math32.Box3, res Resolution, opts Options) (*Spec, error) {
	opts.setDefaults()
	if !ValidPresets[opts.Preset] {
		return nil, errors.New(errors.ErrCodeUnknownCamera, "unknown camera preset: %q", opts.Preset)
	}
	if err := errors.ValidateResolution(res.Width, res.Height); err != nil {
		return nil, err
	}
	if bounds.IsEmpty() {
		return nil, errors.New(errors.ErrCodeSceneInconsistency, "cannot aim a camera at an empty bounding volume")
	}

	hfov, vfov := FieldOfView(opts.Lens, opts.SensorWidth, res)
	center := bounds.Center()
	size := bounds.Size()
	dist := Standoff(size.Length(), math32.Min(hfov, vfov), opts.StandoffFactor, opts.MinStandoff)

	var pos, up math32.Vector3
	eye := center.Z + opts.ElevationFactor*size.Z
	switch opts.Preset {
	case Left:
		pos, up = math32.Vec3(center.X-dist, center.Y, eye), math32.Vec3(0, 0, 1)
	case Right:
		pos, up = math32.Vec3(center.X+dist, center.Y, eye), math32.Vec3(0, 0, 1)
	case Front:
		pos, up = math32.Vec3(center.X, center.Y-dist, eye), math32.Vec3(0, 0, 1)
	case Up:
		pos, up = math32.Vec3(center.X, center.Y, center.Z+dist), math32.Vec3(0, 1, 0)
	}

	var rot math32.Quat
	rot.SetFromRotationMatrix(math32.NewLookAt(pos, center, up))

	return &Spec{
		Preset:        opts.Preset,
		Position:      pos,
		LookTarget:    center,
		Up:            up,
		Rotation:      rot,
		HFOV:          math32.RadToDeg(hfov),
		VFOV:          math32.RadToDeg(vfov),
		Lens:          opts.Lens,
		SensorWidth:   opts.SensorWidth,
		FocusDistance: center.Sub(pos).Length(),
		FStop:         opts.FStop,
		Resolution:    res,
	}, nil
}

// Standoff returns the camera distance for a volume with the given diagonal.
// The bounding sphere (radius diag/2) fits a cone of angle fov when the
// distance is at least diag/(2*sin(fov/2)). Degenerate volumes fall back to
// minStandoff.
func Standoff(diag, fov, factor, minStandoff float32) float32 {
	const eps = 1e-6
	if diag < eps {
		return minStandoff
	}
	fit := 1 / (2 * math32.Sin(fov/2))
	return diag * math32.Max(factor, fit)
}
