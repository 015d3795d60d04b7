package camera

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/posetrail/pkg/errors"
)

func figure() math32.Box3 {
	return math32.B3(-0.4, -0.3, 0, 0.4, 0.3, 1.8)
}

func row() math32.Box3 {
	return math32.B3(-0.3, -0.3, 0, 6.3, 0.3, 1.8)
}

func corners(b math32.Box3) []math32.Vector3 {
	var out []math32.Vector3
	for _, x := range []float32{b.Min.X, b.Max.X} {
		for _, y := range []float32{b.Min.Y, b.Max.Y} {
			for _, z := range []float32{b.Min.Z, b.Max.Z} {
				out = append(out, math32.Vec3(x, y, z))
			}
		}
	}
	return out
}

// assertInView checks every corner of b projects inside the camera frustum.
func assertInView(t *testing.T, s *Spec, b math32.Box3) {
	t.Helper()
	fwd := s.LookTarget.Sub(s.Position).Normal()
	right := fwd.Cross(s.Up).Normal()
	up := right.Cross(fwd)
	tanH := math32.Tan(math32.DegToRad(s.HFOV) / 2)
	tanV := math32.Tan(math32.DegToRad(s.VFOV) / 2)

	for _, c := range corners(b) {
		d := c.Sub(s.Position)
		z := d.Dot(fwd)
		require.Greater(t, z, float32(0), "corner %v behind camera", c)
		assert.LessOrEqual(t, math32.Abs(d.Dot(right))/z, tanH+1e-5, "corner %v outside horizontal fov", c)
		assert.LessOrEqual(t, math32.Abs(d.Dot(up))/z, tanV+1e-5, "corner %v outside vertical fov", c)
	}
}

func TestPlanPresetsFrameVolume(t *testing.T) {
	for _, p := range []Preset{Left, Right, Front, Up} {
		for _, b := range []math32.Box3{figure(), row()} {
			s, err := Plan(b, DefaultResolution, Options{Preset: p})
			require.NoError(t, err, p)
			assert.Equal(t, b.Center(), s.LookTarget, p)
			assertInView(t, s, b)
		}
	}
}

func TestPlanDirections(t *testing.T) {
	b := figure()
	c := b.Center()
	tests := []struct {
		preset Preset
		check  func(s *Spec) bool
	}{
		{Left, func(s *Spec) bool { return s.Position.X < c.X }},
		{Right, func(s *Spec) bool { return s.Position.X > c.X }},
		{Front, func(s *Spec) bool { return s.Position.Y < c.Y }},
		{Up, func(s *Spec) bool { return s.Position.Z > b.Max.Z && s.Up == math32.Vec3(0, 1, 0) }},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			s, err := Plan(b, DefaultResolution, Options{Preset: tt.preset})
			require.NoError(t, err)
			assert.True(t, tt.check(s), "unexpected position %v", s.Position)
		})
	}
}

func TestPlanEyeLevel(t *testing.T) {
	b := figure()
	s, err := Plan(b, DefaultResolution, Options{Preset: Left})
	require.NoError(t, err)
	assert.InDelta(t, b.Center().Z+0.3*b.Size().Z, s.Position.Z, 1e-5)
}

func TestPlanStandoffAtLeastFactor(t *testing.T) {
	b := figure()
	s, err := Plan(b, DefaultResolution, Options{Preset: Up})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.FocusDistance, 1.5*b.Size().Length()-1e-4)
}

func TestPlanRotationLooksAtTarget(t *testing.T) {
	s, err := Plan(figure(), DefaultResolution, Options{Preset: Front})
	require.NoError(t, err)

	fwd := math32.Vec3(0, 0, -1).MulQuat(s.Rotation)
	want := s.LookTarget.Sub(s.Position).Normal()
	assert.InDelta(t, want.X, fwd.X, 1e-4)
	assert.InDelta(t, want.Y, fwd.Y, 1e-4)
	assert.InDelta(t, want.Z, fwd.Z, 1e-4)
}

func TestPlanFocusDistance(t *testing.T) {
	s, err := Plan(figure(), DefaultResolution, Options{Preset: Right})
	require.NoError(t, err)
	assert.InDelta(t, s.LookTarget.Sub(s.Position).Length(), s.FocusDistance, 1e-5)
	assert.Equal(t, DefaultLens, s.Lens)
	assert.Equal(t, DefaultResolution, s.Resolution)
}

func TestPlanDegenerateVolume(t *testing.T) {
	p := math32.B3(1, 2, 0, 1, 2, 0)
	s, err := Plan(p, DefaultResolution, Options{Preset: Left})
	require.NoError(t, err)
	assert.InDelta(t, DefaultMinStandoff, s.FocusDistance, 1e-5)
}

func TestPlanErrors(t *testing.T) {
	_, err := Plan(figure(), DefaultResolution, Options{Preset: "top"})
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownCamera))

	_, err = Plan(figure(), Resolution{}, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))

	_, err = Plan(math32.B3Empty(), DefaultResolution, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeSceneInconsistency))
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset(" UP ")
	require.NoError(t, err)
	assert.Equal(t, Up, p)

	_, err = ParsePreset("behind")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownCamera))
}

func TestFieldOfView(t *testing.T) {
	h, v := FieldOfView(35, 36, Resolution{1920, 1080})
	assert.InDelta(t, 54.43, math32.RadToDeg(h), 0.05)
	assert.Less(t, v, h)

	h, v = FieldOfView(35, 36, Resolution{1080, 1920})
	assert.InDelta(t, 54.43, math32.RadToDeg(v), 0.05)
	assert.Less(t, h, v)
}
