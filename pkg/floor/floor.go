// Package floor computes the vertical offsets that rest meshes on the ground.
//
// The ground is the plane z = 0 (Z-up, matching the renderer's convention).
// A [Policy] decides how each frame's offset is derived from its bounding box:
//
//   - [Zero] leaves every frame where it is.
//   - [LowestVertexFirstFrame] shifts every frame by the same amount, chosen so
//     the first frame's lowest vertex touches the floor. Vertical motion such
//     as a jump is preserved.
//   - [ForceTouchAllFrames] shifts each frame by its own amount so that every
//     frame touches the floor.
package floor

import (
	"strings"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// Policy is the closed set of floor alignment strategies.
type Policy int

const (
	// Zero applies no vertical correction.
	Zero Policy = iota
	// LowestVertexFirstFrame aligns the first frame and applies its offset to all frames.
	LowestVertexFirstFrame
	// ForceTouchAllFrames aligns each frame independently.
	ForceTouchAllFrames
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = LowestVertexFirstFrame

var policyNames = map[Policy]string{
	Zero:                   "zero",
	LowestVertexFirstFrame: "lowest_vertex_first_frame",
	ForceTouchAllFrames:    "force_touch_all_frames",
}

// Names lists the accepted policy names in declaration order.
func Names() []string {
	return []string{
		policyNames[Zero],
		policyNames[LowestVertexFirstFrame],
		policyNames[ForceTouchAllFrames],
	}
}

// String returns the policy's configuration name.
func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, errors.New(errors.ErrCodeUnknownFloorPolicy, "unknown floor policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePolicy resolves a policy name. Dashes and case are ignored, so
// "force-touch-all-frames" is accepted. Unknown names fail with
// UNKNOWN_FLOOR_POLICY.
func ParsePolicy(name string) (Policy, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for p, s := range policyNames {
		if s == norm {
			return p, nil
		}
	}
	return Zero, errors.New(errors.ErrCodeUnknownFloorPolicy,
		"unknown floor policy %q (must be one of: %s)", name, strings.Join(Names(), ", "))
}

// Offsets returns one vertical offset per bounding box. Adding offset i to
// every vertex of frame i satisfies the policy. An empty input yields an
// empty result.
func Offsets(p Policy, bounds []math32.Box3) ([]float32, error) {
	out := make([]float32, len(bounds))
	if len(bounds) == 0 {
		return out, nil
	}
	switch p {
	case Zero:
	case LowestVertexFirstFrame:
		dz := -bounds[0].Min.Z
		for i := range out {
			out[i] = dz
		}
	case ForceTouchAllFrames:
		for i, b := range bounds {
			out[i] = -b.Min.Z
		}
	default:
		return nil, errors.New(errors.ErrCodeUnknownFloorPolicy, "unknown floor policy %d", int(p))
	}
	return out, nil
}
