// Package gradient assigns temporal colors to sampled frames.
//
// Frame i of K gets the color at t = i/(K-1) on the straight line between a
// start and an end color, so early poses read as the start color and late
// poses as the end color. The interpolation is written as
// start*(1-t) + end*t, which returns both endpoints exactly.
package gradient

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"cogentcore.org/core/colors"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// RGBA is a color with channels in [0, 1].
type RGBA struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

// Default gradient endpoints: a dark brown fading into a warm orange.
var (
	DefaultStart = RGBA{R: 0.2, G: 0.1, B: 0.0, A: 1.0}
	DefaultEnd   = RGBA{R: 1.0, G: 0.6, B: 0.2, A: 1.0}
)

// DefaultBody is the uniform color used for animations.
var DefaultBody = RGBA{R: 0.4, G: 0.2, B: 0.0, A: 1.0}

// Lerp interpolates between a and b. t is clamped to [0, 1].
func Lerp(a, b RGBA, t float64) RGBA {
	t = clamp01(t)
	u := 1 - t
	return RGBA{
		R: clamp01(a.R*u + b.R*t),
		G: clamp01(a.G*u + b.G*t),
		B: clamp01(a.B*u + b.B*t),
		A: clamp01(a.A*u + b.A*t),
	}
}

// Colorize returns k colors evenly spaced from start to end. A single frame
// gets the start color. k <= 0 yields nil.
func Colorize(k int, start, end RGBA) []RGBA {
	if k <= 0 {
		return nil
	}
	out := make([]RGBA, k)
	denom := float64(max(k-1, 1))
	for i := range out {
		out[i] = Lerp(start, end, float64(i)/denom)
	}
	return out
}

// Constant returns k copies of c.
func Constant(k int, c RGBA) []RGBA {
	if k <= 0 {
		return nil
	}
	out := make([]RGBA, k)
	for i := range out {
		out[i] = c.Clamp()
	}
	return out
}

// Clamp returns c with every channel limited to [0, 1].
func (c RGBA) Clamp() RGBA {
	return RGBA{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// Hex formats c as #rrggbbaa.
func (c RGBA) Hex() string {
	c = c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

// String implements fmt.Stringer.
func (c RGBA) String() string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g, %.3g)", c.R, c.G, c.B, c.A)
}

// Parse reads a color in one of three forms:
//
//	#rgb, #rrggbb or #rrggbbaa   hex, alpha defaults to ff
//	red, darkorange, ...         CSS color names
//	r,g,b or r,g,b,a             floats in [0, 1], alpha defaults to 1
//
// Malformed or out-of-range input fails with INVALID_COLOR.
func Parse(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case isName(s):
		c, err := colors.FromName(strings.ToLower(s))
		if err != nil {
			return RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "unknown color name %q", s)
		}
		return fromColor(c), nil
	}
	return parseFloats(s)
}

// parseHex checks the digits up front: colors.FromString reads them with
// Sscanf and drops scan errors.
func parseHex(s string) (RGBA, error) {
	h := s[1:]
	if n := len(h); n != 3 && n != 6 && n != 8 {
		return RGBA{}, errors.New(errors.ErrCodeInvalidColor, "hex color must be #rgb, #rrggbb or #rrggbbaa: %q", s)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color %q", s)
		}
	}
	c, err := colors.FromString(s)
	if err != nil {
		return RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex color %q", s)
	}
	return fromColor(c), nil
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// fromColor converts the straight 8-bit channels produced by the colors
// package parsers.
func fromColor(c color.RGBA) RGBA {
	return RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

func parseFloats(s string) (RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, errors.New(errors.ErrCodeInvalidColor, "color must have 3 or 4 components: %q", s)
	}
	ch := [4]float64{0, 0, 0, 1}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color component %q", p)
		}
		if v < 0 || v > 1 {
			return RGBA{}, errors.New(errors.ErrCodeInvalidColor, "color component %g out of range [0, 1]", v)
		}
		ch[i] = v
	}
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func to8(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
