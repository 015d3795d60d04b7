package preview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/camera"
	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/floor"
	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/gradient"
	"github.com/matzehuels/posetrail/pkg/layout"
	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/scene"
)

func separateScene(t *testing.T) *scene.Scene {
	t.Helper()
	var recs []frames.Record
	var boxes []math32.Box3
	for i := range 3 {
		b := math32.B3(-0.3, -0.2, 0.1, 0.3, 0.2, 1.8)
		boxes = append(boxes, b)
		recs = append(recs, frames.Record{Number: i + 1, Bounds: b})
	}
	offsets, _ := floor.Offsets(floor.LowestVertexFirstFrame, boxes)
	lay, err := layout.Plan(boxes, offsets, layout.Options{Mode: layout.Separate, Spacing: 2})
	if err != nil {
		t.Fatal(err)
	}
	cam, err := camera.Plan(lay.Bounds, camera.DefaultResolution, camera.Options{Preset: camera.Front})
	if err != nil {
		t.Fatal(err)
	}
	s, err := scene.Compose(scene.Input{
		Frames:     recs,
		Placements: lay.Placements,
		Colors:     gradient.Colorize(3, gradient.DefaultStart, gradient.DefaultEnd),
		Bounds:     lay.Bounds,
		Camera:     cam,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(separateScene(t), Options{})

	for _, want := range []string{
		"layout=neato",
		`f0 [label="1"`,
		`f2 [label="3"`,
		`pos="0.000,0.000!"`, // first frame centered on the origin
		`fillcolor="#331a00ff"`,
		"shape=triangle",
		"camera -- target",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
}

func TestToDOTSideView(t *testing.T) {
	dot := ToDOT(separateScene(t), Options{View: Side})
	// Side view height is the body height (1.7m).
	if !strings.Contains(dot, "height=1.700") {
		t.Errorf("ToDOT(side) missing body height:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	dir := t.TempDir()
	r := New(Options{})
	out, err := r.Render(context.Background(), separateScene(t), render.Target{Path: filepath.Join(dir, "plan.txt")})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if filepath.Ext(out.Path) != ".svg" {
		t.Errorf("Render() path = %s, want .svg", out.Path)
	}
	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("Render() output is not SVG")
	}
}

func TestRenderInvalidView(t *testing.T) {
	r := New(Options{View: "iso"})
	_, err := r.Render(context.Background(), separateScene(t), render.Target{Path: filepath.Join(t.TempDir(), "x.svg")})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Render() error = %v, want INVALID_CONFIG", err)
	}
}

func TestConvertArgs(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		res    camera.Resolution
		want   string
	}{
		{"png sized to scene", PNG, camera.Resolution{Width: 1920, Height: 1080}, "-f png -w 1920 --keep-aspect-ratio"},
		{"png without resolution", PNG, camera.Resolution{}, "-f png -z 2.00"},
		{"pdf keeps vector size", PDF, camera.Resolution{Width: 1920, Height: 1080}, "-f pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.Join(convertArgs(tt.format, tt.res), " "); got != tt.want {
				t.Errorf("convertArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
