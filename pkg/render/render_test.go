package render

import (
	"context"
	"path/filepath"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/camera"
	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/gradient"
	"github.com/matzehuels/posetrail/pkg/layout"
	"github.com/matzehuels/posetrail/pkg/scene"
)

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		path string
		mode scene.Mode
		want string
	}{
		{"out/walk.mp4", scene.Composite, "out/walk.png"},
		{"out/walk.MP4", scene.Composite, "out/walk.png"},
		{"out/walk", scene.Composite, "out/walk.png"},
		{"out/walk.png", scene.Composite, "out/walk.png"},
		{"out/walk.jpg", scene.Composite, "out/walk.jpg"},
		{"out/walk", scene.Animation, "out/walk.mp4"},
		{"out/walk.png", scene.Animation, "out/walk.mp4"},
		{"out/walk.mkv", scene.Animation, "out/walk.mkv"},
	}

	for _, tt := range tests {
		if got := NormalizeOutput(tt.path, tt.mode); got != tt.want {
			t.Errorf("NormalizeOutput(%q, %s) = %q, want %q", tt.path, tt.mode, got, tt.want)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	if got, want := DefaultOutput("seq", scene.Composite), filepath.Join("seq", "human_motion.png"); got != want {
		t.Errorf("DefaultOutput(composite) = %q, want %q", got, want)
	}
	if got, want := DefaultOutput("seq", scene.Animation), filepath.Join("seq", "human_motion.mp4"); got != want {
		t.Errorf("DefaultOutput(animation) = %q, want %q", got, want)
	}
}

func TestScenePathFor(t *testing.T) {
	if got := ScenePathFor("a/b/walk.png"); got != "a/b/walk.scene.json" {
		t.Errorf("ScenePathFor() = %q", got)
	}
}

func TestJSONRenderer(t *testing.T) {
	box := math32.B3(0, 0, 0, 1, 1, 1)
	cam, err := camera.Plan(box, camera.DefaultResolution, camera.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, err := scene.Compose(scene.Input{
		Frames:     []frames.Record{{Number: 1, Bounds: box}},
		Placements: []layout.Placement{{Rotation: layout.Identity()}},
		Colors:     []gradient.RGBA{gradient.DefaultStart},
		Bounds:     box,
		Camera:     cam,
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	out, err := JSONRenderer{}.Render(context.Background(), s, Target{Path: filepath.Join(dir, "walk.png")})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if want := filepath.Join(dir, "walk.scene.json"); out.Path != want {
		t.Errorf("Render() path = %q, want %q", out.Path, want)
	}
	if _, err := scene.ReadFile(out.Path); err != nil {
		t.Errorf("written scene unreadable: %v", err)
	}

	_, err = JSONRenderer{}.Render(context.Background(), s, Target{})
	if !errors.Is(err, errors.ErrCodeInvalidRenderTarget) {
		t.Errorf("Render(empty target) error = %v, want INVALID_RENDER_TARGET", err)
	}
}
