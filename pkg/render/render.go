package render

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// Renderer turns a scene into files.
type Renderer interface {
	// Name identifies the engine in logs and metrics.
	Name() string
	// Render writes the outputs for s to target. Implementations must not
	// modify s.
	Render(ctx context.Context, s *scene.Scene, target Target) (*Output, error)
}

// Target says where a render should go.
type Target struct {
	// Path is the primary output file. Its extension may be rewritten to
	// match the scene mode, see [NormalizeOutput].
	Path string
}

// Output lists what a render produced.
type Output struct {
	// Path is the primary output file.
	Path string `json:"path"`
	// Files lists every file written, including Path.
	Files []string `json:"files"`
	// ScenePath is the scene JSON handed to the engine, if one was written.
	ScenePath string        `json:"scene_path,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Default output names.
const (
	DefaultBaseName = "human_motion"
	ExtImage        = ".png"
	ExtVideo        = ".mp4"
	ExtScene        = ".scene.json"
)

// DefaultOutput returns <dir>/human_motion.png for composites and
// <dir>/human_motion.mp4 for animations.
func DefaultOutput(dir string, mode scene.Mode) string {
	return NormalizeOutput(filepath.Join(dir, DefaultBaseName), mode)
}

// NormalizeOutput fixes the extension of path for mode. Composites are
// images, so a video extension becomes .png; animations without an extension
// or with .png become .mp4. Other extensions are kept.
func NormalizeOutput(path string, mode scene.Mode) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	switch mode {
	case scene.Animation:
		if ext == "" || strings.EqualFold(ext, ExtImage) {
			return base + ExtVideo
		}
	default:
		if ext == "" || strings.EqualFold(ext, ExtVideo) {
			return base + ExtImage
		}
	}
	return path
}

// ScenePathFor returns the scene JSON path written next to output.
func ScenePathFor(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ExtScene
}

// Validate checks the target.
func (t Target) Validate() error {
	if strings.TrimSpace(t.Path) == "" {
		return errors.New(errors.ErrCodeInvalidRenderTarget, "render target path cannot be empty")
	}
	if err := errors.ValidateDirectory(t.Path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRenderTarget, err, "invalid render target")
	}
	return nil
}
