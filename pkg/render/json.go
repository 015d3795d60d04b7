package render

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// JSONRenderer writes only the scene file. It is the renderer for "plan"
// style runs and for handing scenes to engines launched elsewhere.
type JSONRenderer struct{}

// Name implements Renderer.
func (JSONRenderer) Name() string { return "json" }

// Render implements Renderer. A target ending in .json is written as is;
// any other path gets the scene written next to it.
func (JSONRenderer) Render(ctx context.Context, s *scene.Scene, target Target) (*Output, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	path := target.Path
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		path = ScenePathFor(path)
	}
	if err := scene.WriteFile(path, s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "write scene %s", path)
	}
	return &Output{
		Path:      path,
		Files:     []string{path},
		ScenePath: path,
		Elapsed:   time.Since(start),
	}, nil
}

var _ Renderer = JSONRenderer{}
