package pipeline

import (
	"context"

	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// OutputPath returns where a render of s should go: the configured output,
// or <dir>/human_motion.{png,mp4}, with the extension fixed for the mode.
func OutputPath(s *scene.Scene, opts Options) string {
	if opts.Output == "" {
		return render.DefaultOutput(opts.Dir, s.Mode)
	}
	return render.NormalizeOutput(opts.Output, s.Mode)
}

// renderer returns the configured renderer, defaulting to the scene-file-only
// JSON renderer.
func renderer(opts Options) render.Renderer {
	if opts.Renderer != nil {
		return opts.Renderer
	}
	return render.JSONRenderer{}
}

// RenderScene dispatches s to the configured renderer.
func RenderScene(ctx context.Context, s *scene.Scene, opts Options) (*render.Output, error) {
	return renderer(opts).Render(ctx, s, render.Target{Path: OutputPath(s, opts)})
}
