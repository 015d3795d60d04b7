package pipeline

import (
	"context"

	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/mesh"
)

// IndexSequence enumerates opts.Dir and reads every frame's bounds with
// reader. A nil reader uses mesh.NewAutoReader.
func IndexSequence(ctx context.Context, opts Options, reader mesh.BoundsReader) (*frames.Sequence, error) {
	if reader == nil {
		reader = mesh.NewAutoReader()
	}
	return frames.Load(ctx, opts.Dir, opts.FrameOptions(), reader)
}
