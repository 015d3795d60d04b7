// Package pkg provides the core libraries for posetrail motion stills.
//
// # Overview
//
// Posetrail turns a directory of per-frame human meshes (frame_0001.obj,
// frame_0002.obj, ...) into a single composed scene: a handful of evenly
// spaced poses placed on a shared floor, colored along a temporal gradient
// and framed by a camera preset. The scene is then handed to Blender, or to
// a lightweight preview renderer. The pkg directory is organized into four
// main areas:
//
//  1. Domain logic (frame indexing, sampling, floor alignment, layout,
//     coloring, camera placement, scene composition)
//  2. Infrastructure (caching, errors, observability, run history)
//  3. [pipeline] - Orchestration (index → plan → render)
//  4. [render] - Rendering engines (Blender, Graphviz preview, JSON hand-off)
//
// # Architecture
//
// The typical data flow through posetrail:
//
//	Mesh directory
//	      ↓
//	 [frames] + [mesh] (enumerate frames, read bounds)
//	      ↓
//	 [sample] (pick K evenly spaced frames)
//	      ↓
//	 [floor] + [layout] (align to the ground, place side by side or in place)
//	      ↓
//	 [gradient] + [camera] (color by time, aim the camera)
//	      ↓
//	 [scene] (compose and serialize)
//	      ↓
//	 [render] (Blender, preview or JSON)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dir:      "motions/walk",
//	    Frames:   6,
//	    Separate: true,
//	    Renderer: blender.New(blender.Options{}),
//	})
//
// # Main Packages
//
// ## Domain Logic
//
// [frames] - Frame file discovery, natural ordering and sequence indexing.
//
// [mesh] - Bounding-box readers for OBJ meshes, with a cache-backed wrapper.
//
// [sample] - Evenly spaced frame selection with deterministic rounding.
//
// [floor] - Floor policies that bring every placed pose onto the ground.
//
// [layout] - Overlapping and separate placement along an axis.
//
// [gradient] - Temporal color gradients and color parsing.
//
// [camera] - Camera presets aimed at the bounds of the placed poses.
//
// [scene] - The composed scene and its JSON hand-off format.
//
// ## Infrastructure
//
// [cache] - Scene and bounds caching with file, memory, Redis and null
// backends.
//
// [errors] - Coded errors and input validation shared by every entry point.
//
// [observability] - Pipeline, cache and HTTP hooks with an OpenTelemetry
// implementation.
//
// [history] - Run history with SQLite and MongoDB stores.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [frames]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/frames
// [mesh]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/mesh
// [sample]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/sample
// [floor]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/floor
// [layout]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/layout
// [gradient]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/gradient
// [camera]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/camera
// [scene]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/scene
// [cache]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/observability
// [history]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/history
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/posetrail/pkg/render
package pkg
