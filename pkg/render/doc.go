// Package render hands composed scenes to rendering engines.
//
// # Overview
//
// Rendering is an external collaborator. This package defines the narrow
// [Renderer] interface the pipeline depends on, plus the pieces shared by
// every engine:
//
//   - [Target] and [Output] describing where results go
//   - output path normalization ([NormalizeOutput], [DefaultOutput])
//   - [JSONRenderer], which only writes the scene hand-off file
//
// # Engines
//
// The [blender] subpackage drives Blender in background mode with a bundled
// Python driver. The [preview] subpackage draws a 2D schematic of the
// placements with Graphviz, useful for dry runs on machines without Blender.
//
//	r := blender.New(blender.Options{Timeout: 10 * time.Minute})
//	out, err := r.Render(ctx, s, render.Target{Path: "walk.png"})
//
// [blender]: github.com/matzehuels/posetrail/pkg/render/blender
// [preview]: github.com/matzehuels/posetrail/pkg/render/preview
package render
