// Package preview draws a 2D schematic of a scene with Graphviz.
//
// Each placed frame becomes a box sized to its footprint and filled with its
// assigned color; the camera is drawn as a triangle and the ground as a
// dashed outline. Node positions are pinned and laid out with the neato
// engine, so the picture reflects the planned geometry rather than a graph
// layout. Previews need no Blender install and are meant for checking
// spacing and camera placement before a long render.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/core/math32"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// View selects the projection plane.
type View string

const (
	// Top projects onto the ground plane (X right, Y up).
	Top View = "top"
	// Side projects onto the X-Z plane (X right, Z up).
	Side View = "side"
)

// ValidViews lists the supported projections.
var ValidViews = map[View]bool{Top: true, Side: true}

// Options configures the schematic.
type Options struct {
	View View
	// Scale converts scene units (meters) to inches. Zero uses 1.
	Scale float32
}

// Renderer writes schematics as SVG, PNG or PDF depending on the target
// extension. PNG and PDF go through rsvg-convert; PNGs match the scene's
// image width.
type Renderer struct {
	opts Options
}

// New returns a preview renderer.
func New(opts Options) *Renderer {
	if opts.View == "" {
		opts.View = Top
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Renderer{opts: opts}
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "preview" }

// Render implements render.Renderer. The target extension picks the format;
// anything other than .png or .pdf is written as SVG with a .svg extension.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene, target render.Target) (*render.Output, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if !ValidViews[r.opts.View] {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid preview view: %q (must be top or side)", r.opts.View)
	}
	start := time.Now()

	svg, err := RenderSVG(ctx, ToDOT(s, r.opts))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "preview")
	}

	path := target.Path
	data := svg
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		data, err = convert(ctx, svg, PNG, s.Resolution)
	case ".pdf":
		data, err = convert(ctx, svg, PDF, s.Resolution)
	case ".svg":
	default:
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".svg"
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "convert preview")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "create output directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "write %s", path)
	}
	return &render.Output{Path: path, Files: []string{path}, Elapsed: time.Since(start)}, nil
}

// ToDOT converts a scene into a pinned-position DOT graph.
func ToDOT(s *scene.Scene, opts Options) string {
	if opts.View == "" {
		opts.View = Top
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	project := func(v math32.Vector3) (float32, float32) {
		if opts.View == Side {
			return v.X * opts.Scale, v.Z * opts.Scale
		}
		return v.X * opts.Scale, v.Y * opts.Scale
	}

	var buf bytes.Buffer
	buf.WriteString("graph scene {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  outputorder=\"nodesfirst\";\n")
	buf.WriteString("  node [shape=box, style=filled, fixedsize=true, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	gx, gy := project(s.Ground.Center)
	gw, gh := s.Ground.Width*opts.Scale, s.Ground.Depth*opts.Scale
	if opts.View == Side {
		gh = 0.02
	}
	fmt.Fprintf(&buf, "  ground [label=\"\", pos=\"%s,%s!\", width=%s, height=%s, style=dashed, color=grey];\n",
		num(gx), num(gy), num(gw), num(gh))

	for _, it := range s.Items {
		b := it.Placement.Apply(it.Frame.Bounds)
		cx, cy := project(b.Center())
		size := b.Size()
		w := size.X * opts.Scale
		h := size.Y * opts.Scale
		if opts.View == Side {
			h = size.Z * opts.Scale
		}
		fmt.Fprintf(&buf, "  f%d [label=\"%d\", pos=\"%s,%s!\", width=%s, height=%s, fillcolor=%q, fontcolor=%q];\n",
			it.TemporalIndex, it.Frame.Number,
			num(cx), num(cy), num(max(w, 0.05)), num(max(h, 0.05)),
			it.Color.Hex(), labelColor(it.Color.R, it.Color.G, it.Color.B))
	}

	cx, cy := project(s.Camera.Position)
	tx, ty := project(s.Camera.LookTarget)
	fmt.Fprintf(&buf, "  camera [label=%q, shape=triangle, pos=\"%s,%s!\", width=0.4, height=0.4, fillcolor=\"#333333\", fontcolor=white];\n",
		string(s.Camera.Preset), num(cx), num(cy))
	fmt.Fprintf(&buf, "  target [label=\"\", shape=point, pos=\"%s,%s!\", width=0.05, height=0.05];\n", num(tx), num(ty))
	buf.WriteString("  camera -- target [style=dotted];\n")

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine,
// which keeps pinned node positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func num(v float32) string {
	return fmt.Sprintf("%.3f", v)
}

// labelColor picks black or white text for legibility on a fill color.
func labelColor(r, g, b float64) string {
	if 0.299*r+0.587*g+0.114*b > 0.5 {
		return "black"
	}
	return "white"
}
