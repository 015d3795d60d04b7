// Package mesh reads the axis-aligned bounds of per-frame mesh files.
//
// Planning only needs each frame's bounding box, never the full geometry,
// so every reader here answers one question through [BoundsReader]. Bounds
// are reported in the renderer's Z-up world frame.
//
// Readers:
//   - [OBJReader] scans vertex records of Wavefront OBJ files.
//   - [ManifestReader] looks bounds up in a bounds.yaml sidecar, for formats
//     (PLY, glTF) whose decoding belongs to the renderer.
//   - [CachedReader] memoizes another reader in a [cache.Cache].
//   - [AutoReader] picks the manifest when one exists and OBJ otherwise.
package mesh

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// BoundsReader returns the bounding box of one mesh file.
type BoundsReader interface {
	Bounds(ctx context.Context, path string) (math32.Box3, error)
}

// BoundsReaderFunc adapts a function to [BoundsReader].
type BoundsReaderFunc func(ctx context.Context, path string) (math32.Box3, error)

// Bounds calls f.
func (f BoundsReaderFunc) Bounds(ctx context.Context, path string) (math32.Box3, error) {
	return f(ctx, path)
}

// AutoReader uses the directory's bounds manifest when present and falls back
// to scanning OBJ files.
type AutoReader struct {
	OBJ      *OBJReader
	Manifest *ManifestReader
}

// NewAutoReader returns an AutoReader with default sub-readers.
func NewAutoReader() *AutoReader {
	return &AutoReader{OBJ: NewOBJReader(), Manifest: NewManifestReader()}
}

// Bounds implements BoundsReader.
func (r *AutoReader) Bounds(ctx context.Context, path string) (math32.Box3, error) {
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), ManifestName)); err == nil {
		return r.Manifest.Bounds(ctx, path)
	}
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return r.OBJ.Bounds(ctx, path)
	}
	return math32.Box3{}, errors.New(errors.ErrCodeMeshRead,
		"no bounds source for %s: add a %s next to the meshes", filepath.Base(path), ManifestName)
}

var (
	_ BoundsReader = (*AutoReader)(nil)
	_ BoundsReader = BoundsReaderFunc(nil)
)
