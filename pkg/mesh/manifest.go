package mesh

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"cogentcore.org/core/math32"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// ManifestName is the sidecar file read by [ManifestReader].
const ManifestName = "bounds.yaml"

// Manifest lists precomputed bounds keyed by mesh file name. Coordinates are
// already Z-up.
//
//	frames:
//	  frame0001.ply: {min: [-0.4, -0.3, 0.0], max: [0.4, 0.3, 1.8]}
type Manifest struct {
	Frames map[string]ManifestBounds `yaml:"frames"`
}

// ManifestBounds is one manifest entry.
type ManifestBounds struct {
	Min [3]float32 `yaml:"min,flow"`
	Max [3]float32 `yaml:"max,flow"`
}

// Box converts the entry to a Box3.
func (b ManifestBounds) Box() math32.Box3 {
	return math32.B3(b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}

// FromBox converts a Box3 to a manifest entry.
func FromBox(b math32.Box3) ManifestBounds {
	return ManifestBounds{
		Min: [3]float32{b.Min.X, b.Min.Y, b.Min.Z},
		Max: [3]float32{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// ReadManifest loads and validates a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeshRead, err, "read manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeshRead, err, "parse %s", path)
	}
	for name, b := range m.Frames {
		if b.Box().IsEmpty() {
			return nil, errors.New(errors.ErrCodeMeshRead, "%s: bounds of %s have min above max", path, name)
		}
	}
	return &m, nil
}

// WriteManifest writes m as YAML.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ManifestReader resolves bounds from the manifest in each mesh's directory.
// Manifests are loaded once per directory. Safe for concurrent use.
type ManifestReader struct {
	mu    sync.Mutex
	cache map[string]*Manifest
}

// NewManifestReader returns an empty ManifestReader.
func NewManifestReader() *ManifestReader {
	return &ManifestReader{cache: make(map[string]*Manifest)}
}

// Bounds implements BoundsReader.
func (r *ManifestReader) Bounds(ctx context.Context, path string) (math32.Box3, error) {
	m, err := r.load(filepath.Dir(path))
	if err != nil {
		return math32.Box3{}, err
	}
	b, ok := m.Frames[filepath.Base(path)]
	if !ok {
		return math32.Box3{}, errors.New(errors.ErrCodeMeshRead, "%s has no entry for %s", ManifestName, filepath.Base(path))
	}
	return b.Box(), nil
}

func (r *ManifestReader) load(dir string) (*Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache == nil {
		r.cache = make(map[string]*Manifest)
	}
	if m, ok := r.cache[dir]; ok {
		return m, nil
	}
	m, err := ReadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	r.cache[dir] = m
	return m, nil
}

var _ BoundsReader = (*ManifestReader)(nil)
