package mesh

import (
	"context"
	"encoding/json"
	"os"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/cache"
	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/observability"
)

// CachedReader memoizes an inner reader. Entries are keyed by path, size and
// modification time, so an edited mesh is re-read. Cache failures fall back
// to the inner reader.
type CachedReader struct {
	Inner BoundsReader
	Cache cache.Cache
	Keyer cache.Keyer
}

// NewCachedReader wraps inner. A nil cache disables caching and a nil keyer
// uses the default key layout.
func NewCachedReader(inner BoundsReader, c cache.Cache, keyer cache.Keyer) *CachedReader {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedReader{Inner: inner, Cache: c, Keyer: keyer}
}

type cachedBox struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

// Bounds implements BoundsReader.
func (r *CachedReader) Bounds(ctx context.Context, path string) (math32.Box3, error) {
	info, err := os.Stat(path)
	if err != nil {
		return math32.Box3{}, errors.Wrap(errors.ErrCodeMeshRead, err, "stat %s", path)
	}
	key := r.Keyer.BoundsKey(path, info.Size(), info.ModTime())

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cb cachedBox
		if json.Unmarshal(data, &cb) == nil {
			observability.Cache().OnCacheHit(ctx, "bounds")
			return math32.B3(cb.Min[0], cb.Min[1], cb.Min[2], cb.Max[0], cb.Max[1], cb.Max[2]), nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "bounds")

	b, err := r.Inner.Bounds(ctx, path)
	if err != nil {
		return math32.Box3{}, err
	}

	data, _ := json.Marshal(cachedBox{
		Min: [3]float32{b.Min.X, b.Min.Y, b.Min.Z},
		Max: [3]float32{b.Max.X, b.Max.Y, b.Max.Z},
	})
	if err := r.Cache.Set(ctx, key, data, cache.TTLBounds); err == nil {
		observability.Cache().OnCacheSet(ctx, "bounds", len(data))
	}
	return b, nil
}

var _ BoundsReader = (*CachedReader)(nil)
