package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posetrail/pkg/cache"
	"github.com/matzehuels/posetrail/pkg/frames"
	"github.com/matzehuels/posetrail/pkg/mesh"
	"github.com/matzehuels/posetrail/pkg/observability"
	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the API server and batch workers all use it.
//
// The Runner is stateless except for the cache, reader and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Reader reads mesh bounds. It is cache-backed by default.
	Reader mesh.BoundsReader
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Reader: mesh.NewCachedReader(mesh.NewAutoReader(), c, keyer),
	}
}

// Execute runs the complete index → plan → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	out, err := r.Render(ctx, result.Scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered scene",
		"engine", renderer(opts).Name(),
		"output", out.Path,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare runs the index and plan stages without rendering.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stage 1: Index
	indexStart := time.Now()
	seq, err := r.Index(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	result.Sequence = seq
	result.Stats.FrameCount = seq.Len()
	result.Stats.IndexTime = time.Since(indexStart)
	if h, err := cache.HashJSON(seq.Records()); err == nil {
		result.SequenceHash = h
	}

	r.Logger.Info("indexed frames",
		"dir", opts.Dir,
		"frames", seq.Len(),
		"duration", result.Stats.IndexTime)

	// Stage 2: Plan
	planStart := time.Now()
	s, planHit, err := r.PlanWithCacheInfo(ctx, seq, opts)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Scene = s
	result.Stats.ItemCount = s.Len()
	result.Stats.PlanTime = time.Since(planStart)
	result.CacheInfo.PlanHit = planHit

	r.Logger.Info("planned scene",
		"mode", s.Mode,
		"layout", s.Layout,
		"items", s.Len(),
		"camera", s.Camera.Preset,
		"cached", planHit,
		"duration", result.Stats.PlanTime)

	return result, nil
}

// Index enumerates and bounds the frames of opts.Dir.
func (r *Runner) Index(ctx context.Context, opts Options) (*frames.Sequence, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	reader := opts.Reader
	if reader == nil {
		reader = r.Reader
	}

	hooks := observability.Pipeline()
	hooks.OnIndexStart(ctx, opts.Dir)
	start := time.Now()
	seq, err := IndexSequence(ctx, opts, reader)
	n := 0
	if seq != nil {
		n = seq.Len()
	}
	hooks.OnIndexComplete(ctx, opts.Dir, n, time.Since(start), err)
	return seq, err
}

// PlanWithCacheInfo plans a scene with caching and returns cache hit info.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, seq *frames.Sequence, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Compute cache key
	seqHash, err := cache.HashJSON(seq.Records())
	if err != nil {
		return nil, false, fmt.Errorf("hash sequence: %w", err)
	}
	cacheKey := r.Keyer.SceneKey(seqHash, opts.SceneKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			s, err := scene.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return s, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	hooks := observability.Pipeline()
	hooks.OnPlanStart(ctx, string(opts.Mode()), seq.Len())
	start := time.Now()
	s, err := PlanScene(seq, opts)
	hooks.OnPlanComplete(ctx, string(opts.Mode()), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := scene.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLScene); err == nil {
			observability.Cache().OnCacheSet(ctx, "scene", len(data))
		}
	}

	return s, false, nil // Cache miss
}

// Plan is a convenience wrapper that calls PlanWithCacheInfo and discards the cache hit info.
func (r *Runner) Plan(ctx context.Context, seq *frames.Sequence, opts Options) (*scene.Scene, error) {
	s, _, err := r.PlanWithCacheInfo(ctx, seq, opts)
	return s, err
}

// Render dispatches a planned scene to the configured renderer.
// Renders are never cached: their outputs live on disk.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (*render.Output, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	engine := renderer(opts).Name()

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, engine, string(s.Mode))
	start := time.Now()
	out, err := RenderScene(ctx, s, opts)
	hooks.OnRenderComplete(ctx, engine, string(s.Mode), time.Since(start), err)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
