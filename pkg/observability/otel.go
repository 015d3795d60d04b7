package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope used by [DefaultMeter].
const MeterName = "github.com/matzehuels/posetrail"

// DefaultMeter returns the meter from the global OTel provider. It is a
// no-op until an SDK provider is installed.
func DefaultMeter() metric.Meter {
	return otel.Meter(MeterName)
}

// OTelHooks implements every hook interface with OpenTelemetry instruments.
type OTelHooks struct {
	stages       metric.Int64Counter
	stageErrors  metric.Int64Counter
	stageSeconds metric.Float64Histogram
	frames       metric.Int64Counter
	cacheOps     metric.Int64Counter
	cacheBytes   metric.Int64Counter
	requests     metric.Int64Counter
	reqSeconds   metric.Float64Histogram
}

// NewOTelHooks creates the instruments on m.
func NewOTelHooks(m metric.Meter) (*OTelHooks, error) {
	var (
		h   OTelHooks
		err error
	)
	if h.stages, err = m.Int64Counter("posetrail.stage.runs",
		metric.WithDescription("Pipeline stage executions")); err != nil {
		return nil, fmt.Errorf("creating stage counter: %w", err)
	}
	if h.stageErrors, err = m.Int64Counter("posetrail.stage.errors",
		metric.WithDescription("Pipeline stage failures")); err != nil {
		return nil, fmt.Errorf("creating stage error counter: %w", err)
	}
	if h.stageSeconds, err = m.Float64Histogram("posetrail.stage.duration",
		metric.WithDescription("Pipeline stage duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating stage histogram: %w", err)
	}
	if h.frames, err = m.Int64Counter("posetrail.frames.indexed",
		metric.WithDescription("Mesh frames indexed")); err != nil {
		return nil, fmt.Errorf("creating frame counter: %w", err)
	}
	if h.cacheOps, err = m.Int64Counter("posetrail.cache.ops",
		metric.WithDescription("Cache lookups and writes")); err != nil {
		return nil, fmt.Errorf("creating cache counter: %w", err)
	}
	if h.cacheBytes, err = m.Int64Counter("posetrail.cache.bytes_written",
		metric.WithDescription("Bytes written to the cache"), metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("creating cache bytes counter: %w", err)
	}
	if h.requests, err = m.Int64Counter("posetrail.http.requests",
		metric.WithDescription("API requests served")); err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}
	if h.reqSeconds, err = m.Float64Histogram("posetrail.http.duration",
		metric.WithDescription("API request duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating request histogram: %w", err)
	}
	return &h, nil
}

// Install registers h for all hook categories.
func (h *OTelHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *OTelHooks) stage(ctx context.Context, name string, d time.Duration, err error, extra ...attribute.KeyValue) {
	attrs := metric.WithAttributes(append([]attribute.KeyValue{attribute.String("stage", name)}, extra...)...)
	h.stages.Add(ctx, 1, attrs)
	h.stageSeconds.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		h.stageErrors.Add(ctx, 1, attrs)
	}
}

func (h *OTelHooks) OnIndexStart(context.Context, string) {}

func (h *OTelHooks) OnIndexComplete(ctx context.Context, dir string, frameCount int, d time.Duration, err error) {
	h.stage(ctx, "index", d, err)
	h.frames.Add(ctx, int64(frameCount))
}

func (h *OTelHooks) OnPlanStart(context.Context, string, int) {}

func (h *OTelHooks) OnPlanComplete(ctx context.Context, mode string, d time.Duration, err error) {
	h.stage(ctx, "plan", d, err, attribute.String("mode", mode))
}

func (h *OTelHooks) OnRenderStart(context.Context, string, string) {}

func (h *OTelHooks) OnRenderComplete(ctx context.Context, engine, mode string, d time.Duration, err error) {
	h.stage(ctx, "render", d, err, attribute.String("engine", engine), attribute.String("mode", mode))
}

func (h *OTelHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.cacheOps.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType), attribute.String("result", "hit")))
}

func (h *OTelHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.cacheOps.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType), attribute.String("result", "miss")))
}

func (h *OTelHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	attrs := metric.WithAttributes(attribute.String("key_type", keyType))
	h.cacheOps.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType), attribute.String("result", "set")))
	h.cacheBytes.Add(ctx, int64(size), attrs)
}

func (h *OTelHooks) OnRequest(context.Context, string, string) {}

func (h *OTelHooks) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", path),
		attribute.String("status", strconv.Itoa(status)),
	)
	h.requests.Add(ctx, 1, attrs)
	h.reqSeconds.Record(ctx, d.Seconds(), attrs)
}

var (
	_ PipelineHooks = (*OTelHooks)(nil)
	_ CacheHooks    = (*OTelHooks)(nil)
	_ HTTPHooks     = (*OTelHooks)(nil)
)
