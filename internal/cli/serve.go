package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/posetrail/pkg/buildinfo"
	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/history"
	"github.com/matzehuels/posetrail/pkg/observability"
	"github.com/matzehuels/posetrail/pkg/pipeline"
	"github.com/matzehuels/posetrail/pkg/scene"
)

const (
	defaultAddr = "127.0.0.1:8787"

	// maxRequestBody bounds plan request bodies.
	maxRequestBody = 1 << 20

	// planTimeout bounds one plan request.
	planTimeout = 2 * time.Minute
)

// serveCommand creates the serve command, which exposes planning over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		root    string
		noCache bool
		redis   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scene planner over HTTP",
		Long: `Serve the scene planner over HTTP.

Endpoints:
  POST /v1/plan       plan a scene; the body holds pipeline options as JSON
                      with "dir" relative to --root
  GET  /v1/runs       list recorded runs (?dir=, ?limit=)
  GET  /v1/runs/{id}  show one recorded run
  GET  /healthz       liveness and build info

Planning only reads frame directories below --root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config.Serve.Addr
			}
			if err := errors.ValidateDirectory(root); err != nil {
				return err
			}
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			installMetrics(c.Logger)

			store, err := c.newCache(ctx, noCache, redis, memoryCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, c.newKeyer(), c.Logger)
			defer runner.Close()
			runs := c.openHistory(ctx, false)
			defer runs.Close()

			api := &apiServer{runner: runner, store: runs, root: absRoot, logger: c.Logger}
			return serveHTTP(ctx, addr, api.routes(), c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: "+defaultAddr+")")
	cmd.Flags().StringVar(&root, "root", ".", "dataset root that request directories resolve against")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redis, "redis", "", "shared Redis cache URL (redis://host:port/db)")

	return cmd
}

// serveHTTP runs h on addr until ctx is cancelled, then shuts down gracefully.
func serveHTTP(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// API
// =============================================================================

type apiServer struct {
	runner *pipeline.Runner
	store  history.Store
	root   string
	logger *log.Logger
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// observe reports requests to the HTTP hooks using the matched route
// pattern, so metrics are not split by path parameters.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, path, status, time.Since(start))
	})
}

// planResponse is the body of a successful POST /v1/plan.
type planResponse struct {
	Scene        *scene.Scene `json:"scene"`
	SequenceHash string       `json:"sequence_hash"`
	Frames       int          `json:"frames"`
	Cached       bool         `json:"cached"`
	ElapsedMS    int64        `json:"elapsed_ms"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *apiServer) handlePlan(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode request"))
		return
	}
	dir, err := s.resolveDir(opts.Dir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Dir = dir
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	ctx, cancel := context.WithTimeout(r.Context(), planTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.runner.Prepare(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{
		Scene:        result.Scene,
		SequenceHash: result.SequenceHash,
		Frames:       result.Stats.FrameCount,
		Cached:       result.CacheInfo.PlanHit,
		ElapsedMS:    time.Since(start).Milliseconds(),
	})
}

func (s *apiServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	opts := history.ListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidConfig, "invalid limit: %q", v))
			return
		}
		opts.Limit = n
	}
	if v := r.URL.Query().Get("dir"); v != "" {
		dir, err := s.resolveDir(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Dir = dir
	}
	runs, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *apiServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// resolveDir maps a request directory onto the served root and rejects
// paths that escape it.
func (s *apiServer) resolveDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New(errors.ErrCodeInvalidPath, "dir is required")
	}
	if filepath.IsAbs(dir) {
		return "", errors.New(errors.ErrCodeInvalidPath, "dir must be relative to the served root: %q", dir)
	}
	full := filepath.Join(s.root, dir)
	if !within(s.root, full) {
		return "", errors.New(errors.ErrCodeInvalidPath, "dir escapes the served root: %q", dir)
	}

	// Symlinks inside the root may point anywhere. A missing dir is left
	// for the index stage to report.
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if os.IsNotExist(err) {
			return full, nil
		}
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve dir %q", dir)
	}
	root, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve served root")
	}
	if !within(root, resolved) {
		return "", errors.New(errors.ErrCodeInvalidPath, "dir escapes the served root: %q", dir)
	}
	return resolved, nil
}

// within reports whether path lies under root. Both must be clean.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: err.Error()})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeMeshSourceEmpty),
		errors.Is(err, errors.ErrCodeMeshRead),
		errors.Is(err, errors.ErrCodeInvalidSequence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeInvalidConfig),
		errors.Is(err, errors.ErrCodeInvalidPath),
		errors.Is(err, errors.ErrCodeInvalidColor),
		errors.Is(err, errors.ErrCodeInvalidSampleCount),
		errors.Is(err, errors.ErrCodeInvalidSpacing),
		errors.Is(err, errors.ErrCodeUnknownCamera),
		errors.Is(err, errors.ErrCodeUnknownFloorPolicy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Metrics
// =============================================================================

var metricsOnce sync.Once

// installMetrics registers the OpenTelemetry hooks once per process. The
// instruments report to the global meter provider.
func installMetrics(logger *log.Logger) {
	metricsOnce.Do(func() {
		hooks, err := observability.NewOTelHooks(observability.DefaultMeter())
		if err != nil {
			logger.Warn("metrics disabled", "err", err)
			return
		}
		hooks.Install()
	})
}
