package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/posetrail/pkg/cache"
	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/history"
	"github.com/matzehuels/posetrail/pkg/pipeline"
)

func newTestAPI(t *testing.T) (*httptest.Server, string, history.Store) {
	t.Helper()
	root := t.TempDir()
	writeFrames(t, filepath.Join(root, "walk"), 10)

	logger := log.New(io.Discard)
	store, err := history.OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	api := &apiServer{
		runner: pipeline.NewRunner(cache.NewMemoryCache(), nil, logger),
		store:  store,
		root:   root,
		logger: logger,
	}
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)
	return srv, root, store
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestAPIHealth(t *testing.T) {
	srv, _, _ := newTestAPI(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestAPIPlan(t *testing.T) {
	srv, _, _ := newTestAPI(t)

	resp, body := post(t, srv.URL+"/v1/plan", `{"dir": "walk", "frames": 4, "separate": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %v", body)
	assert.Equal(t, float64(10), body["frames"])
	assert.Equal(t, false, body["cached"])

	s := body["scene"].(map[string]any)
	assert.Equal(t, "composite", s["mode"])
	assert.Len(t, s["items"], 4)

	_, body = post(t, srv.URL+"/v1/plan", `{"dir": "walk", "frames": 4, "separate": true}`)
	assert.Equal(t, true, body["cached"], "second plan should hit the cache")
}

func TestAPIPlanErrors(t *testing.T) {
	srv, _, _ := newTestAPI(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"escape", `{"dir": "../etc"}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"absolute", `{"dir": "/etc"}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"missing dir", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"unknown field", `{"dir": "walk", "colour": "red"}`, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"too many frames", `{"dir": "walk", "frames": 11}`, http.StatusBadRequest, errors.ErrCodeInvalidSampleCount},
		{"bad camera", `{"dir": "walk", "camera": "behind"}`, http.StatusBadRequest, errors.ErrCodeUnknownCamera},
		{"conflict", `{"dir": "walk", "spacing": 2}`, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"no frames", `{"dir": "nowhere"}`, http.StatusUnprocessableEntity, errors.ErrCodeMeshSourceEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv.URL+"/v1/plan", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, "body: %v", body)
			assert.Equal(t, string(tt.code), body["code"])
		})
	}
}

func TestAPIRuns(t *testing.T) {
	srv, root, store := newTestAPI(t)

	resp, err := http.Get(srv.URL + "/v1/runs")
	require.NoError(t, err)
	var runs []history.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	resp.Body.Close()
	assert.Empty(t, runs)

	rec := history.NewRecord(filepath.Join(root, "walk"))
	rec.Items = 4
	require.NoError(t, store.Save(context.Background(), rec))

	resp, err = http.Get(srv.URL + "/v1/runs?dir=walk&limit=5")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	resp.Body.Close()
	require.Len(t, runs, 1)
	assert.Equal(t, rec.ID, runs[0].ID)

	resp, err = http.Get(fmt.Sprintf("%s/v1/runs/%s", srv.URL, rec.ID))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/runs/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/runs?limit=-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{fmt.Errorf("index: %w", errors.New(errors.ErrCodeMeshSourceEmpty, "x")), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeInvalidSpacing, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeRenderDispatch, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestResolveDirSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "walk"), 0o755))
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "walk"), filepath.Join(root, "alias")))

	api := &apiServer{root: root}

	_, err := api.resolveDir("escape")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath), "got %v", err)

	got, err := api.resolveDir("alias")
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(root, "walk"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = api.resolveDir("missing")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "missing"), got)
}
