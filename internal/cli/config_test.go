package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/posetrail/pkg/cache"
	"github.com/matzehuels/posetrail/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, `
[defaults]
frames = 6
camera = "front"
resolution = "1280x720"

[blender]
binary = "/opt/blender/blender"
timeout = "20m"

[history]
backend = "none"
`)
	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Defaults.Frames)
	assert.Equal(t, "front", cfg.Defaults.Camera)
	assert.Equal(t, "/opt/blender/blender", cfg.Blender.Binary)
	assert.Equal(t, 20*time.Minute, cfg.Blender.Timeout)
	assert.Equal(t, HistoryNone, cfg.History.Backend)
	assert.Equal(t, defaultAddr, cfg.Serve.Addr, "unset sections keep defaults")
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `[defaults`},
		{"unknown key", "[defaults]\nframez = 3\n"},
		{"bad backend", "[history]\nbackend = \"postgres\"\n"},
		{"mongo without uri", "[history]\nbackend = \"mongo\"\n"},
		{"bad resolution", "[defaults]\nresolution = \"wide\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ReadConfig() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadConfigMissingDefaultIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(io.Discard, log.InfoLevel)
	require.NoError(t, c.loadConfig())
	assert.Equal(t, HistorySQLite, c.config.History.Backend)
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")
	assert.Error(t, c.loadConfig())
}

func TestPlanDefaultsFlagsWin(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.config.Defaults = PlanDefaults{
		Frames:     6,
		Camera:     "front",
		Floor:      "zero",
		Resolution: "1280x720",
		FPS:        24,
	}

	var f planFlags
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	addPlanFlags(cmd, &f)
	require.NoError(t, cmd.ParseFlags([]string{"--camera", "up", "--fps", "60"}))

	opts, err := c.pipelineOptions(cmd, &f, "walk")
	require.NoError(t, err)
	assert.Equal(t, "walk", opts.Dir)
	assert.Equal(t, 6, opts.Frames, "file value applies")
	assert.Equal(t, "up", opts.Camera, "flag wins")
	assert.Equal(t, "zero", opts.Floor)
	assert.Equal(t, 60, opts.FPS, "flag wins")
	assert.Equal(t, 1280, opts.Width)
	assert.Equal(t, 720, opts.Height)
}

func TestPlanDefaultsSkipCompositeOptionsForAnimation(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.config.Defaults = PlanDefaults{Frames: 6, Separate: true, Spacing: 2}

	var f planFlags
	cmd := &cobra.Command{Use: "test"}
	addPlanFlags(cmd, &f)
	require.NoError(t, cmd.ParseFlags([]string{"--animation"}))

	opts, err := c.pipelineOptions(cmd, &f, "walk")
	require.NoError(t, err)
	assert.Zero(t, opts.Frames)
	assert.False(t, opts.Separate)
	assert.Zero(t, opts.Spacing)
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"1920x1080", 1920, 1080, false},
		{"640X480", 640, 480, false},
		{" 800x600 ", 800, 600, false},
		{"1920", 0, 0, true},
		{"ax100", 0, 0, true},
		{"0x100", 0, 0, true},
		{"-5x100", 0, 0, true},
		{"99999x10", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseResolution(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseResolution(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parseResolution(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestNewKeyerNamespace(t *testing.T) {
	c := testCLI(t)
	plain := c.newKeyer().SceneKey("abc", cache.SceneKeyOpts{})

	c.config.Cache.Namespace = "farm-a"
	scoped := c.newKeyer().SceneKey("abc", cache.SceneKeyOpts{})
	assert.Equal(t, "farm-a:"+plain, scoped)
}

func TestNewCacheFallback(t *testing.T) {
	c := testCLI(t)
	ctx := context.Background()

	store, err := c.newCache(ctx, true, "", memoryCache)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, store)

	store, err = c.newCache(ctx, false, "", memoryCache)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, store)

	store, err = c.newCache(ctx, false, "", localFileCache)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, store)
}
