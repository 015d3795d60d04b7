// Package cli implements the posetrail command-line interface.
//
// The CLI wraps [pipeline.Runner] with cobra commands for planning scenes,
// rendering them through Blender (or a Graphviz preview), batch rendering
// whole datasets, serving the planner over HTTP and browsing the run
// history.
//
// # Commands
//
//   - plan: Index a frame directory and print or export the composed scene
//   - render: Plan and render a sequence (blender, preview or json engine)
//   - batch: Render every sequence directory under a root in parallel
//   - preview: Draw a 2D schematic of the planned scene
//   - serve: Expose planning over HTTP
//   - history: List and inspect past runs
//   - cache: Manage the local bounds and scene cache
//
// # Configuration
//
// Flags override values from the TOML config file, which overrides built-in
// defaults. See [Config].
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posetrail/pkg/cache"
	"github.com/matzehuels/posetrail/pkg/history"
	"github.com/matzehuels/posetrail/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "posetrail"

	// historyFile is the SQLite history database name under the data dir.
	historyFile = "history.db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config. Empty uses the XDG location.
	configPath string
	// config is loaded before any command runs.
	config *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A non-empty redisURL
// selects a shared Redis cache instead of the local file cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool, redisURL string) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache, redisURL, localFileCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.newKeyer(), c.Logger), nil
}

// newCache picks the cache backend: none, Redis from the flag or config, or
// the local fallback.
func (c *CLI) newCache(ctx context.Context, noCache bool, redisURL string, local func() (cache.Cache, error)) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL == "" {
		redisURL = c.config.Cache.Redis
	}
	if redisURL != "" {
		c.Logger.Debug("using redis cache", "url", redisURL)
		return cache.NewRedisCache(ctx, redisURL, appName+":")
	}
	return local()
}

// newKeyer scopes cache keys by the configured namespace.
func (c *CLI) newKeyer() cache.Keyer {
	if ns := c.config.Cache.Namespace; ns != "" {
		return cache.NewScopedKeyer(cache.NewDefaultKeyer(), ns+":")
	}
	return cache.NewDefaultKeyer()
}

// localFileCache is the CLI fallback. An unknown home directory disables
// caching instead of failing the command.
func localFileCache() (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// memoryCache is the serve fallback: a long-running server keeps its cache
// in process instead of writing to the user's cache directory.
func memoryCache() (cache.Cache, error) {
	return cache.NewMemoryCache(), nil
}

// openHistory opens the configured history backend. Failures degrade to a
// NullStore with a warning so a broken history never blocks a render.
func (c *CLI) openHistory(ctx context.Context, disabled bool) history.Store {
	if disabled {
		return history.NewNullStore()
	}
	store, err := c.openHistoryStrict(ctx)
	if err != nil {
		c.Logger.Warn("history disabled", "err", err)
		return history.NewNullStore()
	}
	return store
}

func (c *CLI) openHistoryStrict(ctx context.Context) (history.Store, error) {
	h := c.config.History
	switch h.Backend {
	case HistoryNone:
		return history.NewNullStore(), nil
	case HistoryMongo:
		return history.OpenMongo(ctx, h.MongoURI, h.MongoDatabase)
	default:
		path := h.Path
		if path == "" {
			dir, err := dataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, historyFile)
		}
		return history.OpenSQLite(path)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/posetrail/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// dataDir returns the data directory using XDG standard (~/.local/share/posetrail/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// configDir returns the config directory using XDG standard (~/.config/posetrail/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
