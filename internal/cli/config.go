package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/pipeline"
	"github.com/matzehuels/posetrail/pkg/render/blender"
)

// configFile is the config file name under the config dir.
const configFile = "config.toml"

// History backends.
const (
	HistorySQLite = "sqlite"
	HistoryMongo  = "mongo"
	HistoryNone   = "none"
)

// Config is the TOML config file. Every field is optional; flags given on
// the command line win over file values.
//
//	[defaults]
//	frames = 6
//	camera = "front"
//	resolution = "1280x720"
//
//	[blender]
//	binary = "/Applications/Blender.app/Contents/MacOS/Blender"
//	timeout = "20m"
//
//	[history]
//	backend = "mongo"
//	mongo_uri = "mongodb://render-farm:27017"
type Config struct {
	Defaults PlanDefaults  `toml:"defaults"`
	Blender  BlenderConfig `toml:"blender"`
	Cache    CacheConfig   `toml:"cache"`
	History  HistoryConfig `toml:"history"`
	Serve    ServeConfig   `toml:"serve"`
}

// PlanDefaults mirror the planning flags.
type PlanDefaults struct {
	Prefix     string  `toml:"prefix"`
	Ext        string  `toml:"ext"`
	Frames     int     `toml:"frames"`
	Separate   bool    `toml:"separate"`
	Spacing    float32 `toml:"spacing"`
	Axis       string  `toml:"axis"`
	Camera     string  `toml:"camera"`
	Floor      string  `toml:"floor"`
	StartColor string  `toml:"start_color"`
	EndColor   string  `toml:"end_color"`
	BodyColor  string  `toml:"body_color"`
	Resolution string  `toml:"resolution"`
	FPS        int     `toml:"fps"`
	Lens       float32 `toml:"lens"`
}

type BlenderConfig struct {
	Binary  string        `toml:"binary"`
	Timeout time.Duration `toml:"timeout"`
}

type CacheConfig struct {
	Redis string `toml:"redis"`
	// Namespace prefixes every cache key, keeping hosts that share one
	// Redis apart.
	Namespace string `toml:"namespace"`
}

type HistoryConfig struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Blender: BlenderConfig{Binary: blender.DefaultBinary, Timeout: blender.DefaultTimeout},
		History: HistoryConfig{Backend: HistorySQLite},
		Serve:   ServeConfig{Addr: defaultAddr},
	}
}

// ReadConfig decodes a TOML config file on top of the defaults.
func ReadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be checked by the pipeline itself.
func (c *Config) Validate() error {
	switch c.History.Backend {
	case HistorySQLite, HistoryNone:
	case HistoryMongo:
		if c.History.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "history backend mongo requires mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid history backend: %q (must be sqlite, mongo or none)", c.History.Backend)
	}
	if c.Blender.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "blender timeout cannot be negative")
	}
	if c.Defaults.Resolution != "" {
		if _, _, err := parseResolution(c.Defaults.Resolution); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig reads the config file named by --config, or the XDG default
// if it exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	cfg, err := ReadConfig(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.config = cfg
	return nil
}

// apply copies file defaults into opts for every flag the user did not set.
func (d PlanDefaults) apply(opts *pipeline.Options, resolution *string, changed func(string) bool) {
	setString := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setString("prefix", &opts.Prefix, d.Prefix)
	setString("ext", &opts.Ext, d.Ext)
	setString("axis", &opts.Axis, d.Axis)
	setString("camera", &opts.Camera, d.Camera)
	setString("floor", &opts.Floor, d.Floor)
	setString("start-color", &opts.StartColor, d.StartColor)
	setString("end-color", &opts.EndColor, d.EndColor)
	setString("body-color", &opts.BodyColor, d.BodyColor)
	setString("resolution", resolution, d.Resolution)

	// Composite-only defaults would conflict with --animation.
	if !opts.Animation {
		if d.Frames != 0 && !changed("frames") {
			opts.Frames = d.Frames
		}
		if d.Separate && !changed("separate") {
			opts.Separate = true
		}
		if d.Spacing != 0 && opts.Separate && !changed("spacing") {
			opts.Spacing = d.Spacing
		}
	}
	if d.FPS != 0 && !changed("fps") {
		opts.FPS = d.FPS
	}
	if d.Lens != 0 && !changed("lens") {
		opts.Lens = d.Lens
	}
}
