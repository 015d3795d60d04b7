// Package blender renders scenes with Blender running in background mode.
//
// The renderer writes the scene JSON next to the requested output and
// invokes
//
//	blender --background --python <driver> -- --scene <json> --output <path> --mode <mode>
//
// The bundled driver script (see [DriverScript]) imports each frame mesh,
// applies its placement and color, adds the ground plane and camera, and
// renders either a still image (plus a .blend file for touch-ups) or an
// MP4 animation.
package blender

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/render"
	"github.com/matzehuels/posetrail/pkg/scene"
)

// DriverScript is the bundled Blender Python driver.
//
//go:embed driver.py
var DriverScript []byte

// Defaults for [Options].
const (
	DefaultBinary  = "blender"
	DefaultTimeout = 40 * time.Minute
)

// stderrTail bounds how much engine output ends up in an error message.
const stderrTail = 2048

// CommandFunc builds the engine process. It matches exec.CommandContext.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Options configures a [Renderer].
type Options struct {
	// Binary is the Blender executable name or path.
	Binary string
	// Driver is a driver script path. Empty uses [DriverScript].
	Driver string
	// Timeout bounds one render. Zero uses DefaultTimeout.
	Timeout time.Duration
	// Logger receives debug output. Nil discards.
	Logger *log.Logger
	// Command overrides process creation.
	Command CommandFunc
}

// Renderer dispatches scenes to Blender.
type Renderer struct {
	opts Options
}

// New returns a Renderer with defaults applied.
func New(opts Options) *Renderer {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Command == nil {
		opts.Command = exec.CommandContext
	}
	return &Renderer{opts: opts}
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return "blender" }

// Render implements render.Renderer. Engine failures, including timeouts,
// are reported as RENDER_DISPATCH_FAILED wrapping the process error.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene, target render.Target) (*render.Output, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	bin, err := exec.LookPath(r.opts.Binary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err,
			"rendering requires Blender. Install it from https://www.blender.org/download/ or pass --blender <path>")
	}

	out, err := filepath.Abs(render.NormalizeOutput(target.Path, s.Mode))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRenderTarget, err, "resolve %s", target.Path)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "create output directory")
	}

	scenePath := render.ScenePathFor(out)
	if err := scene.WriteFile(scenePath, s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "write scene %s", scenePath)
	}

	driver, cleanup, err := r.driverPath()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	parent := ctx
	ctx, cancel := context.WithTimeoutCause(ctx, r.opts.Timeout, errRenderTimeout)
	defer cancel()

	args := []string{
		"--background",
		"--python", driver,
		"--",
		"--scene", scenePath,
		"--output", out,
		"--mode", string(s.Mode),
	}
	r.opts.Logger.Debug("dispatching render", "binary", bin, "mode", s.Mode, "items", s.Len(), "output", out)

	cmd := r.opts.Command(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	if runErr != nil {
		if cause := context.Cause(ctx); cause == errRenderTimeout {
			return nil, errors.Wrap(errors.ErrCodeRenderDispatch, cause,
				"blender timed out after %s", r.opts.Timeout)
		} else if parent.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderDispatch, cause, "render %s stopped", out)
		}
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch,
			fmt.Errorf("blender: %v: %s", runErr, tail(stderr.String(), stderrTail)),
			"render %s", out)
	}
	r.opts.Logger.Debug("render finished", "elapsed", elapsed, "stdout_bytes", stdout.Len())

	files := []string{out}
	if s.Mode == scene.Composite {
		files = append(files, strings.TrimSuffix(out, filepath.Ext(out))+".blend")
	}
	if _, err := os.Stat(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err,
			"blender exited cleanly but did not write %s", out)
	}
	return &render.Output{
		Path:      out,
		Files:     append(files, scenePath),
		ScenePath: scenePath,
		Elapsed:   elapsed,
	}, nil
}

// errRenderTimeout is the cancellation cause of a render that outlived
// Options.Timeout.
var errRenderTimeout = fmt.Errorf("render timeout")

// driverPath returns the script to pass to --python, writing the bundled
// driver to a temporary file when no path is configured.
func (r *Renderer) driverPath() (string, func(), error) {
	if r.opts.Driver != "" {
		if _, err := os.Stat(r.opts.Driver); err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "driver script %s", r.opts.Driver)
		}
		return r.opts.Driver, func() {}, nil
	}
	dir := filepath.Join(os.TempDir(), "posetrail-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "create driver directory")
	}
	path := filepath.Join(dir, "posetrail_driver.py")
	if err := os.WriteFile(path, DriverScript, 0o644); err != nil {
		os.RemoveAll(dir)
		return "", nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "write driver script")
	}
	return path, func() { os.RemoveAll(dir) }, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

var _ render.Renderer = (*Renderer)(nil)
