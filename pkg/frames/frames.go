// Package frames indexes a directory of per-frame mesh files.
//
// A motion sequence on disk is a flat directory of files named
// <prefix><number><ext>, for example frame0001.obj ... frame0240.obj.
// [Scan] lists matching files in natural order (frame2 before frame10) and
// [Load] attaches each file's bounding box, producing an immutable [Sequence].
//
// Frame numbers are the digits following the prefix and must be strictly
// increasing in natural order; two files with the same number (frame1.obj and
// frame01.obj) are rejected.
package frames

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/mesh"
)

// Defaults for [Options].
const (
	DefaultPrefix = "frame"
	DefaultExt    = ".obj"
)

// Options bounds and filters the index.
type Options struct {
	// Prefix every frame file name starts with. Empty means DefaultPrefix.
	Prefix string
	// Ext is the mesh file extension including the dot. Matching ignores case.
	Ext string
	// Start skips the first Start files in natural order.
	Start int
	// Max keeps at most Max files after Start. Zero keeps all.
	Max int
	// Workers bounds concurrent bounds reads. Zero uses GOMAXPROCS.
	Workers int
}

// SetDefaults fills empty fields.
func (o *Options) SetDefaults() {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Ext == "" {
		o.Ext = DefaultExt
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks the options.
func (o *Options) Validate() error {
	if err := errors.ValidateFilePrefix(o.Prefix); err != nil {
		return err
	}
	if err := errors.ValidateExtension(o.Ext); err != nil {
		return err
	}
	if o.Start < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "start frame cannot be negative, got %d", o.Start)
	}
	if o.Max < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max frames cannot be negative, got %d", o.Max)
	}
	return nil
}

// Entry is a frame file found by [Scan].
type Entry struct {
	Number int    `json:"number"`
	Path   string `json:"path"`
}

// Record is one indexed frame.
type Record struct {
	Number int         `json:"number" yaml:"number"`
	Path   string      `json:"path" yaml:"path"`
	Bounds math32.Box3 `json:"bounds" yaml:"bounds"`
}

// Scan lists the frame files of dir in natural order, bounded by opts.Start
// and opts.Max. Files that do not match the prefix and extension, or lack a
// frame number, are ignored. An unreadable or frameless directory fails with
// MESH_SOURCE_EMPTY.
func Scan(dir string, opts Options) ([]Entry, error) {
	opts.SetDefaults()
	if err := errors.ValidateDirectory(dir); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeshSourceEmpty, err, "read mesh directory %s", dir)
	}

	var names []string
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		name := d.Name()
		if strings.HasPrefix(name, opts.Prefix) && strings.EqualFold(filepath.Ext(name), opts.Ext) {
			names = append(names, name)
		}
	}
	slices.SortFunc(names, NaturalCompare)

	var entries []Entry
	for _, name := range names {
		n, ok := frameNumber(name, opts.Prefix)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Number: n, Path: filepath.Join(dir, name)})
	}

	if opts.Start > 0 {
		entries = entries[min(opts.Start, len(entries)):]
	}
	if opts.Max > 0 && len(entries) > opts.Max {
		entries = entries[:opts.Max]
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeMeshSourceEmpty,
			"no %s*%s frames in %s", opts.Prefix, opts.Ext, dir)
	}
	return entries, nil
}

// Load scans dir and reads every frame's bounds through r. Reads run
// concurrently up to opts.Workers; the first failure cancels the rest.
func Load(ctx context.Context, dir string, opts Options, r mesh.BoundsReader) (*Sequence, error) {
	opts.SetDefaults()
	entries, err := Scan(dir, opts)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, e := range entries {
		g.Go(func() error {
			b, err := r.Bounds(gctx, e.Path)
			if err != nil {
				return err
			}
			records[i] = Record{Number: e.Number, Path: e.Path, Bounds: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewSequence(records)
}

// frameNumber parses the digits immediately after prefix.
func frameNumber(name, prefix string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	rest := strings.TrimPrefix(stem, prefix)
	rest = strings.TrimLeft(rest, "_-.")
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
