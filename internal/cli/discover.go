package cli

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/frames"
)

// sequenceDir is a directory holding at least one frame file.
type sequenceDir struct {
	Path   string
	Rel    string // path relative to the search root
	Frames int
}

// discoverSequences walks root and returns every directory that contains
// frames matching opts, in natural order. Hidden directories are skipped.
func discoverSequences(root string, opts frames.Options) ([]sequenceDir, error) {
	if err := errors.ValidateDirectory(root); err != nil {
		return nil, err
	}
	var out []sequenceDir
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		entries, err := frames.Scan(path, opts)
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		out = append(out, sequenceDir{Path: path, Rel: rel, Frames: len(entries)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeMeshSourceEmpty, "no frame sequences found under %s", root)
	}
	slices.SortFunc(out, func(a, b sequenceDir) int {
		return frames.NaturalCompare(a.Rel, b.Rel)
	})
	return out, nil
}
