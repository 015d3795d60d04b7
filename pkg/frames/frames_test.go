package frames

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/errors"
	"github.com/matzehuels/posetrail/pkg/mesh"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("v 0 0 0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// unitReader returns a unit box lifted by the frame's position in the file
// name so tests can tell frames apart.
func unitReader() mesh.BoundsReader {
	return mesh.BoundsReaderFunc(func(ctx context.Context, path string) (math32.Box3, error) {
		n, _ := frameNumber(filepath.Base(path), DefaultPrefix)
		z := float32(n)
		return math32.B3(0, 0, z, 1, 1, z+1), nil
	})
}

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign
	}{
		{"frame2.obj", "frame10.obj", -1},
		{"frame10.obj", "frame2.obj", 1},
		{"frame002.obj", "frame2.obj", 1},
		{"frame1.obj", "frame1.obj", 0},
		{"a", "b", -1},
		{"frame", "frame1", -1},
		{"frame99999999999999999999", "frame100000000000000000000", -1},
	}

	for _, tt := range tests {
		got := NaturalCompare(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("NaturalCompare(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func TestScanNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "frame10.obj", "frame2.obj", "frame1.OBJ", "frame3.ply", "other4.obj", "frameX.obj", "notes.txt")

	entries, err := Scan(dir, Options{})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	var got []int
	for _, e := range entries {
		got = append(got, e.Number)
	}
	if want := []int{1, 2, 10}; !slices.Equal(got, want) {
		t.Errorf("Scan() numbers = %v, want %v", got, want)
	}
}

func TestScanStartAndMax(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 10; i++ {
		touch(t, dir, fmt.Sprintf("frame%04d.obj", i))
	}

	tests := []struct {
		name       string
		start, max int
		want       []int
	}{
		{"all", 0, 0, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"max", 0, 3, []int{1, 2, 3}},
		{"start", 7, 0, []int{8, 9, 10}},
		{"window", 2, 2, []int{3, 4}},
		{"max beyond end", 8, 5, []int{9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Scan(dir, Options{Start: tt.start, Max: tt.max})
			if err != nil {
				t.Fatalf("Scan() error: %v", err)
			}
			var got []int
			for _, e := range entries {
				got = append(got, e.Number)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	empty := t.TempDir()
	touch(t, empty, "readme.md")

	tests := []struct {
		name string
		dir  string
		opts Options
		code errors.Code
	}{
		{"empty dir", empty, Options{}, errors.ErrCodeMeshSourceEmpty},
		{"missing dir", filepath.Join(empty, "missing"), Options{}, errors.ErrCodeMeshSourceEmpty},
		{"start past end", empty, Options{Start: 5}, errors.ErrCodeMeshSourceEmpty},
		{"blank dir", "  ", Options{}, errors.ErrCodeInvalidPath},
		{"bad ext", empty, Options{Ext: "obj"}, errors.ErrCodeInvalidConfig},
		{"bad prefix", empty, Options{Prefix: "a/b"}, errors.ErrCodeInvalidConfig},
		{"negative max", empty, Options{Max: -1}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(tt.dir, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Scan() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "frame3.obj", "frame1.obj", "frame2.obj")

	seq, err := Load(context.Background(), dir, Options{Workers: 2}, unitReader())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", seq.Len())
	}
	for i := 0; i < seq.Len(); i++ {
		r := seq.At(i)
		if r.Number != i+1 {
			t.Errorf("At(%d).Number = %d, want %d", i, r.Number, i+1)
		}
		if r.Bounds.Min.Z != float32(i+1) {
			t.Errorf("At(%d).Bounds.Min.Z = %v, want %v", i, r.Bounds.Min.Z, i+1)
		}
	}
	b := seq.Bounds()
	if b.Min.Z != 1 || b.Max.Z != 4 {
		t.Errorf("Bounds() = %v, want z in [1, 4]", b)
	}
}

func TestLoadDuplicateNumbers(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "frame1.obj", "frame01.obj")

	_, err := Load(context.Background(), dir, Options{}, unitReader())
	if !errors.Is(err, errors.ErrCodeInvalidSequence) {
		t.Errorf("Load() error = %v, want INVALID_SEQUENCE", err)
	}
}

func TestLoadReaderFailure(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 20; i++ {
		touch(t, dir, fmt.Sprintf("frame%d.obj", i))
	}

	var calls atomic.Int32
	r := mesh.BoundsReaderFunc(func(ctx context.Context, path string) (math32.Box3, error) {
		calls.Add(1)
		if filepath.Base(path) == "frame5.obj" {
			return math32.Box3{}, errors.New(errors.ErrCodeMeshRead, "corrupt %s", path)
		}
		return math32.B3(0, 0, 0, 1, 1, 1), nil
	})

	_, err := Load(context.Background(), dir, Options{Workers: 1}, r)
	if !errors.Is(err, errors.ErrCodeMeshRead) {
		t.Errorf("Load() error = %v, want MESH_READ_FAILED", err)
	}
}

func TestNewSequence(t *testing.T) {
	box := math32.B3(0, 0, 0, 1, 1, 1)

	tests := []struct {
		name    string
		records []Record
		code    errors.Code
	}{
		{"empty", nil, errors.ErrCodeMeshSourceEmpty},
		{"decreasing", []Record{{Number: 2, Bounds: box}, {Number: 1, Bounds: box}}, errors.ErrCodeInvalidSequence},
		{"duplicate", []Record{{Number: 1, Bounds: box}, {Number: 1, Bounds: box}}, errors.ErrCodeInvalidSequence},
		{"empty bounds", []Record{{Number: 1, Bounds: math32.B3Empty()}}, errors.ErrCodeInvalidSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSequence(tt.records)
			if !errors.Is(err, tt.code) {
				t.Errorf("NewSequence() error = %v, want %s", err, tt.code)
			}
		})
	}

	records := []Record{{Number: 1, Bounds: box}, {Number: 5, Bounds: box}}
	seq, err := NewSequence(records)
	if err != nil {
		t.Fatalf("NewSequence() error: %v", err)
	}
	records[0].Number = 99
	if seq.At(0).Number != 1 {
		t.Error("NewSequence() must copy its input")
	}
	picked := seq.Pick([]int{1})
	if len(picked) != 1 || picked[0].Number != 5 {
		t.Errorf("Pick([1]) = %v, want frame 5", picked)
	}
}

func ExampleNaturalCompare() {
	names := []string{"frame10.obj", "frame9.obj", "frame100.obj"}
	slices.SortFunc(names, NaturalCompare)
	fmt.Println(names)
	// Output: [frame9.obj frame10.obj frame100.obj]
}
