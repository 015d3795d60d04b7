package mesh

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// OBJReader computes bounds from the "v x y z" records of an OBJ file.
// Faces, normals and materials are ignored.
type OBJReader struct {
	// YUp converts from the OBJ Y-up convention to Z-up, matching the
	// renderer's default import axes: (x, y, z) becomes (x, -z, y).
	YUp bool
}

// NewOBJReader returns a reader for Y-up OBJ files.
func NewOBJReader() *OBJReader {
	return &OBJReader{YUp: true}
}

// Bounds implements BoundsReader.
func (r *OBJReader) Bounds(ctx context.Context, path string) (math32.Box3, error) {
	f, err := os.Open(path)
	if err != nil {
		return math32.Box3{}, errors.Wrap(errors.ErrCodeMeshRead, err, "open %s", path)
	}
	defer f.Close()

	b, err := r.Read(ctx, f)
	if err != nil {
		return math32.Box3{}, errors.Wrap(errors.ErrCodeMeshRead, err, "read %s", path)
	}
	return b, nil
}

// Read scans an OBJ stream. A stream without vertices is an error.
func (r *OBJReader) Read(ctx context.Context, rd io.Reader) (math32.Box3, error) {
	box := math32.B3Empty()
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line, count := 0, 0
	for sc.Scan() {
		line++
		if line%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return math32.Box3{}, err
			}
		}
		text := sc.Text()
		if !strings.HasPrefix(text, "v ") && !strings.HasPrefix(text, "v\t") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 4 {
			return math32.Box3{}, errors.New(errors.ErrCodeMeshRead, "line %d: vertex needs 3 coordinates", line)
		}
		var xyz [3]float32
		for i := range xyz {
			v, err := strconv.ParseFloat(fields[i+1], 32)
			if err != nil {
				return math32.Box3{}, errors.Wrap(errors.ErrCodeMeshRead, err, "line %d", line)
			}
			xyz[i] = float32(v)
		}
		p := math32.Vec3(xyz[0], xyz[1], xyz[2])
		if r.YUp {
			p = math32.Vec3(xyz[0], -xyz[2], xyz[1])
		}
		box.ExpandByPoint(p)
		count++
	}
	if err := sc.Err(); err != nil {
		return math32.Box3{}, err
	}
	if count == 0 {
		return math32.Box3{}, errors.New(errors.ErrCodeMeshRead, "no vertices")
	}
	return box, nil
}

var _ BoundsReader = (*OBJReader)(nil)
