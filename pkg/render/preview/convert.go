package preview

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/matzehuels/posetrail/pkg/camera"
	"github.com/matzehuels/posetrail/pkg/errors"
)

// Format is a rasterized schematic format.
type Format string

// Supported rasterized formats.
const (
	PNG Format = "png"
	PDF Format = "pdf"
)

// fallbackZoom applies to PNGs of scenes without a resolution.
const fallbackZoom = 2.0

// convertArgs builds the rsvg-convert arguments for a schematic. PNGs are
// scaled to the scene's image width so a preview lines up with the final
// render; PDFs keep the vector size.
func convertArgs(format Format, res camera.Resolution) []string {
	args := []string{"-f", string(format)}
	if format != PNG {
		return args
	}
	if res.Width > 0 {
		return append(args, "-w", strconv.Itoa(res.Width), "--keep-aspect-ratio")
	}
	return append(args, "-z", fmt.Sprintf("%.2f", fallbackZoom))
}

// convert turns schematic SVG into format with rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func convert(ctx context.Context, svg []byte, format Format, res camera.Resolution) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeRenderDispatch,
			"%s previews require librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", convertArgs(format, res)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderDispatch, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
