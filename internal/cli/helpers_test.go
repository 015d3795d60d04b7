package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

// writeFrames writes n Y-up OBJ frames into dir, creating it.
func writeFrames(t *testing.T, dir string, n int) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= n; i++ {
		x := 0.1 * float64(i)
		obj := fmt.Sprintf("v %g 0.1 -0.15\nv %g 1.8 0.15\n", x-0.25, x+0.25)
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("frame%04d.obj", i)), []byte(obj), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// testCLI returns a CLI that logs nowhere and keeps all state in temp dirs.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return New(io.Discard, log.InfoLevel)
}
