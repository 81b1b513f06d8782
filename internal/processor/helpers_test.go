package processor

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"epsdm/pkg/imgutil"
)

// gridDecoder reads the module grid back out of the raster and returns it
// as text. Symbols whose top-left module is light count as unrecognized.
type gridDecoder struct {
	opts  imgutil.Options
	calls atomic.Int64
	err   error
}

func newGridDecoder() *gridDecoder {
	return &gridDecoder{opts: imgutil.DefaultOptions()}
}

func (d *gridDecoder) Decode(img image.Image) ([]string, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}

	gray := img.(*image.Gray)
	cols := gray.Bounds().Dx()/d.opts.PixelSize - 2*d.opts.QuietZone
	rows := gray.Bounds().Dy()/d.opts.PixelSize - 2*d.opts.QuietZone
	if !imgutil.ModuleAt(gray, d.opts, 0, 0) {
		return nil, nil
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('/')
		}
		for c := 0; c < cols; c++ {
			if imgutil.ModuleAt(gray, d.opts, r, c) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	return []string{b.String()}, nil
}

// symbol builds EPS text for a grid given as rows of '1'/'0' joined by '/',
// the same notation gridDecoder returns.
func symbol(pattern string) []byte {
	rows := strings.Split(pattern, "/")
	var b strings.Builder
	b.WriteString("%!PS-Adobe-3.0 EPSF-3.0\n%%BoundingBox: 0 0 200 200\n")
	for r, row := range rows {
		for c, ch := range row {
			if ch != '1' {
				continue
			}
			x := 10 + float64(c)*2.5
			y := 10 + float64(len(rows)-1-r)*2.5
			fmt.Fprintf(&b, "%.2f %.2f 2.5 2.5 rf\n", x, y)
		}
	}
	b.WriteString("showpage\n%%EOF\n")
	return []byte(b.String())
}

// distinctSymbols returns n different 4x4 patterns with a dark top-left
// corner and full bounding box.
func distinctSymbols(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		bits := fmt.Sprintf("%08b", i)
		out = append(out, "1"+bits[0:2]+"1/0"+bits[2:5]+"/0"+bits[5:8]+"/1001")
	}
	return out
}

type zipEntry struct {
	name string
	data []byte
}

func writeZip(t *testing.T, path string, entries ...zipEntry) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if e.data != nil {
			_, err = w.Write(e.data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(data) == 0 {
		return nil
	}
	require.True(t, strings.HasSuffix(string(data), "\n"), "artifact must be newline-terminated")
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func testOptions(in, out string) Options {
	return Options{
		InputPath:  in,
		OutputDir:  out,
		Workers:    4,
		ClearEvery: DefaultClearEvery,
		Raster:     imgutil.DefaultOptions(),
	}
}

func dirs(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "In")
	require.NoError(t, os.MkdirAll(in, 0o755))
	return in, filepath.Join(root, "Out")
}
