// Package imgutil renders module grids into grayscale bitmaps.
package imgutil

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
)

const (
	DefaultPixelSize = 10
	DefaultQuietZone = 4
)

const (
	Dark  uint8 = 0
	Light uint8 = 255
)

// Modules is a read-only view of a module grid; At reports a dark module.
type Modules interface {
	Rows() int
	Cols() int
	At(row, col int) bool
}

// Options controls rasterization. QuietZone is measured in modules.
type Options struct {
	PixelSize int
	QuietZone int
}

// DefaultOptions returns the settings the decoder is tuned for.
func DefaultOptions() Options {
	return Options{PixelSize: DefaultPixelSize, QuietZone: DefaultQuietZone}
}

func (o Options) Validate() error {
	if o.PixelSize < 1 {
		return errors.New("pixel size must be at least 1")
	}
	if o.QuietZone < 0 {
		return errors.New("quiet zone must not be negative")
	}
	return nil
}

// Size returns the raster dimensions for a rows x cols grid.
func (o Options) Size(rows, cols int) (width, height int) {
	width = (cols + 2*o.QuietZone) * o.PixelSize
	height = (rows + 2*o.QuietZone) * o.PixelSize
	return width, height
}

// Rasterize paints every module as a PixelSize square, dark modules black,
// light modules and the quiet zone white.
func Rasterize(m Modules, opts Options) (*image.Gray, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rows, cols := m.Rows(), m.Cols()
	width, height := opts.Size(rows, cols)
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = Light
	}

	ps := opts.PixelSize
	for r := 0; r < rows; r++ {
		y0 := (r + opts.QuietZone) * ps
		for c := 0; c < cols; c++ {
			if !m.At(r, c) {
				continue
			}
			x0 := (c + opts.QuietZone) * ps
			for y := y0; y < y0+ps; y++ {
				row := img.Pix[y*img.Stride+x0 : y*img.Stride+x0+ps]
				for i := range row {
					row[i] = Dark
				}
			}
		}
	}
	return img, nil
}

// ModuleAt samples the center pixel of the module at row, col.
func ModuleAt(img *image.Gray, opts Options, row, col int) bool {
	x := (col+opts.QuietZone)*opts.PixelSize + opts.PixelSize/2
	y := (row+opts.QuietZone)*opts.PixelSize + opts.PixelSize/2
	return img.GrayAt(x, y) == color.Gray{Y: Dark}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
