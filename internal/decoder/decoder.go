// Package decoder adapts symbol decoders to the batch pipeline.
package decoder

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
)

// Decoder returns the candidate payloads found in img. No candidates means
// the symbol was not recognized; the error is reserved for decoder faults.
type Decoder interface {
	Decode(img image.Image) ([]string, error)
}

// Func adapts a plain function to Decoder.
type Func func(img image.Image) ([]string, error)

func (f Func) Decode(img image.Image) ([]string, error) { return f(img) }

// DataMatrix decodes DataMatrix symbols with gozxing. It first treats the
// image as a pure barcode, which matches what the rasterizer produces, and
// falls back to the finder-pattern detector.
type DataMatrix struct{}

func NewDataMatrix() *DataMatrix { return &DataMatrix{} }

var passes = []map[gozxing.DecodeHintType]interface{}{
	{gozxing.DecodeHintType_PURE_BARCODE: true},
	{gozxing.DecodeHintType_TRY_HARDER: true},
}

func (d *DataMatrix) Decode(img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}

	for _, hints := range passes {
		// Readers are not shared between goroutines.
		result, err := datamatrix.NewDataMatrixReader().Decode(bmp, hints)
		if err != nil {
			if _, ok := err.(gozxing.ReaderException); ok {
				continue
			}
			return nil, err
		}
		return []string{result.GetText()}, nil
	}
	return nil, nil
}
