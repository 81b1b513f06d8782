package eps

import (
	"fmt"
	"math"
	"strings"
)

// MaxSide bounds the reconstructed grid. The largest DataMatrix symbol is
// 144 modules wide, so anything far beyond it comes from stray geometry.
const MaxSide = 1024

// Grid is a rows x cols matrix of DataMatrix modules, addressed top-down.
type Grid struct {
	rows  int
	cols  int
	cells []uint8
}

// NewGrid allocates an all-light grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, cells: make([]uint8, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// At reports whether the module at row, col is dark.
func (g *Grid) At(row, col int) bool {
	return g.cells[row*g.cols+col] == 1
}

func (g *Grid) Set(row, col int, dark bool) {
	var v uint8
	if dark {
		v = 1
	}
	g.cells[row*g.cols+col] = v
}

// Dark counts dark modules.
func (g *Grid) Dark() int {
	n := 0
	for _, c := range g.cells {
		n += int(c)
	}
	return n
}

// String renders the grid with '#' for dark and '.' for light modules.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.At(r, c) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Reconstruct maps rectangles onto a module grid. The module size is the
// mean rectangle width and the grid spans the bounding box of rectangle
// origins. EPS y grows upward, so rows are counted down from y_max.
//
// Indices that round outside the grid are dropped rather than reported.
func Reconstruct(rects []Rect) (*Grid, error) {
	if len(rects) == 0 {
		return nil, ErrNoRectangles
	}

	var sum float64
	xMin, xMax := rects[0].X, rects[0].X
	yMin, yMax := rects[0].Y, rects[0].Y
	for _, r := range rects {
		sum += r.W
		xMin = math.Min(xMin, r.X)
		xMax = math.Max(xMax, r.X)
		yMin = math.Min(yMin, r.Y)
		yMax = math.Max(yMax, r.Y)
	}

	size := sum / float64(len(rects))
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("%w: module size %v", ErrDegenerateGeometry, size)
	}

	spanX := math.RoundToEven((xMax - xMin) / size)
	spanY := math.RoundToEven((yMax - yMin) / size)
	if spanX >= MaxSide || spanY >= MaxSide {
		return nil, fmt.Errorf("%w: %.0fx%.0f grid", ErrDegenerateGeometry, spanY+1, spanX+1)
	}
	cols := int(spanX) + 1
	rows := int(spanY) + 1

	grid := NewGrid(rows, cols)
	for _, r := range rects {
		col := int(math.RoundToEven((r.X - xMin) / size))
		row := int(math.RoundToEven((yMax - r.Y) / size))
		if row < 0 || row >= rows || col < 0 || col >= cols {
			continue
		}
		grid.Set(row, col, true)
	}
	return grid, nil
}
