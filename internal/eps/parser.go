// Package eps turns the filled-rectangle drawing commands of an EPS
// document into a DataMatrix module grid.
package eps

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

// DefaultOperator is the fill-rectangle operator emitted by the label
// software that produces these files.
const DefaultOperator = "rf"

var (
	// ErrParse reports a drawing command whose numeric literal is malformed.
	ErrParse = errors.New("malformed drawing command")
	// ErrNoRectangles reports a document without any fill-rectangle command.
	ErrNoRectangles = errors.New("no rectangles")
	// ErrDegenerateGeometry reports a module size that is zero, negative or not finite.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Rect is one "x y w h <op>" primitive in EPS user space.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

var (
	patternMu sync.Mutex
	patterns  = map[string]*regexp.Regexp{}
)

func commandPattern(op string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patterns[op]; ok {
		return re
	}
	num := `([-+]?[0-9.]+)`
	re := regexp.MustCompile(`(?:^|\s)` + num + `\s+` + num + `\s+` + num + `\s+` + num + `\s+` + regexp.QuoteMeta(op) + `\b`)
	patterns[op] = re
	return re
}

// Parse returns every fill-rectangle command in text, in document order.
// A document without matches yields an empty slice and a nil error.
func Parse(text string, op string) ([]Rect, error) {
	if op == "" {
		op = DefaultOperator
	}

	matches := commandPattern(op).FindAllStringSubmatch(text, -1)
	rects := make([]Rect, 0, len(matches))
	for _, m := range matches {
		var vals [4]float64
		for i := range vals {
			v, err := strconv.ParseFloat(m[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrParse, m[i+1])
			}
			vals[i] = v
		}
		rects = append(rects, Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]})
	}
	return rects, nil
}
