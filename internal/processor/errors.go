package processor

import (
	"errors"
	"fmt"

	"epsdm/internal/eps"
)

var (
	ErrArchiveOpen  = errors.New("archive unreadable")
	ErrEntryRead    = errors.New("entry unreadable")
	ErrUnrecognized = errors.New("code not recognized")
	ErrDecoder      = errors.New("decoder failure")
	ErrOutputWrite  = errors.New("result write failed")
)

// Status strings reported per entry and kept in the decode cache.
const (
	StatusDecoded      = "decoded"
	StatusNoRectangles = "no rectangles"
	StatusParse        = "malformed drawing command"
	StatusDegenerate   = "degenerate geometry"
	StatusUnrecognized = "unrecognized"
	StatusReadError    = "read error"
	StatusDecoderError = "decoder error"
)

// statusOf maps a pipeline error onto its status string.
func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusDecoded
	case errors.Is(err, eps.ErrNoRectangles):
		return StatusNoRectangles
	case errors.Is(err, eps.ErrParse):
		return StatusParse
	case errors.Is(err, eps.ErrDegenerateGeometry):
		return StatusDegenerate
	case errors.Is(err, ErrUnrecognized):
		return StatusUnrecognized
	case errors.Is(err, ErrEntryRead):
		return StatusReadError
	default:
		return StatusDecoderError
	}
}

// Failure records one entry that produced no payload.
type Failure struct {
	Entry  string
	Status string
	Err    error
}

func (f Failure) Message() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Entry, f.Status)
	}
	return fmt.Sprintf("%s: %v", f.Entry, f.Err)
}
