package eps

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Kind identifies an EPS container flavour.
type Kind int

const (
	KindUnknown Kind = iota
	KindPostScript
	KindDOSBinary
)

func (k Kind) String() string {
	switch k {
	case KindPostScript:
		return "postscript"
	case KindDOSBinary:
		return "dos-eps"
	default:
		return "unknown"
	}
}

var (
	psSig  = []byte("%!PS")
	dosSig = []byte{0xc5, 0xd0, 0xd3, 0xc6}
)

// DetectHeader inspects the leading bytes of an EPS file.
func DetectHeader(header []byte) Kind {
	if bytes.HasPrefix(header, dosSig) {
		return KindDOSBinary
	}
	if bytes.HasPrefix(bytes.TrimPrefix(header, []byte{0xef, 0xbb, 0xbf}), psSig) {
		return KindPostScript
	}
	return KindUnknown
}

// PostScript returns the PostScript section of content. DOS EPS files wrap
// it in a binary header followed by a preview image; everything else is
// returned unchanged.
func PostScript(content []byte) ([]byte, error) {
	if DetectHeader(content) != KindDOSBinary {
		return content, nil
	}
	if len(content) < 12 {
		return nil, errors.New("dos eps header too short")
	}

	offset := binary.LittleEndian.Uint32(content[4:8])
	length := binary.LittleEndian.Uint32(content[8:12])
	end := uint64(offset) + uint64(length)
	if end > uint64(len(content)) || offset < 12 {
		return nil, errors.New("dos eps section out of range")
	}
	return content[offset:end], nil
}
