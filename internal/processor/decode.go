package processor

import (
	"fmt"
	"unicode/utf8"

	"epsdm/internal/cache"
	"epsdm/internal/decoder"
	"epsdm/internal/eps"
	"epsdm/pkg/imgutil"
)

// Pipeline turns raw EPS bytes into a payload: parse, reconstruct,
// rasterize and decode, memoized by content hash.
type Pipeline struct {
	Decoder  decoder.Decoder
	Cache    *cache.Store
	Raster   imgutil.Options
	Operator string
}

// Decode returns the outcome for content and whether it came from the
// cache. Decoder faults are returned but never cached.
func (p *Pipeline) Decode(content []byte) (cache.Entry, bool) {
	var key cache.Key
	if p.Cache != nil {
		key = p.Cache.Key(content)
		if e, ok := p.Cache.Get(key); ok {
			return e, true
		}
	}

	payload, err := p.decode(content)
	e := cache.Entry{Payload: payload, OK: err == nil, Status: statusOf(err), Err: err}
	if p.Cache != nil && e.Status != StatusDecoderError {
		p.Cache.Put(key, e)
	}
	return e, false
}

func (p *Pipeline) decode(content []byte) (string, error) {
	ps, err := eps.PostScript(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntryRead, err)
	}
	if !utf8.Valid(ps) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", ErrEntryRead)
	}

	rects, err := eps.Parse(string(ps), p.Operator)
	if err != nil {
		return "", err
	}
	grid, err := eps.Reconstruct(rects)
	if err != nil {
		return "", err
	}

	opts := p.Raster
	if opts == (imgutil.Options{}) {
		opts = imgutil.DefaultOptions()
	}
	img, err := imgutil.Rasterize(grid, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecoder, err)
	}

	candidates, err := p.Decoder.Decode(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecoder, err)
	}
	if len(candidates) == 0 {
		return "", ErrUnrecognized
	}
	return candidates[0], nil
}
