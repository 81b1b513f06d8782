package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epsdm/internal/cache"
	"epsdm/internal/eps"
	"epsdm/pkg/imgutil"
)

func newPipeline(dec *gridDecoder) *Pipeline {
	return &Pipeline{Decoder: dec, Cache: cache.New(), Raster: imgutil.DefaultOptions()}
}

func TestPipelineDecodes(t *testing.T) {
	dec := newGridDecoder()
	p := newPipeline(dec)

	e, hit := p.Decode(symbol("11/11"))
	require.NoError(t, e.Err)
	assert.False(t, hit)
	assert.True(t, e.OK)
	assert.Equal(t, "11/11", e.Payload)
	assert.Equal(t, StatusDecoded, e.Status)
}

func TestPipelineFourSquares(t *testing.T) {
	dec := newGridDecoder()
	p := newPipeline(dec)

	e, _ := p.Decode([]byte("10 10 5 5 rf\n15 10 5 5 rf\n10 15 5 5 rf\n15 15 5 5 rf"))
	require.NoError(t, e.Err)
	assert.Equal(t, "11/11", e.Payload)
}

func TestPipelineCacheHitSkipsDecoder(t *testing.T) {
	dec := newGridDecoder()
	p := newPipeline(dec)
	content := symbol("1011/0110/0010/1001")

	first, hit := p.Decode(content)
	require.False(t, hit)
	second, hit := p.Decode(append([]byte(nil), content...))
	require.True(t, hit)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, dec.calls.Load())
}

func TestPipelineFailureOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
		status  string
		err     error
	}{
		{name: "no rectangles", content: []byte("%!PS-Adobe-3.0\nshowpage\n"), status: StatusNoRectangles, err: eps.ErrNoRectangles},
		{name: "malformed", content: []byte("1..2 10 5 5 rf\n"), status: StatusParse, err: eps.ErrParse},
		{name: "degenerate", content: []byte("10 10 0 0 rf\n"), status: StatusDegenerate, err: eps.ErrDegenerateGeometry},
		{name: "invalid utf8", content: []byte("10 10 5 5 rf\n\xff\xfe"), status: StatusReadError, err: ErrEntryRead},
		{name: "unrecognized", content: symbol("011/111/111"), status: StatusUnrecognized, err: ErrUnrecognized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec := newGridDecoder()
			p := newPipeline(dec)

			e, _ := p.Decode(tc.content)
			assert.False(t, e.OK)
			assert.Empty(t, e.Payload)
			assert.Equal(t, tc.status, e.Status)
			require.ErrorIs(t, e.Err, tc.err)

			again, hit := p.Decode(tc.content)
			assert.True(t, hit)
			assert.Equal(t, e, again)
		})
	}
}

func TestPipelineDecoderFaultIsNotCached(t *testing.T) {
	dec := newGridDecoder()
	dec.err = errors.New("decoder fault")
	p := newPipeline(dec)
	content := symbol("11/11")

	e, _ := p.Decode(content)
	require.ErrorIs(t, e.Err, ErrDecoder)
	assert.Equal(t, StatusDecoderError, e.Status)

	_, hit := p.Decode(content)
	assert.False(t, hit)
	assert.EqualValues(t, 2, dec.calls.Load())
}

func TestPipelineWithoutCache(t *testing.T) {
	dec := newGridDecoder()
	p := &Pipeline{Decoder: dec}

	for i := 0; i < 3; i++ {
		e, hit := p.Decode(symbol("11/11"))
		require.NoError(t, e.Err)
		assert.False(t, hit)
	}
	assert.EqualValues(t, 3, dec.calls.Load())
}
