package rle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parquetcore/parquet-go/format"
)

func TestBooleanRoundTripAllTrue(t *testing.T) {
	e := &Encoding{}
	src := make([]bool, 50)
	for i := range src {
		src[i] = true
	}
	buf, err := e.EncodeBoolean(nil, src)
	require.NoError(t, err)
	dst := make([]bool, 0, len(src))
	got, err := e.DecodeBoolean(dst, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestBooleanRoundTripMixed(t *testing.T) {
	e := &Encoding{}
	src := []bool{true, false, true, true, false, false, false, true, true, true, true, true}
	buf, err := e.EncodeBoolean(nil, src)
	require.NoError(t, err)
	dst := make([]bool, 0, len(src))
	got, err := e.DecodeBoolean(dst, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestBooleanDecodeRejectsTruncatedLength(t *testing.T) {
	e := &Encoding{}
	_, err := e.DecodeBoolean(nil, []byte{1, 2})
	assert.Error(t, err)
}

func TestEncodingIdentity(t *testing.T) {
	e := &Encoding{}
	assert.Equal(t, "RLE", e.String())
	assert.True(t, e.CanEncode(format.Boolean))
	assert.False(t, e.CanEncode(format.Int32))
}
