package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parquetcore/parquet-go/format"
)

func TestIndexRoundTrip(t *testing.T) {
	e := &Encoding{}
	src := []int32{0, 1, 1, 1, 1, 1, 1, 1, 1, 2, 0, 3, 3, 3, 3, 3, 3, 3, 3, 3}
	buf, err := e.EncodeInt32(nil, src)
	require.NoError(t, err)
	dst := make([]int32, 0, len(src))
	got, err := e.DecodeInt32(dst, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestIndexRoundTripAllSameValue(t *testing.T) {
	e := &Encoding{}
	src := make([]int32, 40)
	buf, err := e.EncodeInt32(nil, src)
	require.NoError(t, err)
	dst := make([]int32, 0, len(src))
	got, err := e.DecodeInt32(dst, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestEncodingIdentity(t *testing.T) {
	e := &Encoding{}
	assert.Equal(t, "RLE_DICTIONARY", e.String())
	assert.Equal(t, format.RLEDictionary, e.Encoding())

	legacy := &Encoding{Legacy: true}
	assert.Equal(t, "PLAIN_DICTIONARY", legacy.String())
	assert.Equal(t, format.PlainDictionary, legacy.Encoding())
}

func TestDecodeEmptyInput(t *testing.T) {
	e := &Encoding{}
	got, err := e.DecodeInt32(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
