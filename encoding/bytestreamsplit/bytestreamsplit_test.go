package bytestreamsplit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatRoundTrip(t *testing.T) {
	e := &Encoding{}
	src := []float32{1.7640524, -0.97727787, 0.9500884, 0.3700559, -2.5529897}
	buf, err := e.EncodeFloat(nil, src)
	require.NoError(t, err)
	require.Len(t, buf, len(src)*4)
	got, err := e.DecodeFloat(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestDoubleRoundTrip(t *testing.T) {
	e := &Encoding{}
	src := []float64{-1.30652685, 0.91874087, -0.17858909}
	buf, err := e.EncodeDouble(nil, src)
	require.NoError(t, err)
	require.Len(t, buf, len(src)*8)
	got, err := e.DecodeDouble(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestFloatRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := &Encoding{}
	src := make([]float32, 300)
	for i := range src {
		src[i] = rng.Float32()*4 - 2
	}
	buf, err := e.EncodeFloat(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeFloat(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestDoubleRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	e := &Encoding{}
	src := make([]float64, 300)
	for i := range src {
		src[i] = rng.Float64()*4 - 2
	}
	buf, err := e.EncodeDouble(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeDouble(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestPlaneLenRejectsShortInput(t *testing.T) {
	e := &Encoding{}
	_, err := e.DecodeFloat(nil, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEncodingIdentity(t *testing.T) {
	e := &Encoding{}
	assert.Equal(t, "BYTE_STREAM_SPLIT", e.String())
	assert.True(t, e.CanEncode(4))
	assert.False(t, e.CanEncode(1))
}
