package plain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooleanRoundTrip(t *testing.T) {
	e := &Encoding{}
	src := []bool{true, false, true, true, false, false, false, true, true}
	buf, err := e.EncodeBoolean(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeBoolean(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got[:len(src)])
}

func TestInt32RoundTrip(t *testing.T) {
	e := &Encoding{}
	src := []int32{0, 1, -1, 2147483647, -2147483648, 42}
	buf, err := e.EncodeInt32(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeInt32(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestByteArrayRoundTrip(t *testing.T) {
	e := &Encoding{}
	src := [][]byte{[]byte("hello"), []byte(""), []byte("world!")}
	buf, err := e.EncodeByteArray(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeByteArray(nil, buf)
	require.NoError(t, err)
	require.Len(t, got, len(src))
	for i := range src {
		assert.Equal(t, src[i], got[i])
	}
}

func TestFixedLenByteArrayRoundTrip(t *testing.T) {
	e := &Encoding{}
	src := [][]byte{[]byte("abcd"), []byte("efgh")}
	buf, err := e.EncodeFixedLenByteArray(nil, src, 4)
	require.NoError(t, err)
	got, err := e.DecodeFixedLenByteArray(nil, buf, 4)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestDoubleRoundTrip(t *testing.T) {
	e := &Encoding{}
	src := []float64{0, 1.5, -1.5, 3.14159265358979}
	buf, err := e.EncodeDouble(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeDouble(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}
