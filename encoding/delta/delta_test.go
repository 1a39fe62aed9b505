package delta

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryPackedInt32RoundTrip(t *testing.T) {
	e := &BinaryPackedEncoding{}
	src := []int32{-654807448, 1, 1, 2, 3, 5, 8, 13, -1000, 0, 303403251}
	buf, err := e.EncodeInt32(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeInt32(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestBinaryPackedInt64RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	e := &BinaryPackedEncoding{}
	src := make([]int64, 1000)
	for i := range src {
		src[i] = rng.Int63n(2_000_000_000) - 1_000_000_000
	}
	buf, err := e.EncodeInt64(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeInt64(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestBinaryPackedSingleValue(t *testing.T) {
	e := &BinaryPackedEncoding{}
	src := []int32{42}
	buf, err := e.EncodeInt32(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeInt32(nil, buf)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestLengthByteArrayRoundTrip(t *testing.T) {
	e := &LengthByteArrayEncoding{}
	var src [][]byte
	for i := 0; i < 1000; i++ {
		src = append(src, []byte(apple(i)))
	}
	buf, err := e.EncodeByteArray(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeByteArray(nil, buf)
	require.NoError(t, err)
	require.Len(t, got, len(src))
	assert.Equal(t, "apple_banana_mango0", string(got[0]))
	assert.Equal(t, "apple_banana_mango1", string(got[1]))
	assert.Equal(t, "apple_banana_mango4", string(got[2]))
	assert.Equal(t, "apple_banana_mango998001", string(got[999]))
}

func apple(i int) string {
	n := i * i
	return "apple_banana_mango" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

func TestByteArrayDeltaRoundTrip(t *testing.T) {
	e := &ByteArrayEncoding{}
	src := [][]byte{
		[]byte("hello"),
		[]byte("help"),
		[]byte("helper"),
		[]byte("world"),
		[]byte(""),
		[]byte("worldly"),
	}
	buf, err := e.EncodeByteArray(nil, src)
	require.NoError(t, err)
	got, err := e.DecodeByteArray(nil, buf)
	require.NoError(t, err)
	require.Len(t, got, len(src))
	for i := range src {
		assert.Equal(t, string(src[i]), string(got[i]))
	}
}
