package levels

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllZeros(t *testing.T) {
	values := make([]int32, 13)
	buf := Encode(nil, values, 0)
	got, n, err := Decode(buf, 0, len(values))
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, values, got)
}

func TestRoundTripRLERun(t *testing.T) {
	values := make([]int32, 100)
	for i := range values {
		values[i] = 1
	}
	buf := Encode(nil, values, 1)
	got, _, err := Decode(buf, 1, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestRoundTripBitPackedOnly(t *testing.T) {
	values := []int32{0, 1, 2, 3, 0, 1, 2, 3, 0, 1}
	buf := Encode(nil, values, 2)
	got, _, err := Decode(buf, 2, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestRoundTripMixedRuns(t *testing.T) {
	var values []int32
	for i := 0; i < 20; i++ {
		values = append(values, 1)
	}
	for i := 0; i < 5; i++ {
		values = append(values, int32(i%3))
	}
	for i := 0; i < 40; i++ {
		values = append(values, 2)
	}
	buf := Encode(nil, values, 2)
	got, _, err := Decode(buf, 2, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestRoundTripRandomAtEveryBitWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for bitWidth := 0; bitWidth <= 32; bitWidth++ {
		max := int64(1)<<uint(bitWidth) - 1
		if bitWidth == 0 {
			max = 0
		}
		n := 50 + rng.Intn(50)
		values := make([]int32, n)
		for i := range values {
			if max == 0 {
				values[i] = 0
			} else {
				values[i] = int32(rng.Int63n(max + 1))
			}
		}
		buf := Encode(nil, values, bitWidth)
		got, _, err := Decode(buf, bitWidth, n)
		require.NoErrorf(t, err, "bitWidth=%d", bitWidth)
		assert.Equalf(t, values, got, "bitWidth=%d", bitWidth)
	}
}

func TestEmptyStream(t *testing.T) {
	got, n, err := Decode(nil, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, got)
}
