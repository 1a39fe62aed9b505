package bitio

import (
	"testing"

	"github.com/parquetcore/parquet-go/internal/perrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorFixedWidth(t *testing.T) {
	buf := []byte{0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	c := NewCursor(buf)

	u8, err := c.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), u16)

	u32, err := c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), u32)

	_, err = c.ReadUint64()
	require.NoError(t, err)

	assert.Equal(t, 0, c.Len())
	_, err = c.ReadUint8()
	assert.ErrorIs(t, err, perrors.ErrTruncatedInput)
}

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1}
	for _, v := range values {
		buf := AppendUvarint(nil, v)
		c := NewCursor(buf)
		got, err := c.ReadUvarint()
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, 0, c.Len())
	}
}

func TestVarintZigZagRoundTrip(t *testing.T) {
	values := []int64{0, -1, 1, -2, 2, 1000000, -1000000}
	for _, v := range values {
		buf := AppendVarint(nil, v)
		c := NewCursor(buf)
		got, err := c.ReadVarint()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarintOverflow(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0x80
	}
	c := NewCursor(buf)
	_, err := c.ReadUvarint()
	require.Error(t, err)
}
