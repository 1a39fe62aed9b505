// Package bitio implements the little-endian byte cursor and varint codecs
// shared by the level-stream and value-encoding layers.
package bitio

import (
	"encoding/binary"
	"fmt"

	"github.com/parquetcore/parquet-go/internal/perrors"
)

// Cursor is a zero-copy reader over a byte slice, used to walk the
// uncompressed payload of a page (levels, then values) without allocating.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for reading, starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the number of bytes remaining to be read.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Bytes returns the remainder of the cursor's buffer without advancing it.
func (c *Cursor) Bytes() []byte { return c.buf[c.pos:] }

func (c *Cursor) advance(n int) ([]byte, error) {
	if n < 0 || n > c.Len() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", perrors.ErrTruncatedInput, n, c.Len())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Next returns the next n bytes as a zero-copy sub-slice and advances the
// cursor.
func (c *Cursor) Next(n int) ([]byte, error) { return c.advance(n) }

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.advance(n)
	return err
}

// ReadUint8 reads a single byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.advance(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 2-byte little-endian unsigned integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.advance(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a 4-byte little-endian unsigned integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.advance(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads an 8-byte little-endian unsigned integer.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.advance(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt32 reads a 4-byte little-endian signed integer.
func (c *Cursor) ReadInt32() (int32, error) {
	u, err := c.ReadUint32()
	return int32(u), err
}

// ReadInt64 reads an 8-byte little-endian signed integer.
func (c *Cursor) ReadInt64() (int64, error) {
	u, err := c.ReadUint64()
	return int64(u), err
}

// maxVarintBytes bounds unsigned varint decoding: 10 groups of 7 bits cover
// every value up to 64 bits, including the one spare bit of overflow.
const maxVarintBytes = 10

// ReadUvarint reads an unsigned LEB128 varint: each byte carries 7 data bits
// in its low bits, with the high bit set on every byte but the last.
func (c *Cursor) ReadUvarint() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		b, err := c.ReadUint8()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, perrors.ErrVarintOverflow
}

// ReadVarint reads a zigzag-encoded signed varint: the unsigned varint value
// x decodes to (x >> 1) XOR -(x & 1), mapping 0,-1,1,-2,2,... to 0,1,2,3,4,...
func (c *Cursor) ReadVarint() (int64, error) {
	u, err := c.ReadUvarint()
	if err != nil {
		return 0, err
	}
	return ZigZagDecode(u), nil
}

// ZigZagDecode reverses the zigzag mapping used by DELTA_BINARY_PACKED
// headers and block deltas.
func ZigZagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// ZigZagEncode maps a signed integer to the zigzag-coded unsigned form.
func ZigZagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// AppendUvarint appends the unsigned varint encoding of v to dst.
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendVarint appends the zigzag varint encoding of v to dst.
func AppendVarint(dst []byte, v int64) []byte {
	return AppendUvarint(dst, ZigZagEncode(v))
}
