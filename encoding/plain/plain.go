// Package plain implements the PLAIN parquet encoding.
package plain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/format"
)

// ByteArrayLengthSize is the width, in bytes, of a BYTE_ARRAY value's
// length prefix.
const ByteArrayLengthSize = 4

// Encoding implements the PLAIN encoding for every physical type.
type Encoding struct{}

func (e *Encoding) String() string { return "PLAIN" }

func (e *Encoding) Encoding() format.Encoding { return format.Plain }

func (e *Encoding) CanEncode(format.Type) bool { return true }

func (e *Encoding) EncodeBoolean(dst []byte, src []bool) ([]byte, error) {
	dst = dst[:0]
	n := (len(src) + 7) / 8
	dst = growBytes(dst, n)
	for i, v := range src {
		if v {
			dst[i/8] |= 1 << uint(i%8)
		}
	}
	return dst, nil
}

func (e *Encoding) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	dst = growBytes(dst[:0], 4*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], uint32(v))
	}
	return dst, nil
}

func (e *Encoding) EncodeInt64(dst []byte, src []int64) ([]byte, error) {
	dst = growBytes(dst[:0], 8*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[8*i:], uint64(v))
	}
	return dst, nil
}

func (e *Encoding) EncodeInt96(dst []byte, src []encoding.Int96) ([]byte, error) {
	dst = growBytes(dst[:0], 12*len(src))
	for i, v := range src {
		copy(dst[12*i:], v[:])
	}
	return dst, nil
}

func (e *Encoding) EncodeFloat(dst []byte, src []float32) ([]byte, error) {
	dst = growBytes(dst[:0], 4*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
	return dst, nil
}

func (e *Encoding) EncodeDouble(dst []byte, src []float64) ([]byte, error) {
	dst = growBytes(dst[:0], 8*len(src))
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[8*i:], math.Float64bits(v))
	}
	return dst, nil
}

func (e *Encoding) EncodeByteArray(dst []byte, src [][]byte) ([]byte, error) {
	dst = dst[:0]
	for _, v := range src {
		var length [4]byte
		binary.LittleEndian.PutUint32(length[:], uint32(len(v)))
		dst = append(dst, length[:]...)
		dst = append(dst, v...)
	}
	return dst, nil
}

func (e *Encoding) EncodeFixedLenByteArray(dst []byte, src [][]byte, size int) ([]byte, error) {
	dst = dst[:0]
	for _, v := range src {
		if len(v) != size {
			return dst, fmt.Errorf("plain: FIXED_LEN_BYTE_ARRAY value has length %d, want %d", len(v), size)
		}
		dst = append(dst, v...)
	}
	return dst, nil
}

func (e *Encoding) DecodeBoolean(dst []bool, src []byte) ([]bool, error) {
	dst = dst[:0]
	for i := 0; i < len(src)*8; i++ {
		dst = append(dst, src[i/8]&(1<<uint(i%8)) != 0)
	}
	return dst, nil
}

func (e *Encoding) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	if len(src)%4 != 0 {
		return dst, fmt.Errorf("plain: INT32 input length %d is not a multiple of 4", len(src))
	}
	dst = dst[:0]
	for i := 0; i+4 <= len(src); i += 4 {
		dst = append(dst, int32(binary.LittleEndian.Uint32(src[i:])))
	}
	return dst, nil
}

func (e *Encoding) DecodeInt64(dst []int64, src []byte) ([]int64, error) {
	if len(src)%8 != 0 {
		return dst, fmt.Errorf("plain: INT64 input length %d is not a multiple of 8", len(src))
	}
	dst = dst[:0]
	for i := 0; i+8 <= len(src); i += 8 {
		dst = append(dst, int64(binary.LittleEndian.Uint64(src[i:])))
	}
	return dst, nil
}

func (e *Encoding) DecodeInt96(dst []encoding.Int96, src []byte) ([]encoding.Int96, error) {
	if len(src)%12 != 0 {
		return dst, fmt.Errorf("plain: INT96 input length %d is not a multiple of 12", len(src))
	}
	dst = dst[:0]
	for i := 0; i+12 <= len(src); i += 12 {
		var v encoding.Int96
		copy(v[:], src[i:i+12])
		dst = append(dst, v)
	}
	return dst, nil
}

func (e *Encoding) DecodeFloat(dst []float32, src []byte) ([]float32, error) {
	if len(src)%4 != 0 {
		return dst, fmt.Errorf("plain: FLOAT input length %d is not a multiple of 4", len(src))
	}
	dst = dst[:0]
	for i := 0; i+4 <= len(src); i += 4 {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(src[i:])))
	}
	return dst, nil
}

func (e *Encoding) DecodeDouble(dst []float64, src []byte) ([]float64, error) {
	if len(src)%8 != 0 {
		return dst, fmt.Errorf("plain: DOUBLE input length %d is not a multiple of 8", len(src))
	}
	dst = dst[:0]
	for i := 0; i+8 <= len(src); i += 8 {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(src[i:])))
	}
	return dst, nil
}

func (e *Encoding) DecodeByteArray(dst [][]byte, src []byte) ([][]byte, error) {
	dst = dst[:0]
	off := 0
	for off < len(src) {
		if off+ByteArrayLengthSize > len(src) {
			return dst, fmt.Errorf("plain: truncated BYTE_ARRAY length prefix at offset %d", off)
		}
		n := int(binary.LittleEndian.Uint32(src[off:]))
		off += ByteArrayLengthSize
		if n < 0 || off+n > len(src) {
			return dst, fmt.Errorf("plain: truncated BYTE_ARRAY value at offset %d", off)
		}
		dst = append(dst, src[off:off+n])
		off += n
	}
	return dst, nil
}

func (e *Encoding) DecodeFixedLenByteArray(dst [][]byte, src []byte, size int) ([][]byte, error) {
	if size <= 0 {
		return dst, fmt.Errorf("plain: invalid FIXED_LEN_BYTE_ARRAY size %d", size)
	}
	if len(src)%size != 0 {
		return dst, fmt.Errorf("plain: FIXED_LEN_BYTE_ARRAY input length %d is not a multiple of %d", len(src), size)
	}
	dst = dst[:0]
	for off := 0; off < len(src); off += size {
		dst = append(dst, src[off:off+size])
	}
	return dst, nil
}

func growBytes(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

var _ encoding.Encoding = (*Encoding)(nil)
