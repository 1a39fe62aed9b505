// Package bytestreamsplit implements the BYTE_STREAM_SPLIT parquet encoding
// for FLOAT and DOUBLE columns.
package bytestreamsplit

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/format"
)

// Encoding implements BYTE_STREAM_SPLIT: byte b of value i is stored at
// stream[b*N + i], so that each of the width byte-planes compresses as a
// contiguous run.
type Encoding struct {
	encoding.NotSupported
}

func (e *Encoding) String() string { return "BYTE_STREAM_SPLIT" }

func (e *Encoding) Encoding() format.Encoding { return format.ByteStreamSplit }

func (e *Encoding) CanEncode(t format.Type) bool {
	return t == format.Float || t == format.Double
}

func (e *Encoding) EncodeFloat(dst []byte, src []float32) ([]byte, error) {
	return split(dst, src, 4, func(buf []byte, v float32) {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	})
}

func (e *Encoding) EncodeDouble(dst []byte, src []float64) ([]byte, error) {
	return split(dst, src, 8, func(buf []byte, v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	})
}

func split[T any](dst []byte, src []T, width int, put func([]byte, T)) ([]byte, error) {
	n := len(src)
	dst = growBytes(dst, n*width)
	var tmp [8]byte
	for i, v := range src {
		put(tmp[:width], v)
		for b := 0; b < width; b++ {
			dst[b*n+i] = tmp[b]
		}
	}
	return dst, nil
}

func (e *Encoding) DecodeFloat(dst []float32, src []byte) ([]float32, error) {
	n, err := planeLen(src, 4)
	if err != nil {
		return dst, err
	}
	dst = dst[:0]
	var tmp [4]byte
	for i := 0; i < n; i++ {
		for b := 0; b < 4; b++ {
			tmp[b] = src[b*n+i]
		}
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(tmp[:])))
	}
	return dst, nil
}

func (e *Encoding) DecodeDouble(dst []float64, src []byte) ([]float64, error) {
	n, err := planeLen(src, 8)
	if err != nil {
		return dst, err
	}
	dst = dst[:0]
	var tmp [8]byte
	for i := 0; i < n; i++ {
		for b := 0; b < 8; b++ {
			tmp[b] = src[b*n+i]
		}
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(tmp[:])))
	}
	return dst, nil
}

func planeLen(src []byte, width int) (int, error) {
	if len(src)%width != 0 {
		return 0, fmt.Errorf("bytestreamsplit: input length %d is not a multiple of width %d", len(src), width)
	}
	return len(src) / width, nil
}

func growBytes(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}
