// Package rle implements the RLE value encoding (format.RLE), used to
// encode BOOLEAN columns with the RLE/bit-packed hybrid. It is distinct
// from RLE_DICTIONARY: the bit width is fixed at 1 and the stream is
// prefixed with its own 4-byte little-endian length rather than a one-byte
// bit width, matching how a DATA_PAGE or DATA_PAGE_V2 boolean payload is
// framed on the wire.
package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/levels"
)

const boolBitWidth = 1

type Encoding struct {
	encoding.NotSupported
}

func (e *Encoding) String() string { return "RLE" }

func (e *Encoding) Encoding() format.Encoding { return format.RLE }

func (e *Encoding) CanEncode(t format.Type) bool { return t == format.Boolean }

func (e *Encoding) EncodeBoolean(dst []byte, src []bool) ([]byte, error) {
	ints := make([]int32, len(src))
	for i, v := range src {
		if v {
			ints[i] = 1
		}
	}
	body := levels.Encode(nil, ints, boolBitWidth)

	lengthOffset := len(dst)
	dst = append(dst, 0, 0, 0, 0)
	dst = append(dst, body...)
	binary.LittleEndian.PutUint32(dst[lengthOffset:], uint32(len(body)))
	return dst, nil
}

func (e *Encoding) DecodeBoolean(dst []bool, src []byte) ([]bool, error) {
	if len(src) < 4 {
		return dst, fmt.Errorf("rle: boolean stream shorter than its length prefix")
	}
	length := binary.LittleEndian.Uint32(src)
	body := src[4:]
	if uint32(len(body)) < length {
		return dst, fmt.Errorf("rle: boolean stream truncated: want %d bytes, have %d", length, len(body))
	}
	body = body[:length]

	numValues := cap(dst)
	if numValues == 0 {
		numValues = len(dst)
	}
	ints, _, err := levels.Decode(body, boolBitWidth, numValues)
	if err != nil {
		return dst, fmt.Errorf("rle: %w", err)
	}
	dst = dst[:0]
	for _, v := range ints {
		dst = append(dst, v != 0)
	}
	return dst, nil
}
