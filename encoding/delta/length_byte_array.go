package delta

import (
	"fmt"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/format"
)

// LengthByteArrayEncoding implements DELTA_LENGTH_BYTE_ARRAY: a
// DELTA_BINARY_PACKED stream of lengths followed by the concatenated raw
// value bytes.
type LengthByteArrayEncoding struct {
	encoding.NotSupported
}

func (e *LengthByteArrayEncoding) String() string { return "DELTA_LENGTH_BYTE_ARRAY" }

func (e *LengthByteArrayEncoding) Encoding() format.Encoding {
	return format.DeltaLengthByteArray
}

func (e *LengthByteArrayEncoding) CanEncode(t format.Type) bool {
	return t == format.ByteArray
}

func (e *LengthByteArrayEncoding) EncodeByteArray(dst []byte, src [][]byte) ([]byte, error) {
	lengths := make([]int64, len(src))
	for i, v := range src {
		lengths[i] = int64(len(v))
	}
	dst, err := encodeBlocks(dst, lengths, DefaultBlockSize, DefaultMiniBlockCount)
	if err != nil {
		return dst, err
	}
	for _, v := range src {
		dst = append(dst, v...)
	}
	return dst, nil
}

func (e *LengthByteArrayEncoding) DecodeByteArray(dst [][]byte, src []byte) ([][]byte, error) {
	lengths, n, err := decodeBlocks(src)
	if err != nil {
		return dst, fmt.Errorf("delta length byte array: %w", err)
	}
	data := src[n:]
	dst = dst[:0]
	off := 0
	for _, length := range lengths {
		end := off + int(length)
		if length < 0 || end > len(data) {
			return dst, fmt.Errorf("delta length byte array: value of length %d at offset %d overruns input", length, off)
		}
		dst = append(dst, data[off:end])
		off = end
	}
	return dst, nil
}
