package delta

import (
	"fmt"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/format"
)

// ByteArrayEncoding implements DELTA_BYTE_ARRAY: two DELTA_BINARY_PACKED
// streams (prefix lengths, then suffix lengths) followed by the
// concatenated suffix bytes.
type ByteArrayEncoding struct {
	encoding.NotSupported
}

func (e *ByteArrayEncoding) String() string { return "DELTA_BYTE_ARRAY" }

func (e *ByteArrayEncoding) Encoding() format.Encoding { return format.DeltaByteArray }

func (e *ByteArrayEncoding) CanEncode(t format.Type) bool {
	return t == format.ByteArray || t == format.FixedLenByteArray
}

func (e *ByteArrayEncoding) EncodeByteArray(dst []byte, src [][]byte) ([]byte, error) {
	prefixLengths := make([]int64, len(src))
	suffixLengths := make([]int64, len(src))
	var prev []byte

	for i, v := range src {
		p := commonPrefixLength(prev, v)
		prefixLengths[i] = int64(p)
		suffixLengths[i] = int64(len(v) - p)
		prev = v
	}

	dst, err := encodeBlocks(dst, prefixLengths, DefaultBlockSize, DefaultMiniBlockCount)
	if err != nil {
		return dst, err
	}
	dst, err = encodeBlocks(dst, suffixLengths, DefaultBlockSize, DefaultMiniBlockCount)
	if err != nil {
		return dst, err
	}
	for i, v := range src {
		dst = append(dst, v[prefixLengths[i]:]...)
	}
	return dst, nil
}

func (e *ByteArrayEncoding) EncodeFixedLenByteArray(dst []byte, src [][]byte, size int) ([]byte, error) {
	return e.EncodeByteArray(dst, src)
}

func (e *ByteArrayEncoding) DecodeByteArray(dst [][]byte, src []byte) ([][]byte, error) {
	prefixLengths, n1, err := decodeBlocks(src)
	if err != nil {
		return dst, fmt.Errorf("delta byte array: prefix lengths: %w", err)
	}
	suffixLengths, n2, err := decodeBlocks(src[n1:])
	if err != nil {
		return dst, fmt.Errorf("delta byte array: suffix lengths: %w", err)
	}
	if len(prefixLengths) != len(suffixLengths) {
		return dst, fmt.Errorf("delta byte array: %d prefix lengths but %d suffix lengths", len(prefixLengths), len(suffixLengths))
	}

	data := src[n1+n2:]
	dst = dst[:0]
	off := 0
	var prev []byte
	for i := range prefixLengths {
		p := int(prefixLengths[i])
		s := int(suffixLengths[i])
		if p < 0 || s < 0 || p > len(prev) || off+s > len(data) {
			return dst, fmt.Errorf("delta byte array: value %d overruns input", i)
		}
		value := make([]byte, 0, p+s)
		value = append(value, prev[:p]...)
		value = append(value, data[off:off+s]...)
		off += s
		dst = append(dst, value)
		prev = value
	}
	return dst, nil
}

func (e *ByteArrayEncoding) DecodeFixedLenByteArray(dst [][]byte, src []byte, size int) ([][]byte, error) {
	return e.DecodeByteArray(dst, src)
}

func commonPrefixLength(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
