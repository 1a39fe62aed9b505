// Package encoding provides the generic APIs implemented by parquet value
// encodings. PLAIN, DELTA_BINARY_PACKED, DELTA_LENGTH_BYTE_ARRAY,
// DELTA_BYTE_ARRAY, RLE_DICTIONARY and BYTE_STREAM_SPLIT each live in their
// own sub-package and implement the Encoding interface declared here.
package encoding

import (
	"errors"
	"fmt"

	"github.com/parquetcore/parquet-go/format"
)

// ErrNotSupported is returned when an Encoding's Encode/Decode method does
// not support the physical type of the values it was asked to process.
var ErrNotSupported = errors.New("encoding: not supported for this type")

// Int96 is the opaque 12-byte legacy INT96 physical representation: this
// module decodes it as an opaque byte value rather than interpreting its
// legacy nanosecond-timestamp encoding.
type Int96 [12]byte

// Encoding is implemented by each parquet value encoding. Every method
// operates on pre-allocated Go slices of the interchange type so that
// decoders can reuse buffers across pages; dst may be nil or too short, in
// which case the method grows it.
//
// Encoding implementations must be safe for concurrent use by multiple
// goroutines; they hold no mutable state of their own.
type Encoding interface {
	fmt.Stringer

	// Encoding returns the parquet code identifying this encoding.
	Encoding() format.Encoding

	// CanEncode reports whether this encoding supports the given physical
	// type.
	CanEncode(format.Type) bool

	EncodeBoolean(dst []byte, src []bool) ([]byte, error)
	EncodeInt32(dst []byte, src []int32) ([]byte, error)
	EncodeInt64(dst []byte, src []int64) ([]byte, error)
	EncodeInt96(dst []byte, src []Int96) ([]byte, error)
	EncodeFloat(dst []byte, src []float32) ([]byte, error)
	EncodeDouble(dst []byte, src []float64) ([]byte, error)
	EncodeByteArray(dst []byte, src [][]byte) ([]byte, error)
	EncodeFixedLenByteArray(dst []byte, src [][]byte, size int) ([]byte, error)

	DecodeBoolean(dst []bool, src []byte) ([]bool, error)
	DecodeInt32(dst []int32, src []byte) ([]int32, error)
	DecodeInt64(dst []int64, src []byte) ([]int64, error)
	DecodeInt96(dst []Int96, src []byte) ([]Int96, error)
	DecodeFloat(dst []float32, src []byte) ([]float32, error)
	DecodeDouble(dst []float64, src []byte) ([]float64, error)
	DecodeByteArray(dst [][]byte, src []byte) ([][]byte, error)
	DecodeFixedLenByteArray(dst [][]byte, src []byte, size int) ([][]byte, error)
}

// NotSupported is embedded by encodings that only implement a subset of the
// physical types, so they don't each have to stub out every method.
type NotSupported struct{}

func (NotSupported) EncodeBoolean(dst []byte, src []bool) ([]byte, error) {
	return dst, errNotSupported("BOOLEAN")
}
func (NotSupported) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	return dst, errNotSupported("INT32")
}
func (NotSupported) EncodeInt64(dst []byte, src []int64) ([]byte, error) {
	return dst, errNotSupported("INT64")
}
func (NotSupported) EncodeInt96(dst []byte, src []Int96) ([]byte, error) {
	return dst, errNotSupported("INT96")
}
func (NotSupported) EncodeFloat(dst []byte, src []float32) ([]byte, error) {
	return dst, errNotSupported("FLOAT")
}
func (NotSupported) EncodeDouble(dst []byte, src []float64) ([]byte, error) {
	return dst, errNotSupported("DOUBLE")
}
func (NotSupported) EncodeByteArray(dst []byte, src [][]byte) ([]byte, error) {
	return dst, errNotSupported("BYTE_ARRAY")
}
func (NotSupported) EncodeFixedLenByteArray(dst []byte, src [][]byte, size int) ([]byte, error) {
	return dst, errNotSupported("FIXED_LEN_BYTE_ARRAY")
}
func (NotSupported) DecodeBoolean(dst []bool, src []byte) ([]bool, error) {
	return dst, errNotSupported("BOOLEAN")
}
func (NotSupported) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	return dst, errNotSupported("INT32")
}
func (NotSupported) DecodeInt64(dst []int64, src []byte) ([]int64, error) {
	return dst, errNotSupported("INT64")
}
func (NotSupported) DecodeInt96(dst []Int96, src []byte) ([]Int96, error) {
	return dst, errNotSupported("INT96")
}
func (NotSupported) DecodeFloat(dst []float32, src []byte) ([]float32, error) {
	return dst, errNotSupported("FLOAT")
}
func (NotSupported) DecodeDouble(dst []float64, src []byte) ([]float64, error) {
	return dst, errNotSupported("DOUBLE")
}
func (NotSupported) DecodeByteArray(dst [][]byte, src []byte) ([][]byte, error) {
	return dst, errNotSupported("BYTE_ARRAY")
}
func (NotSupported) DecodeFixedLenByteArray(dst [][]byte, src []byte, size int) ([][]byte, error) {
	return dst, errNotSupported("FIXED_LEN_BYTE_ARRAY")
}

func errNotSupported(typ string) error {
	return fmt.Errorf("%w: %s", ErrNotSupported, typ)
}
