// Package dictionary implements the RLE_DICTIONARY (and legacy
// PLAIN_DICTIONARY) value encoding: a one-byte bit width followed by an
// RLE/bit-packed hybrid stream of indices into the column's dictionary
// page.
//
// The dictionary values themselves are not handled here: they are the
// preceding Dictionary page, decoded with the PLAIN encoding of the
// column's physical type. This package only encodes/decodes the int32
// index stream.
package dictionary

import (
	"fmt"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/bitio"
	"github.com/parquetcore/parquet-go/internal/levels"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

// Encoding implements the RLE_DICTIONARY index stream. The bit width always
// comes from the stream's own leading byte, never inferred from the
// dictionary size, and a stream that cannot be reconciled with that rule
// surfaces ErrUnsupportedEncoding to the caller rather than being guessed
// at.
type Encoding struct {
	encoding.NotSupported

	// Legacy selects the PLAIN_DICTIONARY encoding id instead of
	// RLE_DICTIONARY; the wire format is identical, only the id differs
	// (some older writers emit PLAIN_DICTIONARY for the same framing).
	Legacy bool
}

func (e *Encoding) String() string {
	if e.Legacy {
		return "PLAIN_DICTIONARY"
	}
	return "RLE_DICTIONARY"
}

func (e *Encoding) Encoding() format.Encoding {
	if e.Legacy {
		return format.PlainDictionary
	}
	return format.RLEDictionary
}

func (e *Encoding) CanEncode(format.Type) bool { return true }

// EncodeInt32 encodes a stream of dictionary indices.
func (e *Encoding) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	maxIndex := int32(0)
	for _, v := range src {
		if v > maxIndex {
			maxIndex = v
		}
	}
	bitWidth := bitio.BitWidth(int(maxIndex))
	if bitWidth == 0 {
		bitWidth = 1
	}
	dst = append(dst, byte(bitWidth))
	dst = levels.Encode(dst, src, bitWidth)
	return dst, nil
}

// DecodeInt32 decodes a stream of dictionary indices. numValues must be
// supplied by the caller via the len of dst's backing capacity is not
// enough information on its own, so the page pipeline calls this with dst
// pre-sized to the number of non-null values expected on the page.
func (e *Encoding) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}
	bitWidth := int(src[0])
	if bitWidth < 0 || bitWidth > 32 {
		return dst, fmt.Errorf("%w: dictionary index bit width %d out of range", perrors.ErrUnsupportedEncoding, bitWidth)
	}
	numValues := cap(dst)
	if numValues == 0 {
		numValues = len(dst)
	}
	values, _, err := levels.Decode(src[1:], bitWidth, numValues)
	if err != nil {
		return dst, fmt.Errorf("dictionary: %w", err)
	}
	return values, nil
}
