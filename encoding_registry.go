package parquet

import (
	"fmt"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/encoding/bytestreamsplit"
	"github.com/parquetcore/parquet-go/encoding/delta"
	"github.com/parquetcore/parquet-go/encoding/dictionary"
	"github.com/parquetcore/parquet-go/encoding/plain"
	"github.com/parquetcore/parquet-go/encoding/rle"
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

// lookupValueEncoding returns the value codec for a format.Encoding id.
// BIT_PACKED (4) is the legacy framing-free variant of the level hybrid and
// is never used as a value encoding by this module's writer; a reader
// encountering it falls through to ErrUnsupportedEncoding rather than
// guessing at a legacy shape, in keeping with this module's policy of
// surfacing every error to the caller.
func lookupValueEncoding(e format.Encoding) (encoding.Encoding, error) {
	switch e {
	case format.Plain:
		return &plain.Encoding{}, nil
	case format.RLE:
		return &rle.Encoding{}, nil
	case format.DeltaBinaryPacked:
		return &delta.BinaryPackedEncoding{}, nil
	case format.DeltaLengthByteArray:
		return &delta.LengthByteArrayEncoding{}, nil
	case format.DeltaByteArray:
		return &delta.ByteArrayEncoding{}, nil
	case format.ByteStreamSplit:
		return &bytestreamsplit.Encoding{}, nil
	case format.PlainDictionary:
		return &dictionary.Encoding{Legacy: true}, nil
	case format.RLEDictionary:
		return &dictionary.Encoding{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", perrors.ErrUnsupportedEncoding, e)
	}
}
