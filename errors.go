package parquet

import "github.com/parquetcore/parquet-go/internal/perrors"

// Error kinds returned by the codec core. Callers should use errors.Is
// against these sentinels; most call sites wrap them with
// fmt.Errorf("%w: ...") to attach context. The values live in
// internal/perrors so that internal codec layers (bitio, encoding, compress)
// can return the same sentinels without importing this package and creating
// an import cycle.
var (
	// ErrNotAParquetFile is returned when the leading or trailing magic
	// bytes of a file do not read "PAR1".
	ErrNotAParquetFile = perrors.ErrNotAParquetFile

	// ErrCorruptFooter is returned when the footer length is out of bounds
	// or the metadata record tree cannot be decoded.
	ErrCorruptFooter = perrors.ErrCorruptFooter

	// ErrUnsupportedVersion is returned for a file format version this
	// reader does not know how to interpret.
	ErrUnsupportedVersion = perrors.ErrUnsupportedVersion

	// ErrUnsupportedCodec is returned when a column chunk requests a
	// compression codec with no registered implementation (e.g. LZO).
	ErrUnsupportedCodec = perrors.ErrUnsupportedCodec

	// ErrUnsupportedEncoding is returned when a page requests a value or
	// level encoding with no registered implementation.
	ErrUnsupportedEncoding = perrors.ErrUnsupportedEncoding

	// ErrTruncatedInput is returned by the byte cursor when an operation
	// would read past the end of the underlying buffer.
	ErrTruncatedInput = perrors.ErrTruncatedInput

	// ErrTruncatedPage is returned when a page's declared sizes exceed the
	// bytes actually available.
	ErrTruncatedPage = perrors.ErrTruncatedPage

	// ErrBadLevelCount is returned when a decoded level stream does not
	// contain exactly NumValues entries.
	ErrBadLevelCount = perrors.ErrBadLevelCount

	// ErrBadValueCount is returned when the number of non-null values
	// decoded from a page does not match the count implied by the
	// definition levels.
	ErrBadValueCount = perrors.ErrBadValueCount

	// ErrCodecError is returned when a compression codec fails to decode or
	// encode its input.
	ErrCodecError = perrors.ErrCodecError

	// ErrVarintOverflow is returned by the varint codec when 10 bytes are
	// consumed and the last of them still carries the continuation bit.
	ErrVarintOverflow = perrors.ErrVarintOverflow

	// ErrTypeMismatch is returned when a typed column decoder is invoked
	// against a column of an incompatible physical type.
	ErrTypeMismatch = perrors.ErrTypeMismatch

	// ErrSchemaError is returned when the schema tree is ill-formed, or its
	// leaves cannot be reassembled into a logical column.
	ErrSchemaError = perrors.ErrSchemaError

	// ErrPageChecksum is returned when a page's on-disk crc field does not
	// match the CRC-32 (IEEE) of the page's payload bytes as stored.
	ErrPageChecksum = perrors.ErrPageChecksum
)
