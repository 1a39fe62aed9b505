// Package perrors holds the sentinel error values shared between the
// top-level parquet package and the internal codec layers that cannot import
// it without creating an import cycle (bitio, the encoding sub-packages,
// compress). The parquet package re-exports each of these under its own
// name so callers never need to import this package directly.
package perrors

import "errors"

var (
	ErrNotAParquetFile    = errors.New("parquet: not a parquet file")
	ErrCorruptFooter      = errors.New("parquet: corrupt footer")
	ErrUnsupportedVersion = errors.New("parquet: unsupported version")
	ErrUnsupportedCodec   = errors.New("parquet: unsupported compression codec")
	ErrUnsupportedEncoding = errors.New("parquet: unsupported encoding")
	ErrTruncatedInput     = errors.New("parquet: truncated input")
	ErrTruncatedPage      = errors.New("parquet: truncated page")
	ErrBadLevelCount      = errors.New("parquet: decoded level count does not match page header")
	ErrBadValueCount      = errors.New("parquet: decoded value count does not match definition levels")
	ErrCodecError         = errors.New("parquet: compression codec error")
	ErrVarintOverflow     = errors.New("parquet: varint overflow")
	ErrTypeMismatch       = errors.New("parquet: type mismatch")
	ErrSchemaError        = errors.New("parquet: schema error")
	ErrPageChecksum       = errors.New("parquet: page checksum mismatch")
)
