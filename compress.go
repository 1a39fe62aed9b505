package parquet

import (
	"io"
	"runtime"
	"sync"

	"github.com/parquetcore/parquet-go/compress"
	"github.com/parquetcore/parquet-go/compress/brotli"
	"github.com/parquetcore/parquet-go/compress/gzip"
	"github.com/parquetcore/parquet-go/compress/lz4"
	"github.com/parquetcore/parquet-go/compress/snappy"
	"github.com/parquetcore/parquet-go/compress/uncompressed"
	"github.com/parquetcore/parquet-go/compress/zstd"
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

var (
	// Uncompressed is a parquet compression codec representing uncompressed
	// pages.
	Uncompressed uncompressed.Codec

	// Snappy is the SNAPPY parquet compression codec.
	Snappy snappy.Codec

	// Gzip is the GZIP parquet compression codec. It consumes every
	// concatenated member of a multi-member stream, matching what klauspost's
	// reader does by default
	Gzip = gzip.Codec{Level: gzip.DefaultCompression}

	// Brotli is the BROTLI parquet compression codec.
	Brotli = brotli.Codec{
		Quality: brotli.DefaultQuality,
		LGWin:   brotli.DefaultLGWin,
	}

	// Zstd is the ZSTD parquet compression codec.
	Zstd zstd.Codec

	// Lz4Raw is the LZ4_RAW parquet compression codec.
	Lz4Raw = lz4.Codec{Level: lz4.DefaultLevel}

	// compressionCodecs maps a format.CompressionCodec id to the Codec that
	// implements it. LZO (id 3) and the legacy framed LZ4 (id 5) are left
	// nil: the corpus carries no pure-Go decoder for either, so dispatch
	// reports ErrUnsupportedCodec for them. The required set (UNCOMPRESSED,
	// SNAPPY, GZIP, ZSTD, LZ4_RAW) is covered; BROTLI is additionally
	// supported here though only LZO is allowed to be absent alongside it.
	compressionCodecs = [...]compress.Codec{
		format.Uncompressed: &Uncompressed,
		format.Snappy:       &Snappy,
		format.Gzip:         &Gzip,
		format.Brotli:       &Brotli,
		format.Zstd:         &Zstd,
		format.Lz4Raw:       &Lz4Raw,
	}

	// compressedPageReaders pools decompressors per codec so that reading
	// many pages from the same chunk does not allocate a fresh decompressor
	// for each one.
	compressedPageReaders [len(compressionCodecs)]sync.Pool
)

// lookupCompressionCodec returns the Codec registered for id, or a stub that
// fails every operation with ErrUnsupportedCodec.
func lookupCompressionCodec(id format.CompressionCodec) compress.Codec {
	if id >= 0 && int(id) < len(compressionCodecs) {
		if c := compressionCodecs[id]; c != nil {
			return c
		}
	}
	return &unsupportedCodec{id}
}

// compress implements the write-side counterpart of the C2 dispatch
// primitive: it appends the compressed bytes of src under the given codec to
// dst, for page emission.
func compress(codec format.CompressionCodec, dst, src []byte) ([]byte, error) {
	c := lookupCompressionCodec(codec)
	out, err := c.Encode(dst, src)
	if err != nil {
		if uc, ok := c.(*unsupportedCodec); ok {
			return dst, uc.error()
		}
		return dst, perrors.ErrCodecError
	}
	return out, nil
}

// poolable reports whether codec indexes compressedPageReaders without
// going out of bounds. A file can carry any int32 in ColumnMetaData.Codec;
// lookupCompressionCodec already falls back to unsupportedCodec for an
// unregistered id, but the pool array itself must not be indexed by one.
func poolable(codec format.CompressionCodec) bool {
	return codec >= 0 && int(codec) < len(compressedPageReaders)
}

func acquireCompressedPageReader(codec format.CompressionCodec, page io.Reader) *compressedPageReader {
	if !poolable(codec) {
		r := &compressedPageReader{codec: codec}
		r.reader, r.err = lookupCompressionCodec(codec).NewReader(page)
		return r
	}
	r, _ := compressedPageReaders[codec].Get().(*compressedPageReader)
	if r == nil {
		r = &compressedPageReader{codec: codec}
		r.reader, r.err = lookupCompressionCodec(codec).NewReader(page)
		runtime.SetFinalizer(r, func(r *compressedPageReader) { r.Close() })
	} else {
		r.Reset(page)
	}
	return r
}

func releaseCompressedPageReader(r *compressedPageReader) {
	r.Reset(nil)
	if poolable(r.codec) {
		compressedPageReaders[r.codec].Put(r)
	}
}

type compressedPageReader struct {
	codec  format.CompressionCodec
	reader compress.Reader
	err    error
}

func (r *compressedPageReader) Close() error {
	return r.reader.Close()
}

func (r *compressedPageReader) Read(b []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.reader.Read(b)
}

func (r *compressedPageReader) Reset(page io.Reader) {
	r.err = r.reader.Reset(page)
}

// unsupportedCodec stands in for a compression codec id with no registered
// implementation (LZO, the legacy framed LZ4), surfacing
// ErrUnsupportedCodec from every operation instead of panicking on a nil
// Codec lookup.
type unsupportedCodec struct{ codec format.CompressionCodec }

func (u *unsupportedCodec) String() string { return u.codec.String() }

func (u *unsupportedCodec) CompressionCodec() format.CompressionCodec { return u.codec }

func (u *unsupportedCodec) Encode(dst, src []byte) ([]byte, error) { return dst, u.error() }

func (u *unsupportedCodec) Decode(dst, src []byte) ([]byte, error) { return dst, u.error() }

func (u *unsupportedCodec) NewReader(r io.Reader) (compress.Reader, error) {
	return unsupportedReader{u}, nil
}

func (u *unsupportedCodec) NewWriter(w io.Writer) (compress.Writer, error) {
	return unsupportedWriter{u}, nil
}

func (u *unsupportedCodec) error() error { return perrors.ErrUnsupportedCodec }

type unsupportedReader struct{ *unsupportedCodec }

func (r unsupportedReader) Close() error               { return nil }
func (r unsupportedReader) Reset(io.Reader) error      { return nil }
func (r unsupportedReader) Read(b []byte) (int, error) { return 0, r.error() }

type unsupportedWriter struct{ *unsupportedCodec }

func (w unsupportedWriter) Close() error                { return nil }
func (w unsupportedWriter) Reset(io.Writer) error       { return nil }
func (w unsupportedWriter) Write(b []byte) (int, error) { return 0, w.error() }
