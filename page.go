package parquet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/encoding/plain"
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/debug"
	"github.com/parquetcore/parquet-go/internal/levels"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

// verifyPageCRC checks raw (the page's payload bytes exactly as stored,
// before decompression) against header's optional crc field. A page
// without a crc is not checked; parquet-format leaves the field optional
// for writers that choose to skip it.
func verifyPageCRC(header *format.PageHeader, raw []byte) error {
	if header.CRC == nil {
		return nil
	}
	if crc32.ChecksumIEEE(raw) != uint32(*header.CRC) {
		return perrors.ErrPageChecksum
	}
	return nil
}

// readPageHeader decodes the Thrift-encoded PageHeader at offset in file and
// returns it along with the offset immediately following it, where the page
// payload begins.
func readPageHeader(file []byte, offset int64) (*format.PageHeader, int64, error) {
	r := bytes.NewReader(file[offset:])
	dec := format.NewDecoder(r)
	header := new(format.PageHeader)
	if err := dec.Decode(header); err != nil {
		return nil, 0, fmt.Errorf("%w: page header: %s", perrors.ErrTruncatedPage, err)
	}
	consumed := int64(len(file[offset:])) - int64(r.Len())
	return header, offset + consumed, nil
}

// chunkReader walks the pages of a single column chunk, expanding dictionary
// indices and reassembling the (level, value) occurrence stream.
type chunkReader struct {
	file   []byte
	leaf   *LeafColumn
	meta   *format.ColumnMetaData
	dict   []Value
	offset int64
}

func newChunkReader(file []byte, leaf *LeafColumn, meta *format.ColumnMetaData) *chunkReader {
	return &chunkReader{file: file, leaf: leaf, meta: meta, offset: meta.DataPageOffset}
}

// readColumn reads every page of the chunk and returns the full occurrence
// stream: one Value per (rep, def) pair, in page order.
func (c *chunkReader) readColumn() (*ColumnValues, error) {
	if c.meta.DictionaryPageOffset != nil && *c.meta.DictionaryPageOffset < c.meta.DataPageOffset {
		dict, err := c.readDictionaryPage(*c.meta.DictionaryPageOffset)
		if err != nil {
			return nil, err
		}
		c.dict = dict
	}

	var out []Value
	produced := int64(0)
	offset := c.meta.DataPageOffset
	for produced < c.meta.NumValues {
		header, payloadOffset, err := readPageHeader(c.file, offset)
		if err != nil {
			return nil, err
		}

		switch header.Type {
		case format.DictionaryPage:
			// Already consumed above if declared; a stray dictionary page
			// found while walking the data stream is skipped.
			n := int64(header.CompressedPageSize)
			offset = payloadOffset + n
			continue
		case format.DataPage:
			values, err := c.readDataPageV1(header, payloadOffset)
			if err != nil {
				return nil, err
			}
			out = append(out, values...)
			produced += int64(header.DataPageHeader.NumValues)
			offset = payloadOffset + int64(header.CompressedPageSize)
		case format.DataPageV2:
			values, err := c.readDataPageV2(header, payloadOffset)
			if err != nil {
				return nil, err
			}
			out = append(out, values...)
			produced += int64(header.DataPageHeaderV2.NumValues)
			offset = payloadOffset + int64(header.CompressedPageSize)
		default:
			return nil, fmt.Errorf("%w: page type %s", perrors.ErrUnsupportedEncoding, header.Type)
		}
	}

	return &ColumnValues{Leaf: c.leaf, Values: out}, nil
}

func (c *chunkReader) readDictionaryPage(offset int64) ([]Value, error) {
	header, payloadOffset, err := readPageHeader(c.file, offset)
	if err != nil {
		return nil, err
	}
	if header.Type != format.DictionaryPage || header.DictionaryPageHeader == nil {
		return nil, fmt.Errorf("%w: expected dictionary page", perrors.ErrCorruptFooter)
	}
	payload, err := c.readPayload(header, payloadOffset)
	if err != nil {
		return nil, err
	}
	return decodePlainValues(c.leaf, payload, int(header.DictionaryPageHeader.NumValues))
}

// readPayload reads the page's compressed bytes and decompresses them to
// their declared uncompressed size.
func (c *chunkReader) readPayload(header *format.PageHeader, payloadOffset int64) ([]byte, error) {
	end := payloadOffset + int64(header.CompressedPageSize)
	if end > int64(len(c.file)) {
		return nil, perrors.ErrTruncatedPage
	}
	raw := c.file[payloadOffset:end]
	if err := verifyPageCRC(header, raw); err != nil {
		return nil, err
	}
	if c.meta.Codec == format.Uncompressed {
		return raw, nil
	}
	return decompressBlock(c.meta.Codec, raw, int(header.UncompressedPageSize))
}

// decompressBlock decompresses one fully-buffered block through a pooled
// streaming Reader, wrapped in the
// build-tag-gated debug tracer the rest of the read path uses for I/O
// inspection.
func decompressBlock(codec format.CompressionCodec, src []byte, uncompressedLen int) ([]byte, error) {
	r := acquireCompressedPageReader(codec, bytes.NewReader(src))
	defer releaseCompressedPageReader(r)

	out := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(debug.Reader(r, "page"), out); err != nil {
		if uc, ok := lookupCompressionCodec(codec).(*unsupportedCodec); ok {
			return nil, uc.error()
		}
		return nil, fmt.Errorf("%w: %s", perrors.ErrCodecError, err)
	}
	return out, nil
}

// readDataPageV1 decodes a DataPageV1's level sections and value section,
// then zips them back into one occurrence per (rep, def) pair.
func (c *chunkReader) readDataPageV1(header *format.PageHeader, payloadOffset int64) ([]Value, error) {
	dph := header.DataPageHeader
	payload, err := c.readPayload(header, payloadOffset)
	if err != nil {
		return nil, err
	}

	numValues := int(dph.NumValues)
	pos := 0

	repLevels, n, err := readV1LevelSection(payload[pos:], c.leaf.MaxRepetitionLevel, numValues)
	if err != nil {
		return nil, err
	}
	pos += n

	defLevels, n, err := readV1LevelSection(payload[pos:], c.leaf.MaxDefinitionLevel, numValues)
	if err != nil {
		return nil, err
	}
	pos += n

	numNonNull := countNonNull(defLevels, c.leaf.MaxDefinitionLevel)
	values, err := c.decodeValues(dph.Encoding, payload[pos:], numNonNull)
	if err != nil {
		return nil, err
	}

	return zipLevelsAndValues(defLevels, repLevels, values, c.leaf.MaxDefinitionLevel)
}

// readDataPageV2 decodes a DataPageV2: levels are never compressed, only
// the values section is, and only when is_compressed is set.
func (c *chunkReader) readDataPageV2(header *format.PageHeader, payloadOffset int64) ([]Value, error) {
	dph := header.DataPageHeaderV2
	end := payloadOffset + int64(header.CompressedPageSize)
	if end > int64(len(c.file)) {
		return nil, perrors.ErrTruncatedPage
	}
	raw := c.file[payloadOffset:end]
	if err := verifyPageCRC(header, raw); err != nil {
		return nil, err
	}

	repLen := int(dph.RepetitionLevelsByteLength)
	defLen := int(dph.DefinitionLevelsByteLength)
	if repLen+defLen > len(raw) {
		return nil, perrors.ErrTruncatedPage
	}

	numValues := int(dph.NumValues)
	repLevels, err := decodeLevelBytesV2(raw[:repLen], c.leaf.MaxRepetitionLevel, numValues)
	if err != nil {
		return nil, err
	}
	defLevels, err := decodeLevelBytesV2(raw[repLen:repLen+defLen], c.leaf.MaxDefinitionLevel, numValues)
	if err != nil {
		return nil, err
	}

	valuesSection := raw[repLen+defLen:]
	isCompressed := c.meta.Codec != format.Uncompressed
	if dph.IsCompressed != nil {
		isCompressed = isCompressed && *dph.IsCompressed
	}

	numNonNull := countNonNull(defLevels, c.leaf.MaxDefinitionLevel)

	var decompressed []byte
	if isCompressed {
		uncompressedLen := int(header.UncompressedPageSize) - repLen - defLen
		decompressed, err = decompressBlock(c.meta.Codec, valuesSection, uncompressedLen)
		if err != nil {
			return nil, err
		}
	} else {
		decompressed = valuesSection
	}

	values, err := c.decodeValues(dph.Encoding, decompressed, numNonNull)
	if err != nil {
		return nil, err
	}

	return zipLevelsAndValues(defLevels, repLevels, values, c.leaf.MaxDefinitionLevel)
}

// readV1LevelSection reads one level stream from a DataPageV1 payload: if
// maxLevel > 0, a 4-byte LE length prefix followed by that many RLE-hybrid
// bytes; otherwise nothing is stored and every level is implicitly 0.
func readV1LevelSection(src []byte, maxLevel, numValues int) ([]int32, int, error) {
	if maxLevel == 0 {
		return make([]int32, numValues), 0, nil
	}
	if len(src) < 4 {
		return nil, 0, perrors.ErrTruncatedPage
	}
	length := int(binary.LittleEndian.Uint32(src))
	if length < 0 || 4+length > len(src) {
		return nil, 0, perrors.ErrTruncatedPage
	}
	bitWidth := bitWidthFor(maxLevel)
	values, _, err := levels.Decode(src[4:4+length], bitWidth, numValues)
	if err != nil {
		return nil, 0, err
	}
	return values, 4 + length, nil
}

// decodeLevelBytesV2 decodes an uncompressed, unframed RLE-hybrid level
// section of a DataPageV2
func decodeLevelBytesV2(src []byte, maxLevel, numValues int) ([]int32, error) {
	if maxLevel == 0 {
		return make([]int32, numValues), nil
	}
	bitWidth := bitWidthFor(maxLevel)
	values, _, err := levels.Decode(src, bitWidth, numValues)
	if err != nil {
		return nil, err
	}
	return values, nil
}

func bitWidthFor(maxLevel int) int {
	w := 0
	for (1 << w) <= maxLevel {
		w++
	}
	return w
}

func countNonNull(defLevels []int32, maxDef int) int {
	n := 0
	for _, d := range defLevels {
		if int(d) == maxDef {
			n++
		}
	}
	return n
}

// decodeValues decodes numNonNull leaf values at the given encoding,
// expanding RLE_DICTIONARY/PLAIN_DICTIONARY indices against the chunk's
// cached dictionary.
func (c *chunkReader) decodeValues(enc format.Encoding, src []byte, numNonNull int) ([]Value, error) {
	if enc == format.PlainDictionary || enc == format.RLEDictionary {
		codec, err := lookupValueEncoding(enc)
		if err != nil {
			return nil, err
		}
		indexes, err := codec.DecodeInt32(make([]int32, 0, numNonNull), src)
		if err != nil {
			return nil, err
		}
		if len(indexes) != numNonNull {
			return nil, perrors.ErrBadValueCount
		}
		out := make([]Value, numNonNull)
		for i, idx := range indexes {
			if int(idx) < 0 || int(idx) >= len(c.dict) {
				return nil, fmt.Errorf("%w: dictionary index %d out of range", perrors.ErrCodecError, idx)
			}
			out[i] = c.dict[idx]
		}
		return out, nil
	}

	codec, err := lookupValueEncoding(enc)
	if err != nil {
		return nil, err
	}
	return decodeTypedValues(codec, c.leaf, src, numNonNull)
}

// decodePlainValues decodes a dictionary page's raw PLAIN-encoded values.
func decodePlainValues(leaf *LeafColumn, src []byte, numValues int) ([]Value, error) {
	return decodeTypedValues(&plain.Encoding{}, leaf, src, numValues)
}

// decodeTypedValues dispatches to the right typed decode method of codec
// for the leaf's physical type and wraps each decoded scalar as a fully
// present Value (levels are filled in by the caller).
func decodeTypedValues(codec encoding.Encoding, leaf *LeafColumn, src []byte, numValues int) ([]Value, error) {
	switch leaf.Type {
	case format.Boolean:
		vs, err := codec.DecodeBoolean(make([]bool, 0, numValues), src)
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v bool) Value { return BooleanValue(v, 0, 0) })
	case format.Int32:
		vs, err := codec.DecodeInt32(make([]int32, 0, numValues), src)
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v int32) Value { return Int32Value(v, 0, 0) })
	case format.Int64:
		vs, err := codec.DecodeInt64(make([]int64, 0, numValues), src)
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v int64) Value { return Int64Value(v, 0, 0) })
	case format.Int96:
		vs, err := codec.DecodeInt96(make([]encoding.Int96, 0, numValues), src)
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v encoding.Int96) Value { return Int96Value(v, 0, 0) })
	case format.Float:
		vs, err := codec.DecodeFloat(make([]float32, 0, numValues), src)
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v float32) Value { return FloatValue(v, 0, 0) })
	case format.Double:
		vs, err := codec.DecodeDouble(make([]float64, 0, numValues), src)
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v float64) Value { return DoubleValue(v, 0, 0) })
	case format.ByteArray:
		vs, err := codec.DecodeByteArray(make([][]byte, 0, numValues), src)
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v []byte) Value { return ByteArrayValue(v, 0, 0) })
	case format.FixedLenByteArray:
		vs, err := codec.DecodeFixedLenByteArray(make([][]byte, 0, numValues), src, int(leaf.TypeLength))
		if err != nil {
			return nil, err
		}
		return mapValues(vs, func(v []byte) Value { return ByteArrayValue(v, 0, 0) })
	default:
		return nil, fmt.Errorf("%w: physical type %s", perrors.ErrTypeMismatch, leaf.Type)
	}
}

func mapValues[T any](src []T, f func(T) Value) ([]Value, error) {
	out := make([]Value, len(src))
	for i, v := range src {
		out[i] = f(v)
	}
	return out, nil
}

// zipLevelsAndValues interleaves the decoded definition/repetition levels
// with the decoded non-null values, producing one Value per occurrence.
func zipLevelsAndValues(defLevels, repLevels []int32, values []Value, maxDef int) ([]Value, error) {
	if len(defLevels) != len(repLevels) {
		return nil, perrors.ErrBadLevelCount
	}
	out := make([]Value, len(defLevels))
	vi := 0
	for i := range defLevels {
		def := int(defLevels[i])
		rep := int(repLevels[i])
		if def == maxDef {
			if vi >= len(values) {
				return nil, perrors.ErrBadValueCount
			}
			v := values[vi]
			v.DefinitionLevel = def
			v.RepetitionLevel = rep
			out[i] = v
			vi++
		} else {
			out[i] = NullValue(def, rep)
		}
	}
	if vi != len(values) {
		return nil, perrors.ErrBadValueCount
	}
	return out, nil
}
