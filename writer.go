package parquet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/encoding/dictionary"
	"github.com/parquetcore/parquet-go/encoding/plain"
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/levels"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

const (
	defaultRowGroupSizeBytes = 128 << 20
	defaultPageSizeBytes     = 1 << 20
	defaultDictionarySize    = 1 << 16
)

// WriterConfig controls how a Writer buffers, encodes and compresses the
// column chunks it emits.
type WriterConfig struct {
	RowGroupSizeBytes  int64
	PageSizeBytes      int64
	Codec              format.CompressionCodec
	Encoding           format.Encoding
	DictionaryEnabled  bool
	DictionarySize     int
	CreatedBy          string
}

// WriterOption configures a WriterConfig, mirroring the functional-option
// constructors elsewhere in this package's ambient stack.
type WriterOption func(*WriterConfig)

func WithCompressionCodec(c format.CompressionCodec) WriterOption {
	return func(cfg *WriterConfig) { cfg.Codec = c }
}

func WithPageSize(n int64) WriterOption {
	return func(cfg *WriterConfig) { cfg.PageSizeBytes = n }
}

func WithRowGroupSize(n int64) WriterOption {
	return func(cfg *WriterConfig) { cfg.RowGroupSizeBytes = n }
}

func WithDictionaryEncoding(enabled bool, maxDistinctValues int) WriterOption {
	return func(cfg *WriterConfig) {
		cfg.DictionaryEnabled = enabled
		cfg.DictionarySize = maxDistinctValues
	}
}

func WithCreatedBy(s string) WriterOption {
	return func(cfg *WriterConfig) { cfg.CreatedBy = s }
}

// NewWriterConfig builds a WriterConfig from its defaults (row group ≈
// 128MiB, page ≈ 1MiB, UNCOMPRESSED, PLAIN, no dictionary) plus the given
// overrides.
func NewWriterConfig(options ...WriterOption) *WriterConfig {
	cfg := &WriterConfig{
		RowGroupSizeBytes: defaultRowGroupSizeBytes,
		PageSizeBytes:     defaultPageSizeBytes,
		Codec:             format.Uncompressed,
		Encoding:          format.Plain,
		DictionarySize:    defaultDictionarySize,
	}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

// Writer emits a Parquet file image one row group at a time, mirroring the
// reader's footer/page/chunk pipeline in reverse.
type Writer struct {
	schema   *Schema
	elements []format.SchemaElement
	config   *WriterConfig

	out  bytes.Buffer
	done bool

	numRows   int64
	rowGroups []format.RowGroup
	columns   []*columnWriter
}

// NewWriter opens a Writer for schema (as produced by NewMessageSchema or
// any other Schema, e.g. one read back from an existing file) and writes the
// leading magic immediately.
func NewWriter(schema *Schema, elements []format.SchemaElement, options ...WriterOption) *Writer {
	w := &Writer{
		schema:   schema,
		elements: elements,
		config:   NewWriterConfig(options...),
	}
	w.out.Write(format.Magic[:])
	w.columns = make([]*columnWriter, len(schema.Leaves))
	for i, leaf := range schema.Leaves {
		w.columns[i] = &columnWriter{leaf: leaf, config: w.config}
	}
	return w
}

// WriteColumn buffers one leaf column's occurrence stream for the row group
// currently being accumulated. values must already carry the definition and
// repetition levels the logical shape implies; for a flat,
// non-nested column that is simply one Value per row, with
// DefinitionLevel/RepetitionLevel left at their NullValue/scalar-constructor
// defaults.
func (w *Writer) WriteColumn(leafIndex int, values []Value) error {
	if w.done {
		return perrors.ErrSchemaError
	}
	if leafIndex < 0 || leafIndex >= len(w.columns) {
		return perrors.ErrSchemaError
	}
	w.columns[leafIndex].buffer(values)
	return nil
}

// PendingRowGroupBytes estimates the uncompressed size of the row group
// accumulated so far across every column, for callers driving row-group
// splitting against WriterConfig.RowGroupSizeBytes themselves (the default
// target is roughly 128 MiB uncompressed per row group).
func (w *Writer) PendingRowGroupBytes() int64 {
	var total int64
	for _, c := range w.columns {
		total += c.pendingBytes
	}
	return total
}

// CloseRowGroup encodes and appends every buffered column's pages, records
// the row group's metadata, and resets the column buffers for the next row
// group. numRows is the number of logical rows spanned by every column
// buffered since the previous CloseRowGroup (or since NewWriter).
func (w *Writer) CloseRowGroup(numRows int64) error {
	if w.done {
		return perrors.ErrSchemaError
	}
	rg := format.RowGroup{
		Columns: make([]format.ColumnChunk, len(w.columns)),
		NumRows: numRows,
	}
	var totalBytes int64
	for i, c := range w.columns {
		chunk, err := c.flushRowGroup(&w.out)
		if err != nil {
			return err
		}
		rg.Columns[i] = chunk
		totalBytes += chunk.MetaData.TotalCompressedSize
	}
	rg.TotalByteSize = totalBytes
	w.rowGroups = append(w.rowGroups, rg)
	w.numRows += numRows
	return nil
}

// Close writes the accumulated FileMetaData footer and trailing magic,
// returning the complete file image The Writer must not be
// used again afterward.
func (w *Writer) Close() ([]byte, error) {
	if w.done {
		return nil, perrors.ErrSchemaError
	}
	w.done = true

	metadata := &format.FileMetaData{
		Version:   2,
		Schema:    w.elements,
		NumRows:   w.numRows,
		RowGroups: w.rowGroups,
	}
	if w.config.CreatedBy != "" {
		createdBy := w.config.CreatedBy
		metadata.CreatedBy = &createdBy
	}

	footer, err := format.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", perrors.ErrCorruptFooter, err)
	}
	w.out.Write(footer)

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(footer)))
	w.out.Write(length[:])
	w.out.Write(format.Magic[:])

	return w.out.Bytes(), nil
}

// columnWriter accumulates one leaf column's values across WriteColumn calls
// until CloseRowGroup splits them into pages.
type columnWriter struct {
	leaf   *LeafColumn
	config *WriterConfig

	pending      []Value
	pendingBytes int64

	stats columnStats
}

func (c *columnWriter) buffer(values []Value) {
	for _, v := range values {
		c.stats.observe(v, c.leaf)
		c.pendingBytes += estimateValueBytes(v, c.leaf)
	}
	c.pending = append(c.pending, values...)
}

// flushRowGroup encodes c.pending into one or more pages honoring
// WriterConfig.PageSizeBytes, emits them (and a leading dictionary page if
// the dictionary heuristic applies) to out, and returns the finished
// ColumnChunk.
func (c *columnWriter) flushRowGroup(out *bytes.Buffer) (format.ColumnChunk, error) {
	startOffset := int64(out.Len())

	enc, dict := c.decideEncoding()

	var dictionaryPageOffset *int64
	if dict != nil {
		offset := int64(out.Len())
		dictionaryPageOffset = &offset
		if err := writeDictionaryPage(out, c.leaf, dict.values); err != nil {
			return format.ColumnChunk{}, err
		}
	}

	dataPageOffset := int64(out.Len())
	totalUncompressed := int64(0)
	totalCompressed := int64(0)

	for _, batch := range splitIntoPages(c.pending, c.leaf, c.config.PageSizeBytes) {
		uSize, cSize, err := writeDataPage(out, c.leaf, batch, enc, dict, c.config.Codec)
		if err != nil {
			return format.ColumnChunk{}, err
		}
		totalUncompressed += int64(uSize)
		totalCompressed += int64(cSize)
	}

	meta := &format.ColumnMetaData{
		Type:                  c.leaf.Type,
		Encodings:             []format.Encoding{format.RLE, enc},
		PathInSchema:          c.leaf.Path,
		Codec:                 c.config.Codec,
		NumValues:             int64(len(c.pending)),
		TotalUncompressedSize: totalUncompressed,
		TotalCompressedSize:   totalCompressed,
		DataPageOffset:        dataPageOffset,
		DictionaryPageOffset:  dictionaryPageOffset,
		Statistics:            c.stats.toStatistics(c.leaf),
	}

	chunk := format.ColumnChunk{
		FileOffset: startOffset,
		MetaData:   meta,
	}

	c.pending = nil
	c.pendingBytes = 0
	c.stats = columnStats{}

	return chunk, nil
}

// writerDictionary is the column-level dictionary decided once per row
// group from the complete buffered value set, falling back to the
// configured plain encoding when cardinality or type rules it out.
type writerDictionary struct {
	index  map[string]int32
	values []Value
}

// decideEncoding applies the dictionary-fallback heuristic from the
// buffered batch: if dictionary encoding is enabled, the physical type
// supports it, and the number of distinct non-null values stays within
// WriterConfig.DictionarySize, every page of this row group's chunk uses
// RLE_DICTIONARY against that one dictionary; otherwise every page uses
// the configured fallback encoding (PLAIN by default).
func (c *columnWriter) decideEncoding() (format.Encoding, *writerDictionary) {
	if !c.config.DictionaryEnabled || c.leaf.Type == format.Boolean {
		return c.config.Encoding, nil
	}

	index := make(map[string]int32)
	var values []Value
	for _, v := range c.pending {
		if v.IsNull() {
			continue
		}
		key := dictKey(v, c.leaf.Type)
		if _, ok := index[key]; ok {
			continue
		}
		if len(values) >= c.config.DictionarySize {
			return c.config.Encoding, nil
		}
		index[key] = int32(len(values))
		values = append(values, v)
	}
	if len(values) == 0 {
		return c.config.Encoding, nil
	}
	return format.RLEDictionary, &writerDictionary{index: index, values: values}
}

func dictKey(v Value, typ format.Type) string {
	switch typ {
	case format.Boolean:
		return fmt.Sprintf("%v", v.Boolean())
	case format.Int32:
		return fmt.Sprintf("%d", v.Int32())
	case format.Int64:
		return fmt.Sprintf("%d", v.Int64())
	case format.Int96:
		int96 := v.Int96()
		return string(int96[:])
	case format.Float:
		return fmt.Sprintf("%x", v.Float())
	case format.Double:
		return fmt.Sprintf("%x", v.Double())
	case format.ByteArray, format.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return ""
	}
}

// splitIntoPages groups occurrences into batches, closing a batch at the
// first row boundary once its estimated uncompressed size has reached
// sizeLimit (so a batch can exceed sizeLimit by up to one row), and never
// splitting in the middle of a row's repeated-value run.
func splitIntoPages(values []Value, leaf *LeafColumn, sizeLimit int64) [][]Value {
	if len(values) == 0 {
		return nil
	}
	var pages [][]Value
	var current []Value
	var currentBytes int64

	for _, v := range values {
		if v.RepetitionLevel == 0 && len(current) > 0 && currentBytes >= sizeLimit {
			pages = append(pages, current)
			current = nil
			currentBytes = 0
		}
		current = append(current, v)
		currentBytes += estimateValueBytes(v, leaf)
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}

// estimateValueBytes approximates the uncompressed on-wire footprint of one
// occurrence, used only to decide page/row-group boundaries.
func estimateValueBytes(v Value, leaf *LeafColumn) int64 {
	switch leaf.Type {
	case format.Boolean:
		return 1
	case format.Int32, format.Float:
		return 4
	case format.Int64, format.Double:
		return 8
	case format.Int96:
		return 12
	case format.ByteArray:
		return int64(4 + len(v.ByteArray()))
	case format.FixedLenByteArray:
		return int64(leaf.TypeLength)
	default:
		return 8
	}
}

// writeDictionaryPage emits a DictionaryPageHeader and its PLAIN-encoded
// payload of distinct values.
func writeDictionaryPage(out *bytes.Buffer, leaf *LeafColumn, values []Value) error {
	payload, err := encodeTypedValues(&plain.Encoding{}, leaf, values)
	if err != nil {
		return err
	}
	crc := int32(crc32.ChecksumIEEE(payload))
	header := &format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(payload)),
		CRC:                  &crc,
		DictionaryPageHeader: &format.DictionaryPageHeader{
			NumValues: int32(len(values)),
			Encoding:  format.Plain,
		},
	}
	headerBytes, err := format.Marshal(header)
	if err != nil {
		return fmt.Errorf("%w: %s", perrors.ErrCorruptFooter, err)
	}
	out.Write(headerBytes)
	out.Write(payload)
	return nil
}

// writeDataPage emits one DataPageV1 for batch: its RLE-hybrid-encoded
// repetition and definition level sections, then its values encoded with
// enc (or as dictionary indices against dict), compressed with codec.
func writeDataPage(out *bytes.Buffer, leaf *LeafColumn, batch []Value, enc format.Encoding, dict *writerDictionary, codec format.CompressionCodec) (uncompressedSize, compressedSize int32, err error) {
	var body []byte

	repLevels := make([]int32, len(batch))
	defLevels := make([]int32, len(batch))
	for i, v := range batch {
		repLevels[i] = int32(v.RepetitionLevel)
		defLevels[i] = int32(v.DefinitionLevel)
	}
	body = appendV1LevelSection(body, repLevels, leaf.MaxRepetitionLevel)
	body = appendV1LevelSection(body, defLevels, leaf.MaxDefinitionLevel)

	var nonNull []Value
	for _, v := range batch {
		if !v.IsNull() {
			nonNull = append(nonNull, v)
		}
	}

	var valuesBytes []byte
	if dict != nil {
		indexes := make([]int32, len(nonNull))
		for i, v := range nonNull {
			indexes[i] = dict.index[dictKey(v, leaf.Type)]
		}
		codec := &dictionary.Encoding{}
		valuesBytes, err = codec.EncodeInt32(nil, indexes)
		if err != nil {
			return 0, 0, err
		}
	} else {
		valuesBytes, err = encodeTypedValues(lookupEncoderFor(enc), leaf, nonNull)
		if err != nil {
			return 0, 0, err
		}
	}
	body = append(body, valuesBytes...)

	payload := body
	isCompressed := codec != format.Uncompressed
	if isCompressed {
		payload, err = compress(codec, nil, body)
		if err != nil {
			return 0, 0, err
		}
	}

	crc := int32(crc32.ChecksumIEEE(payload))
	header := &format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(body)),
		CompressedPageSize:   int32(len(payload)),
		CRC:                  &crc,
		DataPageHeader: &format.DataPageHeader{
			NumValues:               int32(len(batch)),
			Encoding:                enc,
			DefinitionLevelEncoding: format.RLE,
			RepetitionLevelEncoding: format.RLE,
		},
	}
	headerBytes, err := format.Marshal(header)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", perrors.ErrCorruptFooter, err)
	}
	out.Write(headerBytes)
	out.Write(payload)

	return header.UncompressedPageSize, header.CompressedPageSize, nil
}

func appendV1LevelSection(dst []byte, levelValues []int32, maxLevel int) []byte {
	if maxLevel == 0 {
		return dst
	}
	bitWidth := bitWidthFor(maxLevel)
	encoded := levels.Encode(nil, levelValues, bitWidth)
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(encoded)))
	dst = append(dst, length[:]...)
	dst = append(dst, encoded...)
	return dst
}

// lookupEncoderFor returns the Encoding implementation registered for enc,
// or the PLAIN encoding when enc has no registered implementation.
func lookupEncoderFor(enc format.Encoding) encoding.Encoding {
	codec, err := lookupValueEncoding(enc)
	if err != nil {
		return &plain.Encoding{}
	}
	return codec
}

// encodeTypedValues is the write-side mirror of decodeTypedValues: it
// dispatches to the typed Encode method of codec matching leaf's physical
// type.
func encodeTypedValues(codec encoding.Encoding, leaf *LeafColumn, values []Value) ([]byte, error) {
	switch leaf.Type {
	case format.Boolean:
		src := make([]bool, len(values))
		for i, v := range values {
			src[i] = v.Boolean()
		}
		return codec.EncodeBoolean(nil, src)
	case format.Int32:
		src := make([]int32, len(values))
		for i, v := range values {
			src[i] = v.Int32()
		}
		return codec.EncodeInt32(nil, src)
	case format.Int64:
		src := make([]int64, len(values))
		for i, v := range values {
			src[i] = v.Int64()
		}
		return codec.EncodeInt64(nil, src)
	case format.Int96:
		src := make([]encoding.Int96, len(values))
		for i, v := range values {
			src[i] = v.Int96()
		}
		return codec.EncodeInt96(nil, src)
	case format.Float:
		src := make([]float32, len(values))
		for i, v := range values {
			src[i] = v.Float()
		}
		return codec.EncodeFloat(nil, src)
	case format.Double:
		src := make([]float64, len(values))
		for i, v := range values {
			src[i] = v.Double()
		}
		return codec.EncodeDouble(nil, src)
	case format.ByteArray:
		src := make([][]byte, len(values))
		for i, v := range values {
			src[i] = v.ByteArray()
		}
		return codec.EncodeByteArray(nil, src)
	case format.FixedLenByteArray:
		src := make([][]byte, len(values))
		for i, v := range values {
			src[i] = v.ByteArray()
		}
		return codec.EncodeFixedLenByteArray(nil, src, int(leaf.TypeLength))
	default:
		return nil, fmt.Errorf("%w: physical type %s", perrors.ErrTypeMismatch, leaf.Type)
	}
}

// columnStats accumulates the per-column-chunk Statistics summary: min, max
// (as PLAIN-encoded bytes of the physical type) and null_count/total_values.
type columnStats struct {
	min, max    Value
	haveMinMax  bool
	nullCount   int64
	totalValues int64
}

func (s *columnStats) observe(v Value, leaf *LeafColumn) {
	s.totalValues++
	if v.IsNull() {
		s.nullCount++
		return
	}
	if !s.haveMinMax {
		s.min, s.max = v, v
		s.haveMinMax = true
		return
	}
	if cmp, ok := compareValues(nativeValue(v, leaf.Type), nativeValue(s.min, leaf.Type)); ok && cmp < 0 {
		s.min = v
	}
	if cmp, ok := compareValues(nativeValue(v, leaf.Type), nativeValue(s.max, leaf.Type)); ok && cmp > 0 {
		s.max = v
	}
}

// toStatistics PLAIN-encodes the observed min/max into the MinValue/MaxValue
// fields decodeStatValue reads back.
func (s *columnStats) toStatistics(leaf *LeafColumn) *format.Statistics {
	nullCount := s.nullCount
	stats := &format.Statistics{NullCount: &nullCount}
	if !s.haveMinMax {
		return stats
	}
	codec := &plain.Encoding{}
	if minBytes, err := encodeTypedValues(codec, leaf, []Value{s.min}); err == nil {
		stats.MinValue = minBytes
	}
	if maxBytes, err := encodeTypedValues(codec, leaf, []Value{s.max}); err == nil {
		stats.MaxValue = maxBytes
	}
	return stats
}
