// Package format declares the wire types of the Apache Parquet file format
// footer and page headers.
//
// The types in this package are plain Go structs carrying `thrift:"id,rule"`
// struct tags; (de)serialization is delegated to the compact Thrift protocol
// codec in github.com/segmentio/encoding/thrift, the same way the standard
// library's encoding/json drives itself from `json:"..."` tags. Nothing in
// this package hand-rolls the compact protocol: that job belongs to the
// thrift package's reflection-driven encoder/decoder.
package format

import (
	"io"
	"sort"

	"github.com/segmentio/encoding/thrift"
)

// Magic is the 4-byte sequence that opens and closes every Parquet file.
var Magic = [4]byte{'P', 'A', 'R', '1'}

// Type is the physical (on-disk) type of a leaf column.
type Type int32

const (
	Boolean           Type = 0
	Int32             Type = 1
	Int64             Type = 2
	Int96             Type = 3
	Float             Type = 4
	Double            Type = 5
	ByteArray         Type = 6
	FixedLenByteArray Type = 7
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType describes whether a schema element is required,
// optional, or repeated.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = 0
	Optional FieldRepetitionType = 1
	Repeated FieldRepetitionType = 2
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// ConvertedType records the legacy logical-type annotation of a schema
// element (DECIMAL, LIST, MAP, UTF8, ...). Only the values the codec core
// inspects are named; others still round-trip by their raw code.
type ConvertedType int32

const (
	ConvertedUTF8        ConvertedType = 0
	ConvertedMap         ConvertedType = 1
	ConvertedMapKeyValue ConvertedType = 2
	ConvertedList        ConvertedType = 3
	ConvertedDecimal     ConvertedType = 5
)

// Encoding identifies the encoding used for a page's values or levels.
type Encoding int32

const (
	Plain                Encoding = 0
	PlainDictionary      Encoding = 2
	RLE                  Encoding = 3
	BitPacked            Encoding = 4
	DeltaBinaryPacked    Encoding = 5
	DeltaLengthByteArray Encoding = 6
	DeltaByteArray       Encoding = 7
	RLEDictionary        Encoding = 8
	ByteStreamSplit      Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the codec used to compress a column chunk's
// pages.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = 0
	Snappy       CompressionCodec = 1
	Gzip         CompressionCodec = 2
	Lzo          CompressionCodec = 3
	Brotli       CompressionCodec = 4
	Lz4          CompressionCodec = 5
	Zstd         CompressionCodec = 6
	Lz4Raw       CompressionCodec = 7
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Lzo:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType discriminates the union carried by a PageHeader.
type PageType int32

const (
	DataPage       PageType = 0
	IndexPage      PageType = 1
	DictionaryPage PageType = 2
	DataPageV2     PageType = 3
)

func (t PageType) String() string {
	switch t {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN"
	}
}

// SchemaElement is one node (leaf or group) of the flattened pre-order
// schema tree stored in the footer.
type SchemaElement struct {
	Type           *Type                `thrift:"1,optional"`
	TypeLength     *int32               `thrift:"2,optional"`
	RepetitionType *FieldRepetitionType `thrift:"3,optional"`
	Name           string               `thrift:"4,required"`
	NumChildren    *int32               `thrift:"5,optional"`
	ConvertedType  *ConvertedType       `thrift:"6,optional"`
	Scale          *int32               `thrift:"7,optional"`
	Precision      *int32               `thrift:"8,optional"`
	FieldID        *int32               `thrift:"9,optional"`
}

// Statistics holds per-column-chunk (or per-page) summary values used for
// predicate pushdown.
type Statistics struct {
	Max           []byte `thrift:"1,optional"`
	Min           []byte `thrift:"2,optional"`
	NullCount     *int64 `thrift:"3,optional"`
	DistinctCount *int64 `thrift:"4,optional"`
	MaxValue      []byte `thrift:"5,optional"`
	MinValue      []byte `thrift:"6,optional"`
}

// PageEncodingStats records how many pages of a column chunk used a given
// (page type, encoding) pair. Carried for completeness; the codec core does
// not consult it.
type PageEncodingStats struct {
	PageType PageType `thrift:"1,required"`
	Encoding Encoding `thrift:"2,required"`
	Count    int32    `thrift:"3,required"`
}

// SortingColumn records a column used as a sort key for a row group.
type SortingColumn struct {
	ColumnIdx  int32 `thrift:"1,required"`
	Descending bool  `thrift:"2,required"`
	NullsFirst bool  `thrift:"3,required"`
}

// ColumnMetaData is the per-column-chunk metadata record.
type ColumnMetaData struct {
	Type                  Type                `thrift:"1,required"`
	Encodings             []Encoding          `thrift:"2,required"`
	PathInSchema          []string            `thrift:"3,required"`
	Codec                 CompressionCodec    `thrift:"4,required"`
	NumValues             int64               `thrift:"5,required"`
	TotalUncompressedSize int64               `thrift:"6,required"`
	TotalCompressedSize   int64               `thrift:"7,required"`
	KeyValueMetadata      []KeyValue          `thrift:"8,optional"`
	DataPageOffset        int64               `thrift:"9,required"`
	IndexPageOffset       *int64              `thrift:"10,optional"`
	DictionaryPageOffset  *int64              `thrift:"11,optional"`
	Statistics            *Statistics         `thrift:"12,optional"`
	EncodingStats         []PageEncodingStats `thrift:"13,optional"`
	BloomFilterOffset     *int64              `thrift:"14,optional"`
	BloomFilterLength     *int32              `thrift:"15,optional"`
}

// ColumnChunk is one leaf column's storage location within a row group.
type ColumnChunk struct {
	FilePath   *string         `thrift:"1,optional"`
	FileOffset int64           `thrift:"2,required"`
	MetaData   *ColumnMetaData `thrift:"3,optional"`
}

// RowGroup groups the column chunks that store one horizontal partition of
// rows.
type RowGroup struct {
	Columns             []ColumnChunk   `thrift:"1,required"`
	TotalByteSize       int64           `thrift:"2,required"`
	NumRows             int64           `thrift:"3,required"`
	SortingColumns      []SortingColumn `thrift:"4,optional"`
	FileOffset          *int64          `thrift:"5,optional"`
	TotalCompressedSize *int64          `thrift:"6,optional"`
	Ordinal             *int16          `thrift:"7,optional"`
}

// KeyValue is a free-form metadata entry attached to the file or a column
// chunk.
type KeyValue struct {
	Key   string  `thrift:"1,required"`
	Value *string `thrift:"2,optional"`
}

// ColumnOrder discriminates how a logical column's min/max statistics are
// compared. Only the type-defined order is ever produced by this writer.
type ColumnOrder struct {
	TypeOrder *struct{} `thrift:"0,optional"`
}

// FileMetaData is the root record stored in the Parquet footer.
type FileMetaData struct {
	Version          int32           `thrift:"1,required"`
	Schema           []SchemaElement `thrift:"2,required"`
	NumRows          int64           `thrift:"3,required"`
	RowGroups        []RowGroup      `thrift:"4,required"`
	KeyValueMetadata []KeyValue      `thrift:"5,optional"`
	CreatedBy        *string         `thrift:"6,optional"`
	ColumnOrders     []ColumnOrder   `thrift:"7,optional"`
}

// PageHeader is the compact record that precedes every page's payload.
type PageHeader struct {
	Type                 PageType              `thrift:"1,required"`
	UncompressedPageSize int32                 `thrift:"2,required"`
	CompressedPageSize   int32                 `thrift:"3,required"`
	CRC                  *int32                `thrift:"4,optional"`
	DataPageHeader       *DataPageHeader       `thrift:"5,optional"`
	IndexPageHeader      *struct{}             `thrift:"6,optional"`
	DictionaryPageHeader *DictionaryPageHeader `thrift:"7,optional"`
	DataPageHeaderV2     *DataPageHeaderV2     `thrift:"8,optional"`
}

// DataPageHeader describes a DataPageV1.
type DataPageHeader struct {
	NumValues               int32       `thrift:"1,required"`
	Encoding                Encoding    `thrift:"2,required"`
	DefinitionLevelEncoding Encoding    `thrift:"3,required"`
	RepetitionLevelEncoding Encoding    `thrift:"4,required"`
	Statistics              *Statistics `thrift:"5,optional"`
}

// DataPageHeaderV2 describes a DataPageV2.
type DataPageHeaderV2 struct {
	NumValues                  int32       `thrift:"1,required"`
	NumNulls                   int32       `thrift:"2,required"`
	NumRows                    int32       `thrift:"3,required"`
	Encoding                   Encoding    `thrift:"4,required"`
	DefinitionLevelsByteLength int32       `thrift:"5,required"`
	RepetitionLevelsByteLength int32       `thrift:"6,required"`
	IsCompressed               *bool       `thrift:"7,optional"`
	Statistics                 *Statistics `thrift:"8,optional"`
}

// DictionaryPageHeader describes a dictionary page.
type DictionaryPageHeader struct {
	NumValues int32    `thrift:"1,required"`
	Encoding  Encoding `thrift:"2,required"`
	IsSorted  *bool    `thrift:"3,optional"`
}

// SortKeyValueMetadata sorts a slice of KeyValue entries, giving the writer
// deterministic footer output.
func SortKeyValueMetadata(kv []KeyValue) {
	sort.Slice(kv, func(i, j int) bool {
		switch {
		case kv[i].Key < kv[j].Key:
			return true
		case kv[i].Key > kv[j].Key:
			return false
		default:
			return stringValue(kv[i].Value) < stringValue(kv[j].Value)
		}
	})
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var compactProtocol thrift.CompactProtocol

// Marshal encodes v (one of the record types declared in this package) using
// the Thrift compact protocol.
func Marshal(v interface{}) ([]byte, error) {
	return thrift.Marshal(&compactProtocol, v)
}

// Unmarshal decodes b into v using the Thrift compact protocol.
func Unmarshal(b []byte, v interface{}) error {
	return thrift.Unmarshal(&compactProtocol, b, v)
}

// NewDecoder returns a streaming Thrift compact protocol decoder reading
// from r. Page headers are decoded this way rather than through Unmarshal
// because a page header's length on the wire is not known up front: the
// decoder consumes exactly its own bytes and leaves r positioned at the
// start of the page payload.
func NewDecoder(r io.Reader) *thrift.Decoder {
	return thrift.NewDecoder(compactProtocol.NewReader(r))
}
