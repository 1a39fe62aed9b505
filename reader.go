package parquet

import (
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

// File is an opened, fully-buffered Parquet file image. Random access into
// it is the only I/O primitive the codec core needs; the caller is
// responsible for providing the complete byte image, whether read from
// disk, mapped, or held in memory.
type File struct {
	data     []byte
	metadata *format.FileMetaData
	schema   *Schema
}

// OpenFile validates the magic and footer of data and decodes its schema
// The returned File retains data by reference; callers must
// not mutate it afterward.
func OpenFile(data []byte) (*File, error) {
	metadata, err := readFooter(data)
	if err != nil {
		return nil, err
	}
	if metadata.Version != 1 && metadata.Version != 2 {
		return nil, perrors.ErrUnsupportedVersion
	}
	schema, err := buildSchema(metadata.Schema)
	if err != nil {
		return nil, err
	}
	return &File{data: data, metadata: metadata, schema: schema}, nil
}

// NumRows returns the file's total row count across every row group.
func (f *File) NumRows() int64 { return f.metadata.NumRows }

// Schema returns the flattened leaf and logical column model.
func (f *File) Schema() *Schema { return f.schema }

// NumRowGroups returns the number of row groups in the file.
func (f *File) NumRowGroups() int { return len(f.metadata.RowGroups) }

// RowGroup returns a reader over the i'th row group.
func (f *File) RowGroup(i int) *RowGroupReader {
	return &RowGroupReader{file: f, rg: &f.metadata.RowGroups[i]}
}

// KeyValueMetadata returns the file-level free-form metadata entries.
func (f *File) KeyValueMetadata() []format.KeyValue { return f.metadata.KeyValueMetadata }

// RowGroupReader iterates the column chunks of one row group.
type RowGroupReader struct {
	file *File
	rg   *format.RowGroup
}

// NumRows returns the number of rows stored in this row group.
func (r *RowGroupReader) NumRows() int64 { return r.rg.NumRows }

// ReadColumn decodes the full occurrence stream of the i'th leaf column's
// chunk.
func (r *RowGroupReader) ReadColumn(i int) (*ColumnValues, error) {
	if i < 0 || i >= len(r.file.schema.Leaves) {
		return nil, perrors.ErrSchemaError
	}
	chunk := &r.rg.Columns[i]
	if chunk.MetaData == nil {
		return nil, perrors.ErrCorruptFooter
	}
	leaf := r.file.schema.Leaves[i]
	cr := newChunkReader(r.file.data, leaf, chunk.MetaData)
	return cr.readColumn()
}

// statsLookup adapts this row group's column chunk statistics to the
// StatsLookup shape filter.Skip needs Only single-leaf
// logical columns (PRIMITIVE, LIST) expose statistics; a filter addressing a
// MAP or STRUCT column never skips by this path.
func (r *RowGroupReader) statsLookup() StatsLookup {
	return func(column string) (*format.Statistics, *LeafColumn, int64, bool) {
		lc := r.file.schema.FindLogicalColumn(column)
		if lc == nil || len(lc.Leaves) != 1 {
			return nil, nil, 0, false
		}
		leaf := lc.Leaves[0]
		chunk := &r.rg.Columns[leaf.ColumnIndex]
		if chunk.MetaData == nil || chunk.MetaData.Statistics == nil {
			return nil, nil, 0, false
		}
		return chunk.MetaData.Statistics, leaf, chunk.MetaData.NumValues, true
	}
}

// MaterializeColumn decodes the named top-level logical column into one
// native Go value per row: a scalar for PRIMITIVE, a
// []interface{} (or nil) for LIST, a []MapEntry (or nil) for MAP. STRUCT
// columns are not materialized by this entry point and report
// ErrSchemaError; their fields can be decoded leaf by leaf with ReadColumn.
func (r *RowGroupReader) MaterializeColumn(name string) ([]interface{}, error) {
	lc := r.file.schema.FindLogicalColumn(name)
	if lc == nil {
		return nil, perrors.ErrSchemaError
	}
	switch lc.Kind {
	case KindPrimitive:
		return r.materializePrimitive(lc.Leaves[0])
	case KindList:
		if len(lc.Leaves) != 1 {
			return nil, perrors.ErrSchemaError
		}
		return r.materializeList(lc.Leaves[0])
	case KindMap:
		if len(lc.Leaves) != 2 {
			return nil, perrors.ErrSchemaError
		}
		return r.materializeMap(lc.Leaves[0], lc.Leaves[1])
	default:
		return nil, perrors.ErrSchemaError
	}
}

func (r *RowGroupReader) materializePrimitive(leaf *LeafColumn) ([]interface{}, error) {
	cv, err := r.ReadColumn(leaf.ColumnIndex)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(cv.Values))
	for i, v := range cv.Values {
		if v.IsNull() {
			continue
		}
		out[i] = nativeValue(v, leaf.Type)
	}
	return out, nil
}

func (r *RowGroupReader) materializeList(leaf *LeafColumn) ([]interface{}, error) {
	cv, err := r.ReadColumn(leaf.ColumnIndex)
	if err != nil {
		return nil, err
	}
	rows, err := cv.DecodeAsList(func(v Value) interface{} { return nativeValue(v, leaf.Type) })
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out, nil
}

func (r *RowGroupReader) materializeMap(keyLeaf, valLeaf *LeafColumn) ([]interface{}, error) {
	keys, err := r.ReadColumn(keyLeaf.ColumnIndex)
	if err != nil {
		return nil, err
	}
	vals, err := r.ReadColumn(valLeaf.ColumnIndex)
	if err != nil {
		return nil, err
	}
	rows := assembleMaps(keys.Values, vals.Values, keyLeaf.MaxDefinitionLevel,
		func(v Value) interface{} { return nativeValue(v, keyLeaf.Type) },
		func(v Value) interface{} { return nativeValue(v, valLeaf.Type) })
	out := make([]interface{}, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out, nil
}

// FilterRows is the filtering row iterator: it attempts a row-group-level
// skip using column chunk statistics before materializing anything, then
// materializes every logical column the filter tree references (plus any
// extra columns named in project) and returns only the rows filter
// accepts.
func (r *RowGroupReader) FilterRows(filter RowFilter, project []string) ([]map[string]interface{}, error) {
	if filter != nil && filter.Skip(r.statsLookup()) {
		return nil, nil
	}

	columns := referencedColumns(filter)
	for _, name := range project {
		if !containsString(columns, name) {
			columns = append(columns, name)
		}
	}

	materialized := make(map[string][]interface{}, len(columns))
	for _, name := range columns {
		values, err := r.MaterializeColumn(name)
		if err != nil {
			return nil, err
		}
		materialized[name] = values
	}

	numRows := int(r.NumRows())
	var out []map[string]interface{}
	for i := 0; i < numRows; i++ {
		row := make(map[string]interface{}, len(columns))
		for _, name := range columns {
			if i < len(materialized[name]) {
				row[name] = materialized[name][i]
			}
		}
		if filter == nil || filter.Apply(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// referencedColumns walks a filter tree and collects the distinct logical
// column names it addresses.
func referencedColumns(f RowFilter) []string {
	var names []string
	var walk func(RowFilter)
	walk = func(f RowFilter) {
		switch v := f.(type) {
		case nil:
			return
		case *ColumnFilter:
			if !containsString(names, v.Column) {
				names = append(names, v.Column)
			}
		case *FilterSet:
			for _, child := range v.Filters {
				walk(child)
			}
		}
	}
	walk(f)
	return names
}

// PageInfo summarizes one page of a column chunk for debugging.
type PageInfo struct {
	Type                 format.PageType
	NumValues            int32
	UncompressedPageSize int32
	CompressedPageSize   int32
	Offset               int64
}

// GetColumnPageReader returns the list of page headers of the i'th leaf
// column's chunk without decoding their values, for inspection.
func (r *RowGroupReader) GetColumnPageReader(i int) ([]PageInfo, error) {
	if i < 0 || i >= len(r.file.schema.Leaves) {
		return nil, perrors.ErrSchemaError
	}
	chunk := &r.rg.Columns[i]
	if chunk.MetaData == nil {
		return nil, perrors.ErrCorruptFooter
	}
	meta := chunk.MetaData

	var pages []PageInfo
	offset := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset < offset {
		offset = *meta.DictionaryPageOffset
	}

	produced := int64(0)
	for produced < meta.NumValues {
		header, payloadOffset, err := readPageHeader(r.file.data, offset)
		if err != nil {
			return nil, err
		}
		info := PageInfo{
			Type:                 header.Type,
			UncompressedPageSize: header.UncompressedPageSize,
			CompressedPageSize:   header.CompressedPageSize,
			Offset:               offset,
		}
		switch header.Type {
		case format.DictionaryPage:
			info.NumValues = header.DictionaryPageHeader.NumValues
		case format.DataPage:
			info.NumValues = header.DataPageHeader.NumValues
			produced += int64(info.NumValues)
		case format.DataPageV2:
			info.NumValues = header.DataPageHeaderV2.NumValues
			produced += int64(info.NumValues)
		}
		pages = append(pages, info)
		offset = payloadOffset + int64(header.CompressedPageSize)
	}
	return pages, nil
}
