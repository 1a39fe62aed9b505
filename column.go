package parquet

import (
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

// ColumnValues is the full occurrence stream of one column chunk: one Value
// per (repetition level, definition level) pair decoded across every page
// of the chunk, in page order.
type ColumnValues struct {
	Leaf   *LeafColumn
	Values []Value
}

// Len returns the number of occurrences, not the number of rows: a repeated
// leaf may contribute more than one occurrence per row.
func (c *ColumnValues) Len() int { return len(c.Values) }

// DecodeAsBoolean returns one value per occurrence, with nil standing in
// for a null (def_level < max_def_level).
func (c *ColumnValues) DecodeAsBoolean() ([]*bool, error) {
	out := make([]*bool, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		b := v.Boolean()
		out[i] = &b
	}
	return out, nil
}

func (c *ColumnValues) DecodeAsInt32() ([]*int32, error) {
	out := make([]*int32, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		n := v.Int32()
		out[i] = &n
	}
	return out, nil
}

func (c *ColumnValues) DecodeAsInt64() ([]*int64, error) {
	out := make([]*int64, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		n := v.Int64()
		out[i] = &n
	}
	return out, nil
}

func (c *ColumnValues) DecodeAsFloat() ([]*float32, error) {
	out := make([]*float32, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		f := v.Float()
		out[i] = &f
	}
	return out, nil
}

func (c *ColumnValues) DecodeAsDouble() ([]*float64, error) {
	out := make([]*float64, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		f := v.Double()
		out[i] = &f
	}
	return out, nil
}

// DecodeAsString interprets the leaf's BYTE_ARRAY values as UTF-8.
func (c *ColumnValues) DecodeAsString() ([]*string, error) {
	if c.Leaf.Type != format.ByteArray && c.Leaf.Type != format.FixedLenByteArray {
		return nil, perrors.ErrTypeMismatch
	}
	out := make([]*string, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		s := string(v.ByteArray())
		out[i] = &s
	}
	return out, nil
}

// DecodeAsList reassembles a single-leaf LIST column using its rep/def
// levels, applying converter to each non-null leaf value. Rows with no
// elements decode to an empty, non-nil slice; rows where the list itself
// is absent decode to a nil slice. Nested lists (max_rep > 1, i.e. a
// LIST-of-LIST-of-... column) apply the same rule recursively at each
// level of the hierarchy, so an element of the returned []interface{} is
// itself a []interface{} (or nil) rather than a leaf value until the
// innermost level is reached.
func (c *ColumnValues) DecodeAsList(converter func(Value) interface{}) ([][]interface{}, error) {
	switch {
	case c.Leaf.MaxRepetitionLevel == 1:
		return assembleLists(c.Values, c.Leaf.MaxDefinitionLevel, converter), nil
	case c.Leaf.MaxRepetitionLevel > 1:
		return assembleNestedLists(c.Values, c.Leaf.RepeatedDefLevels, c.Leaf.MaxDefinitionLevel, converter), nil
	default:
		return nil, perrors.ErrTypeMismatch
	}
}
