package parquet

import (
	"bytes"
	"strings"

	"github.com/parquetcore/parquet-go/encoding/plain"
	"github.com/parquetcore/parquet-go/format"
)

// Op identifies a primitive column predicate.
type Op int

const (
	Equal Op = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	Contains
	Prefix
	Suffix
	IsNull
	IsNotNull
)

// Join selects how a FilterSet composes its children.
type Join int

const (
	All Join = iota
	Any
)

// StatsLookup resolves a logical column name to the statistics and leaf
// descriptor of the chunk currently being considered for skipping. It
// returns ok == false when no statistics are available, in which case a
// filter must not claim it can skip.
type StatsLookup func(column string) (stats *format.Statistics, leaf *LeafColumn, numValues int64, ok bool)

// RowFilter is implemented by both ColumnFilter and FilterSet so that sets
// nest arbitrarily.
type RowFilter interface {
	Apply(row map[string]interface{}) bool
	Skip(lookup StatsLookup) bool
}

// ColumnFilter is a single bound predicate over a logical column, optionally
// scoped to one key of a MAP column.
type ColumnFilter struct {
	Column  string
	MapKey  *string
	Op      Op
	Operand interface{}
}

func newFilter(column string, op Op, operand interface{}) *ColumnFilter {
	return &ColumnFilter{Column: column, Op: op, Operand: operand}
}

func EqualFilter(column string, v interface{}) *ColumnFilter              { return newFilter(column, Equal, v) }
func NotEqualFilter(column string, v interface{}) *ColumnFilter           { return newFilter(column, NotEqual, v) }
func LessThanFilter(column string, v interface{}) *ColumnFilter           { return newFilter(column, LessThan, v) }
func LessThanOrEqualFilter(column string, v interface{}) *ColumnFilter    { return newFilter(column, LessThanOrEqual, v) }
func GreaterThanFilter(column string, v interface{}) *ColumnFilter        { return newFilter(column, GreaterThan, v) }
func GreaterThanOrEqualFilter(column string, v interface{}) *ColumnFilter { return newFilter(column, GreaterThanOrEqual, v) }
func ContainsFilter(column string, v interface{}) *ColumnFilter           { return newFilter(column, Contains, v) }
func PrefixFilter(column, s string) *ColumnFilter                         { return newFilter(column, Prefix, s) }
func SuffixFilter(column, s string) *ColumnFilter                         { return newFilter(column, Suffix, s) }
func IsNullFilter(column string) *ColumnFilter                            { return newFilter(column, IsNull, nil) }
func IsNotNullFilter(column string) *ColumnFilter                         { return newFilter(column, IsNotNull, nil) }

// WithMapKey returns a copy of f scoped to one key of a MAP logical column;
// the filter is then applied to map[key], treating a missing key as null.
func (f *ColumnFilter) WithMapKey(key string) *ColumnFilter {
	c := *f
	c.MapKey = &key
	return &c
}

// Apply evaluates f against a materialized row. Type mismatches between the
// filter's operand and the row's value evaluate to false rather than
// raising an error.
func (f *ColumnFilter) Apply(row map[string]interface{}) bool {
	value := row[f.Column]
	if f.MapKey != nil {
		value = lookupMapKey(value, *f.MapKey)
	}

	switch f.Op {
	case IsNull:
		return value == nil
	case IsNotNull:
		return value != nil
	}
	if value == nil {
		return false
	}

	switch f.Op {
	case Contains:
		return applyContains(value, f.Operand)
	case Prefix:
		s, ok1 := value.(string)
		p, ok2 := f.Operand.(string)
		return ok1 && ok2 && strings.HasPrefix(s, p)
	case Suffix:
		s, ok1 := value.(string)
		p, ok2 := f.Operand.(string)
		return ok1 && ok2 && strings.HasSuffix(s, p)
	}

	cmp, ok := compareValues(value, f.Operand)
	if !ok {
		return false
	}
	switch f.Op {
	case Equal:
		return cmp == 0
	case NotEqual:
		return cmp != 0
	case LessThan:
		return cmp < 0
	case LessThanOrEqual:
		return cmp <= 0
	case GreaterThan:
		return cmp > 0
	case GreaterThanOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

func lookupMapKey(value interface{}, key string) interface{} {
	entries, ok := value.([]MapEntry)
	if !ok {
		return nil
	}
	for _, e := range entries {
		if k, ok := e.Key.(string); ok && k == key {
			return e.Value
		}
	}
	return nil
}

func applyContains(value, operand interface{}) bool {
	switch v := value.(type) {
	case string:
		s, ok := operand.(string)
		return ok && strings.Contains(v, s)
	case []interface{}:
		for _, elem := range v {
			if cmp, ok := compareValues(elem, operand); ok && cmp == 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compareValues implements the comparable-primitive ordering used by both
// row evaluation and statistics pushdown: integers and floats compare
// numerically across width, booleans order false before true, strings and
// byte slices compare by byte order within their own type, and any other
// pairing reports ok == false.
func compareValues(a, b interface{}) (cmp int, ok bool) {
	if af, aok := asFloat64(a); aok {
		if bf, bok := asFloat64(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0, true
			case ab:
				return 1, true
			default:
				return -1, true
			}
		}
		return 0, false
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}
	if ab, aok := a.([]byte); aok {
		if bb, bok := b.([]byte); bok {
			return bytes.Compare(ab, bb), true
		}
		return 0, false
	}
	return 0, false
}

func asFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Skip implements statistics-based pushdown: a filter claims it can skip a
// chunk only when the chunk's recorded min/max/null-count prove no row in
// it could match. A map-key scoped filter never skips: per-key statistics
// are not recorded by the format.
func (f *ColumnFilter) Skip(lookup StatsLookup) bool {
	if f.MapKey != nil {
		return false
	}
	stats, leaf, numValues, ok := lookup(f.Column)
	if !ok || stats == nil {
		return false
	}

	nullCount, hasNullCount := statNullCount(stats)

	switch f.Op {
	case IsNull:
		return hasNullCount && nullCount == 0
	case IsNotNull:
		return hasNullCount && nullCount == numValues
	case Contains, Prefix, Suffix:
		return false
	}

	minVal, hasMin := decodeStatValue(stats, leaf, statMin)
	maxVal, hasMax := decodeStatValue(stats, leaf, statMax)

	switch f.Op {
	case Equal:
		if !hasMin || !hasMax {
			return false
		}
		if cmp, ok := compareValues(f.Operand, minVal); ok && cmp < 0 {
			return true
		}
		if cmp, ok := compareValues(f.Operand, maxVal); ok && cmp > 0 {
			return true
		}
		return false
	case LessThan:
		if !hasMin {
			return false
		}
		cmp, ok := compareValues(minVal, f.Operand)
		return ok && cmp >= 0
	case GreaterThan:
		if !hasMax {
			return false
		}
		cmp, ok := compareValues(maxVal, f.Operand)
		return ok && cmp <= 0
	case LessThanOrEqual:
		if !hasMin {
			return false
		}
		cmp, ok := compareValues(minVal, f.Operand)
		return ok && cmp > 0
	case GreaterThanOrEqual:
		if !hasMax {
			return false
		}
		cmp, ok := compareValues(maxVal, f.Operand)
		return ok && cmp < 0
	default:
		return false
	}
}

type statField int

const (
	statMin statField = iota
	statMax
)

func statNullCount(stats *format.Statistics) (int64, bool) {
	if stats.NullCount == nil {
		return 0, false
	}
	return *stats.NullCount, true
}

// decodeStatValue decodes a column chunk's raw min/max bytes (preferring the
// explicitly-typed min_value/max_value fields over the deprecated min/max)
// into the native Go value compareValues understands.
func decodeStatValue(stats *format.Statistics, leaf *LeafColumn, field statField) (interface{}, bool) {
	var raw []byte
	switch field {
	case statMin:
		raw = stats.MinValue
		if raw == nil {
			raw = stats.Min
		}
	case statMax:
		raw = stats.MaxValue
		if raw == nil {
			raw = stats.Max
		}
	}
	if raw == nil {
		return nil, false
	}

	codec := &plain.Encoding{}
	values, err := decodeTypedValues(codec, leaf, raw, 1)
	if err != nil || len(values) == 0 {
		return nil, false
	}
	return nativeValue(values[0], leaf.Type), true
}

// nativeValue unwraps a decoded Value into the plain Go type compareValues
// understands, selected by the leaf's physical type.
func nativeValue(v Value, typ format.Type) interface{} {
	switch typ {
	case format.Boolean:
		return v.Boolean()
	case format.Int32:
		return v.Int32()
	case format.Int64:
		return v.Int64()
	case format.Float:
		return v.Float()
	case format.Double:
		return v.Double()
	case format.ByteArray, format.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return nil
	}
}

// FilterSet composes child filters under a Join An empty
// All is vacuously true; an empty Any is vacuously false.
type FilterSet struct {
	Join    Join
	Filters []RowFilter
}

func NewFilterSet(join Join, filters ...RowFilter) *FilterSet {
	return &FilterSet{Join: join, Filters: filters}
}

func (s *FilterSet) Apply(row map[string]interface{}) bool {
	switch s.Join {
	case All:
		for _, f := range s.Filters {
			if !f.Apply(row) {
				return false
			}
		}
		return true
	case Any:
		for _, f := range s.Filters {
			if f.Apply(row) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Skip reports whether every row governed by this set can be safely
// skipped: with All, skipping any one child is enough; with Any, every
// child must be skippable.
func (s *FilterSet) Skip(lookup StatsLookup) bool {
	switch s.Join {
	case All:
		for _, f := range s.Filters {
			if f.Skip(lookup) {
				return true
			}
		}
		return false
	case Any:
		for _, f := range s.Filters {
			if !f.Skip(lookup) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
