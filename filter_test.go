package parquet

import (
	"testing"

	"github.com/parquetcore/parquet-go/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnFilterApplyComparison(t *testing.T) {
	row := map[string]interface{}{"age": int32(30), "name": "alice"}

	assert.True(t, EqualFilter("age", int32(30)).Apply(row))
	assert.False(t, EqualFilter("age", int32(31)).Apply(row))
	assert.True(t, GreaterThanFilter("age", int32(29)).Apply(row))
	assert.True(t, LessThanOrEqualFilter("age", int32(30)).Apply(row))
	assert.True(t, NotEqualFilter("name", "bob").Apply(row))
}

func TestColumnFilterApplyStringOps(t *testing.T) {
	row := map[string]interface{}{"name": "alice"}

	assert.True(t, PrefixFilter("name", "ali").Apply(row))
	assert.True(t, SuffixFilter("name", "ice").Apply(row))
	assert.True(t, ContainsFilter("name", "lic").Apply(row))
	assert.False(t, PrefixFilter("name", "bob").Apply(row))
}

func TestColumnFilterApplyNullChecks(t *testing.T) {
	present := map[string]interface{}{"x": int32(1)}
	absent := map[string]interface{}{}

	assert.True(t, IsNotNullFilter("x").Apply(present))
	assert.False(t, IsNullFilter("x").Apply(present))
	assert.True(t, IsNullFilter("x").Apply(absent))
	assert.False(t, IsNotNullFilter("x").Apply(absent))
}

func TestColumnFilterApplyMapKeyScope(t *testing.T) {
	row := map[string]interface{}{
		"tags": []MapEntry{
			{Key: "env", Value: "prod"},
			{Key: "team", Value: "core"},
		},
	}
	f := EqualFilter("tags", "prod").WithMapKey("env")
	assert.True(t, f.Apply(row))

	missing := EqualFilter("tags", "prod").WithMapKey("missing")
	assert.False(t, missing.Apply(row))
	assert.True(t, IsNullFilter("tags").WithMapKey("missing").Apply(row))
}

func TestColumnFilterApplyTypeMismatchIsNoMatch(t *testing.T) {
	row := map[string]interface{}{"x": "not a number"}
	assert.False(t, GreaterThanFilter("x", int32(5)).Apply(row))
}

func TestFilterSetApplyAllAny(t *testing.T) {
	row := map[string]interface{}{"age": int32(30), "name": "alice"}

	all := NewFilterSet(All, EqualFilter("age", int32(30)), EqualFilter("name", "alice"))
	assert.True(t, all.Apply(row))

	allFails := NewFilterSet(All, EqualFilter("age", int32(30)), EqualFilter("name", "bob"))
	assert.False(t, allFails.Apply(row))

	any := NewFilterSet(Any, EqualFilter("age", int32(1)), EqualFilter("name", "alice"))
	assert.True(t, any.Apply(row))

	assert.True(t, NewFilterSet(All).Apply(row))
	assert.False(t, NewFilterSet(Any).Apply(row))
}

func int32Stats(min, max int32, nullCount, numValues int64) (*format.Statistics, *LeafColumn, int64) {
	leaf := &LeafColumn{Type: format.Int32}
	minBuf := make([]byte, 4)
	maxBuf := make([]byte, 4)
	putLE32(minBuf, min)
	putLE32(maxBuf, max)
	return &format.Statistics{MinValue: minBuf, MaxValue: maxBuf, NullCount: &nullCount}, leaf, numValues
}

func putLE32(b []byte, v int32) {
	u := uint32(v)
	b[0] = byte(u)
	b[1] = byte(u >> 8)
	b[2] = byte(u >> 16)
	b[3] = byte(u >> 24)
}

func TestColumnFilterSkipEqualOutOfRange(t *testing.T) {
	stats, leaf, numValues := int32Stats(10, 20, 0, 100)
	lookup := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return stats, leaf, numValues, true
	}

	assert.True(t, EqualFilter("x", int32(5)).Skip(lookup))
	assert.True(t, EqualFilter("x", int32(25)).Skip(lookup))
	assert.False(t, EqualFilter("x", int32(15)).Skip(lookup))
}

func TestColumnFilterSkipComparisons(t *testing.T) {
	stats, leaf, numValues := int32Stats(10, 20, 0, 100)
	lookup := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return stats, leaf, numValues, true
	}

	assert.True(t, LessThanFilter("x", int32(10)).Skip(lookup))
	assert.False(t, LessThanFilter("x", int32(11)).Skip(lookup))
	assert.True(t, GreaterThanFilter("x", int32(20)).Skip(lookup))
	assert.False(t, GreaterThanFilter("x", int32(19)).Skip(lookup))
}

func TestColumnFilterSkipIsNullIsNotNull(t *testing.T) {
	allNonNull, leaf, numValues := int32Stats(0, 0, 0, 50)
	lookupAllNonNull := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return allNonNull, leaf, numValues, true
	}
	assert.True(t, IsNullFilter("x").Skip(lookupAllNonNull))
	assert.False(t, IsNotNullFilter("x").Skip(lookupAllNonNull))

	allNull, leaf2, numValues2 := int32Stats(0, 0, 50, 50)
	lookupAllNull := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return allNull, leaf2, numValues2, true
	}
	assert.False(t, IsNullFilter("x").Skip(lookupAllNull))
	assert.True(t, IsNotNullFilter("x").Skip(lookupAllNull))

	somePartiallyNull, leaf3, numValues3 := int32Stats(0, 0, 1, 50)
	lookupPartial := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return somePartiallyNull, leaf3, numValues3, true
	}
	assert.False(t, IsNotNullFilter("x").Skip(lookupPartial))
}

func TestColumnFilterSkipNoStatsNeverSkips(t *testing.T) {
	lookup := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return nil, nil, 0, false
	}
	assert.False(t, EqualFilter("x", int32(5)).Skip(lookup))
}

func TestColumnFilterSkipContainsPrefixSuffixNeverSkip(t *testing.T) {
	stats, leaf, numValues := int32Stats(10, 20, 0, 100)
	lookup := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return stats, leaf, numValues, true
	}
	assert.False(t, ContainsFilter("x", "a").Skip(lookup))
	assert.False(t, PrefixFilter("x", "a").Skip(lookup))
	assert.False(t, SuffixFilter("x", "a").Skip(lookup))
}

func TestColumnFilterSkipMapKeyScopedNeverSkips(t *testing.T) {
	stats, leaf, numValues := int32Stats(10, 20, 0, 100)
	lookup := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return stats, leaf, numValues, true
	}
	assert.False(t, EqualFilter("x", int32(999)).WithMapKey("k").Skip(lookup))
}

func TestFilterSetSkipAllAny(t *testing.T) {
	stats, leaf, numValues := int32Stats(10, 20, 0, 100)
	lookup := func(string) (*format.Statistics, *LeafColumn, int64, bool) {
		return stats, leaf, numValues, true
	}
	skippable := EqualFilter("x", int32(999))
	notSkippable := EqualFilter("x", int32(15))

	all := NewFilterSet(All, skippable, notSkippable)
	assert.True(t, all.Skip(lookup))

	allBothLive := NewFilterSet(All, notSkippable, notSkippable)
	assert.False(t, allBothLive.Skip(lookup))

	any := NewFilterSet(Any, skippable, notSkippable)
	assert.False(t, any.Skip(lookup))

	anyBothSkippable := NewFilterSet(Any, skippable, skippable)
	assert.True(t, anyBothSkippable.Skip(lookup))
}

func TestCompareValuesCrossWidthNumeric(t *testing.T) {
	cmp, ok := compareValues(int32(5), int64(5))
	require.True(t, ok)
	assert.Equal(t, 0, cmp)

	cmp, ok = compareValues(float32(1.5), float64(2.5))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestCompareValuesMismatchedKinds(t *testing.T) {
	_, ok := compareValues("a", int32(1))
	assert.False(t, ok)
}
