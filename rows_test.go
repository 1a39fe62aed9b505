package parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func asInt32(v Value) interface{} { return v.Int32() }

func TestAssembleListsSingleLevel(t *testing.T) {
	// max_def = 3 (list optional=1, element repeated=2, element optional=3)
	values := []Value{
		NullValue(0, 0),                // row 0: list itself absent
		Int32Value(1, 3, 0),             // row 1: [1, nil, 2]
		NullValue(2, 1),
		Int32Value(2, 3, 1),
		NullValue(1, 0),                 // row 2: present but empty
	}
	rows := assembleLists(values, 3, asInt32)

	assert.Len(t, rows, 3)
	assert.Nil(t, rows[0])
	assert.Equal(t, []interface{}{int32(1), nil, int32(2)}, rows[1])
	assert.Equal(t, []interface{}{}, rows[2])
}

func TestAssembleNestedListsTwoLevelsMixedNulls(t *testing.T) {
	// list-of-list of int32, both levels optional:
	//   outer optional (def 1), outer "list" repeated (def 2, rep 1),
	//   inner "element" optional (def 3), inner "list" repeated (def 4, rep 2),
	//   leaf "element" optional (def 5, max_def 5)
	thresholds := []int{2, 4}
	maxDef := 5

	values := []Value{
		// row 0: outer list absent entirely
		NullValue(0, 0),

		// row 1: [[1, 2], nil, [], [3]]
		Int32Value(1, 5, 0), // outer[0][0] = 1
		Int32Value(2, 5, 2), // outer[0][1] = 2
		NullValue(2, 1),     // outer[1] = nil (inner list absent)
		NullValue(3, 1),     // outer[2] = [] (inner list present, empty)
		Int32Value(3, 5, 1), // outer[3][0] = 3

		// row 2: [[nil]]
		NullValue(4, 0),
	}

	rows := assembleNestedLists(values, thresholds, maxDef, asInt32)

	assert.Len(t, rows, 3)
	assert.Nil(t, rows[0])
	assert.Equal(t, []interface{}{
		[]interface{}{int32(1), int32(2)},
		nil,
		[]interface{}{},
		[]interface{}{int32(3)},
	}, rows[1])
	assert.Equal(t, []interface{}{[]interface{}{nil}}, rows[2])
}

func TestAssembleMaps(t *testing.T) {
	keys := []Value{
		NullValue(0, 0),        // row 0: map absent
		ByteArrayValue([]byte("a"), 2, 0),
		ByteArrayValue([]byte("b"), 2, 1),
	}
	vals := []Value{
		NullValue(0, 0),
		Int32Value(1, 2, 0),
		NullValue(1, 1), // value null, key still present
	}
	strConv := func(v Value) interface{} { return string(v.ByteArray()) }

	rows := assembleMaps(keys, vals, 2, strConv, asInt32)

	assert.Len(t, rows, 2)
	assert.Nil(t, rows[0])
	assert.Equal(t, []MapEntry{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: nil},
	}, rows[1])
}

func TestAssembleStructs(t *testing.T) {
	fieldRows := [][]interface{}{
		{int32(1), int32(2)},
		{"x", "y"},
	}
	out := assembleStructs([]string{"id", "name"}, fieldRows, []bool{false, true})

	assert.Len(t, out, 2)
	assert.Equal(t, map[string]interface{}{"id": int32(1), "name": "x"}, out[0])
	assert.Nil(t, out[1])
}
