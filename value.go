package parquet

import "github.com/parquetcore/parquet-go/encoding"

// Value is a single decoded leaf value together with the definition and
// repetition levels that were attached to it on the page: one concrete sum
// type replaces the ad-hoc per-physical-type handles the levels and values
// were previously threaded through separately.
type Value struct {
	null    bool
	boolean bool
	int32   int32
	int64   int64
	int96   encoding.Int96
	float32 float32
	float64 float64
	bytes   []byte

	DefinitionLevel int
	RepetitionLevel int
}

func (v Value) IsNull() bool { return v.null }

func (v Value) Boolean() bool { return v.boolean }

func (v Value) Int32() int32 { return v.int32 }

func (v Value) Int64() int64 { return v.int64 }

func (v Value) Int96() encoding.Int96 { return v.int96 }

func (v Value) Float() float32 { return v.float32 }

func (v Value) Double() float64 { return v.float64 }

func (v Value) ByteArray() []byte { return v.bytes }

func (v Value) String() string { return string(v.bytes) }

func NullValue(defLevel, repLevel int) Value {
	return Value{null: true, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}

func BooleanValue(v bool, defLevel, repLevel int) Value {
	return Value{boolean: v, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}

func Int32Value(v int32, defLevel, repLevel int) Value {
	return Value{int32: v, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}

func Int64Value(v int64, defLevel, repLevel int) Value {
	return Value{int64: v, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}

func Int96Value(v encoding.Int96, defLevel, repLevel int) Value {
	return Value{int96: v, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}

func FloatValue(v float32, defLevel, repLevel int) Value {
	return Value{float32: v, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}

func DoubleValue(v float64, defLevel, repLevel int) Value {
	return Value{float64: v, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}

func ByteArrayValue(v []byte, defLevel, repLevel int) Value {
	return Value{bytes: v, DefinitionLevel: defLevel, RepetitionLevel: repLevel}
}
