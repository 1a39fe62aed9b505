package parquet

// assembleLists reconstructs one []interface{} (or nil) per row from the
// occurrence stream of a single-leaf, non-nested LIST column. A fresh row
// begins at RepetitionLevel == 0; occurrences with RepetitionLevel == 1
// append to the list already open for the current row.
//
// Threshold convention, deliberately ambiguous in the format and resolved
// here: DefinitionLevel == maxDef means a present element; maxDef-1 means a
// present-but-null element; anything lower means the list itself is absent
// (def 0) or present-but-empty (def between 1 and maxDef-2). This module
// always emits an empty, non-nil slice for the present-but-empty case and
// nil only at def == 0, and test fixtures are written against that choice.
func assembleLists(values []Value, maxDef int, converter func(Value) interface{}) [][]interface{} {
	var rows [][]interface{}
	var current []interface{}
	started := false

	flush := func() {
		if started {
			rows = append(rows, current)
		}
	}

	for _, v := range values {
		if v.RepetitionLevel == 0 {
			flush()
			current = nil
			started = true

			switch {
			case v.DefinitionLevel == 0:
				current = nil
				continue
			case v.DefinitionLevel < maxDef-1:
				current = []interface{}{}
				continue
			case v.DefinitionLevel == maxDef-1:
				current = append(current, nil)
				continue
			default:
				current = append(current, converter(v))
				continue
			}
		}

		// RepetitionLevel > 0: extend the list already open for this row.
		switch {
		case v.DefinitionLevel == maxDef-1:
			current = append(current, nil)
		case v.DefinitionLevel == maxDef:
			current = append(current, converter(v))
		}
	}
	flush()

	return rows
}

// assembleNestedLists generalizes assembleLists to a LIST column nested an
// arbitrary number of levels deep (max_rep > 1), applying the same
// present/empty/absent rule recursively at every level of the hierarchy
// instead of just the outermost one. thresholds[d-1] is the definition
// level at which depth d's repeated group holds an actual entry (see
// LeafColumn.RepeatedDefLevels); maxDef is the leaf's overall maximum
// definition level, so maxDef and maxDef-1 split a deepest-level entry into
// a present value and a present-but-null value the same way assembleLists
// does for a single level.
func assembleNestedLists(values []Value, thresholds []int, maxDef int, converter func(Value) interface{}) [][]interface{} {
	maxRep := len(thresholds)
	var rows [][]interface{}
	pos := 0
	for pos < len(values) {
		cell, next := buildNestedListCell(values, pos, 1, maxRep, thresholds, maxDef, converter)
		if cell == nil {
			rows = append(rows, nil)
		} else {
			rows = append(rows, cell.([]interface{}))
		}
		pos = next
	}
	return rows
}

// buildNestedListCell reconstructs the single list cell at the given depth
// opened by values[pos] (the first occurrence belonging to it), returning
// that cell (nil, an empty-but-present slice, or a populated slice whose
// elements are either converted leaves or, for depth < maxRep, further
// []interface{} cells) and the index of the first occurrence not consumed
// by it or any of its descendants.
func buildNestedListCell(values []Value, pos, depth, maxRep int, thresholds []int, maxDef int, converter func(Value) interface{}) (interface{}, int) {
	v := values[pos]
	def := int(v.DefinitionLevel)
	threshold := thresholds[depth-1]
	parentThreshold := 0
	if depth > 1 {
		parentThreshold = thresholds[depth-2]
	}

	if def == parentThreshold {
		return nil, pos + 1
	}

	if depth == maxRep {
		if def < threshold {
			return []interface{}{}, pos + 1
		}
		var elems []interface{}
		p := pos
		for p < len(values) {
			cur := values[p]
			if p != pos && int(cur.RepetitionLevel) < depth {
				break
			}
			switch {
			case int(cur.DefinitionLevel) == maxDef-1:
				elems = append(elems, nil)
			case int(cur.DefinitionLevel) == maxDef:
				elems = append(elems, converter(cur))
			}
			p++
		}
		if elems == nil {
			elems = []interface{}{}
		}
		return elems, p
	}

	if def < threshold {
		return []interface{}{}, pos + 1
	}

	var elems []interface{}
	p := pos
	for p < len(values) {
		cur := values[p]
		if p != pos && int(cur.RepetitionLevel) < depth {
			break
		}
		child, next := buildNestedListCell(values, p, depth+1, maxRep, thresholds, maxDef, converter)
		elems = append(elems, child)
		p = next
	}
	if elems == nil {
		elems = []interface{}{}
	}
	return elems, p
}

// MapEntry is one (key, value) pair of an assembled MAP row.
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

// assembleMaps reconstructs one []MapEntry (or nil) per row from the
// occurrence streams of a MAP logical column's key and value leaves
// Keys are guaranteed non-null by the format; the value may
// be null independently of the key via its own definition level.
func assembleMaps(keys, vals []Value, maxDef int, keyConverter, valConverter func(Value) interface{}) []([]MapEntry) {
	var rows [][]MapEntry
	var current []MapEntry
	started := false

	flush := func() {
		if started {
			rows = append(rows, current)
		}
	}

	for i, k := range keys {
		v := vals[i]
		if k.RepetitionLevel == 0 {
			flush()
			current = nil
			started = true

			switch {
			case k.DefinitionLevel == 0:
				current = nil
				continue
			case k.DefinitionLevel < maxDef:
				current = []MapEntry{}
				continue
			default:
				current = append(current, MapEntry{Key: keyConverter(k), Value: entryValue(v, valConverter)})
				continue
			}
		}

		if k.DefinitionLevel == maxDef {
			current = append(current, MapEntry{Key: keyConverter(k), Value: entryValue(v, valConverter)})
		}
	}
	flush()

	return rows
}

func entryValue(v Value, converter func(Value) interface{}) interface{} {
	if v.IsNull() {
		return nil
	}
	return converter(v)
}

// assembleStructs zips the per-row values of a STRUCT logical column's
// fields into one map[string]interface{} per row, or nil where the struct
// itself is absent Every field slice must have the same
// length (one entry per row); callers first decode each field leaf with its
// own PRIMITIVE/LIST/MAP assembler.
func assembleStructs(fieldNames []string, fieldRows [][]interface{}, structAbsent []bool) []map[string]interface{} {
	if len(fieldRows) == 0 {
		return nil
	}
	numRows := len(fieldRows[0])
	out := make([]map[string]interface{}, numRows)
	for i := 0; i < numRows; i++ {
		if structAbsent != nil && i < len(structAbsent) && structAbsent[i] {
			continue
		}
		record := make(map[string]interface{}, len(fieldNames))
		for f, name := range fieldNames {
			record[name] = fieldRows[f][i]
		}
		out[i] = record
	}
	return out
}
