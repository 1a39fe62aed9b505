package parquet

import (
	"strings"

	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

// LeafColumn is one primitive field of a flattened schema tree, in the same
// order as the column chunks of every row group.
type LeafColumn struct {
	Path               []string
	PathString         string
	Type               format.Type
	TypeLength         int32
	ConvertedType      *format.ConvertedType
	Repetition         format.FieldRepetitionType
	MaxDefinitionLevel int
	MaxRepetitionLevel int
	ColumnIndex        int

	// RepeatedDefLevels holds, for each nesting depth d from 1 to
	// MaxRepetitionLevel, the definition level reached at the schema
	// element that introduced that depth's repeated group. Depth d's
	// repeated entry exists in a row iff the occurrence's definition level
	// is >= RepeatedDefLevels[d-1]; assembleNestedLists uses this to
	// reassemble LIST columns nested more than one level deep.
	RepeatedDefLevels []int
}

// LogicalKind discriminates the shape a LogicalColumn presents to callers.
type LogicalKind int

const (
	KindPrimitive LogicalKind = iota
	KindList
	KindMap
	KindStruct
)

func (k LogicalKind) String() string {
	switch k {
	case KindPrimitive:
		return "PRIMITIVE"
	case KindList:
		return "LIST"
	case KindMap:
		return "MAP"
	case KindStruct:
		return "STRUCT"
	default:
		return "UNKNOWN"
	}
}

// LogicalColumn groups one or more leaves recognized as a single
// user-visible column.
type LogicalColumn struct {
	Name   string
	Kind   LogicalKind
	Leaves []*LeafColumn
}

// Schema is the flattened view of a file's schema tree: a sequence of leaf
// columns in column-chunk order, plus the logical columns recognized from
// runs of leaves sharing a structural prefix.
type Schema struct {
	Leaves   []*LeafColumn
	Logical  []*LogicalColumn
	ByPath   map[string]*LeafColumn
}

// buildSchema flattens elements (the pre-order FileMetaData.Schema list,
// element 0 being the message root) into a Schema.
func buildSchema(elements []format.SchemaElement) (*Schema, error) {
	if len(elements) == 0 {
		return nil, perrors.ErrSchemaError
	}

	s := &Schema{ByPath: make(map[string]*LeafColumn)}
	pos := 0

	var walk func(parentDef, parentRep int, path []string, repDefLevels []int) error
	walk = func(parentDef, parentRep int, path []string, repDefLevels []int) error {
		if pos >= len(elements) {
			return perrors.ErrSchemaError
		}
		e := &elements[pos]
		pos++

		def, rep := parentDef, parentRep
		repetition := format.Required
		if e.RepetitionType != nil {
			repetition = *e.RepetitionType
		}
		switch repetition {
		case format.Optional:
			def++
		case format.Repeated:
			def++
			rep++
			repDefLevels = append(append([]int{}, repDefLevels...), def)
		}

		childPath := path
		if e.Name != "" {
			childPath = append(append([]string{}, path...), e.Name)
		}

		numChildren := 0
		if e.NumChildren != nil {
			numChildren = int(*e.NumChildren)
		}

		if numChildren == 0 {
			if e.Type == nil {
				return perrors.ErrSchemaError
			}
			typeLength := int32(0)
			if e.TypeLength != nil {
				typeLength = *e.TypeLength
			}
			leaf := &LeafColumn{
				Path:               childPath,
				PathString:         strings.Join(childPath, "."),
				Type:               *e.Type,
				TypeLength:         typeLength,
				ConvertedType:      e.ConvertedType,
				Repetition:         repetition,
				MaxDefinitionLevel: def,
				MaxRepetitionLevel: rep,
				RepeatedDefLevels:  repDefLevels,
				ColumnIndex:        len(s.Leaves),
			}
			s.Leaves = append(s.Leaves, leaf)
			s.ByPath[leaf.PathString] = leaf
			return nil
		}

		for i := 0; i < numChildren; i++ {
			if err := walk(def, rep, childPath, repDefLevels); err != nil {
				return err
			}
		}
		return nil
	}

	// Walk every top-level field under the implicit message root.
	root := &elements[0]
	pos = 1
	rootChildren := 0
	if root.NumChildren != nil {
		rootChildren = int(*root.NumChildren)
	}
	for i := 0; i < rootChildren; i++ {
		if err := walk(0, 0, nil, nil); err != nil {
			return nil, err
		}
	}
	if pos != len(elements) {
		return nil, perrors.ErrSchemaError
	}

	s.Logical = recognizeLogicalColumns(s.Leaves)
	return s, nil
}

// recognizeLogicalColumns groups leaves into logical columns by structural
// pattern matching on contiguous runs of leaves sharing a prefix. Every leaf
// belongs to exactly one logical column.
func recognizeLogicalColumns(leaves []*LeafColumn) []*LogicalColumn {
	var logicals []*LogicalColumn
	i := 0
	for i < len(leaves) {
		leaf := leaves[i]
		top := topLevelName(leaf.Path)

		// MAP: two adjacent leaves sharing a "<name>.(map|key_value)" prefix
		// and ending in "key"/"value".
		if i+1 < len(leaves) {
			other := leaves[i+1]
			if mapPrefix, ok := commonMapPrefix(leaf.Path, other.Path); ok {
				logicals = append(logicals, &LogicalColumn{
					Name:   mapPrefix,
					Kind:   KindMap,
					Leaves: []*LeafColumn{leaf, other},
				})
				i += 2
				continue
			}
		}

		// LIST: path ends in ".list.element" (possibly repeated for
		// list-of-list); group every leaf under the same top-level name that
		// also matches the list shape.
		if isListPath(leaf.Path) {
			j := i + 1
			for j < len(leaves) && topLevelName(leaves[j].Path) == top && isListPath(leaves[j].Path) {
				j++
			}
			logicals = append(logicals, &LogicalColumn{
				Name:   top,
				Kind:   KindList,
				Leaves: append([]*LeafColumn{}, leaves[i:j]...),
			})
			i = j
			continue
		}

		// STRUCT: multiple leaves share the same top-level name.
		j := i + 1
		for j < len(leaves) && topLevelName(leaves[j].Path) == top {
			j++
		}
		if j-i > 1 {
			logicals = append(logicals, &LogicalColumn{
				Name:   top,
				Kind:   KindStruct,
				Leaves: append([]*LeafColumn{}, leaves[i:j]...),
			})
			i = j
			continue
		}

		// PRIMITIVE: a single leaf on its own.
		logicals = append(logicals, &LogicalColumn{
			Name:   top,
			Kind:   KindPrimitive,
			Leaves: []*LeafColumn{leaf},
		})
		i++
	}
	return logicals
}

// ColumnDefinition describes one leaf column of a writer-side schema.
type ColumnDefinition struct {
	Name          string
	Type          format.Type
	TypeLength    int32
	ConvertedType *format.ConvertedType
	Optional      bool
}

// NewMessageSchema builds the pre-order SchemaElement tree for a flat
// (non-nested) message of the given columns and flattens it the same way a
// reader would on open.
func NewMessageSchema(name string, columns []ColumnDefinition) (*Schema, []format.SchemaElement, error) {
	numChildren := int32(len(columns))
	elements := make([]format.SchemaElement, 0, len(columns)+1)
	elements = append(elements, format.SchemaElement{Name: name, NumChildren: &numChildren})

	for _, c := range columns {
		typ := c.Type
		rep := format.Required
		if c.Optional {
			rep = format.Optional
		}
		elem := format.SchemaElement{
			Type:           &typ,
			RepetitionType: &rep,
			Name:           c.Name,
			ConvertedType:  c.ConvertedType,
		}
		if c.TypeLength != 0 {
			length := c.TypeLength
			elem.TypeLength = &length
		}
		elements = append(elements, elem)
	}

	schema, err := buildSchema(elements)
	if err != nil {
		return nil, nil, err
	}
	return schema, elements, nil
}

// FindLogicalColumn returns the top-level logical column named name, or nil.
func (s *Schema) FindLogicalColumn(name string) *LogicalColumn {
	for _, lc := range s.Logical {
		if lc.Name == name {
			return lc
		}
	}
	return nil
}

func topLevelName(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[0]
}

// isListPath reports whether path ends in ".list.element", the standard
// 3-level LIST annotation shape
func isListPath(path []string) bool {
	n := len(path)
	return n >= 3 && path[n-2] == "list" && path[n-1] == "element"
}

// commonMapPrefix recognizes two leaves as a MAP's key/value pair: they
// must share a prefix ending in "map" or "key_value" and differ only in
// their final segment, "key" vs "value".
func commonMapPrefix(a, b []string) (string, bool) {
	if len(a) < 3 || len(b) < 3 {
		return "", false
	}
	if len(a) != len(b) {
		return "", false
	}
	n := len(a)
	for i := 0; i < n-1; i++ {
		if a[i] != b[i] {
			return "", false
		}
	}
	container := a[n-2]
	if container != "map" && container != "key_value" {
		return "", false
	}
	last1, last2 := a[n-1], b[n-1]
	if !((last1 == "key" && last2 == "value") || (last1 == "value" && last2 == "key")) {
		return "", false
	}
	return strings.Join(a[:n-2], "."), true
}
