// Package models defines the shared data vocabulary of Prism: semantic type
// tags attached to columns, row and column containers handed in by the data
// source, and the abstract query shapes handed back to it.
//
// The engine never fetches data itself. A collaborator materializes rows and
// tags every column with a TypeTag; everything else in Prism dispatches on
// those tags.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind is a closed enumeration of semantic type categories. Any matches
// everything and appears in tag positions that carry no information.
type Kind int

const (
	KindAny Kind = iota
	KindNumber
	KindText
	KindDateTime
	KindCategory
	KindBoolean
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindNumber:
		return "Number"
	case KindText:
		return "Text"
	case KindDateTime:
		return "DateTime"
	case KindCategory:
		return "Category"
	case KindBoolean:
		return "Boolean"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TypeTag is the semantic type of one column: a base kind plus an optional
// refinement. (Number, Any) is a plain numeric column; (Any, Category) is a
// column of any base type known to be categorical.
type TypeTag struct {
	Base    Kind `json:"base" yaml:"base"`
	Refined Kind `json:"refined" yaml:"refined"`
}

// Tag builds a TypeTag.
func Tag(base, refined Kind) TypeTag { return TypeTag{Base: base, Refined: refined} }

// Is reports whether the tag matches the given kind in either position.
// KindAny as the argument matches every tag.
func (t TypeTag) Is(k Kind) bool {
	return k == KindAny || t.Base == k || t.Refined == k
}

// String returns "Base/Refined", e.g. "Number/Any".
func (t TypeTag) String() string {
	return t.Base.String() + "/" + t.Refined.String()
}

// Signature is the ordered type of a fingerprinting input: one tag for a
// single column, two for a composite (pair) input.
type Signature []TypeTag

// String joins the component tags, e.g. "DateTime/Any x Number/Any".
func (s Signature) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, " x ")
}

// Field is column metadata: a name and a semantic type tag.
type Field struct {
	Name string  `json:"name" yaml:"name"`
	Type TypeTag `json:"type" yaml:"type"`
}

// Row is one ordered record of column values. Cells may be nil.
type Row []any

// Column is a fully materialized single column.
type Column struct {
	Field  Field
	Values []any
}

// QueryShapeKind discriminates the abstract query shapes Prism can hand to
// the data-source collaborator for a two-field comparison.
type QueryShapeKind int

const (
	// ShapeRawProjection asks for the listed columns, row by row.
	ShapeRawProjection QueryShapeKind = iota
	// ShapeTimeBucketed asks for a metric aggregated into time buckets.
	ShapeTimeBucketed
)

// QueryShape describes what the data source should execute. Prism only
// constructs shapes; execution, caching and sampling belong to the
// collaborator.
type QueryShape struct {
	Kind          QueryShapeKind
	Fields        []Field
	DateTimeField string
	MetricField   string
	Period        string
	// Limit is a row-count hint; zero means unbounded.
	Limit int
}

// Timestamp converts a raw cell to epoch milliseconds. Accepted forms:
// time.Time, numeric epoch values (seconds or milliseconds, split at 1e11),
// and the common textual formats produced by databases and CSV files.
func Timestamp(v any) (int64, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli(), true
	case int64:
		return numericTimestamp(float64(t)), true
	case int:
		return numericTimestamp(float64(t)), true
	case float64:
		return numericTimestamp(t), true
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02",
		} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UnixMilli(), true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// numericTimestamp treats values >= 1e11 as epoch milliseconds and smaller
// ones as epoch seconds. The crossover corresponds to 1973 in milliseconds
// and year 5138 in seconds.
func numericTimestamp(v float64) int64 {
	if v >= 1e11 {
		return int64(v)
	}
	return int64(v * 1000)
}

// Number converts a raw cell to float64. Booleans are not numbers.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// CategoryKey returns the canonical grouping key for a categorical cell.
func CategoryKey(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
