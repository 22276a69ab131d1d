package ingestion

import (
	"fmt"
	"strings"

	"stocksheet/internal/errors"
)

// SourceTable is a parsed spreadsheet: ordered column headers plus data rows
// aligned positionally to them. Headers are not guaranteed unique.
type SourceTable struct {
	Headers []string
	Rows    [][]string
}

// Validate checks the structural contract: every row must have exactly as
// many cells as there are headers. Violations are fatal and reported before
// any row processing happens.
func (t SourceTable) Validate() error {
	if len(t.Headers) == 0 {
		return errors.New(errors.CodeTableInvalid, "source table has no columns")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return errors.New(errors.CodeTableInvalid,
				fmt.Sprintf("row %d has %d cells, expected %d", i, len(row), len(t.Headers)))
		}
	}
	return nil
}

// Mapping associates source headers with target field names. Multiple source
// headers may map to the same target field (synonyms); not every configured
// header needs to be present in a given sheet.
type Mapping map[string]string

// Validate rejects malformed mappings: blank headers or blank target fields.
func (m Mapping) Validate() error {
	if len(m) == 0 {
		return errors.New(errors.CodeMappingInvalid, "column mapping is empty")
	}
	for header, field := range m {
		if strings.TrimSpace(header) == "" {
			return errors.New(errors.CodeMappingInvalid, "column mapping contains a blank source header")
		}
		if strings.TrimSpace(field) == "" {
			return errors.New(errors.CodeMappingInvalid,
				fmt.Sprintf("column mapping for %q has a blank target field", header))
		}
	}
	return nil
}

// Value is a typed cell in the target table: numeric, text, or null.
// Null means the source cell was empty or unparsable, never that the field
// was untouched by the mapping.
type Value struct {
	Type       ValueType
	NumericVal *float64
	TextVal    *string
}

// ValueType defines the storage type for target values.
type ValueType string

const (
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeText    ValueType = "text"
	ValueTypeNull    ValueType = "null"
)

// NewNumericValue creates a numeric value.
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewTextValue creates a text value; empty strings collapse to null.
func NewTextValue(s string) Value {
	if s == "" {
		return NewNullValue()
	}
	return Value{Type: ValueTypeText, TextVal: &s}
}

// NewNullValue creates a null value.
func NewNullValue() Value {
	return Value{Type: ValueTypeNull}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Type == ValueTypeNull
}

// AsFloat64 returns the numeric value, or 0 if not numeric.
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil {
		return *v.NumericVal
	}
	return 0
}

// AsText returns the text value, or empty string if not text.
func (v Value) AsText() string {
	if v.TextVal != nil {
		return *v.TextVal
	}
	return ""
}

// Float64Ptr returns the numeric value as a nullable pointer for SQL binding.
func (v Value) Float64Ptr() *float64 {
	return v.NumericVal
}

// String returns a display representation of the value.
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return fmt.Sprintf("%g", *v.NumericVal)
		}
	case ValueTypeText:
		if v.TextVal != nil {
			return *v.TextVal
		}
	case ValueTypeNull:
		return "<null>"
	}
	return "<invalid>"
}

// Row maps target field names to typed values.
type Row map[string]Value

// TargetTable is the normalizer's output: the ordered subset of target fields
// that were actually supplied by the sheet, plus one Row per source row.
type TargetTable struct {
	Fields []string
	Rows   []Row
}

// HasField reports whether a target field was populated by some source column.
func (t *TargetTable) HasField(field string) bool {
	for _, f := range t.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// SkippedWrite records a source column whose target field was already
// populated by an earlier synonym column.
type SkippedWrite struct {
	Header string
	Field  string
}

// Report is the diagnostic output of a single normalization pass. It is
// returned to the caller, which decides whether to log, render, or drop it.
type Report struct {
	TotalColumns int
	// MappedColumns counts every source column whose header appears in the
	// mapping, skipped synonym columns included, so MappedColumns plus the
	// unmapped count always equals TotalColumns.
	MappedColumns   int
	UnmappedColumns []string
	SkippedSynonyms []SkippedWrite
	ParseFailures   map[string]int
}

// UnmappedCount returns the number of source columns with no mapping entry.
func (r *Report) UnmappedCount() int {
	return len(r.UnmappedColumns)
}

// TotalParseFailures sums unparsable-cell counts across all target fields.
func (r *Report) TotalParseFailures() int {
	total := 0
	for _, n := range r.ParseFailures {
		total += n
	}
	return total
}
