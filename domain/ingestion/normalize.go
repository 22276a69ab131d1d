package ingestion

import "stocksheet/internal/errors"

// Normalizer translates source tables into the target schema. It holds only
// immutable configuration, so a single instance is safe to share across
// concurrent Normalize calls.
type Normalizer struct {
	numericFields map[string]bool
}

// NewNormalizer creates a normalizer that coerces the given target fields to
// numeric values; all other mapped fields are carried as text.
func NewNormalizer(numericFields []string) *Normalizer {
	set := make(map[string]bool, len(numericFields))
	for _, f := range numericFields {
		set[f] = true
	}
	return &Normalizer{numericFields: set}
}

// Normalize translates a source table into the target schema using the given
// column mapping.
//
// It walks the sheet's actual columns in their given order, never the mapping
// table. A mapping table is usually a superset of any one sheet's columns;
// iterating it would treat every configured-but-absent header as an empty
// column, and with synonym entries pointing at the same target field, a later
// miss would null out an earlier hit. The first source column that maps to a
// target field supplies its values; later synonym columns are skipped and
// recorded, never merged or overwritten.
//
// Per-cell and per-column anomalies are absorbed into the Report. The only
// errors are contract violations (malformed mapping, ragged source rows),
// raised before any row is processed.
func (n *Normalizer) Normalize(src SourceTable, mapping Mapping) (*TargetTable, *Report, error) {
	if err := mapping.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid column mapping")
	}
	if err := src.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid source table")
	}

	report := &Report{
		TotalColumns:  len(src.Headers),
		ParseFailures: make(map[string]int),
	}

	target := &TargetTable{
		Rows: make([]Row, len(src.Rows)),
	}
	for i := range target.Rows {
		target.Rows[i] = make(Row)
	}

	populated := make(map[string]bool)
	for col, header := range src.Headers {
		field, ok := mapping[header]
		if !ok {
			report.UnmappedColumns = append(report.UnmappedColumns, header)
			continue
		}
		// A skipped synonym column still counts as mapped: its header is
		// in the mapping, it just does not get to write.
		report.MappedColumns++
		if populated[field] {
			report.SkippedSynonyms = append(report.SkippedSynonyms, SkippedWrite{Header: header, Field: field})
			continue
		}
		populated[field] = true
		target.Fields = append(target.Fields, field)

		numeric := n.numericFields[field]
		for i, row := range src.Rows {
			raw := row[col]
			if numeric {
				val, failed := CoerceNumeric(raw)
				if failed {
					report.ParseFailures[field]++
				}
				target.Rows[i][field] = val
			} else {
				target.Rows[i][field] = CoerceText(raw)
			}
		}
	}

	return target, report, nil
}
