// Package record holds the tabular data model shared by parsers,
// transformers and the converter.
package record

import (
	"maps"
	"slices"
)

// Record maps a column name to its raw value: a string, number, bool,
// sequence or nil. Column sets may differ between records.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	return maps.Clone(r)
}

// Table is a list of records with the column order reported by the source.
// Columns may be empty, in which case the order is derived from the rows.
type Table struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// ColumnNames returns the header when present, or the columns derived from
// the rows otherwise.
func (t Table) ColumnNames() []string {
	if len(t.Columns) > 0 {
		return slices.Clone(t.Columns)
	}

	return Columns(t.Rows)
}

// Clone returns a copy of the table whose rows can be modified freely.
func (t Table) Clone() Table {
	out := Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Record, len(t.Rows)),
	}

	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}

	return out
}

// Columns returns the union of keys across records: records are visited in
// order, and keys new to the union are appended in sorted order per record.
func Columns(records []Record) []string {
	seen := make(map[string]struct{})

	var columns []string

	for _, r := range records {
		for _, key := range slices.Sorted(maps.Keys(r)) {
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}

	return columns
}
