package pipeline

import (
	"fmt"
	"strings"

	"data-pipeline/internal/record"
)

// buildTable turns raw rows into a table. headerRow is 1-based; zero picks
// the first non-blank row. Blank data rows are dropped, short rows are
// padded with nil and extra cells are ignored.
func buildTable(rows [][]string, headerRow int, emptyAsNil bool) (record.Table, error) {
	if len(rows) == 0 {
		return record.Table{}, fmt.Errorf("%w: no rows", ErrNoHeader)
	}

	headerIdx := -1

	switch {
	case headerRow < 0 || headerRow > len(rows):
		return record.Table{}, fmt.Errorf("%w: header row %d out of range 1..%d", ErrNoHeader, headerRow, len(rows))
	case headerRow > 0:
		if isBlankRow(rows[headerRow-1]) {
			return record.Table{}, fmt.Errorf("%w: header row %d is empty", ErrNoHeader, headerRow)
		}

		headerIdx = headerRow - 1
	default:
		for i, row := range rows {
			if !isBlankRow(row) {
				headerIdx = i

				break
			}
		}
	}

	if headerIdx < 0 {
		return record.Table{}, fmt.Errorf("%w: every row is blank", ErrNoHeader)
	}

	columns := headerNames(rows[headerIdx])
	table := record.Table{Columns: columns}

	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}

		rec := make(record.Record, len(columns))

		for i, col := range columns {
			if i >= len(row) || (emptyAsNil && row[i] == "") {
				rec[col] = nil

				continue
			}

			rec[col] = row[i]
		}

		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}

// headerNames trims header cells, names empty ones column_N and suffixes
// repeats so every column key is unique.
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]int, len(raw))

	for i, cell := range raw {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}

		base := name
		if n := seen[base]; n > 0 {
			name = fmt.Sprintf("%s_%d", base, n+1)
		}

		seen[base]++
		names[i] = name
	}

	return names
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
