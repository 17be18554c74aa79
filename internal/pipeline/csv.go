package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"slices"

	"data-pipeline/internal/record"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// CSVParser parses comma separated text with a header row.
type CSVParser struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// HeaderRow is the 1-based header record, blank lines not counted; zero
	// picks the first non-blank record.
	HeaderRow int
}

// NewCSVParser returns a parser with default settings.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Formats implements Parser.
func (p *CSVParser) Formats() []string {
	return slices.Clone(CSVExtensions)
}

// Parse implements Parser. Cells stay strings; empty cells are kept as "".
func (p *CSVParser) Parse(ctx context.Context, data []byte) (record.Table, error) {
	if err := ctx.Err(); err != nil {
		return record.Table{}, err
	}

	reader := bufio.NewReader(bytes.NewReader(data))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	if p.Comma != 0 {
		csvReader.Comma = p.Comma
	}

	rows, err := csvReader.ReadAll()
	if err != nil {
		return record.Table{}, fmt.Errorf("failed to read csv: %w", err)
	}

	return buildTable(rows, p.HeaderRow, false)
}
