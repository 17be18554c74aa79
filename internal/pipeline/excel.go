package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"

	"data-pipeline/internal/record"
)

// ExcelParser reads one worksheet of an XLSX workbook.
type ExcelParser struct {
	// Sheet names the worksheet; empty means the first one.
	Sheet string
	// HeaderRow is the 1-based header row; zero picks the first non-blank row.
	HeaderRow int
}

// NewExcelParser returns a parser for the first worksheet.
func NewExcelParser() *ExcelParser {
	return &ExcelParser{}
}

// Formats implements Parser.
func (p *ExcelParser) Formats() []string {
	return slices.Clone(ExcelExtensions)
}

// Parse implements Parser. Empty cells become nil.
func (p *ExcelParser) Parse(ctx context.Context, data []byte) (record.Table, error) {
	if err := ctx.Err(); err != nil {
		return record.Table{}, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return record.Table{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return record.Table{}, errors.New("excel file has no sheets")
		}

		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return record.Table{}, fmt.Errorf("failed to read rows from sheet %q: %w", sheet, err)
	}

	return buildTable(rows, p.HeaderRow, true)
}
