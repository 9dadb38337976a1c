package ingest

import (
	"fmt"

	"github.com/MrJamesThe3rd/costline/internal/sheet"
)

// Parsed is a spreadsheet reduced to typed data rows.
type Parsed struct {
	Sheet   string
	Columns Columns
	Rows    []Row
	// DataRows counts every row below the header, skipped or not.
	DataRows int
	Skipped  map[SkipReason]int
}

// SkippedRows is the total number of rows dropped by the skip rules.
func (p *Parsed) SkippedRows() int {
	n := 0
	for _, c := range p.Skipped {
		n += c
	}

	return n
}

// Parse reads buf, detects its columns, and parses every data row.
func Parse(buf []byte, sheetName string, hints Hints) (*Parsed, error) {
	sh, err := sheet.Read(buf, sheet.Options{SheetName: sheetName})
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet: %w", err)
	}

	headerRow, err := FindHeader(sh.Rows)
	if err != nil {
		return nil, err
	}

	cols, err := DetectColumns(sh.Rows[headerRow], hints)
	if err != nil {
		return nil, err
	}

	cols.HeaderRow = headerRow

	p := &Parsed{
		Sheet:   sh.Name,
		Columns: cols,
		Skipped: make(map[SkipReason]int),
	}

	for i, raw := range sh.Rows[headerRow+1:] {
		p.DataRows++

		row, skip := ParseRow(raw, cols, headerRow+i+2)
		if skip != SkipNone {
			p.Skipped[skip]++
			continue
		}

		p.Rows = append(p.Rows, row)
	}

	return p, nil
}
