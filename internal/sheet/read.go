package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadable is returned when a buffer is neither a workbook nor
// delimited text.
var ErrUnreadable = errors.New("unreadable spreadsheet")

// ErrLegacyWorkbook marks a binary .xls (OLE compound file) upload. Only the
// zipped .xlsx format can be read; callers should ask for a re-save.
var ErrLegacyWorkbook = fmt.Errorf("%w: legacy .xls workbooks are not supported, save as .xlsx", ErrUnreadable)

var (
	zipSignature = []byte("PK\x03\x04")
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Format identifies how a buffer was decoded.
type Format string

const (
	FormatWorkbook  Format = "xlsx"
	FormatDelimited Format = "delimited"
)

// Sheet is the decoded grid of one worksheet.
type Sheet struct {
	Name   string
	Format Format
	Rows   [][]Cell
}

type Options struct {
	// SheetName selects a worksheet by name. Empty means the first sheet.
	SheetName string
}

// Read decodes a spreadsheet buffer. Workbooks are recognised by their
// container signature; anything else is treated as delimited text.
func Read(buf []byte, opts Options) (*Sheet, error) {
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrUnreadable)
	}

	switch {
	case bytes.HasPrefix(buf, oleSignature):
		return nil, ErrLegacyWorkbook
	case bytes.HasPrefix(buf, zipSignature):
		return readWorkbook(buf, opts.SheetName)
	}

	return readDelimited(buf)
}

func readWorkbook(buf []byte, name string) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}

	target := sheets[0]
	if name != "" {
		if !lo.Contains(sheets, name) {
			return nil, fmt.Errorf("%w: sheet %q not found", ErrUnreadable, name)
		}

		target = name
	}

	raw, err := f.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrUnreadable, target, err)
	}

	rows := make([][]Cell, len(raw))

	for r, values := range raw {
		cells := make([]Cell, len(values))

		for c, v := range values {
			cell, err := workbookCell(f, target, r, c, v)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
			}

			cells[c] = cell
		}

		rows[r] = cells
	}

	return &Sheet{Name: target, Format: FormatWorkbook, Rows: rows}, nil
}

// workbookCell types a raw cell value. Only cells stored as numbers become
// Number; text that happens to look numeric (e.g. "00123") stays Text so
// identifiers keep their leading zeros.
func workbookCell(f *excelize.File, sheetName string, r, c int, v string) (Cell, error) {
	if strings.TrimSpace(v) == "" {
		return Empty(), nil
	}

	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return Cell{}, fmt.Errorf("cell name: %w", err)
	}

	typ, err := f.GetCellType(sheetName, axis)
	if err != nil {
		return Cell{}, fmt.Errorf("cell type %s: %w", axis, err)
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return Number(n), nil
		}
	}

	return Text(v), nil
}

func readDelimited(buf []byte) (*Sheet, error) {
	text, err := toUTF8(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	if bytes.IndexByte(text, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", ErrUnreadable)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read delimited text: %v", ErrUnreadable, err)
	}

	rows := make([][]Cell, len(records))

	for r, record := range records {
		cells := make([]Cell, len(record))

		for c, v := range record {
			if strings.TrimSpace(v) == "" {
				cells[c] = Empty()
				continue
			}

			cells[c] = Text(v)
		}

		rows[r] = cells
	}

	return &Sheet{Format: FormatDelimited, Rows: rows}, nil
}

// sniffDelimiter picks the separator that occurs most often in the first
// lines. Comma wins ties.
func sniffDelimiter(text []byte) rune {
	lines := bytes.SplitN(text, []byte("\n"), 11)
	if len(lines) > 10 {
		lines = lines[:10]
	}

	counts := map[rune]int{}

	for _, line := range lines {
		inQuotes := false

		for _, ch := range string(line) {
			switch {
			case ch == '"':
				inQuotes = !inQuotes
			case !inQuotes && (ch == ',' || ch == ';' || ch == '\t'):
				counts[ch]++
			}
		}
	}

	best := ','
	for _, candidate := range []rune{';', '\t'} {
		if counts[candidate] > counts[best] {
			best = candidate
		}
	}

	return best
}
