package sheet

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the value held by a Cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	}

	return "unknown"
}

// Cell is a single spreadsheet value. Exactly one of Number or Text is
// meaningful, selected by Kind.
type Cell struct {
	Kind   Kind
	Number float64
	Text   string
}

func Empty() Cell { return Cell{Kind: KindEmpty} }

func Number(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }

func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// IsBlank reports whether the cell carries no usable content: empty,
// whitespace-only text, or a number that is not a number.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case KindNumber:
		return math.IsNaN(c.Number)
	case KindText:
		return strings.TrimSpace(c.Text) == ""
	}

	return true
}

// String renders the cell as trimmed text. Numbers use the shortest
// representation, so 2450 renders as "2450" rather than "2450.000000".
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		if math.IsNaN(c.Number) {
			return ""
		}

		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindText:
		return strings.TrimSpace(c.Text)
	}

	return ""
}

// At returns the cell at idx, or an empty cell when the row is shorter.
func At(row []Cell, idx int) Cell {
	if idx < 0 || idx >= len(row) {
		return Empty()
	}

	return row[idx]
}

// NonBlank counts the cells in row that carry content.
func NonBlank(row []Cell) int {
	n := 0

	for _, c := range row {
		if !c.IsBlank() {
			n++
		}
	}

	return n
}
