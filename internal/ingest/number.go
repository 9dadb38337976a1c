package ingest

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/costline/internal/sheet"
)

var stripNumeric = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "",
	",", "", " ", "", "\u00a0", "",
)

// ParseNumber converts a cell into a decimal. Blank cells, placeholders such
// as "--", and text that is not a number all yield an invalid NullDecimal.
func ParseNumber(c sheet.Cell) decimal.NullDecimal {
	switch c.Kind {
	case sheet.KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.NullDecimal{}
		}

		return decimal.NewNullDecimal(decimal.NewFromFloat(c.Number))
	case sheet.KindText:
		return parseText(c.Text)
	}

	return decimal.NullDecimal{}
}

// parseText handles accounting formats: "$1,234.56", "($400.00)", "-12",
// "+5".
func parseText(s string) decimal.NullDecimal {
	s = stripNumeric.Replace(strings.TrimSpace(s))

	negative := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	if rest, ok := strings.CutPrefix(s, "-"); ok {
		negative = true
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "+"); ok && !negative {
		s = rest
	}

	if s == "" || strings.ContainsAny(s, "+-()") {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}

	if negative {
		d = d.Neg()
	}

	return decimal.NewNullDecimal(d)
}
