package ingest_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/sheet"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   sheet.Cell
		want string // empty means null
	}{
		{name: "Currency", in: sheet.Text("$1,234.56"), want: "1234.56"},
		{name: "ParenthesizedNegative", in: sheet.Text("($400.00)"), want: "-400"},
		{name: "CurrencyOutsideParens", in: sheet.Text("$(75)"), want: "-75"},
		{name: "LeadingMinus", in: sheet.Text(" -12.5 "), want: "-12.5"},
		{name: "LeadingPlus", in: sheet.Text("+5"), want: "5"},
		{name: "LeadingPlusCurrency", in: sheet.Text(" +$1,000 "), want: "1000"},
		{name: "DoublePlus", in: sheet.Text("++5"), want: ""},
		{name: "PlusInsideParens", in: sheet.Text("(+5)"), want: ""},
		{name: "PlusThenMinus", in: sheet.Text("+-5"), want: ""},
		{name: "Euro", in: sheet.Text("€ 2 000"), want: "2000"},
		{name: "DoubleDash", in: sheet.Text("--"), want: ""},
		{name: "BareDash", in: sheet.Text("-"), want: ""},
		{name: "EmptyText", in: sheet.Text(""), want: ""},
		{name: "Whitespace", in: sheet.Text("   "), want: ""},
		{name: "Words", in: sheet.Text("TBD"), want: ""},
		{name: "Native", in: sheet.Number(2450.75), want: "2450.75"},
		{name: "NativeNaN", in: sheet.Number(math.NaN()), want: ""},
		{name: "Empty", in: sheet.Empty(), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ingest.ParseNumber(tt.in)

			if tt.want == "" {
				assert.False(t, got.Valid, "expected null, got %s", got.Decimal)
				return
			}

			assert.True(t, got.Valid)
			assert.Equal(t, tt.want, got.Decimal.String())
		})
	}
}
