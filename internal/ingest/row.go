package ingest

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/costline/internal/sheet"
)

// SkipReason explains why a data row produced no Row.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipBlank         SkipReason = "blank"
	SkipSectionHeader SkipReason = "section_header"
	SkipNoIdentity    SkipReason = "no_identity"
)

// sectionHeaders match the free-text dividers some reports place in the
// first column (region banners, subtotal lines).
var sectionHeaders = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^sdc\s+[a-z]`),
	regexp.MustCompile(`(?i)^(region|division|district|area|market)\b`),
	regexp.MustCompile(`(?i)^(grand\s+)?(sub\s*-?\s*)?totals?\b`),
}

// Row is one parsed data row. Empty strings mean the field is absent.
type Row struct {
	// Number is the 1-based row number as shown by spreadsheet software.
	Number            int
	JobNumber         string
	ProjectIdentifier string
	ProjectName       string
	Financials        map[string]decimal.NullDecimal
}

// ParseRow turns a raw row into a Row, or reports why it should be skipped.
func ParseRow(raw []sheet.Cell, cols Columns, number int) (Row, SkipReason) {
	if sheet.NonBlank(raw) == 0 {
		return Row{}, SkipBlank
	}

	if isSectionHeader(sheet.At(raw, 0)) {
		return Row{}, SkipSectionHeader
	}

	row := Row{
		Number:            number,
		JobNumber:         jobNumber(sheet.At(raw, cols.Job)),
		ProjectIdentifier: sheet.At(raw, cols.Identifier).String(),
		ProjectName:       sheet.At(raw, cols.Name).String(),
	}

	if row.JobNumber == "" && row.ProjectName == "" && row.ProjectIdentifier == "" {
		return Row{}, SkipNoIdentity
	}

	row.Financials = make(map[string]decimal.NullDecimal, len(cols.Financial))
	for _, fc := range cols.Financial {
		row.Financials[fc.Label] = ParseNumber(sheet.At(raw, fc.Index))
	}

	return row, SkipNone
}

// Identifiers returns the row's match keys in priority order.
func (r Row) Identifiers() []string {
	return []string{r.ProjectIdentifier, r.JobNumber}
}

func jobNumber(c sheet.Cell) string {
	s := c.String()
	if strings.EqualFold(s, "n/a") {
		return ""
	}

	return s
}

func isSectionHeader(c sheet.Cell) bool {
	if c.Kind != sheet.KindText {
		return false
	}

	s := strings.TrimSpace(c.Text)
	for _, re := range sectionHeaders {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}
