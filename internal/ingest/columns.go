package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/costline/internal/sheet"
)

var (
	ErrNoHeader            = errors.New("no header row in the first 10 rows")
	ErrNoIdentifyingColumn = errors.New("no job or project name column")
)

const (
	headerScanRows = 10
	minHeaderCells = 3
)

// identifierHeaders name the project-identifier column explicitly.
var identifierHeaders = []string{"project number", "project #", "proj number"}

// Hints are the substrings that classify header cells. Matching is
// case-insensitive.
type Hints struct {
	Job       []string
	Name      []string
	Financial []string
}

// Override returns h with every non-empty list in o taking its place.
func (h Hints) Override(o Hints) Hints {
	if len(o.Job) > 0 {
		h.Job = o.Job
	}

	if len(o.Name) > 0 {
		h.Name = o.Name
	}

	if len(o.Financial) > 0 {
		h.Financial = o.Financial
	}

	return h
}

// FinancialColumn is a detected value column. Label is the header text as it
// appears in the sheet and doubles as the aggregation key.
type FinancialColumn struct {
	Index int
	Label string
}

// Columns maps the roles of a sheet's columns. Absent roles are -1.
type Columns struct {
	HeaderRow  int
	Job        int
	Name       int
	Identifier int
	Financial  []FinancialColumn
	// Repeated lists header labels that occur on more than one financial
	// column. Every copy after the first is labelled "<label> (n)".
	Repeated []string
}

// Labels returns the financial labels in sheet order.
func (c Columns) Labels() []string {
	return lo.Map(c.Financial, func(fc FinancialColumn, _ int) string { return fc.Label })
}

// FindHeader returns the index of the first row, among the first ten, with
// at least three non-blank cells.
func FindHeader(rows [][]sheet.Cell) (int, error) {
	for i, row := range rows[:min(len(rows), headerScanRows)] {
		if sheet.NonBlank(row) >= minHeaderCells {
			return i, nil
		}
	}

	return -1, ErrNoHeader
}

// DetectColumns assigns roles to the cells of a header row.
func DetectColumns(header []sheet.Cell, hints Hints) (Columns, error) {
	labels := make([]string, len(header))
	for i, c := range header {
		labels[i] = strings.ToLower(c.String())
	}

	cols := Columns{Job: -1, Name: -1, Identifier: -1}

	cols.Job = firstContaining(labels, hints.Job, nil)
	cols.Identifier = firstContaining(labels, identifierHeaders, nil)
	cols.Name = firstContaining(labels, hints.Name, []int{cols.Job, cols.Identifier})

	if cols.Job == -1 && cols.Name == -1 {
		return Columns{}, ErrNoIdentifyingColumn
	}

	// Column B conventionally carries the project number when column A is
	// the job.
	if cols.Identifier == -1 && cols.Job == 0 && len(header) > 1 && cols.Name != 1 {
		cols.Identifier = 1
	}

	claimed := []int{cols.Job, cols.Name, cols.Identifier}
	seen := make(map[string]int)

	for i, label := range labels {
		if label == "" || lo.Contains(claimed, i) || !containsAny(label, hints.Financial) {
			continue
		}

		text := strings.TrimSpace(header[i].String())

		seen[text]++
		if n := seen[text]; n > 1 {
			if n == 2 {
				cols.Repeated = append(cols.Repeated, text)
			}

			text = fmt.Sprintf("%s (%d)", text, n)
		}

		cols.Financial = append(cols.Financial, FinancialColumn{Index: i, Label: text})
	}

	return cols, nil
}

func firstContaining(labels, hints []string, exclude []int) int {
	for i, label := range labels {
		if label == "" || lo.Contains(exclude, i) {
			continue
		}

		if containsAny(label, hints) {
			return i
		}
	}

	return -1
}

func containsAny(label string, hints []string) bool {
	return lo.SomeBy(hints, func(h string) bool {
		h = strings.ToLower(strings.TrimSpace(h))
		return h != "" && strings.Contains(label, h)
	})
}
