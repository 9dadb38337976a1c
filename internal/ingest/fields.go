package ingest

import (
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

type field int

const (
	fieldBudget field = iota
	fieldForecast
	fieldActual
	fieldCommitted
	fieldSpent
	fieldVariance
)

// fieldRules are checked in order, so a label like "Budget Variance" lands
// on variance rather than budget.
var fieldRules = []struct {
	field    field
	keywords []string
}{
	{fieldVariance, []string{"variance", "var"}},
	{fieldForecast, []string{"eac", "estimate at completion", "forecast", "projected"}},
	{fieldCommitted, []string{"commit"}},
	{fieldSpent, []string{"spent", "cost to date", "jtd"}},
	{fieldActual, []string{"actual"}},
	{fieldBudget, []string{"budget"}},
}

func classifyLabel(label string) (field, bool) {
	l := strings.ToLower(label)
	words := strings.FieldsFunc(l, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, rule := range fieldRules {
		for _, kw := range rule.keywords {
			// "var" alone is too short to match as a substring.
			if kw == "var" && lo.Contains(words, kw) {
				return rule.field, true
			}

			if kw != "var" && strings.Contains(l, kw) {
				return rule.field, true
			}
		}
	}

	return 0, false
}

type source struct {
	file string
	date time.Time
}

// buildSnapshot maps an aggregate onto the snapshot fields. The first column
// (in sheet order) classified as a field supplies it.
func buildSnapshot(agg *Aggregate, labels []string, src source) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		ProjectID:   agg.Project.ID,
		RawValues:   make(map[string]decimal.NullDecimal, len(agg.Financials)),
		JobNumbers:  agg.JobNumbers,
		Identifiers: agg.Identifiers,
		SourceFile:  src.file,
		SourceDate:  src.date,
		MatchType:   string(agg.MatchType),
		Ambiguous:   agg.Ambiguous,
	}

	targets := map[field]*decimal.NullDecimal{
		fieldBudget:    &snap.Budget,
		fieldForecast:  &snap.Forecast,
		fieldActual:    &snap.Actual,
		fieldCommitted: &snap.Committed,
		fieldSpent:     &snap.Spent,
		fieldVariance:  &snap.Variance,
	}

	assigned := make(map[field]bool)

	for _, label := range labels {
		v := agg.Financials[label]
		snap.RawValues[label] = v

		f, ok := classifyLabel(label)
		if !ok || assigned[f] {
			continue
		}

		*targets[f] = v
		assigned[f] = true
	}

	return snap
}
