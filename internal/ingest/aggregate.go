package ingest

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/costline/internal/matching"
	"github.com/MrJamesThe3rd/costline/internal/project"
)

// Aggregate is the running total of every row matched to one project.
type Aggregate struct {
	Project     *project.Project
	JobNumbers  []string
	Identifiers []string
	Financials  map[string]decimal.NullDecimal
	Rows        int
	// MatchType is exact only while every contributing row matched exactly.
	MatchType matching.MatchType
	Ambiguous bool
}

// Aggregator folds matched rows into per-project aggregates, preserving the
// order in which projects were first seen.
type Aggregator struct {
	byProject map[uuid.UUID]*Aggregate
	order     []uuid.UUID
}

func NewAggregator() *Aggregator {
	return &Aggregator{byProject: make(map[uuid.UUID]*Aggregate)}
}

// Add credits row to every project in res. A row resolving to several
// projects contributes its full values to each of them.
func (a *Aggregator) Add(row Row, res matching.Result) {
	for _, p := range res.Projects {
		agg := a.get(p)

		agg.Rows++
		agg.JobNumbers = appendDistinct(agg.JobNumbers, row.JobNumber)
		agg.Identifiers = appendDistinct(agg.Identifiers, row.ProjectIdentifier)

		if res.Type != matching.MatchExact {
			agg.MatchType = matching.MatchVariant
		}

		if res.Ambiguous() {
			agg.Ambiguous = true
		}

		for label, v := range row.Financials {
			agg.Financials[label] = accumulate(agg.Financials, label, v)
		}
	}
}

// Results returns the aggregates in first-seen order.
func (a *Aggregator) Results() []*Aggregate {
	return lo.Map(a.order, func(id uuid.UUID, _ int) *Aggregate { return a.byProject[id] })
}

func (a *Aggregator) get(p *project.Project) *Aggregate {
	if agg, ok := a.byProject[p.ID]; ok {
		return agg
	}

	agg := &Aggregate{
		Project:    p,
		Financials: make(map[string]decimal.NullDecimal),
		MatchType:  matching.MatchExact,
	}

	a.byProject[p.ID] = agg
	a.order = append(a.order, p.ID)

	return agg
}

// accumulate sums numeric values. A non-numeric value only fills a column
// that has not been seen yet, and is replaced by the first numeric one.
func accumulate(totals map[string]decimal.NullDecimal, label string, v decimal.NullDecimal) decimal.NullDecimal {
	cur, seen := totals[label]

	switch {
	case !v.Valid:
		return cur
	case !seen || !cur.Valid:
		return v
	}

	return decimal.NewNullDecimal(cur.Decimal.Add(v.Decimal))
}

func appendDistinct(list []string, s string) []string {
	if s == "" || lo.Contains(list, s) {
		return list
	}

	return append(list, s)
}
