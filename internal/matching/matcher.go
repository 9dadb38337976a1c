package matching

import (
	"github.com/MrJamesThe3rd/costline/internal/project"
)

// MatchType records how a row was resolved.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchVariant MatchType = "variant"
	MatchNone    MatchType = "none"
)

// Result is the outcome of resolving one row's identifiers.
type Result struct {
	Projects []*project.Project
	// Aliases holds, per project, the registered alias that produced the hit.
	Aliases []string
	Type    MatchType
	Score   int
	// Field is the index of the identifier (as passed to Match) that hit,
	// or -1 when nothing matched.
	Field int
	// Candidate is the row-side variant that hit; Target is the indexed
	// variant it hit.
	Candidate string
	Target    string
	Strategy  string
}

func (r Result) Matched() bool { return len(r.Projects) > 0 }

// Ambiguous reports whether one row resolved to more than one project,
// which happens when an alias is shared across the registry.
func (r Result) Ambiguous() bool { return len(r.Projects) > 1 }

func noMatch() Result {
	return Result{Type: MatchNone, Field: -1}
}

// Matcher resolves row identifiers against a registry index by running an
// ordered list of strategies and stopping at the first that hits.
type Matcher struct {
	index      *Index
	strategies []Strategy
}

// NewMatcher returns a matcher that tries an exact variant hit first and a
// prefix-containment hit second.
func NewMatcher(index *Index) *Matcher {
	return NewMatcherWithStrategies(index,
		ExactStrategy{},
		PrefixStrategy{MinLength: DefaultMinFuzzyLength},
	)
}

func NewMatcherWithStrategies(index *Index, strategies ...Strategy) *Matcher {
	return &Matcher{index: index, strategies: strategies}
}

func (m *Matcher) Index() *Index { return m.index }

// Match resolves a row given its identifiers in priority order, e.g. the
// project-identifier cell then the job-number cell. Strategies are the outer
// loop, so an exact hit on a later identifier beats a fuzzy hit on an earlier
// one. Empty identifiers are ignored.
func (m *Matcher) Match(identifiers ...string) Result {
	candidates := make([][][]string, len(identifiers))
	for i, id := range identifiers {
		candidates[i] = Ladders(id)
	}

	for _, strategy := range m.strategies {
		for field, ladders := range candidates {
			if len(ladders) == 0 {
				continue
			}

			res, ok := strategy.Match(ladders, m.index)
			if !ok {
				continue
			}

			res.Field = field
			res.Strategy = strategy.Name()

			return res
		}
	}

	return noMatch()
}
