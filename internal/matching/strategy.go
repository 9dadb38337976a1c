package matching

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/costline/internal/project"
)

// fuzzyPenalty is added to the length difference of every non-exact
// containment hit so that any fuzzy score ranks behind an exact one.
const fuzzyPenalty = 100

// DefaultMinFuzzyLength keeps one- and two-character fragments from
// prefix-matching every alias in the registry.
const DefaultMinFuzzyLength = 3

// Strategy resolves one identifier's variant ladders (see Ladders) against
// the index. It returns false when it has nothing to offer, letting the next
// strategy run.
type Strategy interface {
	Name() string
	Match(ladders [][]string, idx *Index) (Result, bool)
}

// ExactStrategy walks each ladder from its most specific rung and takes the
// first rung that is indexed verbatim. A hit on the cell as written settles
// the match; otherwise hits from the separate identifiers of a
// multi-identifier cell are unioned.
type ExactStrategy struct{}

func (ExactStrategy) Name() string { return "exact" }

func (ExactStrategy) Match(ladders [][]string, idx *Index) (Result, bool) {
	var (
		res   Result
		found bool
		acc   ownerSet
	)

	for i, rungs := range ladders {
		for _, rung := range rungs {
			owners := idx.Lookup(rung)
			if len(owners) == 0 {
				continue
			}

			if !found {
				res.Candidate = rung
				res.Target = rung
				found = true
			}

			acc.add(owners)

			break
		}

		if i == 0 && found {
			break
		}
	}

	if !found {
		return Result{}, false
	}

	res.Type = MatchExact
	res.Score = 0
	res.Projects, res.Aliases = acc.projects, acc.aliases

	return res, true
}

// PrefixStrategy hits when a candidate and an indexed variant share a prefix
// relation (either is a prefix of the other). Equal lengths score 0;
// otherwise the score is the length difference plus a fixed penalty. Ties go
// to the shorter registered variant.
type PrefixStrategy struct {
	MinLength int
}

func (PrefixStrategy) Name() string { return "prefix" }

func (s PrefixStrategy) Match(ladders [][]string, idx *Index) (Result, bool) {
	candidates := lo.Uniq(lo.Flatten(ladders))

	minLen := s.MinLength
	if minLen <= 0 {
		minLen = DefaultMinFuzzyLength
	}

	var (
		best    Result
		bestLen int
		found   bool
		acc     ownerSet
	)

	for _, c := range candidates {
		if len(c) < minLen {
			continue
		}

		for _, target := range idx.Variants() {
			if len(target) < minLen {
				continue
			}

			if !strings.HasPrefix(target, c) && !strings.HasPrefix(c, target) {
				continue
			}

			score := prefixScore(c, target)

			switch {
			case !found || score < best.Score || (score == best.Score && len(target) < bestLen):
				best = Result{Candidate: c, Target: target, Score: score}
				bestLen = len(target)
				found = true
				acc = ownerSet{}
				acc.add(idx.Lookup(target))
			case score == best.Score && len(target) == bestLen:
				acc.add(idx.Lookup(target))
			}
		}
	}

	if !found {
		return Result{}, false
	}

	best.Type = MatchVariant
	best.Projects, best.Aliases = acc.projects, acc.aliases

	return best, true
}

func prefixScore(candidate, target string) int {
	if len(candidate) == len(target) {
		return 0
	}

	return abs(len(candidate)-len(target)) + fuzzyPenalty
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// ownerSet accumulates owners while dropping repeated projects.
type ownerSet struct {
	seen     map[uuid.UUID]struct{}
	projects []*project.Project
	aliases  []string
}

func (o *ownerSet) add(owners []Owner) {
	if o.seen == nil {
		o.seen = make(map[uuid.UUID]struct{})
	}

	for _, own := range owners {
		if _, dup := o.seen[own.Project.ID]; dup {
			continue
		}

		o.seen[own.Project.ID] = struct{}{}
		o.projects = append(o.projects, own.Project)
		o.aliases = append(o.aliases, own.Alias)
	}
}
