package diagnostics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/matching"
	"github.com/MrJamesThe3rd/costline/internal/project"
)

var (
	leadingNumeric = regexp.MustCompile(`^\d+(?:-\d+)*`)
	sdcPrefix      = regexp.MustCompile(`^sdc[\s-]+`)
)

// Heuristic tests one row against one project and explains a hit.
type Heuristic interface {
	Confidence() Confidence
	Check(row ingest.Row, p *project.Project) (reason string, ok bool)
}

// DefaultHeuristics are evaluated in this order for every row.
func DefaultHeuristics() []Heuristic {
	return []Heuristic{
		jobNumber{},
		identifierCode{},
		codeInJob{},
		nameTokens{min: 2, confidence: Medium},
		looseName{},
	}
}

// jobNumber hits when the job number equals a registered alias or the
// project code, either verbatim or by its leading numeric groups
// ("24-5-072-QUIE1" and "24-5-072" share "24-5-072").
type jobNumber struct{}

func (jobNumber) Confidence() Confidence { return High }

func (jobNumber) Check(row ingest.Row, p *project.Project) (string, bool) {
	job := matching.Normalize(row.JobNumber)
	if job == "" {
		return "", false
	}

	keys := projectKeys(p)

	if k, ok := lo.Find(keys, func(k string) bool { return matching.Normalize(k) == job }); ok {
		return fmt.Sprintf("job number equals %q", k), true
	}

	num := leadingNumeric.FindString(job)
	if num == "" {
		return "", false
	}

	if k, ok := lo.Find(keys, func(k string) bool { return leadingNumeric.FindString(matching.Normalize(k)) == num }); ok {
		return fmt.Sprintf("job number digits %s match %q", num, k), true
	}

	return "", false
}

// identifierCode hits when the project identifier and the project code
// contain one another.
type identifierCode struct{}

func (identifierCode) Confidence() Confidence { return High }

func (identifierCode) Check(row ingest.Row, p *project.Project) (string, bool) {
	id := matching.Normalize(row.ProjectIdentifier)
	code := matching.Normalize(p.Code)

	if id == "" || code == "" {
		return "", false
	}

	if strings.Contains(id, code) || strings.Contains(code, id) {
		return fmt.Sprintf("project identifier %q overlaps code %q", row.ProjectIdentifier, p.Code), true
	}

	return "", false
}

type codeInJob struct{}

func (codeInJob) Confidence() Confidence { return Medium }

func (codeInJob) Check(row ingest.Row, p *project.Project) (string, bool) {
	job := matching.Normalize(row.JobNumber)
	code := matching.Normalize(p.Code)

	if job == "" || code == "" || !strings.Contains(job, code) {
		return "", false
	}

	return fmt.Sprintf("code %q appears in job number", p.Code), true
}

// nameTokens hits when at least min name tokens are shared.
type nameTokens struct {
	min        int
	confidence Confidence
}

func (h nameTokens) Confidence() Confidence { return h.confidence }

func (h nameTokens) Check(row ingest.Row, p *project.Project) (string, bool) {
	shared := lo.Intersect(nameTokenSet(row.ProjectName), nameTokenSet(p.Name))
	if len(shared) < h.min {
		return "", false
	}

	return fmt.Sprintf("name shares %s", strings.Join(shared, ", ")), true
}

// looseName hits on a single shared token or when one name contains the
// other.
type looseName struct{}

func (looseName) Confidence() Confidence { return Low }

func (looseName) Check(row ingest.Row, p *project.Project) (string, bool) {
	if reason, ok := (nameTokens{min: 1, confidence: Low}).Check(row, p); ok {
		return reason, true
	}

	a := stripPrefix(row.ProjectName)
	b := stripPrefix(p.Name)

	if a == "" || b == "" {
		return "", false
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return "one name contains the other", true
	}

	return "", false
}

func projectKeys(p *project.Project) []string {
	keys := lo.Filter(p.Aliases, func(a string, _ int) bool { return strings.TrimSpace(a) != "" })
	if strings.TrimSpace(p.Code) != "" {
		keys = append(keys, p.Code)
	}

	return keys
}

func stripPrefix(name string) string {
	return sdcPrefix.ReplaceAllString(matching.Normalize(name), "")
}

// nameTokenSet splits a name on whitespace and dashes, keeping distinct
// tokens longer than one character.
func nameTokenSet(name string) []string {
	tokens := strings.FieldsFunc(stripPrefix(name), func(r rune) bool {
		return r == '-' || r == ' '
	})

	return lo.Uniq(lo.Filter(tokens, func(t string, _ int) bool { return len(t) > 1 }))
}
