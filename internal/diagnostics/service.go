package diagnostics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/matching"
	"github.com/MrJamesThe3rd/costline/internal/project"
)

// Candidate is the first project a heuristic found for a row.
type Candidate struct {
	Project    *project.Project
	Reason     string
	Confidence Confidence
}

// Match is the diagnosis of one spreadsheet row.
type Match struct {
	Row        ingest.Row
	Candidates []Candidate
	// Best is the highest-confidence candidate, nil when nothing fired.
	Best *Candidate
	// Ingest is how the ingestion matcher resolves the same row.
	Ingest matching.Result
}

// Confidence of the best candidate, or None.
func (m Match) Confidence() Confidence {
	if m.Best == nil {
		return None
	}

	return m.Best.Confidence
}

type Summary struct {
	High   int
	Medium int
	Low    int
	None   int
}

type Report struct {
	TotalExcelRows        int
	TotalRegistryProjects int
	Matches               []Match
	Summary               Summary
}

type Options struct {
	SheetName string
	Hints     ingest.Hints
}

type Service struct {
	registry   ingest.Registry
	hints      ingest.Hints
	heuristics []Heuristic
}

func NewService(registry ingest.Registry, hints ingest.Hints) *Service {
	return &Service{
		registry:   registry,
		hints:      hints,
		heuristics: DefaultHeuristics(),
	}
}

// Diagnose classifies every data row of buf against the registry. It never
// writes anything.
func (s *Service) Diagnose(ctx context.Context, buf []byte, opts Options) (*Report, error) {
	parsed, err := ingest.Parse(buf, opts.SheetName, s.hints.Override(opts.Hints))
	if err != nil {
		return nil, err
	}

	projects, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	matcher := matching.NewMatcher(matching.NewIndex(projects))

	report := &Report{
		TotalExcelRows:        parsed.DataRows,
		TotalRegistryProjects: len(projects),
		Matches:               make([]Match, 0, len(parsed.Rows)),
	}

	for _, row := range parsed.Rows {
		m := Classify(row, projects, s.heuristics)
		m.Ingest = matcher.Match(row.Identifiers()...)

		switch m.Confidence() {
		case High:
			report.Summary.High++
		case Medium:
			report.Summary.Medium++
		case Low:
			report.Summary.Low++
		default:
			report.Summary.None++
		}

		report.Matches = append(report.Matches, m)
	}

	slog.InfoContext(ctx, "diagnostics complete",
		"rows", len(report.Matches),
		"high", report.Summary.High,
		"medium", report.Summary.Medium,
		"low", report.Summary.Low,
		"none", report.Summary.None,
	)

	return report, nil
}

// Classify runs every heuristic over the registry. Each heuristic
// contributes the first project it hits; the best candidate is the first
// one of the highest confidence.
func Classify(row ingest.Row, projects []*project.Project, heuristics []Heuristic) Match {
	m := Match{Row: row}

	for _, h := range heuristics {
		for _, p := range projects {
			reason, ok := h.Check(row, p)
			if !ok {
				continue
			}

			m.Candidates = append(m.Candidates, Candidate{Project: p, Reason: reason, Confidence: h.Confidence()})

			break
		}
	}

	for i := range m.Candidates {
		if m.Best == nil || m.Candidates[i].Confidence.Higher(m.Best.Confidence) {
			m.Best = &m.Candidates[i]
		}
	}

	return m
}
