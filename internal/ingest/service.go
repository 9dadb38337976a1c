package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/costline/internal/matching"
	"github.com/MrJamesThe3rd/costline/internal/project"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

var ErrPeriodRequired = errors.New("period start is required unless dry run")

// Registry supplies the canonical projects with their aliases.
type Registry interface {
	List(ctx context.Context) ([]*project.Project, error)
}

// SnapshotWriter persists one period's snapshots atomically.
type SnapshotWriter interface {
	SavePeriod(ctx context.Context, periodStart time.Time, snaps []*snapshot.Snapshot) error
}

type Options struct {
	PeriodStart    *time.Time
	DryRun         bool
	SourceFileName string
	SourceDate     *time.Time
	SheetName      string
	// Hints override the service defaults list by list.
	Hints Hints
}

type Service struct {
	registry  Registry
	snapshots SnapshotWriter
	hints     Hints
	now       func() time.Time
}

func NewService(registry Registry, snapshots SnapshotWriter, hints Hints) *Service {
	return &Service{
		registry:  registry,
		snapshots: snapshots,
		hints:     hints,
		now:       time.Now,
	}
}

// Ingest parses buf, matches every row against the registry, aggregates per
// project and, unless opts.DryRun is set, replaces the period's snapshots.
func (s *Service) Ingest(ctx context.Context, buf []byte, opts Options) (*Result, error) {
	if !opts.DryRun && opts.PeriodStart == nil {
		return nil, ErrPeriodRequired
	}

	parsed, err := Parse(buf, opts.SheetName, s.hints.Override(opts.Hints))
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "spreadsheet parsed",
		"sheet", parsed.Sheet,
		"header_row", parsed.Columns.HeaderRow,
		"rows", len(parsed.Rows),
		"skipped", parsed.SkippedRows(),
		"financial_columns", len(parsed.Columns.Financial),
	)

	if len(parsed.Columns.Financial) == 0 {
		slog.WarnContext(ctx, "no financial columns detected", "sheet", parsed.Sheet)
	}

	projects, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	matcher := matching.NewMatcher(matching.NewIndex(projects))
	agg := NewAggregator()

	res := &Result{
		Summary: Summary{
			FinancialColumns:        parsed.Columns.Labels(),
			TotalRows:               len(parsed.Rows),
			TotalExcelRows:          parsed.DataRows,
			SkippedRows:             parsed.SkippedRows(),
			TotalProjectsInRegistry: len(projects),
			DryRun:                  opts.DryRun,
		},
	}

	for _, row := range parsed.Rows {
		m := matcher.Match(row.Identifiers()...)
		if !m.Matched() {
			res.UnmatchedRows = append(res.UnmatchedRows, row)
			continue
		}

		on := MatchedOnJobNumber
		if m.Field == 0 {
			on = MatchedOnIdentifier
			res.Summary.MatchedByIdentifier++
		}

		if m.Ambiguous() {
			res.Summary.AmbiguousRows++
		}

		res.Rows = append(res.Rows, MatchedRow{Row: row, Match: m, MatchedOn: on})
		agg.Add(row, m)
	}

	res.Aggregates = agg.Results()
	res.Summary.MatchedProjects = len(res.Aggregates)
	res.Summary.Unmatched = len(res.UnmatchedRows)
	res.Summary.Warnings = warnings(parsed, res.Summary)

	if opts.PeriodStart != nil {
		start := snapshot.WeekStart(*opts.PeriodStart)
		res.Summary.PeriodStart = &start
	}

	if opts.DryRun {
		slog.InfoContext(ctx, "dry run, skipping snapshot write",
			"matched_projects", res.Summary.MatchedProjects,
			"unmatched", res.Summary.Unmatched,
		)

		return res, nil
	}

	src := source{file: opts.SourceFileName, date: s.now().UTC()}
	if opts.SourceDate != nil {
		src.date = *opts.SourceDate
	}

	snaps := make([]*snapshot.Snapshot, 0, len(res.Aggregates))
	for _, a := range res.Aggregates {
		snaps = append(snaps, buildSnapshot(a, res.Summary.FinancialColumns, src))
	}

	if err := s.snapshots.SavePeriod(ctx, *res.Summary.PeriodStart, snaps); err != nil {
		return nil, fmt.Errorf("persist snapshots: %w", err)
	}

	res.Summary.ProjectsUpdated = len(snaps)

	slog.InfoContext(ctx, "snapshots written",
		"period_start", res.Summary.PeriodStart.Format(time.DateOnly),
		"projects", len(snaps),
	)

	return res, nil
}

func warnings(parsed *Parsed, sum Summary) []string {
	var out []string

	if len(parsed.Columns.Financial) == 0 {
		out = append(out, "no financial columns detected; snapshots will carry no values")
	}

	for _, label := range parsed.Columns.Repeated {
		out = append(out, fmt.Sprintf("financial column %q appears more than once; later copies are numbered, e.g. %q", label, label+" (2)"))
	}

	if sum.TotalProjectsInRegistry == 0 {
		out = append(out, "project registry is empty; every row is unmatched")
	}

	if sum.AmbiguousRows > 0 {
		out = append(out, fmt.Sprintf("%d rows matched more than one project and were credited to each", sum.AmbiguousRows))
	}

	return out
}
