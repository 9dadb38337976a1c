package ingest

import (
	"time"

	"github.com/MrJamesThe3rd/costline/internal/matching"
)

// MatchedOn names the row field that produced a match.
type MatchedOn string

const (
	MatchedOnIdentifier MatchedOn = "project_identifier"
	MatchedOnJobNumber  MatchedOn = "job_number"
)

type Summary struct {
	MatchedProjects         int
	MatchedByIdentifier     int
	Unmatched               int
	AmbiguousRows           int
	FinancialColumns        []string
	TotalRows               int
	ProjectsUpdated         int
	TotalExcelRows          int
	SkippedRows             int
	TotalProjectsInRegistry int
	PeriodStart             *time.Time
	DryRun                  bool
	Warnings                []string
}

type MatchedRow struct {
	Row
	Match     matching.Result
	MatchedOn MatchedOn
}

type Result struct {
	Summary       Summary
	Rows          []MatchedRow
	UnmatchedRows []Row
	// Aggregates are the per-project totals, written as snapshots unless the
	// run was dry.
	Aggregates []*Aggregate
}
