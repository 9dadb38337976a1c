package ingest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/matching"
)

type summaryResponse struct {
	MatchedProjects         int        `json:"matched_projects"`
	MatchedByIdentifier     int        `json:"matched_by_identifier"`
	Unmatched               int        `json:"unmatched"`
	AmbiguousRows           int        `json:"ambiguous_rows"`
	FinancialColumns        []string   `json:"financial_columns"`
	TotalRows               int        `json:"total_rows"`
	ProjectsUpdated         int        `json:"projects_updated"`
	TotalExcelRows          int        `json:"total_excel_rows"`
	SkippedRows             int        `json:"skipped_rows"`
	TotalProjectsInRegistry int        `json:"total_projects_in_registry"`
	PeriodStart             *time.Time `json:"period_start,omitempty"`
	DryRun                  bool       `json:"dry_run"`
	Warnings                []string   `json:"warnings,omitempty"`
}

type projectRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Alias string    `json:"alias"`
}

type rowResponse struct {
	Row               int                            `json:"row"`
	JobNumber         string                         `json:"job_number,omitempty"`
	ProjectIdentifier string                         `json:"project_identifier,omitempty"`
	ProjectName       string                         `json:"project_name,omitempty"`
	Financials        map[string]decimal.NullDecimal `json:"financials"`
}

type matchedRowResponse struct {
	rowResponse
	Projects  []projectRef       `json:"projects"`
	MatchType matching.MatchType `json:"match_type"`
	RankScore int                `json:"rank_score"`
	MatchedOn ingest.MatchedOn   `json:"matched_on"`
	Variant   string             `json:"variant"`
	Ambiguous bool               `json:"ambiguous"`
}

type ingestResponse struct {
	Summary       summaryResponse      `json:"summary"`
	Rows          []matchedRowResponse `json:"rows"`
	UnmatchedRows []rowResponse        `json:"unmatched_rows"`
}

func toRow(r ingest.Row) rowResponse {
	return rowResponse{
		Row:               r.Number,
		JobNumber:         r.JobNumber,
		ProjectIdentifier: r.ProjectIdentifier,
		ProjectName:       r.ProjectName,
		Financials:        r.Financials,
	}
}

func toResponse(res *ingest.Result) ingestResponse {
	s := res.Summary

	resp := ingestResponse{
		Summary: summaryResponse{
			MatchedProjects:         s.MatchedProjects,
			MatchedByIdentifier:     s.MatchedByIdentifier,
			Unmatched:               s.Unmatched,
			AmbiguousRows:           s.AmbiguousRows,
			FinancialColumns:        s.FinancialColumns,
			TotalRows:               s.TotalRows,
			ProjectsUpdated:         s.ProjectsUpdated,
			TotalExcelRows:          s.TotalExcelRows,
			SkippedRows:             s.SkippedRows,
			TotalProjectsInRegistry: s.TotalProjectsInRegistry,
			PeriodStart:             s.PeriodStart,
			DryRun:                  s.DryRun,
			Warnings:                s.Warnings,
		},
		Rows:          make([]matchedRowResponse, 0, len(res.Rows)),
		UnmatchedRows: make([]rowResponse, 0, len(res.UnmatchedRows)),
	}

	for _, mr := range res.Rows {
		refs := make([]projectRef, len(mr.Match.Projects))
		for i, p := range mr.Match.Projects {
			refs[i] = projectRef{ID: p.ID, Name: p.Name, Alias: mr.Match.Aliases[i]}
		}

		resp.Rows = append(resp.Rows, matchedRowResponse{
			rowResponse: toRow(mr.Row),
			Projects:    refs,
			MatchType:   mr.Match.Type,
			RankScore:   mr.Match.Score,
			MatchedOn:   mr.MatchedOn,
			Variant:     mr.Match.Candidate,
			Ambiguous:   mr.Match.Ambiguous(),
		})
	}

	for _, r := range res.UnmatchedRows {
		resp.UnmatchedRows = append(resp.UnmatchedRows, toRow(r))
	}

	return resp
}
