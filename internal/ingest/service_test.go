package ingest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/project"
	"github.com/MrJamesThe3rd/costline/internal/sheet"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

// weeklyReport has its header on the fifth row, a region banner, a
// placeholder row, an unmatched row and a trailing total.
func weeklyReport(t *testing.T) []byte {
	return workbook(t, [][]any{
		{"Weekly Cost Report"},
		{"Prepared by", "Finance"},
		{"Week ending", "2024-03-15"},
		{"Confidential"},
		{"Job", "ProjectNumber", "Name", "Budget", "EAC", "Variance"},
		{"SDC Ashburn"},
		{"24-5-072-QUIE1", "", "Ashburn DC1 Phase 1", 100, 200, "(10)"},
		{"24-5-072", "", "Ashburn DC1 Phase 2", 50, "$1,000.00", "--"},
		{"n/a", "", "", 5, 5, 5},
		{"99-9-999", "", "Unknown Site", 1, 1, 1},
		{"", "RNO-118", "Reno", 30, "", ""},
		{"Total", "", "", 186, 1206, -9},
	})
}

type fixture struct {
	ashburn *project.Project
	reno    *project.Project
	repo    *memoryRepo
	svc     *ingest.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		ashburn: &project.Project{ID: uuid.New(), Name: "Ashburn DC1", Code: "ASH", Aliases: []string{"24-5-072"}},
		reno:    &project.Project{ID: uuid.New(), Name: "Reno Campus", Code: "RNO", Aliases: []string{"RNO-118-ALPHA"}},
		repo:    newMemoryRepo(),
	}

	projects := project.NewMockRepository(ctrl)
	projects.EXPECT().ListProjects(gomock.Any()).Return([]*project.Project{f.ashburn, f.reno}, nil).AnyTimes()

	f.svc = ingest.NewService(project.NewService(projects), snapshot.NewService(f.repo), defaultHints())

	return f
}

func TestService_Ingest(t *testing.T) {
	f := newFixture(t)

	period := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	sourceDate := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	res, err := f.svc.Ingest(context.Background(), weeklyReport(t), ingest.Options{
		PeriodStart:    &period,
		SourceFileName: "week11.xlsx",
		SourceDate:     &sourceDate,
	})
	require.NoError(t, err)

	sum := res.Summary
	assert.Equal(t, 2, sum.MatchedProjects)
	assert.Equal(t, 1, sum.MatchedByIdentifier)
	assert.Equal(t, 1, sum.Unmatched)
	assert.Equal(t, []string{"Budget", "EAC", "Variance"}, sum.FinancialColumns)
	assert.Equal(t, 4, sum.TotalRows)
	assert.Equal(t, 7, sum.TotalExcelRows)
	assert.Equal(t, 3, sum.SkippedRows)
	assert.Equal(t, 2, sum.TotalProjectsInRegistry)
	assert.Equal(t, 2, sum.ProjectsUpdated)
	assert.Empty(t, sum.Warnings)

	require.Len(t, res.UnmatchedRows, 1)
	assert.Equal(t, "99-9-999", res.UnmatchedRows[0].JobNumber)
	assert.Equal(t, 10, res.UnmatchedRows[0].Number)

	require.Len(t, res.Rows, 3)
	assert.Equal(t, ingest.MatchedOnJobNumber, res.Rows[0].MatchedOn)
	assert.Equal(t, ingest.MatchedOnIdentifier, res.Rows[2].MatchedOn)

	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, *sum.PeriodStart)

	ash := f.repo.get(f.ashburn.ID, monday)
	require.NotNil(t, ash)
	assert.Equal(t, "150", ash.Budget.Decimal.String())
	assert.Equal(t, "1200", ash.Forecast.Decimal.String())
	assert.Equal(t, "-10", ash.Variance.Decimal.String())
	assert.Equal(t, "-10", ash.RawValues["Variance"].Decimal.String())
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), ash.PeriodEnd)
	assert.Equal(t, "week11.xlsx", ash.SourceFile)
	assert.Equal(t, sourceDate, ash.SourceDate)
	assert.Equal(t, "exact", ash.MatchType)
	assert.Equal(t, []string{"24-5-072-QUIE1", "24-5-072"}, ash.JobNumbers)

	reno := f.repo.get(f.reno.ID, monday)
	require.NotNil(t, reno)
	assert.Equal(t, "30", reno.Budget.Decimal.String())
	assert.False(t, reno.Forecast.Valid)
	assert.Equal(t, []string{"RNO-118"}, reno.Identifiers)
}

func TestService_Ingest_SamePeriodOverwrites(t *testing.T) {
	f := newFixture(t)
	buf := weeklyReport(t)

	first := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	again := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC) // same week

	for _, period := range []time.Time{first, again} {
		_, err := f.svc.Ingest(context.Background(), buf, ingest.Options{PeriodStart: &period})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, f.repo.count(), "one snapshot per project and period")
	assert.Equal(t, "150", f.repo.get(f.ashburn.ID, first).Budget.Decimal.String(), "values are replaced, not summed")

	next := first.AddDate(0, 0, 7)
	_, err := f.svc.Ingest(context.Background(), buf, ingest.Options{PeriodStart: &next})
	require.NoError(t, err)

	assert.Equal(t, 4, f.repo.count(), "a new period leaves earlier ones untouched")
}

func TestService_Ingest_DryRun(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Ingest(context.Background(), weeklyReport(t), ingest.Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Summary.ProjectsUpdated)
	assert.Equal(t, 2, res.Summary.MatchedProjects)
	assert.Len(t, res.Aggregates, 2)
	assert.Nil(t, res.Summary.PeriodStart)
	assert.Zero(t, f.repo.count())
}

func TestService_Ingest_Errors(t *testing.T) {
	period := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name    string
		buf     func(t *testing.T) []byte
		opts    ingest.Options
		wantErr error
	}

	tests := []testCase{
		{
			name:    "PeriodRequired",
			buf:     weeklyReport,
			wantErr: ingest.ErrPeriodRequired,
		},
		{
			name:    "Unreadable",
			buf:     func(*testing.T) []byte { return []byte("PK\x03\x04garbage") },
			opts:    ingest.Options{DryRun: true},
			wantErr: sheet.ErrUnreadable,
		},
		{
			name: "NoHeader",
			buf: func(t *testing.T) []byte {
				return workbook(t, [][]any{{"only"}, {"two", "cells"}})
			},
			opts:    ingest.Options{DryRun: true},
			wantErr: ingest.ErrNoHeader,
		},
		{
			name: "NoIdentifyingColumn",
			buf: func(t *testing.T) []byte {
				return workbook(t, [][]any{{"Region", "Budget", "EAC"}, {"West", 1, 2}})
			},
			opts:    ingest.Options{PeriodStart: &period},
			wantErr: ingest.ErrNoIdentifyingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res, err := f.svc.Ingest(context.Background(), tt.buf(t), tt.opts)

			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.repo.count())
		})
	}
}

func TestService_Ingest_WriteFailureCommitsNothing(t *testing.T) {
	f := newFixture(t)
	f.repo.failOn = 2

	period := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Ingest(context.Background(), weeklyReport(t), ingest.Options{PeriodStart: &period})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist snapshots")
	assert.Zero(t, f.repo.count())
}

func TestService_Ingest_Warnings(t *testing.T) {
	f := newFixture(t)

	buf := workbook(t, [][]any{
		{"Job", "Name", "Notes"},
		{"24-5-072", "Ashburn", "on track"},
	})

	res, err := f.svc.Ingest(context.Background(), buf, ingest.Options{DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, res.Summary.FinancialColumns)
	assert.Len(t, res.Summary.Warnings, 1)
	assert.Equal(t, 1, res.Summary.MatchedProjects)
}

func TestService_Ingest_SiblingSuffixesStaySeparate(t *testing.T) {
	ctrl := gomock.NewController(t)

	quie := &project.Project{ID: uuid.New(), Name: "Ashburn Quincy", Aliases: []string{"24-5-072-QUIE1"}}
	hall := &project.Project{ID: uuid.New(), Name: "Ashburn Hall", Aliases: []string{"24-5-072-HALL2"}}

	projects := project.NewMockRepository(ctrl)
	projects.EXPECT().ListProjects(gomock.Any()).Return([]*project.Project{quie, hall}, nil)

	svc := ingest.NewService(project.NewService(projects), snapshot.NewService(newMemoryRepo()), defaultHints())

	buf := workbook(t, [][]any{
		{"Job", "Name", "Budget"},
		{"24-5-072-QUIE1", "Quincy", 100},
		{"24-5-072-HALL2", "Hall", 50},
	})

	res, err := svc.Ingest(context.Background(), buf, ingest.Options{DryRun: true})
	require.NoError(t, err)

	assert.Zero(t, res.Summary.AmbiguousRows)
	assert.Empty(t, res.Summary.Warnings)
	require.Len(t, res.Aggregates, 2)

	budgets := make(map[uuid.UUID]string)

	for _, agg := range res.Aggregates {
		assert.False(t, agg.Ambiguous)
		budgets[agg.Project.ID] = agg.Financials["Budget"].Decimal.String()
	}

	assert.Equal(t, map[uuid.UUID]string{quie.ID: "100", hall.ID: "50"}, budgets)
}

func TestService_Ingest_FieldMapping(t *testing.T) {
	type testCase struct {
		name   string
		header string
		field  func(s *snapshot.Snapshot) decimal.NullDecimal
	}

	tests := []testCase{
		{name: "Budget", header: "Original Budget", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Budget }},
		{name: "BudgetVarianceIsVariance", header: "Budget Variance", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Variance }},
		{name: "VarAsWord", header: "Var $", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Variance }},
		{name: "EstimateAtCompletion", header: "Estimate at Completion", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Forecast }},
		{name: "ActualCostToDateIsSpent", header: "Actual Cost to Date", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Spent }},
		{name: "JTDCost", header: "JTD Cost", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Spent }},
		{name: "Committed", header: "Committed Cost", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Committed }},
		{name: "Actual", header: "Actual", field: func(s *snapshot.Snapshot) decimal.NullDecimal { return s.Actual }},
	}

	period := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			buf := workbook(t, [][]any{
				{"Job", "Name", tt.header},
				{"24-5-072", "Ashburn", 42},
			})

			_, err := f.svc.Ingest(context.Background(), buf, ingest.Options{PeriodStart: &period})
			require.NoError(t, err)

			snap := f.repo.get(f.ashburn.ID, period)
			require.NotNil(t, snap)

			got := tt.field(snap)
			require.True(t, got.Valid, "%q was not mapped", tt.header)
			assert.Equal(t, "42", got.Decimal.String())
			assert.Equal(t, "42", snap.RawValues[tt.header].Decimal.String())
		})
	}
}

func TestService_Ingest_UnmappedLabelKeptRaw(t *testing.T) {
	f := newFixture(t)

	period := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	buf := workbook(t, [][]any{
		{"Job", "Name", "Available Cost"},
		{"24-5-072", "Ashburn", 7},
	})

	_, err := f.svc.Ingest(context.Background(), buf, ingest.Options{PeriodStart: &period})
	require.NoError(t, err)

	snap := f.repo.get(f.ashburn.ID, period)
	require.NotNil(t, snap)

	for _, v := range []decimal.NullDecimal{snap.Budget, snap.Forecast, snap.Actual, snap.Committed, snap.Spent, snap.Variance} {
		assert.False(t, v.Valid)
	}

	assert.Equal(t, "7", snap.RawValues["Available Cost"].Decimal.String())
}

func TestService_Ingest_RepeatedLabelsKeepEveryColumn(t *testing.T) {
	f := newFixture(t)

	buf := workbook(t, [][]any{
		{"Job", "Name", "Budget", "Budget"},
		{"24-5-072", "Ashburn", 10, 3},
	})

	res, err := f.svc.Ingest(context.Background(), buf, ingest.Options{DryRun: true})
	require.NoError(t, err)

	require.Len(t, res.Aggregates, 1)
	assert.Equal(t, "10", res.Aggregates[0].Financials["Budget"].Decimal.String())
	assert.Equal(t, "3", res.Aggregates[0].Financials["Budget (2)"].Decimal.String())

	require.Len(t, res.Summary.Warnings, 1)
	assert.Contains(t, res.Summary.Warnings[0], `"Budget"`)
}

// memoryRepo is an in-memory snapshot store keyed like the real table.
type memoryRepo struct {
	mu     sync.Mutex
	rows   map[snapKey]*snapshot.Snapshot
	failOn int
}

type snapKey struct {
	project uuid.UUID
	period  time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[snapKey]*snapshot.Snapshot)}
}

func (r *memoryRepo) BeginUpsert(_ context.Context, _ time.Time) (snapshot.UpsertTx, error) {
	return &memoryTx{repo: r}, nil
}

func (r *memoryRepo) ListSnapshots(_ context.Context, filter snapshot.ListFilter) ([]*snapshot.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*snapshot.Snapshot

	for k, s := range r.rows {
		if k.project == filter.ProjectID {
			out = append(out, s)
		}
	}

	return out, nil
}

func (r *memoryRepo) get(id uuid.UUID, period time.Time) *snapshot.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rows[snapKey{id, period}]
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rows)
}

type memoryTx struct {
	repo    *memoryRepo
	pending []*snapshot.Snapshot
}

func (tx *memoryTx) UpsertSnapshot(_ context.Context, s *snapshot.Snapshot) error {
	tx.pending = append(tx.pending, s)

	if tx.repo.failOn > 0 && len(tx.pending) == tx.repo.failOn {
		return errors.New("connection reset")
	}

	return nil
}

func (tx *memoryTx) Commit() error {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	for _, s := range tx.pending {
		cp := *s
		tx.repo.rows[snapKey{s.ProjectID, s.PeriodStart}] = &cp
	}

	tx.pending = nil

	return nil
}

func (tx *memoryTx) Rollback() error {
	tx.pending = nil
	return nil
}
