package export

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

const sheetName = "Snapshots"

var header = []any{
	"Period Start", "Period End", "Budget", "Forecast", "Actual", "Committed", "Spent", "Variance",
	"Match Type", "Ambiguous", "Job Numbers", "Identifiers", "Source File", "Source Date",
}

// Lister is the read side of the snapshot store.
type Lister interface {
	List(ctx context.Context, filter snapshot.ListFilter) ([]*snapshot.Snapshot, error)
}

// Service writes a project's snapshot history out as a workbook.
type Service struct {
	snapshots Lister
}

func NewService(snapshots Lister) *Service {
	return &Service{snapshots: snapshots}
}

// Export writes every snapshot matching filter to w as an XLSX workbook,
// newest period first. Every raw column label found anywhere in the history,
// mapped or not, follows the fixed columns in sorted order.
func (s *Service) Export(ctx context.Context, filter snapshot.ListFilter, w io.Writer) (int, error) {
	snaps, err := s.snapshots.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing snapshots: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return 0, fmt.Errorf("naming sheet: %w", err)
	}

	extra := rawLabels(snaps)

	row := slices.Clone(header)
	for _, l := range extra {
		row = append(row, l)
	}

	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for i, snap := range snaps {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, fmt.Errorf("cell name: %w", err)
		}

		values := []any{
			snap.PeriodStart.Format(time.DateOnly),
			snap.PeriodEnd.Format(time.DateOnly),
			cellValue(snap.Budget),
			cellValue(snap.Forecast),
			cellValue(snap.Actual),
			cellValue(snap.Committed),
			cellValue(snap.Spent),
			cellValue(snap.Variance),
			snap.MatchType,
			snap.Ambiguous,
			strings.Join(snap.JobNumbers, ", "),
			strings.Join(snap.Identifiers, ", "),
			snap.SourceFile,
			snap.SourceDate.Format(time.RFC3339),
		}

		for _, l := range extra {
			values = append(values, cellValue(snap.RawValues[l]))
		}

		if err := f.SetSheetRow(sheetName, axis, &values); err != nil {
			return 0, fmt.Errorf("writing snapshot %s: %w", snap.PeriodStart.Format(time.DateOnly), err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("writing workbook: %w", err)
	}

	return len(snaps), nil
}

// Digest renders a one-line-per-period text summary of snaps.
func Digest(snaps []*snapshot.Snapshot) string {
	var sb strings.Builder

	for _, s := range snaps {
		source := "manual"
		if s.SourceFile != "" {
			source = s.SourceFile
		}

		fmt.Fprintf(&sb, "* %s | budget %s | forecast %s | spent %s | %s\n",
			s.PeriodStart.Format(time.DateOnly),
			amount(s.Budget), amount(s.Forecast), amount(s.Spent), source)
	}

	return sb.String()
}

// rawLabels returns the union of raw labels across snaps, sorted.
func rawLabels(snaps []*snapshot.Snapshot) []string {
	labels := lo.Uniq(lo.FlatMap(snaps, func(s *snapshot.Snapshot, _ int) []string {
		return lo.Keys(s.RawValues)
	}))

	slices.Sort(labels)

	return labels
}

func cellValue(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}

	return d.Decimal.InexactFloat64()
}

func amount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}

	return d.Decimal.StringFixed(2)
}
