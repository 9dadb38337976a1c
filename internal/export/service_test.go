package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

type mockLister struct {
	listFunc func(ctx context.Context, filter snapshot.ListFilter) ([]*snapshot.Snapshot, error)
}

func (m *mockLister) List(ctx context.Context, filter snapshot.ListFilter) ([]*snapshot.Snapshot, error) {
	return m.listFunc(ctx, filter)
}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestService_Export(t *testing.T) {
	id := uuid.New()
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	lister := &mockLister{listFunc: func(_ context.Context, f snapshot.ListFilter) ([]*snapshot.Snapshot, error) {
		assert.Equal(t, id, f.ProjectID)

		return []*snapshot.Snapshot{
			{
				ProjectID:   id,
				PeriodStart: start,
				PeriodEnd:   start.AddDate(0, 0, 6),
				Budget:      dec("150"),
				RawValues:   map[string]decimal.NullDecimal{"Budget": dec("150"), "Contingency $": dec("12.5")},
				JobNumbers:  []string{"24-5-072", "24-5-072-QUIE1"},
				SourceFile:  "week11.xlsx",
				MatchType:   "exact",
			},
		}, nil
	}}

	var buf bytes.Buffer

	n, err := NewService(lister).Export(context.Background(), snapshot.ListFilter{ProjectID: id}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Period Start", rows[0][0])
	assert.Equal(t, []string{"Budget", "Contingency $"}, rows[0][len(header):])
	assert.Equal(t, "2024-03-11", rows[1][0])
	assert.Equal(t, "150", rows[1][2])
	assert.Equal(t, "24-5-072, 24-5-072-QUIE1", rows[1][10])
	assert.Equal(t, "12.5", rows[1][len(header)+1])
}

func TestRawLabels_SortedAcrossHistory(t *testing.T) {
	snaps := []*snapshot.Snapshot{
		{RawValues: map[string]decimal.NullDecimal{"Variance": dec("1"), "EAC": dec("2")}},
		{RawValues: map[string]decimal.NullDecimal{"Budget": dec("3"), "EAC": dec("4")}},
		{RawValues: nil},
		{RawValues: map[string]decimal.NullDecimal{"Actual Cost": {}}},
	}

	assert.Equal(t, []string{"Actual Cost", "Budget", "EAC", "Variance"}, rawLabels(snaps))
}

func TestService_Export_ListError(t *testing.T) {
	lister := &mockLister{listFunc: func(context.Context, snapshot.ListFilter) ([]*snapshot.Snapshot, error) {
		return nil, errors.New("db error")
	}}

	var buf bytes.Buffer

	_, err := NewService(lister).Export(context.Background(), snapshot.ListFilter{ProjectID: uuid.New()}, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestDigest(t *testing.T) {
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	got := Digest([]*snapshot.Snapshot{
		{PeriodStart: start, Budget: dec("150"), Spent: dec("-10.5"), SourceFile: "week11.xlsx"},
		{PeriodStart: start.AddDate(0, 0, -7)},
	})

	want := "* 2024-03-11 | budget 150.00 | forecast - | spent -10.50 | week11.xlsx\n" +
		"* 2024-03-04 | budget - | forecast - | spent - | manual\n"

	assert.Equal(t, want, got)
}
