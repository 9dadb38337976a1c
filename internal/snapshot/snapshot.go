package snapshot

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("snapshot not found")
	// ErrConflict is returned when a concurrent writer won the
	// (project, period) uniqueness race.
	ErrConflict = errors.New("snapshot write conflict")
)

// Snapshot is the financial position of one project for one reporting week.
// It is unique per (ProjectID, PeriodStart); a later ingestion of the same
// week replaces it in full.
type Snapshot struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time

	Budget    decimal.NullDecimal
	Forecast  decimal.NullDecimal // estimate at completion
	Actual    decimal.NullDecimal
	Committed decimal.NullDecimal
	Spent     decimal.NullDecimal
	Variance  decimal.NullDecimal

	// RawValues holds every detected financial column keyed by its header
	// label exactly as it appeared in the sheet.
	RawValues map[string]decimal.NullDecimal

	JobNumbers  []string
	Identifiers []string
	SourceFile  string
	SourceDate  time.Time
	MatchType   string
	Ambiguous   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
