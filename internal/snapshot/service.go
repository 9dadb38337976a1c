package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=snapshot
type Repository interface {
	// BeginUpsert opens the single transaction that carries every write of
	// one ingestion for the given period.
	BeginUpsert(ctx context.Context, periodStart time.Time) (UpsertTx, error)
	ListSnapshots(ctx context.Context, filter ListFilter) ([]*Snapshot, error)
}

type UpsertTx interface {
	// UpsertSnapshot creates the (project, period) row or replaces every
	// field of the existing one.
	UpsertSnapshot(ctx context.Context, s *Snapshot) error
	Commit() error
	Rollback() error
}

type ListFilter struct {
	ProjectID   uuid.UUID
	PeriodStart *time.Time
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SavePeriod writes all snapshots for one week atomically: either every
// snapshot is committed or none is. Period bounds are stamped onto each
// snapshot, so callers only need to supply the project and its figures.
func (s *Service) SavePeriod(ctx context.Context, periodStart time.Time, snaps []*Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	start := WeekStart(periodStart)
	end := PeriodEnd(start)

	seen := make(map[uuid.UUID]struct{}, len(snaps))

	for _, snap := range snaps {
		if snap.ProjectID == uuid.Nil {
			return fmt.Errorf("snapshot without project")
		}

		if _, dup := seen[snap.ProjectID]; dup {
			return fmt.Errorf("project %s appears twice in period %s", snap.ProjectID, start.Format(time.DateOnly))
		}

		seen[snap.ProjectID] = struct{}{}
		snap.PeriodStart = start
		snap.PeriodEnd = end
	}

	utx, err := s.repo.BeginUpsert(ctx, start)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer utx.Rollback()

	for _, snap := range snaps {
		if err := utx.UpsertSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("upsert snapshot for project %s: %w", snap.ProjectID, err)
		}
	}

	if err := utx.Commit(); err != nil {
		return fmt.Errorf("commit snapshots: %w", err)
	}

	return nil
}

// List returns a project's snapshot history, newest period first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Snapshot, error) {
	if filter.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("project id is required")
	}

	if filter.PeriodStart != nil {
		start := WeekStart(*filter.PeriodStart)
		filter.PeriodStart = &start
	}

	return s.repo.ListSnapshots(ctx, filter)
}
