package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
)

type Store struct {
	db *sql.DB
	// types decodes Postgres arrays; database/sql has no scanner for them.
	types *pgtype.Map
}

func New(db *sql.DB) *Store {
	return &Store{db: db, types: pgtype.NewMap()}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, project_id, period_start, period_end, budget,
// forecast, actual, committed, spent, variance, raw_values, job_numbers,
// identifiers, source_file, source_date, match_type, ambiguous, created_at,
// updated_at
func scanSnapshot(types *pgtype.Map, s scanner) (*snapshot.Snapshot, error) {
	var (
		snap snapshot.Snapshot
		raw  []byte
	)

	if err := s.Scan(
		&snap.ID, &snap.ProjectID, &snap.PeriodStart, &snap.PeriodEnd,
		&snap.Budget, &snap.Forecast, &snap.Actual, &snap.Committed, &snap.Spent, &snap.Variance,
		&raw,
		types.SQLScanner(&snap.JobNumbers), types.SQLScanner(&snap.Identifiers),
		&snap.SourceFile, &snap.SourceDate, &snap.MatchType, &snap.Ambiguous,
		&snap.CreatedAt, &snap.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snap.RawValues); err != nil {
			return nil, fmt.Errorf("decoding raw values: %w", err)
		}
	}

	return &snap, nil
}

const selectSnapshotColumns = `
	id, project_id, period_start, period_end, budget, forecast, actual, committed, spent, variance,
	raw_values, job_numbers, identifiers, source_file, source_date, match_type, ambiguous,
	created_at, updated_at
`

func (s *Store) ListSnapshots(ctx context.Context, filter snapshot.ListFilter) ([]*snapshot.Snapshot, error) {
	query := `SELECT ` + selectSnapshotColumns + `
		FROM financial_snapshots
		WHERE project_id = $1`

	args := []any{filter.ProjectID}

	if filter.PeriodStart != nil {
		query += " AND period_start = $2"

		args = append(args, *filter.PeriodStart)
	}

	query += " ORDER BY period_start DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*snapshot.Snapshot

	for rows.Next() {
		snap, err := scanSnapshot(s.types, rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}

		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}

	return snaps, nil
}

// periodLockKey serialises writers of the same week. Two ingestions of
// different weeks never block each other.
func periodLockKey(periodStart time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte("financial_snapshots"))
	h.Write([]byte{0})
	h.Write([]byte(periodStart.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type upsertTx struct {
	tx *sql.Tx
}

func (s *Store) BeginUpsert(ctx context.Context, periodStart time.Time) (snapshot.UpsertTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning upsert tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", periodLockKey(periodStart)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring period lock: %w", err)
	}

	return &upsertTx{tx: dbTx}, nil
}

func (utx *upsertTx) Commit() error {
	return mapError(utx.tx.Commit())
}

func (utx *upsertTx) Rollback() error { return utx.tx.Rollback() }

func (utx *upsertTx) UpsertSnapshot(ctx context.Context, snap *snapshot.Snapshot) error {
	raw, err := encodeRawValues(snap.RawValues)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO financial_snapshots (
			project_id, period_start, period_end, budget, forecast, actual, committed, spent, variance,
			raw_values, job_numbers, identifiers, source_file, source_date, match_type, ambiguous,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		ON CONFLICT ON CONSTRAINT financial_snapshots_project_period_key DO UPDATE SET
			period_end = EXCLUDED.period_end,
			budget = EXCLUDED.budget,
			forecast = EXCLUDED.forecast,
			actual = EXCLUDED.actual,
			committed = EXCLUDED.committed,
			spent = EXCLUDED.spent,
			variance = EXCLUDED.variance,
			raw_values = EXCLUDED.raw_values,
			job_numbers = EXCLUDED.job_numbers,
			identifiers = EXCLUDED.identifiers,
			source_file = EXCLUDED.source_file,
			source_date = EXCLUDED.source_date,
			match_type = EXCLUDED.match_type,
			ambiguous = EXCLUDED.ambiguous,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = utx.tx.QueryRowContext(ctx, query,
		snap.ProjectID,
		snap.PeriodStart,
		snap.PeriodEnd,
		snap.Budget,
		snap.Forecast,
		snap.Actual,
		snap.Committed,
		snap.Spent,
		snap.Variance,
		raw,
		nonNil(snap.JobNumbers),
		nonNil(snap.Identifiers),
		snap.SourceFile,
		snap.SourceDate,
		snap.MatchType,
		snap.Ambiguous,
	).Scan(&snap.ID, &snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", mapError(err))
	}

	return nil
}

func encodeRawValues(values map[string]decimal.NullDecimal) (string, error) {
	if values == nil {
		return "{}", nil
	}

	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding raw values: %w", err)
	}

	return string(b), nil
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolation, serializationFailure:
		return fmt.Errorf("%w: %s", snapshot.ErrConflict, pgErr.Message)
	}

	return err
}
