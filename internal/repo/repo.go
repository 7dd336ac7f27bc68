// Package repo contains all database access logic for the Itinerary API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/itinerary/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly lets the same
// repo run on the pool for reads and inside a transaction for aggregate writes,
// and lets integration tests pass a transaction that is rolled back afterwards.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner is satisfied by *pgxpool.Pool and pgx.Tx (nested tx = savepoint).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles the aggregate repositories bound to one transaction.
type Repos struct {
	Trips TripRepo
	Stops StopRepo
}

// TxRunner runs a unit of work inside a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise,
// including when fn panics or ctx is cancelled.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Repos) error) error
}

type pgTxRunner struct {
	db beginner
}

// NewTxRunner constructs a TxRunner. In production pass *pgxpool.Pool;
// integration tests pass a pgx.Tx so each unit of work becomes a savepoint.
func NewTxRunner(db beginner) TxRunner {
	return &pgTxRunner{db: db}
}

func (r *pgTxRunner) InTx(ctx context.Context, fn func(Repos) error) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(Repos{Trips: NewTripRepo(tx), Stops: NewStopRepo(tx)})
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// mapError classifies Postgres failures into domain errors, keeping the
// original error in the chain. Errors that are already domain errors pass
// through unchanged.
func mapError(err error) error {
	if err == nil || domain.IsKnown(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03": // serialization_failure, deadlock_detected, lock_not_available
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %s: %w", domain.ErrConflict, pgErr.ConstraintName, err)
	case "23514": // check_violation
		return fmt.Errorf("%w: %s: %w", domain.ErrValidation, pgErr.ConstraintName, err)
	case "22003": // numeric_value_out_of_range
		return fmt.Errorf("%w: value out of range: %w", domain.ErrValidation, err)
	default:
		return err
	}
}

// toPgUUIDs converts ids for binding to a UUID[] column. A nil slice is
// stored as an empty array, never NULL.
func toPgUUIDs(ids []uuid.UUID) []pgtype.UUID {
	out := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		out[i] = pgtype.UUID{Bytes: id, Valid: true}
	}
	return out
}

// fromPgUUIDs converts a scanned UUID[] column, always returning a non-nil slice.
func fromPgUUIDs(ids []pgtype.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id.Valid {
			out = append(out, uuid.UUID(id.Bytes))
		}
	}
	return out
}
