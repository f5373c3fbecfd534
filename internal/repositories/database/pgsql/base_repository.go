package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, translateErr(err)
	}
	return tx, nil
}

// Commit commits a transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return translateErr(err)
	}
	return nil
}

// Rollback rolls back a transaction. Safe to defer after a successful commit.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		return translateErr(err)
	}
	return nil
}

// translateErr maps driver-level failures onto the application error
// taxonomy: unique violations become ErrDuplicate, constraint violations
// ErrValidation, and connection-class or retryable failures ErrStoreUnavailable.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		case pgErr.Code == "23503" || pgErr.Code == "23514": // foreign_key / check violation
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, pgErr.ConstraintName)
		case len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "40" || pgErr.Code[:2] == "57"):
			// connection exceptions, serialization failures, shutdown
			return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return err
}
