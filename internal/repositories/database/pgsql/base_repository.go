package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres SQLSTATE codes the ledger maps to domain errors.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"

	accountCodeConstraint = "accounts_code_key"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool        *pgxpool.Pool
	LockTimeout time.Duration
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// BeginLocking starts a transaction that will give up waiting for row locks
// after LockTimeout instead of blocking indefinitely.
func (r *BaseRepository) BeginLocking(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if r.LockTimeout > 0 {
		// SET does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.LockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = r.Rollback(ctx, tx)
			return nil, apperrors.NewAppError(500, "failed to set lock timeout", err)
		}
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		if mapped := classifyPgError(err); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// classifyPgError maps Postgres errors with a ledger meaning onto apperrors
// kinds. It returns nil when err carries no such meaning.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == accountCodeConstraint {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, pgErr.Detail)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.Detail)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, pgErr.Detail)
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return fmt.Errorf("%w: %s", apperrors.ErrConcurrentUpdate, pgErr.Message)
	}
	return nil
}

// wrapPgError classifies err or wraps it with msg as an internal failure.
func wrapPgError(err error, msg string) error {
	if mapped := classifyPgError(err); mapped != nil {
		return mapped
	}
	return apperrors.NewAppError(500, msg, err)
}
