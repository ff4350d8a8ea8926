package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// mapError translates driver errors into application error kinds. Unknown
// errors are wrapped with op.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return apperrors.NewTransient(apperrors.ReasonLockContention, op+": lock contention", err)
		case pgQueryCanceled:
			return apperrors.NewTransient(apperrors.ReasonStoreTimeout, op+": statement timed out", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.NewTransient(apperrors.ReasonStoreTimeout, op+": timed out", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
