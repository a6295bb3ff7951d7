package repositories

import (
	"context"
	"errors"
	"fmt"

	"savor/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapError wraps a pgx/pgconn error in a PersistenceError. A missing row
// unwraps to common.ErrNotFound; context errors keep their identity.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.NewPersistenceError(op, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewPersistenceError(op, common.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return common.NewPersistenceError(op, fmt.Errorf("%w: %s", common.ErrNotFound, pgErr.ConstraintName))
		case "23514": // check_violation
			return common.NewPersistenceError(op, fmt.Errorf("constraint %s rejected the write: %w", pgErr.ConstraintName, err))
		}
	}

	return common.NewPersistenceError(op, err)
}

// requireRow turns a zero-row update into a not-found PersistenceError.
func requireRow(op string, tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return common.NewPersistenceError(op, common.ErrNotFound)
	}
	return nil
}
