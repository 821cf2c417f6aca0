package repositories

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "itdesk/pkg/errors"
)

// Querier - общее между *pgxpool.Pool и pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapPgError переводит ошибки ограничений Postgres в HttpError.
// Остальные ошибки возвращаются как есть.
func mapPgError(err error, uniqueMsg, fkMsg string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperrors.NewConflictError(uniqueMsg, err)
	case pgForeignKeyViolation:
		return apperrors.NewHttpError(http.StatusBadRequest, fkMsg, err, nil)
	case pgCheckViolation:
		return apperrors.NewHttpError(http.StatusBadRequest, "Данные нарушают ограничения: "+pgErr.ConstraintName, err, nil)
	}
	return err
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return err
}
