package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dfquintero/textil-inventario/internal/domain"
)

// Querier abstrae pool y tx de pgx: los repositorios funcionan igual con
// cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traducirError convierte errores de concurrencia de PostgreSQL y de contexto
// a los errores de dominio correspondientes; el resto pasa sin tocar.
func traducirError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.ErrConflict
		case "57014": // query_canceled (lock_timeout / cancelación)
			return domain.ErrTimeout
		}
	}
	return err
}
