package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dfquintero/textil-inventario/internal/application/inventario"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

var _ inventario.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Begin, defer Rollback, Commit: si fn falla nada queda aplicado — la
// atomicidad de cada operación del motor depende de esto.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los errores de concurrencia de PostgreSQL se traducen
// a errores de dominio (ErrConflict, ErrTimeout).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovimientoRepository,
	stockRepo repository.StockRepository,
	loteRepo repository.LoteRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", traducirError(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovimientoRepository(tx)
	stockRepo := NewStockRepository(tx)
	loteRepo := NewLoteRepository(tx)
	auditRepo := NewAuditoriaRepository(tx)

	if err := fn(movRepo, stockRepo, loteRepo, auditRepo); err != nil {
		return traducirError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", traducirError(err))
	}
	return nil
}
