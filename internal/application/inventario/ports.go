package inventario

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la garantía de atomicidad del motor:
// mutación de saldo y registro en el libro se confirman o deshacen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovimientoRepository,
		stockRepo repository.StockRepository,
		loteRepo repository.LoteRepository,
		auditRepo repository.AuditoriaRepository,
	) error) error
}
