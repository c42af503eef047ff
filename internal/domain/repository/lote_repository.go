package repository

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

// LoteRepository define el puerto de persistencia de lotes de producción.
// GetOrCreateByCodigo se usa dentro de transacciones (entradas con lote nuevo
// y transformaciones con nuevo_lote_codigo).
type LoteRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Lote, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Lote, error)
	GetOrCreateByCodigo(ctx context.Context, codigo string) (*entity.Lote, error)
}
