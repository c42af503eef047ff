package repository

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

// AuditoriaRepository define el puerto de persistencia del rastro de
// enmiendas. Solo se agrega y se consulta; nunca se borra ni modifica.
type AuditoriaRepository interface {
	Create(ctx context.Context, a *entity.AuditoriaMovimiento) error
	ListByMovimiento(ctx context.Context, movimientoID string) ([]*entity.AuditoriaMovimiento, error)
}
