package repository

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

// BodegaRepository define el puerto de lectura del catálogo de bodegas.
type BodegaRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Bodega, error)
}
