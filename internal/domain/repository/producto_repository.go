package repository

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

// ProductoRepository define el puerto de lectura del catálogo de productos.
// El catálogo se administra fuera de este servicio; aquí solo se valida y
// consulta.
type ProductoRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Producto, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Producto, error)
}
