package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo lectura del catálogo de productos sobre PostgreSQL.
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de productos.
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

const productoColumnas = "id, codigo, descripcion, unidad_medida, tipo, stock_minimo, creado_en, actualizado_en"

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductoRepo) GetByID(ctx context.Context, id string) (*entity.Producto, error) {
	query := `SELECT ` + productoColumnas + ` FROM productos WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByCodigo obtiene un producto por código. Devuelve nil si no existe.
func (r *ProductoRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Producto, error) {
	query := `SELECT ` + productoColumnas + ` FROM productos WHERE codigo = $1`
	return r.getOne(ctx, query, codigo)
}

func (r *ProductoRepo) getOne(ctx context.Context, query, arg string) (*entity.Producto, error) {
	var p entity.Producto
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Codigo, &p.Descripcion, &p.UnidadMedida, &p.Tipo,
		&p.StockMinimo, &p.CreadoEn, &p.ActualizadoEn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}
