package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumnas = "bodega_id, producto_id, lote_id, cantidad, actualizado_en"

// Get obtiene el saldo actual de una clave. Si la fila no existe devuelve
// saldo cero (la clave nace con el primer movimiento que la toque).
func (r *StockRepo) Get(ctx context.Context, bodegaID, productoID string, loteID *string) (*entity.StockBodega, error) {
	query := `
		SELECT ` + stockColumnas + `
		FROM stock_bodegas
		WHERE bodega_id = $1 AND producto_id = $2 AND lote_id IS NOT DISTINCT FROM $3`
	var s entity.StockBodega
	err := r.q.QueryRow(ctx, query, bodegaID, productoID, loteID).Scan(
		&s.BodegaID, &s.ProductoID, &s.LoteID, &s.Cantidad, &s.ActualizadoEn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBodega{BodegaID: bodegaID, ProductoID: productoID, LoteID: loteID, Cantidad: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// EnsureForUpdate garantiza que la fila de la clave exista y la bloquea
// (SELECT FOR UPDATE). El INSERT .. ON CONFLICT DO NOTHING cierra la carrera
// entre dos transacciones que crean la misma clave a la vez: una inserta, la
// otra pasa de largo, y ambas terminan bloqueando la misma fila.
func (r *StockRepo) EnsureForUpdate(ctx context.Context, bodegaID, productoID string, loteID *string) (*entity.StockBodega, error) {
	var insert string
	if loteID == nil {
		insert = `
			INSERT INTO stock_bodegas (bodega_id, producto_id, lote_id, cantidad, actualizado_en)
			VALUES ($1, $2, NULL, 0, now())
			ON CONFLICT (bodega_id, producto_id) WHERE lote_id IS NULL DO NOTHING`
		if _, err := r.q.Exec(ctx, insert, bodegaID, productoID); err != nil {
			return nil, fmt.Errorf("ensure stock: %w", err)
		}
	} else {
		insert = `
			INSERT INTO stock_bodegas (bodega_id, producto_id, lote_id, cantidad, actualizado_en)
			VALUES ($1, $2, $3, 0, now())
			ON CONFLICT (bodega_id, producto_id, lote_id) WHERE lote_id IS NOT NULL DO NOTHING`
		if _, err := r.q.Exec(ctx, insert, bodegaID, productoID, *loteID); err != nil {
			return nil, fmt.Errorf("ensure stock: %w", err)
		}
	}

	query := `
		SELECT ` + stockColumnas + `
		FROM stock_bodegas
		WHERE bodega_id = $1 AND producto_id = $2 AND lote_id IS NOT DISTINCT FROM $3
		FOR UPDATE`
	var s entity.StockBodega
	err := r.q.QueryRow(ctx, query, bodegaID, productoID, loteID).Scan(
		&s.BodegaID, &s.ProductoID, &s.LoteID, &s.Cantidad, &s.ActualizadoEn,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// UpdateCantidad persiste el nuevo saldo de una clave ya bloqueada.
func (r *StockRepo) UpdateCantidad(ctx context.Context, stock *entity.StockBodega) error {
	query := `
		UPDATE stock_bodegas
		SET cantidad = $4, actualizado_en = now()
		WHERE bodega_id = $1 AND producto_id = $2 AND lote_id IS NOT DISTINCT FROM $3`
	tag, err := r.q.Exec(ctx, query, stock.BodegaID, stock.ProductoID, stock.LoteID, stock.Cantidad)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock: fila inexistente (falta EnsureForUpdate)")
	}
	return nil
}

// SumByBodegaProducto devuelve el saldo agregado sobre todos los lotes.
func (r *StockRepo) SumByBodegaProducto(ctx context.Context, bodegaID, productoID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(cantidad), 0)
		FROM stock_bodegas
		WHERE bodega_id = $1 AND producto_id = $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, bodegaID, productoID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

// List lista filas de stock con filtros opcionales.
func (r *StockRepo) List(ctx context.Context, filtro repository.StockFiltro, limit, offset int) ([]*entity.StockBodega, error) {
	query := `
		SELECT ` + stockColumnas + `
		FROM stock_bodegas WHERE 1=1`
	args := []any{}
	pos := 1
	if filtro.BodegaID != "" {
		query += fmt.Sprintf(" AND bodega_id = $%d", pos)
		args = append(args, filtro.BodegaID)
		pos++
	}
	if filtro.ProductoID != "" {
		query += fmt.Sprintf(" AND producto_id = $%d", pos)
		args = append(args, filtro.ProductoID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY bodega_id, producto_id, lote_id NULLS FIRST LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBodega
	for rows.Next() {
		var s entity.StockBodega
		if err := rows.Scan(&s.BodegaID, &s.ProductoID, &s.LoteID, &s.Cantidad, &s.ActualizadoEn); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListAlertas devuelve las claves (bodega, producto) cuyo stock agregado está
// por debajo del mínimo configurado (mínimo > 0), ordenadas por bodega y
// producto, con el faltante calculado.
func (r *StockRepo) ListAlertas(ctx context.Context) ([]repository.AlertaStock, error) {
	query := `
		SELECT
			b.id,
			b.nombre,
			p.id,
			p.codigo,
			p.descripcion,
			COALESCE(SUM(s.cantidad), 0)                 AS stock_actual,
			p.stock_minimo,
			p.stock_minimo - COALESCE(SUM(s.cantidad), 0) AS faltante
		FROM stock_bodegas s
		JOIN productos p ON p.id = s.producto_id
		JOIN bodegas  b ON b.id = s.bodega_id
		WHERE p.stock_minimo > 0
		GROUP BY b.id, b.nombre, p.id, p.codigo, p.descripcion, p.stock_minimo
		HAVING COALESCE(SUM(s.cantidad), 0) < p.stock_minimo
		ORDER BY b.nombre, p.descripcion`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alertas: %w", err)
	}
	defer rows.Close()
	var alertas []repository.AlertaStock
	for rows.Next() {
		var a repository.AlertaStock
		if err := rows.Scan(
			&a.BodegaID, &a.Bodega, &a.ProductoID, &a.CodigoProducto, &a.Producto,
			&a.StockActual, &a.StockMinimo, &a.Faltante,
		); err != nil {
			return nil, fmt.Errorf("scan alerta: %w", err)
		}
		alertas = append(alertas, a)
	}
	return alertas, rows.Err()
}
