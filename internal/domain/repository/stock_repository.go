package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

// AlertaStock es una fila del reporte de stock bajo mínimo.
type AlertaStock struct {
	BodegaID       string
	Bodega         string
	ProductoID     string
	CodigoProducto string
	Producto       string
	StockActual    decimal.Decimal
	StockMinimo    decimal.Decimal
	Faltante       decimal.Decimal
}

// StockFiltro filtros opcionales para listar stock (vacío = sin filtro).
type StockFiltro struct {
	BodegaID   string
	ProductoID string
}

// StockRepository define el puerto de consulta/actualización de saldos por
// (bodega, producto, lote). Las mutaciones siempre ocurren dentro de una
// transacción con la fila bloqueada.
type StockRepository interface {
	Get(ctx context.Context, bodegaID, productoID string, loteID *string) (*entity.StockBodega, error)
	// EnsureForUpdate garantiza que la fila exista (INSERT .. ON CONFLICT DO
	// NOTHING) y la bloquea (SELECT .. FOR UPDATE). Es la única vía de acceso
	// al saldo dentro de una mutación: serializa los movimientos concurrentes
	// contra la misma clave.
	EnsureForUpdate(ctx context.Context, bodegaID, productoID string, loteID *string) (*entity.StockBodega, error)
	UpdateCantidad(ctx context.Context, stock *entity.StockBodega) error
	// SumByBodegaProducto devuelve el saldo agregado sobre todos los lotes.
	SumByBodegaProducto(ctx context.Context, bodegaID, productoID string) (decimal.Decimal, error)
	List(ctx context.Context, filtro StockFiltro, limit, offset int) ([]*entity.StockBodega, error)
	// ListAlertas devuelve las claves (bodega, producto) cuyo stock agregado
	// está por debajo del mínimo configurado del producto (mínimo > 0).
	ListAlertas(ctx context.Context) ([]AlertaStock, error)
}
