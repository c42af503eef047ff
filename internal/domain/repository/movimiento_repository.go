package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

// MovimientoFiltro filtros opcionales para listar movimientos.
type MovimientoFiltro struct {
	BodegaID   string
	ProductoID string
	Tipo       string
	Desde      *time.Time
	Hasta      *time.Time
}

// MovimientoRepository define el puerto de persistencia del libro de
// movimientos. El libro es append-only: Create agrega, y las únicas
// actualizaciones permitidas son las de la enmienda (campos enmendados y
// saldos recalculados), siempre dentro de la transacción que las valida.
type MovimientoRepository interface {
	Create(ctx context.Context, m *entity.MovimientoInventario) error
	GetByID(ctx context.Context, id string) (*entity.MovimientoInventario, error)
	// GetByIDForUpdate bloquea el movimiento durante una enmienda.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.MovimientoInventario, error)
	// UpdateEnmendado persiste los campos corregidos de una enmienda
	// (cantidad, documento_ref, saldo_resultante, editado, fecha de edición).
	UpdateEnmendado(ctx context.Context, m *entity.MovimientoInventario) error
	// UpdateSaldoResultante corrige el saldo denormalizado de un movimiento
	// durante el recálculo de una enmienda.
	UpdateSaldoResultante(ctx context.Context, id string, saldo decimal.Decimal) error
	// ListByClaveDesde devuelve los movimientos de una clave exacta
	// (producto, bodega, lote) con fecha >= desde, orden cronológico
	// ascendente con desempate por id. Acota el recálculo de una enmienda al
	// sufijo afectado.
	ListByClaveDesde(ctx context.Context, productoID, bodegaID string, loteID *string, desde time.Time) ([]*entity.MovimientoInventario, error)
	// ListKardex devuelve todos los movimientos de un producto que afectan a
	// una bodega (cualquier lote), orden cronológico ascendente.
	ListKardex(ctx context.Context, bodegaID, productoID string) ([]*entity.MovimientoInventario, error)
	List(ctx context.Context, filtro MovimientoFiltro, limit, offset int) ([]*entity.MovimientoInventario, error)
}
