package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

const movimientoColumnas = `id, transaccion_id, fecha, tipo_movimiento, producto_id, lote_id,
		bodega_origen_id, bodega_destino_id, cantidad, documento_ref, usuario_id,
		saldo_resultante, estado, editado, fecha_ultima_edicion`

// bodegaClaveExpr calcula en SQL la bodega cuya clave de stock afecta cada
// movimiento: destino en entradas, origen en salidas (mismo criterio que
// MovimientoInventario.BodegaClave).
const bodegaClaveExpr = `CASE
		WHEN tipo_movimiento IN ('COMPRA','PRODUCCION','DEVOLUCION','TRANSFERENCIA_ENTRADA','TRANSFORMACION_ENTRADA')
			THEN bodega_destino_id
		WHEN tipo_movimiento = 'AJUSTE' AND bodega_destino_id IS NOT NULL
			THEN bodega_destino_id
		ELSE bodega_origen_id
	END`

// Create persiste un movimiento del libro.
func (r *MovimientoRepo) Create(ctx context.Context, m *entity.MovimientoInventario) error {
	query := `
		INSERT INTO movimientos_inventario (` + movimientoColumnas + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransaccionID, m.Fecha, m.TipoMovimiento, m.ProductoID, m.LoteID,
		m.BodegaOrigenID, m.BodegaDestinoID, m.Cantidad, textoNulo(m.DocumentoRef),
		textoNulo(m.UsuarioID), m.SaldoResultante, m.Estado, m.Editado, m.FechaUltimaEdicion,
	)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovimientoRepo) GetByID(ctx context.Context, id string) (*entity.MovimientoInventario, error) {
	query := `
		SELECT ` + movimientoColumnas + `
		FROM movimientos_inventario WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate obtiene un movimiento bloqueando su fila (enmiendas).
func (r *MovimientoRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.MovimientoInventario, error) {
	query := `
		SELECT ` + movimientoColumnas + `
		FROM movimientos_inventario WHERE id = $1
		FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *MovimientoRepo) getOne(ctx context.Context, query, id string) (*entity.MovimientoInventario, error) {
	m, err := scanMovimiento(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

// UpdateEnmendado persiste los campos corregidos por una enmienda.
func (r *MovimientoRepo) UpdateEnmendado(ctx context.Context, m *entity.MovimientoInventario) error {
	query := `
		UPDATE movimientos_inventario
		SET cantidad = $2, documento_ref = $3, saldo_resultante = $4,
			editado = $5, fecha_ultima_edicion = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, m.ID, m.Cantidad, textoNulo(m.DocumentoRef),
		m.SaldoResultante, m.Editado, m.FechaUltimaEdicion)
	if err != nil {
		return fmt.Errorf("update movimiento enmendado: %w", err)
	}
	return nil
}

// UpdateSaldoResultante corrige el saldo denormalizado durante un recálculo.
func (r *MovimientoRepo) UpdateSaldoResultante(ctx context.Context, id string, saldo decimal.Decimal) error {
	query := `UPDATE movimientos_inventario SET saldo_resultante = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, saldo)
	if err != nil {
		return fmt.Errorf("update saldo resultante: %w", err)
	}
	return nil
}

// ListByClaveDesde devuelve el sufijo del libro de una clave exacta
// (producto, bodega, lote) desde una fecha, orden cronológico con desempate
// por id. El índice por clave+fecha acota el costo al sufijo.
func (r *MovimientoRepo) ListByClaveDesde(ctx context.Context, productoID, bodegaID string, loteID *string, desde time.Time) ([]*entity.MovimientoInventario, error) {
	query := `
		SELECT ` + movimientoColumnas + `
		FROM movimientos_inventario
		WHERE producto_id = $1
		  AND lote_id IS NOT DISTINCT FROM $3
		  AND fecha >= $4
		  AND ` + bodegaClaveExpr + ` = $2
		ORDER BY fecha, id`
	return r.list(ctx, query, productoID, bodegaID, loteID, desde)
}

// ListKardex devuelve todos los movimientos de un producto que afectan a una
// bodega (cualquier lote), en orden cronológico ascendente. Cada pierna de
// transferencia/transformación cuenta solo en la bodega de su clave.
func (r *MovimientoRepo) ListKardex(ctx context.Context, bodegaID, productoID string) ([]*entity.MovimientoInventario, error) {
	query := `
		SELECT ` + movimientoColumnas + `
		FROM movimientos_inventario
		WHERE producto_id = $1 AND ` + bodegaClaveExpr + ` = $2
		ORDER BY fecha, id`
	return r.list(ctx, query, productoID, bodegaID)
}

// List lista movimientos con filtros opcionales, más recientes primero.
// El filtro de bodega incluye movimientos que la toquen por cualquiera de
// los dos lados.
func (r *MovimientoRepo) List(ctx context.Context, filtro repository.MovimientoFiltro, limit, offset int) ([]*entity.MovimientoInventario, error) {
	query := `
		SELECT ` + movimientoColumnas + `
		FROM movimientos_inventario WHERE 1=1`
	args := []any{}
	pos := 1
	if filtro.BodegaID != "" {
		query += fmt.Sprintf(" AND (bodega_origen_id = $%d OR bodega_destino_id = $%d)", pos, pos)
		args = append(args, filtro.BodegaID)
		pos++
	}
	if filtro.ProductoID != "" {
		query += fmt.Sprintf(" AND producto_id = $%d", pos)
		args = append(args, filtro.ProductoID)
		pos++
	}
	if filtro.Tipo != "" {
		query += fmt.Sprintf(" AND tipo_movimiento = $%d", pos)
		args = append(args, filtro.Tipo)
		pos++
	}
	if filtro.Desde != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", pos)
		args = append(args, *filtro.Desde)
		pos++
	}
	if filtro.Hasta != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", pos)
		args = append(args, *filtro.Hasta)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

func (r *MovimientoRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MovimientoInventario, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovimientoInventario
	for rows.Next() {
		m, err := scanMovimiento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovimiento(row pgx.Row) (*entity.MovimientoInventario, error) {
	var m entity.MovimientoInventario
	var documentoRef, usuarioID *string
	err := row.Scan(
		&m.ID, &m.TransaccionID, &m.Fecha, &m.TipoMovimiento, &m.ProductoID, &m.LoteID,
		&m.BodegaOrigenID, &m.BodegaDestinoID, &m.Cantidad, &documentoRef, &usuarioID,
		&m.SaldoResultante, &m.Estado, &m.Editado, &m.FechaUltimaEdicion,
	)
	if err != nil {
		return nil, err
	}
	if documentoRef != nil {
		m.DocumentoRef = *documentoRef
	}
	if usuarioID != nil {
		m.UsuarioID = *usuarioID
	}
	return &m, nil
}

// textoNulo convierte cadena vacía a NULL.
func textoNulo(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
