package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/kardex"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// RegistrarMovimientoRequest body para POST /inventory/movimientos/.
// Entradas: bodega_destino; salidas: bodega_origen; nunca ambas.
type RegistrarMovimientoRequest struct {
	TipoMovimiento string          `json:"tipo_movimiento"`
	ProductoID     string          `json:"producto"`
	BodegaOrigen   string          `json:"bodega_origen,omitempty"`
	BodegaDestino  string          `json:"bodega_destino,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	LoteCodigo     string          `json:"lote_codigo,omitempty"`
	DocumentoRef   string          `json:"documento_ref,omitempty"`
}

// EnmiendaRequest body para PUT /inventory/movimientos/:id/.
type EnmiendaRequest struct {
	Cantidad     decimal.Decimal `json:"cantidad"`
	DocumentoRef string          `json:"documento_ref"`
	RazonCambio  string          `json:"razon_cambio"`
}

// TransferenciaRequest body para POST /inventory/transferencias/.
type TransferenciaRequest struct {
	ProductoID    string          `json:"producto_id"`
	BodegaOrigen  string          `json:"bodega_origen_id"`
	BodegaDestino string          `json:"bodega_destino_id"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	LoteID        string          `json:"lote_id,omitempty"`
	DocumentoRef  string          `json:"documento_ref,omitempty"`
}

// TransformacionRequest body para POST /inventory/transformaciones/.
type TransformacionRequest struct {
	BodegaOrigen    string          `json:"bodega_origen_id"`
	BodegaDestino   string          `json:"bodega_destino_id"`
	ProductoOrigen  string          `json:"producto_origen_id"`
	ProductoDestino string          `json:"producto_destino_id"`
	LoteOrigenID    string          `json:"lote_origen_id,omitempty"`
	NuevoLoteCodigo string          `json:"nuevo_lote_codigo,omitempty"`
	Cantidad        decimal.Decimal `json:"cantidad"`
}

// MovimientoResponse representación JSON de un movimiento del libro.
type MovimientoResponse struct {
	ID                 string          `json:"id"`
	TransaccionID      string          `json:"transaccion_id"`
	Fecha              time.Time       `json:"fecha"`
	TipoMovimiento     string          `json:"tipo_movimiento"`
	ProductoID         string          `json:"producto_id"`
	LoteID             *string         `json:"lote_id"`
	BodegaOrigenID     *string         `json:"bodega_origen_id"`
	BodegaDestinoID    *string         `json:"bodega_destino_id"`
	Cantidad           decimal.Decimal `json:"cantidad"`
	DocumentoRef       string          `json:"documento_ref,omitempty"`
	UsuarioID          string          `json:"usuario_id,omitempty"`
	SaldoResultante    decimal.Decimal `json:"saldo_resultante"`
	Estado             string          `json:"estado"`
	Editado            bool            `json:"editado"`
	FechaUltimaEdicion *time.Time      `json:"fecha_ultima_edicion,omitempty"`
}

// NewMovimientoResponse convierte la entidad al DTO de salida.
func NewMovimientoResponse(m *entity.MovimientoInventario) MovimientoResponse {
	return MovimientoResponse{
		ID:                 m.ID,
		TransaccionID:      m.TransaccionID,
		Fecha:              m.Fecha,
		TipoMovimiento:     m.TipoMovimiento,
		ProductoID:         m.ProductoID,
		LoteID:             m.LoteID,
		BodegaOrigenID:     m.BodegaOrigenID,
		BodegaDestinoID:    m.BodegaDestinoID,
		Cantidad:           m.Cantidad,
		DocumentoRef:       m.DocumentoRef,
		UsuarioID:          m.UsuarioID,
		SaldoResultante:    m.SaldoResultante,
		Estado:             m.Estado,
		Editado:            m.Editado,
		FechaUltimaEdicion: m.FechaUltimaEdicion,
	}
}

// DobleMovimientoResponse respuesta de transferencias y transformaciones:
// las dos piernas registradas bajo una misma transacción.
type DobleMovimientoResponse struct {
	TransaccionID string             `json:"transaccion_id"`
	Salida        MovimientoResponse `json:"movimiento_salida"`
	Entrada       MovimientoResponse `json:"movimiento_entrada"`
}

// KardexFilaResponse fila del estado de cuenta Kardex.
type KardexFilaResponse struct {
	MovimientoID   string           `json:"movimiento_id"`
	Fecha          time.Time        `json:"fecha"`
	TipoMovimiento string           `json:"tipo_movimiento"`
	DocumentoRef   string           `json:"documento_ref,omitempty"`
	Entrada        *decimal.Decimal `json:"entrada,omitempty"`
	Salida         *decimal.Decimal `json:"salida,omitempty"`
	Saldo          decimal.Decimal  `json:"saldo_resultante"`
	Editado        bool             `json:"editado"`
}

// NewKardexResponse convierte las filas del dominio al DTO de salida.
func NewKardexResponse(filas []kardex.Fila) []KardexFilaResponse {
	out := make([]KardexFilaResponse, 0, len(filas))
	for _, f := range filas {
		out = append(out, KardexFilaResponse{
			MovimientoID:   f.MovimientoID,
			Fecha:          f.Fecha,
			TipoMovimiento: f.TipoMovimiento,
			DocumentoRef:   f.DocumentoRef,
			Entrada:        f.Entrada,
			Salida:         f.Salida,
			Saldo:          f.Saldo,
			Editado:        f.Editado,
		})
	}
	return out
}

// StockResponse fila de stock actual.
type StockResponse struct {
	BodegaID      string          `json:"bodega_id"`
	ProductoID    string          `json:"producto_id"`
	LoteID        *string         `json:"lote_id"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	ActualizadoEn time.Time       `json:"actualizado_en"`
}

// NewStockResponse convierte las filas de stock al DTO de salida.
func NewStockResponse(items []*entity.StockBodega) []StockResponse {
	out := make([]StockResponse, 0, len(items))
	for _, s := range items {
		out = append(out, StockResponse{
			BodegaID:      s.BodegaID,
			ProductoID:    s.ProductoID,
			LoteID:        s.LoteID,
			Cantidad:      s.Cantidad,
			ActualizadoEn: s.ActualizadoEn,
		})
	}
	return out
}

// AlertaStockResponse fila del reporte de stock bajo mínimo.
type AlertaStockResponse struct {
	BodegaID       string          `json:"bodega_id"`
	Bodega         string          `json:"bodega"`
	ProductoID     string          `json:"producto_id"`
	CodigoProducto string          `json:"codigo_producto"`
	Producto       string          `json:"producto"`
	StockActual    decimal.Decimal `json:"stock_actual"`
	StockMinimo    decimal.Decimal `json:"stock_minimo"`
	Faltante       decimal.Decimal `json:"faltante"`
}

// NewAlertasResponse convierte las alertas al DTO de salida.
func NewAlertasResponse(alertas []repository.AlertaStock) []AlertaStockResponse {
	out := make([]AlertaStockResponse, 0, len(alertas))
	for _, a := range alertas {
		out = append(out, AlertaStockResponse{
			BodegaID:       a.BodegaID,
			Bodega:         a.Bodega,
			ProductoID:     a.ProductoID,
			CodigoProducto: a.CodigoProducto,
			Producto:       a.Producto,
			StockActual:    a.StockActual,
			StockMinimo:    a.StockMinimo,
			Faltante:       a.Faltante,
		})
	}
	return out
}

// AuditoriaResponse registro de enmienda de un movimiento.
type AuditoriaResponse struct {
	ID                 string    `json:"id"`
	MovimientoID       string    `json:"movimiento_id"`
	FechaModificacion  time.Time `json:"fecha_modificacion"`
	UsuarioModificador string    `json:"usuario_modificador,omitempty"`
	CampoModificado    string    `json:"campo_modificado"`
	ValorAnterior      string    `json:"valor_anterior"`
	ValorNuevo         string    `json:"valor_nuevo"`
	RazonCambio        string    `json:"razon_cambio"`
}

// NewAuditoriasResponse convierte los registros de auditoría al DTO de salida.
func NewAuditoriasResponse(items []*entity.AuditoriaMovimiento) []AuditoriaResponse {
	out := make([]AuditoriaResponse, 0, len(items))
	for _, a := range items {
		out = append(out, AuditoriaResponse{
			ID:                 a.ID,
			MovimientoID:       a.MovimientoID,
			FechaModificacion:  a.FechaModificacion,
			UsuarioModificador: a.UsuarioModificador,
			CampoModificado:    a.CampoModificado,
			ValorAnterior:      a.ValorAnterior,
			ValorNuevo:         a.ValorNuevo,
			RazonCambio:        a.RazonCambio,
		})
	}
	return out
}
