package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
// Las transferencias y transformaciones se registran como dos piernas
// explícitas (salida en origen, entrada en destino), cada una con su propio
// saldo resultante, agrupadas por TransaccionID.
const (
	MovimientoCompra     = "COMPRA"     // compra de material (entrada)
	MovimientoProduccion = "PRODUCCION" // entrada por producción
	MovimientoDevolucion = "DEVOLUCION" // devolución de cliente (entrada)
	MovimientoVenta      = "VENTA"      // salida por venta
	MovimientoConsumo    = "CONSUMO"    // consumo para producción (salida)
	MovimientoAjuste     = "AJUSTE"     // ajuste; dirección según bodega asignada

	MovimientoTransferenciaSalida   = "TRANSFERENCIA_SALIDA"
	MovimientoTransferenciaEntrada  = "TRANSFERENCIA_ENTRADA"
	MovimientoTransformacionSalida  = "TRANSFORMACION_SALIDA"
	MovimientoTransformacionEntrada = "TRANSFORMACION_ENTRADA"
)

// Estados de aprobación de un movimiento. El flujo de aprobación manual está
// deshabilitado: todo movimiento nace APROBADO. El campo se conserva para no
// perder el concepto si se reintroduce el flujo.
const (
	EstadoPendiente = "PENDIENTE"
	EstadoAprobado  = "APROBADO"
	EstadoRechazado = "RECHAZADO"
)

// MovimientoInventario es una entrada del libro de inventario (Kardex).
// Es inmutable una vez creado; la única vía de corrección es la enmienda
// (ver AuditoriaMovimiento), que recalcula los saldos posteriores.
//
// Para movimientos simples exactamente una de las dos bodegas está asignada
// (destino en entradas, origen en salidas). Las piernas de transferencia y
// transformación llevan ambas; la dirección la da el tipo.
type MovimientoInventario struct {
	ID                 string
	TransaccionID      string // agrupa las dos piernas de una transferencia/transformación
	Fecha              time.Time
	TipoMovimiento     string
	ProductoID         string
	LoteID             *string
	BodegaOrigenID     *string
	BodegaDestinoID    *string
	Cantidad           decimal.Decimal // siempre positiva; el signo lo da la dirección
	DocumentoRef       string          // referencia libre a otro documento (OC, factura, OP)
	UsuarioID          string
	SaldoResultante    decimal.Decimal // saldo de la clave (producto, bodega, lote) tras aplicar
	Estado             string          // ver constantes Estado*
	Editado            bool
	FechaUltimaEdicion *time.Time
}

// EsEntrada indica si el movimiento suma a su clave de stock.
// Para AJUSTE la dirección la define cuál bodega está asignada.
func (m *MovimientoInventario) EsEntrada() bool {
	switch m.TipoMovimiento {
	case MovimientoCompra, MovimientoProduccion, MovimientoDevolucion,
		MovimientoTransferenciaEntrada, MovimientoTransformacionEntrada:
		return true
	case MovimientoAjuste:
		return m.BodegaDestinoID != nil
	default:
		return false
	}
}

// BodegaClave devuelve la bodega cuya clave de stock afecta este movimiento:
// la de destino en entradas, la de origen en salidas.
func (m *MovimientoInventario) BodegaClave() string {
	if m.EsEntrada() {
		if m.BodegaDestinoID != nil {
			return *m.BodegaDestinoID
		}
		return ""
	}
	if m.BodegaOrigenID != nil {
		return *m.BodegaOrigenID
	}
	return ""
}

// CantidadFirmada devuelve la cantidad con signo: positiva en entradas,
// negativa en salidas. El saldo de una clave es la suma de estas cantidades.
func (m *MovimientoInventario) CantidadFirmada() decimal.Decimal {
	if m.EsEntrada() {
		return m.Cantidad
	}
	return m.Cantidad.Neg()
}

// EsPiernaDoble indica si el movimiento es pierna de una operación de dos
// claves (transferencia o transformación), donde ambas bodegas van asignadas.
func (m *MovimientoInventario) EsPiernaDoble() bool {
	switch m.TipoMovimiento {
	case MovimientoTransferenciaSalida, MovimientoTransferenciaEntrada,
		MovimientoTransformacionSalida, MovimientoTransformacionEntrada:
		return true
	}
	return false
}
