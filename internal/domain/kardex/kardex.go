// Package kardex contiene la aritmética pura del Kardex: saldo acumulado de
// una secuencia cronológica de movimientos de una clave o de una bodega.
// Es un servicio de dominio sin dependencias de persistencia para que la
// misma matemática sirva a la proyección de lectura y al recálculo de
// enmiendas, y sea verificable con tests unitarios.
package kardex

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

// Fila es una línea del estado de cuenta Kardex de un producto en una bodega.
// Entrada y Salida son mutuamente excluyentes; Saldo es el acumulado hasta la
// fila (agregado sobre todos los lotes).
type Fila struct {
	MovimientoID   string
	Fecha          time.Time
	TipoMovimiento string
	DocumentoRef   string
	Entrada        *decimal.Decimal
	Salida         *decimal.Decimal
	Saldo          decimal.Decimal
	Editado        bool
}

// Acumular recorre los movimientos en orden cronológico y produce las filas
// del Kardex con saldo acumulado. Los movimientos deben venir ya ordenados
// por fecha ascendente y pertenecer todos al mismo (producto, bodega).
func Acumular(movimientos []*entity.MovimientoInventario) []Fila {
	filas := make([]Fila, 0, len(movimientos))
	saldo := decimal.Zero
	for _, m := range movimientos {
		saldo = saldo.Add(m.CantidadFirmada())
		fila := Fila{
			MovimientoID:   m.ID,
			Fecha:          m.Fecha,
			TipoMovimiento: m.TipoMovimiento,
			DocumentoRef:   m.DocumentoRef,
			Saldo:          saldo,
			Editado:        m.Editado,
		}
		cantidad := m.Cantidad
		if m.EsEntrada() {
			fila.Entrada = &cantidad
		} else {
			fila.Salida = &cantidad
		}
		filas = append(filas, fila)
	}
	return filas
}

// Recalcular reaplica los movimientos de UNA clave (producto, bodega, lote)
// partiendo de saldoInicial y devuelve el saldo resultante de cada movimiento
// en el mismo orden, más el saldo final. Falla con ErrNegativeRecomputation
// si algún saldo intermedio queda por debajo de cero; en ese caso no debe
// persistirse nada.
//
// Es la pieza central de la enmienda: determinista e idempotente, su costo es
// proporcional al sufijo recibido, no al tamaño total del libro.
func Recalcular(saldoInicial decimal.Decimal, movimientos []*entity.MovimientoInventario) (saldos []decimal.Decimal, final decimal.Decimal, err error) {
	saldos = make([]decimal.Decimal, 0, len(movimientos))
	saldo := saldoInicial
	for _, m := range movimientos {
		saldo = saldo.Add(m.CantidadFirmada())
		if saldo.IsNegative() {
			return nil, decimal.Zero, domain.ErrNegativeRecomputation
		}
		saldos = append(saldos, saldo)
	}
	return saldos, saldo, nil
}
