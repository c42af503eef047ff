package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBodega representa el saldo actual de un producto en una bodega,
// opcionalmente por lote (LoteID nulo = stock a granel).
// Es la fuente de verdad del "stock actual"; se mantiene junto con cada
// movimiento dentro de la misma transacción y nunca se elimina (saldo cero
// es un estado válido).
type StockBodega struct {
	BodegaID      string
	ProductoID    string
	LoteID        *string
	Cantidad      decimal.Decimal
	ActualizadoEn time.Time
}
