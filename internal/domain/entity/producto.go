package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida de producto.
const (
	UnidadKilogramo = "KG" // masa (hilo, fibra)
	UnidadMetro     = "MT" // longitud (tela)
	UnidadUnidad    = "UN" // conteo
)

// Tipos de producto del proceso textil.
const (
	ProductoHiloCrudo   = "HILO_CRUDO"
	ProductoTela        = "TELA"
	ProductoSubproducto = "SUBPRODUCTO"
)

// Producto representa un producto o material del inventario.
// Una vez referenciado por un movimiento solo cambian sus campos descriptivos;
// el código y la unidad de medida quedan fijos.
type Producto struct {
	ID            string
	Codigo        string // código único del producto
	Descripcion   string
	UnidadMedida  string          // ver constantes Unidad*
	Tipo          string          // ver constantes Producto*
	StockMinimo   decimal.Decimal // umbral para alertas; 0 = sin alerta
	CreadoEn      time.Time
	ActualizadoEn time.Time
}
