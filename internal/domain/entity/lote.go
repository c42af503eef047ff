package entity

import "time"

// Lote representa un lote de producción: etiqueta opcional de agrupación
// para trazabilidad. El stock sin lote (a granel) usa lote nulo.
type Lote struct {
	ID         string
	CodigoLote string // código único del lote
	CreadoEn   time.Time
}
