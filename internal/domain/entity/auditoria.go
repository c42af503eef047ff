package entity

import "time"

// Campos de movimiento que pueden ser enmendados.
const (
	CampoCantidad     = "cantidad"
	CampoDocumentoRef = "documento_ref"
)

// AuditoriaMovimiento registra una modificación puntual de un campo de un
// MovimientoInventario: valor anterior, valor nuevo y la justificación
// obligatoria. El movimiento nunca se reemplaza; la auditoría es el rastro.
type AuditoriaMovimiento struct {
	ID                 string
	MovimientoID       string
	FechaModificacion  time.Time
	UsuarioModificador string
	CampoModificado    string // ver constantes Campo*
	ValorAnterior      string
	ValorNuevo         string
	RazonCambio        string // justificación obligatoria (mínimo 10 caracteres)
}
