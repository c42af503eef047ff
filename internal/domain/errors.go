package domain

import "errors"

// Errores de dominio (sin dependencias externas). Todos son recuperables por
// el llamador y se mapean a respuestas 4xx en la capa HTTP; los fallos de
// infraestructura (DB caída) se propagan envueltos y terminan en 5xx.
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrInvalidQuantity       = errors.New("la cantidad debe ser positiva")
	ErrUnknownProduct        = errors.New("producto no encontrado")
	ErrUnknownWarehouse      = errors.New("bodega no encontrada")
	ErrUnknownLot            = errors.New("lote no encontrado")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrSameWarehouse         = errors.New("la bodega de origen y destino no pueden ser la misma")
	ErrAmendmentNotAllowed   = errors.New("el movimiento no admite enmiendas")
	ErrNegativeRecomputation = errors.New("la enmienda dejaría un saldo negativo")
	ErrTimeout               = errors.New("la operación excedió el tiempo límite")
	ErrConflict              = errors.New("conflicto de concurrencia, reintente")
	ErrUnauthorized          = errors.New("no autorizado")
)
