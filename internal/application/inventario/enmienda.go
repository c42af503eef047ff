package inventario

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/kardex"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// RazonMinima longitud mínima de la justificación de una enmienda.
const RazonMinima = 10

// EnmendarMovimientoUseCase corrige un movimiento de entrada ya aplicado
// (por ahora solo COMPRA) sin borrarlo: registra el diff campo a campo en la
// auditoría y recalcula el saldo resultante de todos los movimientos
// posteriores de la misma clave (producto, bodega, lote), además del saldo
// vivo en stock. Todo dentro de una transacción con la clave bloqueada.
type EnmendarMovimientoUseCase struct {
	txRunner TxRunner
}

// NewEnmendarMovimientoUseCase construye el caso de uso.
func NewEnmendarMovimientoUseCase(txRunner TxRunner) *EnmendarMovimientoUseCase {
	return &EnmendarMovimientoUseCase{txRunner: txRunner}
}

// EnmiendaInput entrada para enmendar un movimiento.
type EnmiendaInput struct {
	MovimientoID string
	Cantidad     decimal.Decimal
	DocumentoRef string
	RazonCambio  string
	UsuarioID    string
}

// Enmendar aplica la corrección. Es idempotente: si ningún campo cambia no
// escribe auditoría ni recalcula nada. Si el recálculo dejara algún saldo
// intermedio negativo falla con ErrNegativeRecomputation y no persiste nada
// (rollback completo).
func (uc *EnmendarMovimientoUseCase) Enmendar(ctx context.Context, input EnmiendaInput) (*entity.MovimientoInventario, error) {
	if utf8.RuneCountInString(input.RazonCambio) < RazonMinima {
		return nil, domain.ErrInvalidInput
	}
	if !input.Cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	var resultado *entity.MovimientoInventario
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		stockRepo repository.StockRepository,
		_ repository.LoteRepository,
		auditRepo repository.AuditoriaRepository,
	) error {
		mov, err := movRepo.GetByIDForUpdate(ctx, input.MovimientoID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		// Solo entradas tipo COMPRA en estado aprobado admiten enmienda;
		// la restricción es intencional, no un vacío por llenar.
		if mov.TipoMovimiento != entity.MovimientoCompra || mov.Estado != entity.EstadoAprobado {
			return domain.ErrAmendmentNotAllowed
		}

		cambioCantidad := !mov.Cantidad.Equal(input.Cantidad)
		cambioDocRef := mov.DocumentoRef != input.DocumentoRef
		if !cambioCantidad && !cambioDocRef {
			resultado = mov // nada que hacer: enmienda idéntica
			return nil
		}

		bodegaID := mov.BodegaClave()
		if _, err := stockRepo.EnsureForUpdate(ctx, bodegaID, mov.ProductoID, mov.LoteID); err != nil {
			return err
		}

		now := time.Now()
		if cambioDocRef {
			if err := auditRepo.Create(ctx, auditoria(mov.ID, entity.CampoDocumentoRef,
				mov.DocumentoRef, input.DocumentoRef, input.RazonCambio, input.UsuarioID, now)); err != nil {
				return err
			}
			mov.DocumentoRef = input.DocumentoRef
		}
		if cambioCantidad {
			if err := auditRepo.Create(ctx, auditoria(mov.ID, entity.CampoCantidad,
				mov.Cantidad.String(), input.Cantidad.String(), input.RazonCambio, input.UsuarioID, now)); err != nil {
				return err
			}
			if err := uc.recalcular(ctx, movRepo, stockRepo, mov, input.Cantidad); err != nil {
				return err
			}
		}

		mov.Editado = true
		mov.FechaUltimaEdicion = &now
		if err := movRepo.UpdateEnmendado(ctx, mov); err != nil {
			return err
		}
		resultado = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// recalcular reaplica el sufijo del libro de la clave enmendada: parte del
// saldo previo al movimiento corregido, sustituye la cantidad nueva y
// propaga los saldos resultantes hasta el final, persistiendo cada uno y el
// saldo vivo. El costo es proporcional al número de movimientos posteriores
// a la enmienda, no al tamaño total del libro (el índice por clave+fecha
// acota la consulta al sufijo).
func (uc *EnmendarMovimientoUseCase) recalcular(
	ctx context.Context,
	movRepo repository.MovimientoRepository,
	stockRepo repository.StockRepository,
	mov *entity.MovimientoInventario,
	nuevaCantidad decimal.Decimal,
) error {
	// Saldo de la clave justo antes del movimiento enmendado, según los
	// valores aún sin corregir.
	saldoPrevio := mov.SaldoResultante.Sub(mov.CantidadFirmada())

	sufijo, err := movRepo.ListByClaveDesde(ctx, mov.ProductoID, mov.BodegaClave(), mov.LoteID, mov.Fecha)
	if err != nil {
		return err
	}
	// Descartar movimientos de la misma fecha que preceden al enmendado en
	// el orden de desempate por id.
	inicio := -1
	for i, m := range sufijo {
		if m.ID == mov.ID {
			inicio = i
			break
		}
	}
	if inicio < 0 {
		return domain.ErrNotFound
	}
	sufijo = sufijo[inicio:]
	sufijo[0].Cantidad = nuevaCantidad

	saldos, final, err := kardex.Recalcular(saldoPrevio, sufijo)
	if err != nil {
		return err
	}

	mov.Cantidad = nuevaCantidad
	mov.SaldoResultante = saldos[0]
	for i := 1; i < len(sufijo); i++ {
		if err := movRepo.UpdateSaldoResultante(ctx, sufijo[i].ID, saldos[i]); err != nil {
			return err
		}
	}

	stock, err := stockRepo.EnsureForUpdate(ctx, mov.BodegaClave(), mov.ProductoID, mov.LoteID)
	if err != nil {
		return err
	}
	stock.Cantidad = final
	stock.ActualizadoEn = time.Now()
	return stockRepo.UpdateCantidad(ctx, stock)
}

func auditoria(movimientoID, campo, anterior, nuevo, razon, usuarioID string, fecha time.Time) *entity.AuditoriaMovimiento {
	return &entity.AuditoriaMovimiento{
		ID:                 uuid.New().String(),
		MovimientoID:       movimientoID,
		FechaModificacion:  fecha,
		UsuarioModificador: usuarioID,
		CampoModificado:    campo,
		ValorAnterior:      anterior,
		ValorNuevo:         nuevo,
		RazonCambio:        razon,
	}
}
