package inventario

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// RegistrarMovimientoUseCase aplica movimientos simples de inventario
// (COMPRA, PRODUCCION, DEVOLUCION, VENTA, CONSUMO, AJUSTE) de forma
// transaccional con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Las transferencias y transformaciones tienen sus propios orquestadores.
type RegistrarMovimientoUseCase struct {
	txRunner     TxRunner
	productoRepo repository.ProductoRepository
	bodegaRepo   repository.BodegaRepository
}

// NewRegistrarMovimientoUseCase construye el caso de uso.
func NewRegistrarMovimientoUseCase(
	txRunner TxRunner,
	productoRepo repository.ProductoRepository,
	bodegaRepo repository.BodegaRepository,
) *RegistrarMovimientoUseCase {
	return &RegistrarMovimientoUseCase{
		txRunner:     txRunner,
		productoRepo: productoRepo,
		bodegaRepo:   bodegaRepo,
	}
}

// MovimientoInput entrada para registrar un movimiento simple.
// Entradas (COMPRA, PRODUCCION, DEVOLUCION): solo BodegaDestinoID.
// Salidas (VENTA, CONSUMO): solo BodegaOrigenID.
// AJUSTE: exactamente una de las dos, según la dirección del ajuste.
type MovimientoInput struct {
	TipoMovimiento  string
	ProductoID      string
	BodegaOrigenID  string
	BodegaDestinoID string
	Cantidad        decimal.Decimal
	LoteCodigo      string
	DocumentoRef    string
	UsuarioID       string
}

// Registrar valida el movimiento, bloquea la clave de stock afectada y, en
// una sola transacción, actualiza el saldo y agrega la entrada al libro con
// su saldo resultante. Devuelve el movimiento creado.
func (uc *RegistrarMovimientoUseCase) Registrar(ctx context.Context, input MovimientoInput) (*entity.MovimientoInventario, error) {
	if !input.Cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	entrada, err := direccionSimple(input.TipoMovimiento, input.BodegaOrigenID, input.BodegaDestinoID)
	if err != nil {
		return nil, err
	}

	producto, err := uc.productoRepo.GetByID(ctx, input.ProductoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrUnknownProduct
	}
	bodegaID := input.BodegaDestinoID
	if !entrada {
		bodegaID = input.BodegaOrigenID
	}
	bodega, err := uc.bodegaRepo.GetByID(ctx, bodegaID)
	if err != nil {
		return nil, err
	}
	if bodega == nil {
		return nil, domain.ErrUnknownWarehouse
	}

	now := time.Now()
	mov := &entity.MovimientoInventario{
		ID:             uuid.New().String(),
		TransaccionID:  uuid.New().String(),
		Fecha:          now,
		TipoMovimiento: input.TipoMovimiento,
		ProductoID:     input.ProductoID,
		Cantidad:       input.Cantidad,
		DocumentoRef:   input.DocumentoRef,
		UsuarioID:      input.UsuarioID,
		Estado:         entity.EstadoAprobado,
	}
	if entrada {
		mov.BodegaDestinoID = &bodegaID
	} else {
		mov.BodegaOrigenID = &bodegaID
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		stockRepo repository.StockRepository,
		loteRepo repository.LoteRepository,
		_ repository.AuditoriaRepository,
	) error {
		if input.LoteCodigo != "" {
			lote, err := resolverLote(ctx, loteRepo, input.LoteCodigo, entrada)
			if err != nil {
				return err
			}
			mov.LoteID = &lote.ID
		}
		return aplicar(ctx, movRepo, stockRepo, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// direccionSimple valida tipo y bodegas de un movimiento simple y devuelve
// si es entrada. Exactamente una bodega debe estar asignada, y debe ser la
// que corresponde a la dirección del tipo.
func direccionSimple(tipo, origen, destino string) (bool, error) {
	if (origen == "") == (destino == "") {
		return false, domain.ErrInvalidInput
	}
	switch tipo {
	case entity.MovimientoCompra, entity.MovimientoProduccion, entity.MovimientoDevolucion:
		if destino == "" {
			return false, domain.ErrInvalidInput
		}
		return true, nil
	case entity.MovimientoVenta, entity.MovimientoConsumo:
		if origen == "" {
			return false, domain.ErrInvalidInput
		}
		return false, nil
	case entity.MovimientoAjuste:
		return destino != "", nil
	default:
		return false, domain.ErrInvalidInput
	}
}

// resolverLote busca el lote por código. En entradas lo crea si no existe;
// en salidas exige que exista (no se puede sacar stock de un lote inexistente).
func resolverLote(ctx context.Context, loteRepo repository.LoteRepository, codigo string, entrada bool) (*entity.Lote, error) {
	if entrada {
		return loteRepo.GetOrCreateByCodigo(ctx, codigo)
	}
	lote, err := loteRepo.GetByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if lote == nil {
		return nil, domain.ErrUnknownLot
	}
	return lote, nil
}

// aplicar ejecuta la mutación central del motor sobre una clave ya resuelta:
// bloquea la fila de stock, verifica no-negatividad, actualiza el saldo y
// agrega el movimiento al libro con el saldo resultante. Debe llamarse dentro
// de una transacción.
func aplicar(
	ctx context.Context,
	movRepo repository.MovimientoRepository,
	stockRepo repository.StockRepository,
	mov *entity.MovimientoInventario,
) error {
	stock, err := stockRepo.EnsureForUpdate(ctx, mov.BodegaClave(), mov.ProductoID, mov.LoteID)
	if err != nil {
		return err
	}
	nuevo := stock.Cantidad.Add(mov.CantidadFirmada())
	if nuevo.IsNegative() {
		return domain.ErrInsufficientStock
	}
	stock.Cantidad = nuevo
	stock.ActualizadoEn = mov.Fecha
	if err := stockRepo.UpdateCantidad(ctx, stock); err != nil {
		return err
	}
	mov.SaldoResultante = nuevo
	return movRepo.Create(ctx, mov)
}
