package inventario

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// TransferenciaUseCase mueve stock de un mismo producto entre dos bodegas.
// Compone dos movimientos (salida en origen, entrada en destino) en una sola
// transacción: ambas piernas se confirman o ninguna — el stock nunca
// "desaparece" a mitad de camino.
type TransferenciaUseCase struct {
	txRunner     TxRunner
	productoRepo repository.ProductoRepository
	bodegaRepo   repository.BodegaRepository
	loteRepo     repository.LoteRepository
}

// NewTransferenciaUseCase construye el caso de uso.
func NewTransferenciaUseCase(
	txRunner TxRunner,
	productoRepo repository.ProductoRepository,
	bodegaRepo repository.BodegaRepository,
	loteRepo repository.LoteRepository,
) *TransferenciaUseCase {
	return &TransferenciaUseCase{
		txRunner:     txRunner,
		productoRepo: productoRepo,
		bodegaRepo:   bodegaRepo,
		loteRepo:     loteRepo,
	}
}

// TransferenciaInput entrada para una transferencia entre bodegas.
type TransferenciaInput struct {
	ProductoID      string
	BodegaOrigenID  string
	BodegaDestinoID string
	Cantidad        decimal.Decimal
	LoteID          string
	DocumentoRef    string
	UsuarioID       string
}

// Transferir valida, bloquea ambas claves de stock en orden fijo y registra
// las dos piernas (TRANSFERENCIA_SALIDA y TRANSFERENCIA_ENTRADA) con el mismo
// TransaccionID. Devuelve salida y entrada en ese orden.
func (uc *TransferenciaUseCase) Transferir(ctx context.Context, input TransferenciaInput) (salida, entrada *entity.MovimientoInventario, err error) {
	if !input.Cantidad.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if input.BodegaOrigenID == "" || input.BodegaDestinoID == "" || input.ProductoID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if input.BodegaOrigenID == input.BodegaDestinoID {
		return nil, nil, domain.ErrSameWarehouse
	}

	producto, err := uc.productoRepo.GetByID(ctx, input.ProductoID)
	if err != nil {
		return nil, nil, err
	}
	if producto == nil {
		return nil, nil, domain.ErrUnknownProduct
	}
	if err := uc.validarBodegas(ctx, input.BodegaOrigenID, input.BodegaDestinoID); err != nil {
		return nil, nil, err
	}
	var loteID *string
	if input.LoteID != "" {
		lote, err := uc.loteRepo.GetByID(ctx, input.LoteID)
		if err != nil {
			return nil, nil, err
		}
		if lote == nil {
			return nil, nil, domain.ErrUnknownLot
		}
		loteID = &lote.ID
	}

	now := time.Now()
	txID := uuid.New().String()
	origen, destino := input.BodegaOrigenID, input.BodegaDestinoID

	salida = &entity.MovimientoInventario{
		ID:              uuid.New().String(),
		TransaccionID:   txID,
		Fecha:           now,
		TipoMovimiento:  entity.MovimientoTransferenciaSalida,
		ProductoID:      input.ProductoID,
		LoteID:          loteID,
		BodegaOrigenID:  &origen,
		BodegaDestinoID: &destino,
		Cantidad:        input.Cantidad,
		DocumentoRef:    input.DocumentoRef,
		UsuarioID:       input.UsuarioID,
		Estado:          entity.EstadoAprobado,
	}
	entrada = &entity.MovimientoInventario{
		ID:              uuid.New().String(),
		TransaccionID:   txID,
		Fecha:           now,
		TipoMovimiento:  entity.MovimientoTransferenciaEntrada,
		ProductoID:      input.ProductoID,
		LoteID:          loteID,
		BodegaOrigenID:  &origen,
		BodegaDestinoID: &destino,
		Cantidad:        input.Cantidad,
		DocumentoRef:    input.DocumentoRef,
		UsuarioID:       input.UsuarioID,
		Estado:          entity.EstadoAprobado,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		stockRepo repository.StockRepository,
		_ repository.LoteRepository,
		_ repository.AuditoriaRepository,
	) error {
		claves := []claveStock{
			{BodegaID: origen, ProductoID: input.ProductoID, LoteID: loteID},
			{BodegaID: destino, ProductoID: input.ProductoID, LoteID: loteID},
		}
		if err := bloquearClaves(ctx, stockRepo, claves); err != nil {
			return err
		}
		if err := aplicar(ctx, movRepo, stockRepo, salida); err != nil {
			return err
		}
		return aplicar(ctx, movRepo, stockRepo, entrada)
	})
	if err != nil {
		return nil, nil, err
	}
	return salida, entrada, nil
}

func (uc *TransferenciaUseCase) validarBodegas(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		bodega, err := uc.bodegaRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bodega == nil {
			return domain.ErrUnknownWarehouse
		}
	}
	return nil
}

// claveStock identifica una clave de saldo (bodega, producto, lote).
type claveStock struct {
	BodegaID   string
	ProductoID string
	LoteID     *string
}

// bloquearClaves adquiere los bloqueos de fila de todas las claves en orden
// lexicográfico fijo (bodega, producto, lote). Dos operaciones que crucen las
// mismas bodegas en sentidos opuestos bloquean en el mismo orden y no pueden
// interbloquearse.
func bloquearClaves(ctx context.Context, stockRepo repository.StockRepository, claves []claveStock) error {
	sort.Slice(claves, func(i, j int) bool {
		a, b := claves[i], claves[j]
		if a.BodegaID != b.BodegaID {
			return a.BodegaID < b.BodegaID
		}
		if a.ProductoID != b.ProductoID {
			return a.ProductoID < b.ProductoID
		}
		return loteOrden(a.LoteID) < loteOrden(b.LoteID)
	})
	for _, c := range claves {
		if _, err := stockRepo.EnsureForUpdate(ctx, c.BodegaID, c.ProductoID, c.LoteID); err != nil {
			return err
		}
	}
	return nil
}

func loteOrden(loteID *string) string {
	if loteID == nil {
		return ""
	}
	return *loteID
}
