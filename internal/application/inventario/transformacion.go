package inventario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// TransformacionUseCase registra el reprocesamiento físico de un producto en
// otro (ej. hilo crudo → hilo teñido) como un par salida+entrada en vez de
// editar saldos: consume stock del producto origen y lo ingresa como producto
// destino, conservando la trazabilidad completa en el libro.
type TransformacionUseCase struct {
	txRunner     TxRunner
	productoRepo repository.ProductoRepository
	bodegaRepo   repository.BodegaRepository
	loteRepo     repository.LoteRepository
}

// NewTransformacionUseCase construye el caso de uso.
func NewTransformacionUseCase(
	txRunner TxRunner,
	productoRepo repository.ProductoRepository,
	bodegaRepo repository.BodegaRepository,
	loteRepo repository.LoteRepository,
) *TransformacionUseCase {
	return &TransformacionUseCase{
		txRunner:     txRunner,
		productoRepo: productoRepo,
		bodegaRepo:   bodegaRepo,
		loteRepo:     loteRepo,
	}
}

// TransformacionInput entrada para una transformación de producto.
// Si NuevoLoteCodigo viene vacío, el destino conserva el lote de origen.
// Las bodegas pueden coincidir (reproceso dentro de la misma bodega).
type TransformacionInput struct {
	BodegaOrigenID    string
	BodegaDestinoID   string
	ProductoOrigenID  string
	ProductoDestinoID string
	LoteOrigenID      string
	NuevoLoteCodigo   string
	Cantidad          decimal.Decimal
	UsuarioID         string
}

// Transformar valida, bloquea ambas claves en orden fijo y registra las dos
// piernas (TRANSFORMACION_SALIDA con el producto origen, TRANSFORMACION_ENTRADA
// con el destino) bajo el mismo TransaccionID.
func (uc *TransformacionUseCase) Transformar(ctx context.Context, input TransformacionInput) (salida, entrada *entity.MovimientoInventario, err error) {
	if !input.Cantidad.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if input.BodegaOrigenID == "" || input.BodegaDestinoID == "" ||
		input.ProductoOrigenID == "" || input.ProductoDestinoID == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	for _, productoID := range []string{input.ProductoOrigenID, input.ProductoDestinoID} {
		producto, err := uc.productoRepo.GetByID(ctx, productoID)
		if err != nil {
			return nil, nil, err
		}
		if producto == nil {
			return nil, nil, domain.ErrUnknownProduct
		}
	}
	for _, bodegaID := range []string{input.BodegaOrigenID, input.BodegaDestinoID} {
		bodega, err := uc.bodegaRepo.GetByID(ctx, bodegaID)
		if err != nil {
			return nil, nil, err
		}
		if bodega == nil {
			return nil, nil, domain.ErrUnknownWarehouse
		}
	}
	var loteOrigenID *string
	if input.LoteOrigenID != "" {
		lote, err := uc.loteRepo.GetByID(ctx, input.LoteOrigenID)
		if err != nil {
			return nil, nil, err
		}
		if lote == nil {
			return nil, nil, domain.ErrUnknownLot
		}
		loteOrigenID = &lote.ID
	}

	now := time.Now()
	txID := uuid.New().String()
	origen, destino := input.BodegaOrigenID, input.BodegaDestinoID

	salida = &entity.MovimientoInventario{
		ID:              uuid.New().String(),
		TransaccionID:   txID,
		Fecha:           now,
		TipoMovimiento:  entity.MovimientoTransformacionSalida,
		ProductoID:      input.ProductoOrigenID,
		LoteID:          loteOrigenID,
		BodegaOrigenID:  &origen,
		BodegaDestinoID: &destino,
		Cantidad:        input.Cantidad,
		DocumentoRef:    fmt.Sprintf("TRANSF->%s", input.ProductoDestinoID),
		UsuarioID:       input.UsuarioID,
		Estado:          entity.EstadoAprobado,
	}
	entrada = &entity.MovimientoInventario{
		ID:              uuid.New().String(),
		TransaccionID:   txID,
		Fecha:           now,
		TipoMovimiento:  entity.MovimientoTransformacionEntrada,
		ProductoID:      input.ProductoDestinoID,
		BodegaOrigenID:  &origen,
		BodegaDestinoID: &destino,
		Cantidad:        input.Cantidad,
		DocumentoRef:    fmt.Sprintf("TRANSF<-%s", input.ProductoOrigenID),
		UsuarioID:       input.UsuarioID,
		Estado:          entity.EstadoAprobado,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovimientoRepository,
		stockRepo repository.StockRepository,
		loteRepo repository.LoteRepository,
		_ repository.AuditoriaRepository,
	) error {
		// Lote destino: nuevo código si se indicó, si no hereda el de origen.
		loteDestinoID := loteOrigenID
		if input.NuevoLoteCodigo != "" {
			lote, err := loteRepo.GetOrCreateByCodigo(ctx, input.NuevoLoteCodigo)
			if err != nil {
				return err
			}
			loteDestinoID = &lote.ID
		}
		entrada.LoteID = loteDestinoID

		claves := []claveStock{
			{BodegaID: origen, ProductoID: input.ProductoOrigenID, LoteID: loteOrigenID},
			{BodegaID: destino, ProductoID: input.ProductoDestinoID, LoteID: loteDestinoID},
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
