package inventario

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/kardex"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// KardexUseCase produce el estado de cuenta cronológico (entradas, salidas,
// saldo acumulado) de un producto en una bodega. Proyección de solo lectura:
// el saldo de la última fila debe coincidir siempre con el valor vivo del
// stock agregado sobre los lotes.
type KardexUseCase struct {
	movRepo      repository.MovimientoRepository
	productoRepo repository.ProductoRepository
	bodegaRepo   repository.BodegaRepository
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(
	movRepo repository.MovimientoRepository,
	productoRepo repository.ProductoRepository,
	bodegaRepo repository.BodegaRepository,
) *KardexUseCase {
	return &KardexUseCase{
		movRepo:      movRepo,
		productoRepo: productoRepo,
		bodegaRepo:   bodegaRepo,
	}
}

// Consultar devuelve las filas del Kardex de (bodega, producto) en orden
// cronológico ascendente.
func (uc *KardexUseCase) Consultar(ctx context.Context, bodegaID, productoID string) ([]kardex.Fila, error) {
	bodega, err := uc.bodegaRepo.GetByID(ctx, bodegaID)
	if err != nil {
		return nil, err
	}
	if bodega == nil {
		return nil, domain.ErrUnknownWarehouse
	}
	producto, err := uc.productoRepo.GetByID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrUnknownProduct
	}

	movimientos, err := uc.movRepo.ListKardex(ctx, bodegaID, productoID)
	if err != nil {
		return nil, err
	}
	return kardex.Acumular(movimientos), nil
}
