package inventario

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// AlertasStockUseCase genera el reporte de stock bajo mínimo: todas las
// claves (bodega, producto) cuyo saldo agregado está por debajo del
// stock_minimo configurado del producto. Solo lectura, sin mutación.
type AlertasStockUseCase struct {
	stockRepo repository.StockRepository
}

// NewAlertasStockUseCase construye el caso de uso.
func NewAlertasStockUseCase(stockRepo repository.StockRepository) *AlertasStockUseCase {
	return &AlertasStockUseCase{stockRepo: stockRepo}
}

// Evaluar devuelve las alertas ordenadas por bodega y producto.
func (uc *AlertasStockUseCase) Evaluar(ctx context.Context) ([]repository.AlertaStock, error) {
	return uc.stockRepo.ListAlertas(ctx)
}
