package inventario

import (
	"context"

	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// ConsultasUseCase agrupa las consultas de lectura sobre el libro y el stock:
// listados de movimientos, detalle, auditorías y stock actual.
type ConsultasUseCase struct {
	movRepo   repository.MovimientoRepository
	auditRepo repository.AuditoriaRepository
	stockRepo repository.StockRepository
}

// NewConsultasUseCase construye el caso de uso.
func NewConsultasUseCase(
	movRepo repository.MovimientoRepository,
	auditRepo repository.AuditoriaRepository,
	stockRepo repository.StockRepository,
) *ConsultasUseCase {
	return &ConsultasUseCase{
		movRepo:   movRepo,
		auditRepo: auditRepo,
		stockRepo: stockRepo,
	}
}

// ListarMovimientos lista movimientos con filtros opcionales, paginado,
// más recientes primero.
func (uc *ConsultasUseCase) ListarMovimientos(ctx context.Context, filtro repository.MovimientoFiltro, limit, offset int) ([]*entity.MovimientoInventario, error) {
	return uc.movRepo.List(ctx, filtro, limit, offset)
}

// ObtenerMovimiento devuelve un movimiento por id.
func (uc *ConsultasUseCase) ObtenerMovimiento(ctx context.Context, id string) (*entity.MovimientoInventario, error) {
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}

// ListarAuditorias devuelve el historial de enmiendas de un movimiento,
// más recientes primero.
func (uc *ConsultasUseCase) ListarAuditorias(ctx context.Context, movimientoID string) ([]*entity.AuditoriaMovimiento, error) {
	mov, err := uc.movRepo.GetByID(ctx, movimientoID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return uc.auditRepo.ListByMovimiento(ctx, movimientoID)
}

// ListarStock devuelve las filas de stock actual con filtros opcionales.
func (uc *ConsultasUseCase) ListarStock(ctx context.Context, filtro repository.StockFiltro, limit, offset int) ([]*entity.StockBodega, error) {
	return uc.stockRepo.List(ctx, filtro, limit, offset)
}
