package postgres

import (
	"context"
	"fmt"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

var _ repository.AuditoriaRepository = (*AuditoriaRepo)(nil)

// AuditoriaRepo persistencia del rastro de enmiendas. Solo INSERT y SELECT;
// las filas nunca se tocan después de creadas.
type AuditoriaRepo struct {
	q Querier
}

// NewAuditoriaRepository construye el adaptador de auditoría.
func NewAuditoriaRepository(q Querier) *AuditoriaRepo {
	return &AuditoriaRepo{q: q}
}

// Create persiste un registro de auditoría.
func (r *AuditoriaRepo) Create(ctx context.Context, a *entity.AuditoriaMovimiento) error {
	query := `
		INSERT INTO auditorias_movimiento
			(id, movimiento_id, fecha_modificacion, usuario_modificador,
			 campo_modificado, valor_anterior, valor_nuevo, razon_cambio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.MovimientoID, a.FechaModificacion, textoNulo(a.UsuarioModificador),
		a.CampoModificado, a.ValorAnterior, a.ValorNuevo, a.RazonCambio,
	)
	if err != nil {
		return fmt.Errorf("create auditoria: %w", err)
	}
	return nil
}

// ListByMovimiento devuelve el rastro de un movimiento, más reciente primero.
func (r *AuditoriaRepo) ListByMovimiento(ctx context.Context, movimientoID string) ([]*entity.AuditoriaMovimiento, error) {
	query := `
		SELECT id, movimiento_id, fecha_modificacion, usuario_modificador,
			campo_modificado, valor_anterior, valor_nuevo, razon_cambio
		FROM auditorias_movimiento
		WHERE movimiento_id = $1
		ORDER BY fecha_modificacion DESC, id DESC`
	rows, err := r.q.Query(ctx, query, movimientoID)
	if err != nil {
		return nil, fmt.Errorf("list auditorias: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditoriaMovimiento
	for rows.Next() {
		var a entity.AuditoriaMovimiento
		var usuario *string
		if err := rows.Scan(
			&a.ID, &a.MovimientoID, &a.FechaModificacion, &usuario,
			&a.CampoModificado, &a.ValorAnterior, &a.ValorNuevo, &a.RazonCambio,
		); err != nil {
			return nil, fmt.Errorf("scan auditoria: %w", err)
		}
		if usuario != nil {
			a.UsuarioModificador = *usuario
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
