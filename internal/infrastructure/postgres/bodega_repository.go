package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

var _ repository.BodegaRepository = (*BodegaRepo)(nil)

// BodegaRepo lectura del catálogo de bodegas sobre PostgreSQL.
type BodegaRepo struct {
	q Querier
}

// NewBodegaRepository construye el adaptador de bodegas.
func NewBodegaRepository(q Querier) *BodegaRepo {
	return &BodegaRepo{q: q}
}

// GetByID obtiene una bodega por ID. Devuelve nil si no existe.
func (r *BodegaRepo) GetByID(ctx context.Context, id string) (*entity.Bodega, error) {
	query := `SELECT id, sede_id, nombre FROM bodegas WHERE id = $1`
	var b entity.Bodega
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.SedeID, &b.Nombre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bodega: %w", err)
	}
	return &b, nil
}
