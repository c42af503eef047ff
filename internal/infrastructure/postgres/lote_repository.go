package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación de LoteRepository sobre PostgreSQL.
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador de lotes.
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

// GetByID obtiene un lote por ID. Devuelve nil si no existe.
func (r *LoteRepo) GetByID(ctx context.Context, id string) (*entity.Lote, error) {
	query := `SELECT id, codigo_lote, creado_en FROM lotes WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByCodigo obtiene un lote por código. Devuelve nil si no existe.
func (r *LoteRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Lote, error) {
	query := `SELECT id, codigo_lote, creado_en FROM lotes WHERE codigo_lote = $1`
	return r.getOne(ctx, query, codigo)
}

// GetOrCreateByCodigo crea el lote si no existe y lo devuelve. El INSERT ..
// ON CONFLICT DO NOTHING seguido del SELECT resuelve la carrera entre dos
// transacciones que registran el mismo código a la vez.
func (r *LoteRepo) GetOrCreateByCodigo(ctx context.Context, codigo string) (*entity.Lote, error) {
	insert := `
		INSERT INTO lotes (id, codigo_lote, creado_en)
		VALUES ($1, $2, now())
		ON CONFLICT (codigo_lote) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, uuid.New().String(), codigo); err != nil {
		return nil, fmt.Errorf("create lote: %w", err)
	}
	lote, err := r.GetByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if lote == nil {
		return nil, fmt.Errorf("get or create lote %q: fila inexistente tras insert", codigo)
	}
	return lote, nil
}

func (r *LoteRepo) getOne(ctx context.Context, query, arg string) (*entity.Lote, error) {
	var l entity.Lote
	err := r.q.QueryRow(ctx, query, arg).Scan(&l.ID, &l.CodigoLote, &l.CreadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return &l, nil
}
