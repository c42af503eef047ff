package inventario_test

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfquintero/textil-inventario/internal/application/inventario"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// Dobles en memoria de los puertos de persistencia. Replican el contrato de
// los adaptadores de PostgreSQL (copias defensivas, nil en not-found, fila de
// stock en cero si no existe) para que los casos de uso se prueben sin DB.

func clave(bodegaID, productoID string, loteID *string) string {
	lote := ""
	if loteID != nil {
		lote = *loteID
	}
	return bodegaID + "|" + productoID + "|" + lote
}

// ── Stock ────────────────────────────────────────────────────────────────────

type memStock struct {
	filas map[string]*entity.StockBodega
	// fallarUpdateEn hace fallar la n-ésima llamada a UpdateCantidad (1-based).
	// 0 = nunca. Sirve para simular un fallo a mitad de una operación doble.
	fallarUpdateEn int
	updates        int
}

func nuevoMemStock() *memStock {
	return &memStock{filas: map[string]*entity.StockBodega{}}
}

func (r *memStock) Get(_ context.Context, bodegaID, productoID string, loteID *string) (*entity.StockBodega, error) {
	if s, ok := r.filas[clave(bodegaID, productoID, loteID)]; ok {
		copia := *s
		return &copia, nil
	}
	return &entity.StockBodega{BodegaID: bodegaID, ProductoID: productoID, LoteID: loteID, Cantidad: decimal.Zero}, nil
}

func (r *memStock) EnsureForUpdate(_ context.Context, bodegaID, productoID string, loteID *string) (*entity.StockBodega, error) {
	k := clave(bodegaID, productoID, loteID)
	if _, ok := r.filas[k]; !ok {
		r.filas[k] = &entity.StockBodega{BodegaID: bodegaID, ProductoID: productoID, LoteID: loteID, Cantidad: decimal.Zero}
	}
	copia := *r.filas[k]
	return &copia, nil
}

func (r *memStock) UpdateCantidad(_ context.Context, stock *entity.StockBodega) error {
	r.updates++
	if r.fallarUpdateEn > 0 && r.updates == r.fallarUpdateEn {
		return fmt.Errorf("fallo inyectado en update %d", r.updates)
	}
	k := clave(stock.BodegaID, stock.ProductoID, stock.LoteID)
	if _, ok := r.filas[k]; !ok {
		return fmt.Errorf("update stock: fila inexistente (falta EnsureForUpdate)")
	}
	copia := *stock
	r.filas[k] = &copia
	return nil
}

func (r *memStock) SumByBodegaProducto(_ context.Context, bodegaID, productoID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.filas {
		if s.BodegaID == bodegaID && s.ProductoID == productoID {
			total = total.Add(s.Cantidad)
		}
	}
	return total, nil
}

func (r *memStock) List(_ context.Context, filtro repository.StockFiltro, limit, offset int) ([]*entity.StockBodega, error) {
	var out []*entity.StockBodega
	for _, s := range r.filas {
		if filtro.BodegaID != "" && s.BodegaID != filtro.BodegaID {
			continue
		}
		if filtro.ProductoID != "" && s.ProductoID != filtro.ProductoID {
			continue
		}
		copia := *s
		out = append(out, &copia)
	}
	return out, nil
}

func (r *memStock) ListAlertas(_ context.Context) ([]repository.AlertaStock, error) {
	return nil, nil
}

func (r *memStock) cantidad(bodegaID, productoID string, loteID *string) decimal.Decimal {
	if s, ok := r.filas[clave(bodegaID, productoID, loteID)]; ok {
		return s.Cantidad
	}
	return decimal.Zero
}

func (r *memStock) clonar() map[string]*entity.StockBodega {
	out := make(map[string]*entity.StockBodega, len(r.filas))
	for k, s := range r.filas {
		copia := *s
		out[k] = &copia
	}
	return out
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type memMovs struct {
	movs []entity.MovimientoInventario
}

func nuevoMemMovs() *memMovs { return &memMovs{} }

func (r *memMovs) Create(_ context.Context, m *entity.MovimientoInventario) error {
	r.movs = append(r.movs, *m)
	return nil
}

func (r *memMovs) GetByID(_ context.Context, id string) (*entity.MovimientoInventario, error) {
	for i := range r.movs {
		if r.movs[i].ID == id {
			copia := r.movs[i]
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *memMovs) GetByIDForUpdate(ctx context.Context, id string) (*entity.MovimientoInventario, error) {
	return r.GetByID(ctx, id)
}

func (r *memMovs) UpdateEnmendado(_ context.Context, m *entity.MovimientoInventario) error {
	for i := range r.movs {
		if r.movs[i].ID == m.ID {
			r.movs[i] = *m
			return nil
		}
	}
	return fmt.Errorf("movimiento %s no existe", m.ID)
}

func (r *memMovs) UpdateSaldoResultante(_ context.Context, id string, saldo decimal.Decimal) error {
	for i := range r.movs {
		if r.movs[i].ID == id {
			r.movs[i].SaldoResultante = saldo
			return nil
		}
	}
	return fmt.Errorf("movimiento %s no existe", id)
}

func (r *memMovs) ListByClaveDesde(_ context.Context, productoID, bodegaID string, loteID *string, desde time.Time) ([]*entity.MovimientoInventario, error) {
	var out []*entity.MovimientoInventario
	for i := range r.movs {
		m := r.movs[i]
		if m.ProductoID != productoID || m.BodegaClave() != bodegaID {
			continue
		}
		if !loteIgual(m.LoteID, loteID) || m.Fecha.Before(desde) {
			continue
		}
		copia := m
		out = append(out, &copia)
	}
	return out, nil
}

func (r *memMovs) ListKardex(_ context.Context, bodegaID, productoID string) ([]*entity.MovimientoInventario, error) {
	var out []*entity.MovimientoInventario
	for i := range r.movs {
		m := r.movs[i]
		if m.ProductoID == productoID && m.BodegaClave() == bodegaID {
			copia := m
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *memMovs) List(_ context.Context, filtro repository.MovimientoFiltro, limit, offset int) ([]*entity.MovimientoInventario, error) {
	var out []*entity.MovimientoInventario
	for i := len(r.movs) - 1; i >= 0; i-- {
		m := r.movs[i]
		if filtro.ProductoID != "" && m.ProductoID != filtro.ProductoID {
			continue
		}
		if filtro.Tipo != "" && m.TipoMovimiento != filtro.Tipo {
			continue
		}
		if filtro.BodegaID != "" && !tocaBodega(&m, filtro.BodegaID) {
			continue
		}
		copia := m
		out = append(out, &copia)
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovs) porID(id string) *entity.MovimientoInventario {
	for i := range r.movs {
		if r.movs[i].ID == id {
			return &r.movs[i]
		}
	}
	return nil
}

func tocaBodega(m *entity.MovimientoInventario, bodegaID string) bool {
	return (m.BodegaOrigenID != nil && *m.BodegaOrigenID == bodegaID) ||
		(m.BodegaDestinoID != nil && *m.BodegaDestinoID == bodegaID)
}

func loteIgual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ── Lotes ────────────────────────────────────────────────────────────────────

type memLotes struct {
	porCodigo map[string]*entity.Lote
	seq       int
}

func nuevoMemLotes() *memLotes {
	return &memLotes{porCodigo: map[string]*entity.Lote{}}
}

func (r *memLotes) GetByID(_ context.Context, id string) (*entity.Lote, error) {
	for _, l := range r.porCodigo {
		if l.ID == id {
			copia := *l
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *memLotes) GetByCodigo(_ context.Context, codigo string) (*entity.Lote, error) {
	if l, ok := r.porCodigo[codigo]; ok {
		copia := *l
		return &copia, nil
	}
	return nil, nil
}

func (r *memLotes) GetOrCreateByCodigo(ctx context.Context, codigo string) (*entity.Lote, error) {
	if l, err := r.GetByCodigo(ctx, codigo); err != nil || l != nil {
		return l, err
	}
	r.seq++
	lote := &entity.Lote{ID: "lote-" + strconv.Itoa(r.seq), CodigoLote: codigo, CreadoEn: time.Now()}
	r.porCodigo[codigo] = lote
	copia := *lote
	return &copia, nil
}

// ── Auditoría ────────────────────────────────────────────────────────────────

type memAuditorias struct {
	registros []entity.AuditoriaMovimiento
}

func nuevoMemAuditorias() *memAuditorias { return &memAuditorias{} }

func (r *memAuditorias) Create(_ context.Context, a *entity.AuditoriaMovimiento) error {
	r.registros = append(r.registros, *a)
	return nil
}

func (r *memAuditorias) ListByMovimiento(_ context.Context, movimientoID string) ([]*entity.AuditoriaMovimiento, error) {
	var out []*entity.AuditoriaMovimiento
	for i := len(r.registros) - 1; i >= 0; i-- {
		if r.registros[i].MovimientoID == movimientoID {
			copia := r.registros[i]
			out = append(out, &copia)
		}
	}
	return out, nil
}

// ── Catálogos ────────────────────────────────────────────────────────────────

type memProductos struct {
	porID map[string]*entity.Producto
}

func (r *memProductos) GetByID(_ context.Context, id string) (*entity.Producto, error) {
	if p, ok := r.porID[id]; ok {
		copia := *p
		return &copia, nil
	}
	return nil, nil
}

func (r *memProductos) GetByCodigo(_ context.Context, codigo string) (*entity.Producto, error) {
	for _, p := range r.porID {
		if p.Codigo == codigo {
			copia := *p
			return &copia, nil
		}
	}
	return nil, nil
}

type memBodegas struct {
	porID map[string]*entity.Bodega
}

func (r *memBodegas) GetByID(_ context.Context, id string) (*entity.Bodega, error) {
	if b, ok := r.porID[id]; ok {
		copia := *b
		return &copia, nil
	}
	return nil, nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// memTx simula la atomicidad de la transacción: toma una instantánea del
// estado antes de fn y la restaura si fn falla. Así los tests verifican que
// un fallo a mitad de una operación doble no deja piernas huérfanas.
type memTx struct {
	movs   *memMovs
	stock  *memStock
	lotes  *memLotes
	audits *memAuditorias
}

func (tx *memTx) Run(ctx context.Context, fn func(
	movRepo repository.MovimientoRepository,
	stockRepo repository.StockRepository,
	loteRepo repository.LoteRepository,
	auditRepo repository.AuditoriaRepository,
) error) error {
	movsAntes := append([]entity.MovimientoInventario(nil), tx.movs.movs...)
	stockAntes := tx.stock.clonar()
	auditsAntes := append([]entity.AuditoriaMovimiento(nil), tx.audits.registros...)

	if err := fn(tx.movs, tx.stock, tx.lotes, tx.audits); err != nil {
		tx.movs.movs = movsAntes
		tx.stock.filas = stockAntes
		tx.audits.registros = auditsAntes
		return err
	}
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

const (
	hiloID    = "producto-hilo"
	telaID    = "producto-tela"
	bodegaA   = "bodega-a"
	bodegaB   = "bodega-b"
	usuarioID = "usuario-1"
)

// banco agrupa los dobles y los casos de uso ya cableados.
type banco struct {
	movs      *memMovs
	stock     *memStock
	lotes     *memLotes
	audits    *memAuditorias
	productos *memProductos
	bodegas   *memBodegas
	tx        *memTx

	registrar      *inventario.RegistrarMovimientoUseCase
	transferencia  *inventario.TransferenciaUseCase
	transformacion *inventario.TransformacionUseCase
	enmienda       *inventario.EnmendarMovimientoUseCase
	kardex         *inventario.KardexUseCase
	consultas      *inventario.ConsultasUseCase
}

func nuevoBanco() *banco {
	b := &banco{
		movs:   nuevoMemMovs(),
		stock:  nuevoMemStock(),
		lotes:  nuevoMemLotes(),
		audits: nuevoMemAuditorias(),
		productos: &memProductos{porID: map[string]*entity.Producto{
			hiloID: {ID: hiloID, Codigo: "HC-001", Descripcion: "Hilo crudo 20/1", UnidadMedida: entity.UnidadKilogramo, Tipo: entity.ProductoHiloCrudo},
			telaID: {ID: telaID, Codigo: "TL-001", Descripcion: "Tela jersey", UnidadMedida: entity.UnidadMetro, Tipo: entity.ProductoTela},
		}},
		bodegas: &memBodegas{porID: map[string]*entity.Bodega{
			bodegaA: {ID: bodegaA, SedeID: "sede-1", Nombre: "Bodega A"},
			bodegaB: {ID: bodegaB, SedeID: "sede-1", Nombre: "Bodega B"},
		}},
	}
	b.tx = &memTx{movs: b.movs, stock: b.stock, lotes: b.lotes, audits: b.audits}

	b.registrar = inventario.NewRegistrarMovimientoUseCase(b.tx, b.productos, b.bodegas)
	b.transferencia = inventario.NewTransferenciaUseCase(b.tx, b.productos, b.bodegas, b.lotes)
	b.transformacion = inventario.NewTransformacionUseCase(b.tx, b.productos, b.bodegas, b.lotes)
	b.enmienda = inventario.NewEnmendarMovimientoUseCase(b.tx)
	b.kardex = inventario.NewKardexUseCase(b.movs, b.productos, b.bodegas)
	b.consultas = inventario.NewConsultasUseCase(b.movs, b.audits, b.stock)
	return b
}

// comprar registra una COMPRA aprobada y devuelve el movimiento.
func (b *banco) comprar(ctx context.Context, productoID, bodegaID, cantidad string) (*entity.MovimientoInventario, error) {
	return b.registrar.Registrar(ctx, inventario.MovimientoInput{
		TipoMovimiento:  entity.MovimientoCompra,
		ProductoID:      productoID,
		BodegaDestinoID: bodegaID,
		Cantidad:        dec(cantidad),
		UsuarioID:       usuarioID,
	})
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
