package inventario_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfquintero/textil-inventario/internal/application/inventario"
	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/entity"
)

const razonValida = "error de digitación en la factura del proveedor"

// Escenario completo: COMPRA 100, VENTA 40, enmendar la compra a 70.
// El saldo de la venta debe pasar de 60 a 30, igual que el stock vivo.
func TestEnmendar_RecalculaSufijoYStock(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	compra, err := b.comprar(ctx, hiloID, bodegaA, "100")
	require.NoError(t, err)
	venta, err := b.registrar.Registrar(ctx, inventario.MovimientoInput{
		TipoMovimiento: entity.MovimientoVenta,
		ProductoID:     hiloID,
		BodegaOrigenID: bodegaA,
		Cantidad:       dec("40"),
	})
	require.NoError(t, err)
	require.True(t, venta.SaldoResultante.Equal(dec("60")))

	enmendado, err := b.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: compra.ID,
		Cantidad:     dec("70"),
		DocumentoRef: compra.DocumentoRef,
		RazonCambio:  razonValida,
		UsuarioID:    usuarioID,
	})
	require.NoError(t, err)

	assert.True(t, enmendado.Cantidad.Equal(dec("70")))
	assert.True(t, enmendado.SaldoResultante.Equal(dec("70")))
	assert.True(t, enmendado.Editado)
	require.NotNil(t, enmendado.FechaUltimaEdicion)

	ventaRecalc := b.movs.porID(venta.ID)
	require.NotNil(t, ventaRecalc)
	assert.True(t, ventaRecalc.SaldoResultante.Equal(dec("30")),
		"el saldo del movimiento posterior debe recalcularse")
	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("30")),
		"el stock vivo debe coincidir con el último saldo")

	// La auditoría registra el diff de cantidad.
	registros, err := b.audits.ListByMovimiento(ctx, compra.ID)
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Equal(t, entity.CampoCantidad, registros[0].CampoModificado)
	assert.Equal(t, "100", registros[0].ValorAnterior)
	assert.Equal(t, "70", registros[0].ValorNuevo)
	assert.Equal(t, razonValida, registros[0].RazonCambio)
}

// Si la corrección dejara un saldo intermedio negativo, nada se persiste.
func TestEnmendar_SaldoNegativoRevierteTodo(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	compra, err := b.comprar(ctx, hiloID, bodegaA, "100")
	require.NoError(t, err)
	venta, err := b.registrar.Registrar(ctx, inventario.MovimientoInput{
		TipoMovimiento: entity.MovimientoVenta,
		ProductoID:     hiloID,
		BodegaOrigenID: bodegaA,
		Cantidad:       dec("40"),
	})
	require.NoError(t, err)

	// 30 - 40 = -10 en la venta posterior: inadmisible.
	_, err = b.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: compra.ID,
		Cantidad:     dec("30"),
		DocumentoRef: compra.DocumentoRef,
		RazonCambio:  razonValida,
	})
	assert.ErrorIs(t, err, domain.ErrNegativeRecomputation)

	original := b.movs.porID(compra.ID)
	assert.True(t, original.Cantidad.Equal(dec("100")), "la compra no cambia")
	assert.False(t, original.Editado)
	assert.True(t, b.movs.porID(venta.ID).SaldoResultante.Equal(dec("60")),
		"el saldo de la venta no cambia")
	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("60")))
	assert.Empty(t, b.audits.registros, "la auditoría también revierte")
}

// El sufijo a recalcular puede contener piernas de transferencia: solo la
// pierna que pertenece a la bodega de la compra se recalcula, la bodega
// destino no se toca.
func TestEnmendar_RecalculaSufijoConPiernaDeTransferencia(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	compra, err := b.comprar(ctx, hiloID, bodegaA, "100")
	require.NoError(t, err)
	salida, entrada, err := b.transferencia.Transferir(ctx, inventario.TransferenciaInput{
		ProductoID:      hiloID,
		BodegaOrigenID:  bodegaA,
		BodegaDestinoID: bodegaB,
		Cantidad:        dec("40"),
	})
	require.NoError(t, err)
	require.True(t, salida.SaldoResultante.Equal(dec("60")))
	require.True(t, entrada.SaldoResultante.Equal(dec("40")))

	_, err = b.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: compra.ID,
		Cantidad:     dec("70"),
		DocumentoRef: compra.DocumentoRef,
		RazonCambio:  razonValida,
	})
	require.NoError(t, err)

	assert.True(t, b.movs.porID(salida.ID).SaldoResultante.Equal(dec("30")),
		"la pierna de salida pertenece a la bodega de la compra y se recalcula")
	assert.True(t, b.movs.porID(entrada.ID).SaldoResultante.Equal(dec("40")),
		"la pierna de entrada pertenece a la bodega destino y no se toca")
	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("30")))
	assert.True(t, b.stock.cantidad(bodegaB, hiloID, nil).Equal(dec("40")))

	// 30 - 40 = -10 en la pierna de salida: se revierte todo.
	_, err = b.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: compra.ID,
		Cantidad:     dec("30"),
		DocumentoRef: compra.DocumentoRef,
		RazonCambio:  razonValida,
	})
	assert.ErrorIs(t, err, domain.ErrNegativeRecomputation)
	assert.True(t, b.movs.porID(compra.ID).Cantidad.Equal(dec("70")))
	assert.True(t, b.movs.porID(salida.ID).SaldoResultante.Equal(dec("30")))
	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("30")))
	assert.True(t, b.stock.cantidad(bodegaB, hiloID, nil).Equal(dec("40")))
}

// Enmienda sin cambios: no-op total, sin auditoría ni marca de edición.
func TestEnmendar_SinCambiosEsIdempotente(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	compra, err := b.comprar(ctx, hiloID, bodegaA, "100")
	require.NoError(t, err)

	resultado, err := b.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: compra.ID,
		Cantidad:     dec("100"),
		DocumentoRef: compra.DocumentoRef,
		RazonCambio:  razonValida,
	})
	require.NoError(t, err)
	assert.False(t, resultado.Editado)
	assert.Empty(t, b.audits.registros)
	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("100")))
}

// Solo cambia documento_ref: auditoría sin recálculo de saldos.
func TestEnmendar_SoloDocumentoRef(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	compra, err := b.comprar(ctx, hiloID, bodegaA, "100")
	require.NoError(t, err)

	resultado, err := b.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: compra.ID,
		Cantidad:     dec("100"),
		DocumentoRef: "OC-2026-091",
		RazonCambio:  razonValida,
	})
	require.NoError(t, err)
	assert.Equal(t, "OC-2026-091", resultado.DocumentoRef)
	assert.True(t, resultado.Editado)
	assert.True(t, resultado.SaldoResultante.Equal(dec("100")), "el saldo no cambia")

	registros, err := b.audits.ListByMovimiento(ctx, compra.ID)
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Equal(t, entity.CampoDocumentoRef, registros[0].CampoModificado)
}

func TestEnmendar_RazonCorta(t *testing.T) {
	b := nuevoBanco()

	_, err := b.enmienda.Enmendar(context.Background(), inventario.EnmiendaInput{
		MovimientoID: "cualquiera",
		Cantidad:     dec("10"),
		RazonCambio:  "muy corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnmendar_MovimientoInexistente(t *testing.T) {
	b := nuevoBanco()

	_, err := b.enmienda.Enmendar(context.Background(), inventario.EnmiendaInput{
		MovimientoID: "no-existe",
		Cantidad:     dec("10"),
		RazonCambio:  razonValida,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Solo las compras aprobadas admiten enmienda.
func TestEnmendar_SoloCompras(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	_, err := b.comprar(ctx, hiloID, bodegaA, "100")
	require.NoError(t, err)
	venta, err := b.registrar.Registrar(ctx, inventario.MovimientoInput{
		TipoMovimiento: entity.MovimientoVenta,
		ProductoID:     hiloID,
		BodegaOrigenID: bodegaA,
		Cantidad:       dec("10"),
	})
	require.NoError(t, err)

	_, err = b.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: venta.ID,
		Cantidad:     dec("5"),
		RazonCambio:  razonValida,
	})
	assert.ErrorIs(t, err, domain.ErrAmendmentNotAllowed)
}

// Enmendar dos veces con los mismos valores finales: la segunda es no-op.
func TestEnmendar_RepetidaNoDuplicaAuditoria(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	compra, err := b.comprar(ctx, hiloID, bodegaA, "100")
	require.NoError(t, err)

	entrada := inventario.EnmiendaInput{
		MovimientoID: compra.ID,
		Cantidad:     dec("70"),
		DocumentoRef: compra.DocumentoRef,
		RazonCambio:  razonValida,
	}
	_, err = b.enmienda.Enmendar(ctx, entrada)
	require.NoError(t, err)
	_, err = b.enmienda.Enmendar(ctx, entrada)
	require.NoError(t, err)

	registros, err := b.audits.ListByMovimiento(ctx, compra.ID)
	require.NoError(t, err)
	assert.Len(t, registros, 1, "la repetición no agrega auditoría")
	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("70")))
}
