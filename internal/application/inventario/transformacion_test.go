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

func TestTransformar_ConsumeOrigenYAcreditaDestino(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	_, err := b.comprar(ctx, hiloID, bodegaA, "50")
	require.NoError(t, err)

	salida, entrada, err := b.transformacion.Transformar(ctx, inventario.TransformacionInput{
		BodegaOrigenID:    bodegaA,
		BodegaDestinoID:   bodegaB,
		ProductoOrigenID:  hiloID,
		ProductoDestinoID: telaID,
		NuevoLoteCodigo:   "L-TEN-001",
		Cantidad:          dec("20"),
		UsuarioID:         usuarioID,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovimientoTransformacionSalida, salida.TipoMovimiento)
	assert.Equal(t, entity.MovimientoTransformacionEntrada, entrada.TipoMovimiento)
	assert.Equal(t, salida.TransaccionID, entrada.TransaccionID)

	assert.Equal(t, hiloID, salida.ProductoID)
	assert.Equal(t, telaID, entrada.ProductoID)
	require.NotNil(t, entrada.LoteID, "la entrada lleva el lote nuevo")
	assert.Nil(t, salida.LoteID)

	// Las referencias cruzadas dejan rastro del par transformado.
	assert.Equal(t, "TRANSF->"+telaID, salida.DocumentoRef)
	assert.Equal(t, "TRANSF<-"+hiloID, entrada.DocumentoRef)

	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("30")))
	assert.True(t, b.stock.cantidad(bodegaB, telaID, entrada.LoteID).Equal(dec("20")))
}

// Reproceso dentro de la misma bodega: permitido (a diferencia de la
// transferencia, que lo rechaza).
func TestTransformar_MismaBodegaPermitida(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	_, err := b.comprar(ctx, hiloID, bodegaA, "50")
	require.NoError(t, err)

	_, entrada, err := b.transformacion.Transformar(ctx, inventario.TransformacionInput{
		BodegaOrigenID:    bodegaA,
		BodegaDestinoID:   bodegaA,
		ProductoOrigenID:  hiloID,
		ProductoDestinoID: telaID,
		Cantidad:          dec("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, bodegaA, entrada.BodegaClave())
	assert.True(t, b.stock.cantidad(bodegaA, hiloID, nil).Equal(dec("40")))
	assert.True(t, b.stock.cantidad(bodegaA, telaID, nil).Equal(dec("10")))
}

func TestTransformar_SinStockOrigenNoDejaPiernas(t *testing.T) {
	b := nuevoBanco()

	_, _, err := b.transformacion.Transformar(context.Background(), inventario.TransformacionInput{
		BodegaOrigenID:    bodegaA,
		BodegaDestinoID:   bodegaB,
		ProductoOrigenID:  hiloID,
		ProductoDestinoID: telaID,
		Cantidad:          dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, b.movs.movs)
	assert.True(t, b.stock.cantidad(bodegaB, telaID, nil).IsZero())
}

// Sin nuevo lote, el destino hereda el lote del origen.
func TestTransformar_HeredaLoteDeOrigen(t *testing.T) {
	b := nuevoBanco()
	ctx := context.Background()

	compra, err := b.registrar.Registrar(ctx, inventario.MovimientoInput{
		TipoMovimiento:  entity.MovimientoCompra,
		ProductoID:      hiloID,
		BodegaDestinoID: bodegaA,
		Cantidad:        dec("50"),
		LoteCodigo:      "L-2026-007",
	})
	require.NoError(t, err)
	require.NotNil(t, compra.LoteID)

	_, entrada, err := b.transformacion.Transformar(ctx, inventario.TransformacionInput{
		BodegaOrigenID:    bodegaA,
		BodegaDestinoID:   bodegaB,
		ProductoOrigenID:  hiloID,
		ProductoDestinoID: telaID,
		LoteOrigenID:      *compra.LoteID,
		Cantidad:          dec("20"),
	})
	require.NoError(t, err)
	require.NotNil(t, entrada.LoteID)
	assert.Equal(t, *compra.LoteID, *entrada.LoteID)
}
