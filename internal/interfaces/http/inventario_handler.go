package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dfquintero/textil-inventario/internal/application/dto"
	"github.com/dfquintero/textil-inventario/internal/application/inventario"
	"github.com/dfquintero/textil-inventario/internal/domain"
	"github.com/dfquintero/textil-inventario/internal/domain/repository"
)

// InventarioHandler maneja las peticiones HTTP del libro de inventario
// (protegido). Las operaciones de escritura corren bajo un timeout propio
// para que un bloqueo de fila largo responda 408 en vez de colgar al cliente.
type InventarioHandler struct {
	registrar      *inventario.RegistrarMovimientoUseCase
	transferencia  *inventario.TransferenciaUseCase
	transformacion *inventario.TransformacionUseCase
	enmienda       *inventario.EnmendarMovimientoUseCase
	kardex         *inventario.KardexUseCase
	alertas        *inventario.AlertasStockUseCase
	consultas      *inventario.ConsultasUseCase
	opTimeout      time.Duration
}

// NewInventarioHandler construye el handler.
func NewInventarioHandler(
	registrar *inventario.RegistrarMovimientoUseCase,
	transferencia *inventario.TransferenciaUseCase,
	transformacion *inventario.TransformacionUseCase,
	enmienda *inventario.EnmendarMovimientoUseCase,
	kardex *inventario.KardexUseCase,
	alertas *inventario.AlertasStockUseCase,
	consultas *inventario.ConsultasUseCase,
	opTimeout time.Duration,
) *InventarioHandler {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &InventarioHandler{
		registrar:      registrar,
		transferencia:  transferencia,
		transformacion: transformacion,
		enmienda:       enmienda,
		kardex:         kardex,
		alertas:        alertas,
		consultas:      consultas,
		opTimeout:      opTimeout,
	}
}

// RegistrarMovimiento godoc
// @Summary      Registrar movimiento simple de inventario
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarMovimientoRequest  true  "tipo_movimiento, producto, bodega_origen o bodega_destino, cantidad, lote_codigo (opcional)"
// @Success      201   {object}  dto.MovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /inventory/movimientos [post]
func (h *InventarioHandler) RegistrarMovimiento(c *fiber.Ctx) error {
	var in dto.RegistrarMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ctx, cancel := context.WithTimeout(c.Context(), h.opTimeout)
	defer cancel()

	mov, err := h.registrar.Registrar(ctx, inventario.MovimientoInput{
		TipoMovimiento:  in.TipoMovimiento,
		ProductoID:      in.ProductoID,
		BodegaOrigenID:  in.BodegaOrigen,
		BodegaDestinoID: in.BodegaDestino,
		Cantidad:        in.Cantidad,
		LoteCodigo:      in.LoteCodigo,
		DocumentoRef:    in.DocumentoRef,
		UsuarioID:       GetUserID(c),
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovimientoResponse(mov))
}

// Transferir godoc
// @Summary      Transferir stock entre bodegas
// @Description  Registra las dos piernas (salida y entrada) bajo una misma transacción atómica.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferenciaRequest  true  "producto_id, bodega_origen_id, bodega_destino_id, cantidad, lote_id (opcional)"
// @Success      201   {object}  dto.DobleMovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /inventory/transferencias [post]
func (h *InventarioHandler) Transferir(c *fiber.Ctx) error {
	var in dto.TransferenciaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ctx, cancel := context.WithTimeout(c.Context(), h.opTimeout)
	defer cancel()

	salida, entrada, err := h.transferencia.Transferir(ctx, inventario.TransferenciaInput{
		ProductoID:      in.ProductoID,
		BodegaOrigenID:  in.BodegaOrigen,
		BodegaDestinoID: in.BodegaDestino,
		Cantidad:        in.Cantidad,
		LoteID:          in.LoteID,
		DocumentoRef:    in.DocumentoRef,
		UsuarioID:       GetUserID(c),
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DobleMovimientoResponse{
		TransaccionID: salida.TransaccionID,
		Salida:        dto.NewMovimientoResponse(salida),
		Entrada:       dto.NewMovimientoResponse(entrada),
	})
}

// Transformar godoc
// @Summary      Transformar un producto en otro
// @Description  Reprocesamiento físico (ej. hilo crudo a tela): consume el producto origen y acredita el destino en un par salida/entrada atómico.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransformacionRequest  true  "producto_origen_id, producto_destino_id, bodegas, cantidad, nuevo_lote_codigo (opcional)"
// @Success      201   {object}  dto.DobleMovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /inventory/transformaciones [post]
func (h *InventarioHandler) Transformar(c *fiber.Ctx) error {
	var in dto.TransformacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ctx, cancel := context.WithTimeout(c.Context(), h.opTimeout)
	defer cancel()

	salida, entrada, err := h.transformacion.Transformar(ctx, inventario.TransformacionInput{
		BodegaOrigenID:    in.BodegaOrigen,
		BodegaDestinoID:   in.BodegaDestino,
		ProductoOrigenID:  in.ProductoOrigen,
		ProductoDestinoID: in.ProductoDestino,
		LoteOrigenID:      in.LoteOrigenID,
		NuevoLoteCodigo:   in.NuevoLoteCodigo,
		Cantidad:          in.Cantidad,
		UsuarioID:         GetUserID(c),
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DobleMovimientoResponse{
		TransaccionID: salida.TransaccionID,
		Salida:        dto.NewMovimientoResponse(salida),
		Entrada:       dto.NewMovimientoResponse(entrada),
	})
}

// Enmendar godoc
// @Summary      Enmendar un movimiento de COMPRA aprobado
// @Description  Corrige cantidad y/o documento de referencia, registra el diff en auditoría y recalcula los saldos posteriores de la clave. razon_cambio requiere mínimo 10 caracteres.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del movimiento"
// @Param        body  body  dto.EnmiendaRequest  true  "cantidad, documento_ref, razon_cambio"
// @Success      200   {object}  dto.MovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /inventory/movimientos/{id} [put]
func (h *InventarioHandler) Enmendar(c *fiber.Ctx) error {
	var in dto.EnmiendaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ctx, cancel := context.WithTimeout(c.Context(), h.opTimeout)
	defer cancel()

	mov, err := h.enmienda.Enmendar(ctx, inventario.EnmiendaInput{
		MovimientoID: c.Params("id"),
		Cantidad:     in.Cantidad,
		DocumentoRef: in.DocumentoRef,
		RazonCambio:  in.RazonCambio,
		UsuarioID:    GetUserID(c),
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.NewMovimientoResponse(mov))
}

// ListarMovimientos godoc
// @Summary      Listar movimientos del libro
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        bodega    query  string  false  "Filtrar por bodega (cualquiera de los dos lados)"
// @Param        producto  query  string  false  "Filtrar por producto"
// @Param        tipo      query  string  false  "Filtrar por tipo de movimiento"
// @Param        desde     query  string  false  "Fecha mínima (RFC3339)"
// @Param        hasta     query  string  false  "Fecha máxima (RFC3339)"
// @Param        limit     query  int     false  "Máximo de filas (default 50, tope 200)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovimientoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /inventory/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filtro := repository.MovimientoFiltro{
		BodegaID:   c.Query("bodega"),
		ProductoID: c.Query("producto"),
		Tipo:       c.Query("tipo"),
	}
	var err error
	if filtro.Desde, err = fechaQuery(c, "desde"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde: fecha inválida (RFC3339)"})
	}
	if filtro.Hasta, err = fechaQuery(c, "hasta"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta: fecha inválida (RFC3339)"})
	}

	movimientos, err := h.consultas.ListarMovimientos(c.Context(), filtro, page.Limit, page.Offset)
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.MovimientoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		out = append(out, dto.NewMovimientoResponse(m))
	}
	return c.JSON(out)
}

// ObtenerMovimiento godoc
// @Summary      Detalle de un movimiento
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovimientoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inventory/movimientos/{id} [get]
func (h *InventarioHandler) ObtenerMovimiento(c *fiber.Ctx) error {
	mov, err := h.consultas.ObtenerMovimiento(c.Context(), c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.NewMovimientoResponse(mov))
}

// ListarAuditorias godoc
// @Summary      Historial de enmiendas de un movimiento
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {array}   dto.AuditoriaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inventory/movimientos/{id}/auditoria [get]
func (h *InventarioHandler) ListarAuditorias(c *fiber.Ctx) error {
	auditorias, err := h.consultas.ListarAuditorias(c.Context(), c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.NewAuditoriasResponse(auditorias))
}

// Kardex godoc
// @Summary      Kardex de un producto en una bodega
// @Description  Estado de cuenta cronológico con entradas, salidas y saldo acumulado fila a fila.
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id           path   string  true  "ID de la bodega"
// @Param        producto_id  query  string  true  "ID del producto"
// @Success      200  {array}   dto.KardexFilaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inventory/bodegas/{id}/kardex [get]
func (h *InventarioHandler) Kardex(c *fiber.Ctx) error {
	productoID := c.Query("producto_id")
	if productoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto_id requerido"})
	}
	filas, err := h.kardex.Consultar(c.Context(), c.Params("id"), productoID)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.NewKardexResponse(filas))
}

// ListarStock godoc
// @Summary      Stock actual por (bodega, producto, lote)
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        bodega    query  string  false  "Filtrar por bodega"
// @Param        producto  query  string  false  "Filtrar por producto"
// @Param        limit     query  int     false  "Máximo de filas (default 50, tope 200)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StockResponse
// @Router       /inventory/stock [get]
func (h *InventarioHandler) ListarStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	items, err := h.consultas.ListarStock(c.Context(), repository.StockFiltro{
		BodegaID:   c.Query("bodega"),
		ProductoID: c.Query("producto"),
	}, page.Limit, page.Offset)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.NewStockResponse(items))
}

// AlertasStock godoc
// @Summary      Claves (bodega, producto) con stock agregado bajo el mínimo
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertaStockResponse
// @Router       /inventory/alertas-stock [get]
func (h *InventarioHandler) AlertasStock(c *fiber.Ctx) error {
	alertas, err := h.alertas.Evaluar(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.NewAlertasResponse(alertas))
}

// fechaQuery parsea un query param de fecha RFC3339 opcional.
func fechaQuery(c *fiber.Ctx, nombre string) (*time.Time, error) {
	raw := c.Query(nombre)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// responderError mapea errores de dominio a códigos HTTP.
func responderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrSameWarehouse):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SAME_WAREHOUSE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownProduct),
		errors.Is(err, domain.ErrUnknownWarehouse),
		errors.Is(err, domain.ErrUnknownLot),
		errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrNegativeRecomputation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_RECOMPUTATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrAmendmentNotAllowed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "AMENDMENT_NOT_ALLOWED", Message: err.Error()})
	case errors.Is(err, domain.ErrTimeout):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
