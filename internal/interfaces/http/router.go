package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dfquintero/textil-inventario/internal/application/inventario"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registrar      *inventario.RegistrarMovimientoUseCase
	Transferencia  *inventario.TransferenciaUseCase
	Transformacion *inventario.TransformacionUseCase
	Enmienda       *inventario.EnmendarMovimientoUseCase
	Kardex         *inventario.KardexUseCase
	Alertas        *inventario.AlertasStockUseCase
	Consultas      *inventario.ConsultasUseCase
	JWTSecret      string
	OpTimeout      time.Duration
}

// Router registra las rutas de la API. Todo el módulo de inventario requiere
// Bearer Token; las escrituras además exigen rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	handler := NewInventarioHandler(
		deps.Registrar, deps.Transferencia, deps.Transformacion, deps.Enmienda,
		deps.Kardex, deps.Alertas, deps.Consultas, deps.OpTimeout,
	)

	inv := app.Group("/inventory", AuthMiddleware(deps.JWTSecret))
	escritura := RequireRole("admin", "bodeguero")

	// Movimientos (libro)
	inv.Post("/movimientos", escritura, handler.RegistrarMovimiento)
	inv.Get("/movimientos", handler.ListarMovimientos)
	inv.Get("/movimientos/:id", handler.ObtenerMovimiento)
	inv.Put("/movimientos/:id", escritura, handler.Enmendar)
	inv.Get("/movimientos/:id/auditoria", handler.ListarAuditorias)

	// Operaciones compuestas
	inv.Post("/transferencias", escritura, handler.Transferir)
	inv.Post("/transformaciones", escritura, handler.Transformar)

	// Consultas de saldo
	inv.Get("/bodegas/:id/kardex", handler.Kardex)
	inv.Get("/stock", handler.ListarStock)
	inv.Get("/alertas-stock", handler.AlertasStock)
}
