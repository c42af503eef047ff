package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib" // driver database/sql para goose
	"github.com/pressly/goose/v3"

	"github.com/dfquintero/textil-inventario/internal/application/inventario"
	"github.com/dfquintero/textil-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/dfquintero/textil-inventario/internal/interfaces/http"
	"github.com/dfquintero/textil-inventario/pkg/config"
	"github.com/dfquintero/textil-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	if err := runMigrations(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productoRepo := postgres.NewProductoRepository(pool)
	bodegaRepo := postgres.NewBodegaRepository(pool)
	loteRepo := postgres.NewLoteRepository(pool)
	movRepo := postgres.NewMovimientoRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	auditRepo := postgres.NewAuditoriaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registrarUC := inventario.NewRegistrarMovimientoUseCase(txRunner, productoRepo, bodegaRepo)
	transferenciaUC := inventario.NewTransferenciaUseCase(txRunner, productoRepo, bodegaRepo, loteRepo)
	transformacionUC := inventario.NewTransformacionUseCase(txRunner, productoRepo, bodegaRepo, loteRepo)
	enmiendaUC := inventario.NewEnmendarMovimientoUseCase(txRunner)
	kardexUC := inventario.NewKardexUseCase(movRepo, productoRepo, bodegaRepo)
	alertasUC := inventario.NewAlertasStockUseCase(stockRepo)
	consultasUC := inventario.NewConsultasUseCase(movRepo, auditRepo, stockRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Textil Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registrar:      registrarUC,
		Transferencia:  transferenciaUC,
		Transformacion: transformacionUC,
		Enmienda:       enmiendaUC,
		Kardex:         kardexUC,
		Alertas:        alertasUC,
		Consultas:      consultasUC,
		JWTSecret:      cfg.JWT.Secret,
		OpTimeout:      cfg.HTTP.OpTimeout,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runMigrations aplica las migraciones SQL pendientes con goose antes de abrir
// el pool de la aplicación.
func runMigrations(cfg config.DBConfig) error {
	db, err := goose.OpenDBWithDriver("pgx", cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, cfg.MigrationsDir)
}
