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

	appinsumo "github.com/jhoicas/insumos-api/internal/application/insumo"
	inframetrics "github.com/jhoicas/insumos-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/insumos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/insumos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/insumos-api/internal/interfaces/http"
	"github.com/jhoicas/insumos-api/pkg/config"
	"github.com/jhoicas/insumos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var metrics appinsumo.Metrics = appinsumo.NopMetrics{}
	var promMetrics *inframetrics.Prometheus
	if cfg.Metrics.Enabled {
		promMetrics = inframetrics.NewPrometheus("insumos")
		metrics = promMetrics
	}

	catalogRepo := postgres.NewCatalogRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	formatRepo := postgres.NewFormatRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	registroRepo := postgres.NewRegistroRepository(pool)
	allocationRepo := postgres.NewAllocationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	catalogUC := appinsumo.NewCatalogUseCase(catalogRepo, stockRepo, formatRepo, metrics, log)
	allocationUC := appinsumo.NewAllocationUseCase(txRunner, registroRepo, lotRepo, allocationRepo, metrics, log)
	preflightUC := appinsumo.NewPreflightUseCase(infrapdf.NewMarotoReportGenerator(cfg.App.Name), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Insumos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		Catalog:     catalogUC,
		Allocations: allocationUC,
		Preflight:   preflightUC,
	}
	if promMetrics != nil {
		deps.Metrics = promMetrics.Handler()
	}
	httpRouter.Router(app, deps)

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
