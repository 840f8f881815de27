package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/alerts"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/catalog"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/export"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/production"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/shipping"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/traceability"
	infraexcel "github.com/tu-usuario/trazabilidad-pro/internal/infrastructure/excel"
	infrapdf "github.com/tu-usuario/trazabilidad-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/trazabilidad-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/trazabilidad-pro/internal/interfaces/http"
	"github.com/tu-usuario/trazabilidad-pro/pkg/config"
	"github.com/tu-usuario/trazabilidad-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	lotLocRepo := postgres.NewLotLocationRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	orderRepo := postgres.NewProductionOrderRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	locs, err := inventory.ResolveLocations(locationRepo, inventory.LocationCodes{
		Reception:     cfg.Locations.Reception,
		Released:      cfg.Locations.Released,
		Production:    cfg.Locations.Production,
		Returns:       cfg.Locations.Returns,
		NonConforming: cfg.Locations.NonConforming,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("resolver ubicaciones de planta")
	}

	productUC := catalog.NewProductUseCase(productRepo, lotRepo)
	customerUC := catalog.NewCustomerUseCase(customerRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, lotRepo, locationRepo, locs)
	stockQueryUC := inventory.NewStockQueryUseCase(productRepo, lotRepo, lotLocRepo, movementRepo, locationRepo, locs)
	productionUC := production.NewOrderUseCase(txRunner, orderRepo, productRepo, lotRepo, lotLocRepo, locs)
	shippingUC := shipping.NewShippingUseCase(txRunner, shipmentRepo, returnRepo, customerRepo, lotRepo, locs)
	traceUC := traceability.NewTraceUseCase(productRepo, lotRepo, movementRepo, orderRepo, shipmentRepo, returnRepo, customerRepo)
	alertUC := alerts.NewAlertUseCase(alertRepo, productRepo, lotRepo)
	exportUC := export.NewExportUseCase(
		productRepo, lotRepo, lotLocRepo, locationRepo, shipmentRepo, customerRepo,
		infraexcel.NewInventoryExporter(), infrapdf.NewDocumentGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.LoggingMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		CustomerUC:   customerUC,
		LedgerUC:     ledgerUC,
		StockQueryUC: stockQueryUC,
		ProductionUC: productionUC,
		ShippingUC:   shippingUC,
		TraceUC:      traceUC,
		AlertUC:      alertUC,
		ExportUC:     exportUC,
		LocationRepo: locationRepo,
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
