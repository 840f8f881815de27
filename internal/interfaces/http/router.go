package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/alerts"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/catalog"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/export"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/production"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/shipping"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/traceability"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *catalog.ProductUseCase
	CustomerUC   *catalog.CustomerUseCase
	LedgerUC     *inventory.LedgerUseCase
	StockQueryUC *inventory.StockQueryUseCase
	ProductionUC *production.OrderUseCase
	ShippingUC   *shipping.ShippingUseCase
	TraceUC      *traceability.TraceUseCase
	AlertUC      *alerts.AlertUseCase
	ExportUC     *export.ExportUseCase
	LocationRepo repository.LocationRepository
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockQueryUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/stock", productHandler.Stock)
	products.Get("/:id/available", productHandler.Available)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationRepo, deps.StockQueryUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id/stock", locationHandler.Stock)

	exportHandler := NewExportHandler(deps.ExportUC)

	lots := api.Group("/lots")
	lotHandler := NewLotHandler(deps.LedgerUC, deps.StockQueryUC)
	lots.Post("/reception", lotHandler.Reception)
	lots.Get("/", lotHandler.List)
	lots.Get("/expiring", lotHandler.Expiring)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Put("/:id", lotHandler.Update)
	lots.Delete("/:id", lotHandler.Delete)
	lots.Post("/:id/transfer", lotHandler.Transfer)
	lots.Post("/:id/adjust", lotHandler.Adjust)
	lots.Post("/:id/block", lotHandler.Block)
	lots.Post("/:id/unblock", lotHandler.Unblock)
	lots.Get("/:id/reception-certificate", exportHandler.ReceptionCertificate)

	orders := api.Group("/production-orders")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	orders.Post("/", productionHandler.Create)
	orders.Get("/", productionHandler.List)
	orders.Get("/:id", productionHandler.GetByID)
	orders.Put("/:id", productionHandler.Update)
	orders.Delete("/:id", productionHandler.Delete)
	orders.Post("/:id/materials", productionHandler.AddMaterial)
	orders.Delete("/:id/materials/:materialId", productionHandler.RemoveMaterial)
	orders.Post("/:id/close", productionHandler.Close)

	shippingHandler := NewShippingHandler(deps.ShippingUC)
	shipments := api.Group("/shipments")
	shipments.Post("/", shippingHandler.CreateShipment)
	shipments.Get("/", shippingHandler.ListShipments)
	shipments.Get("/:id", shippingHandler.GetShipment)
	shipments.Get("/:id/delivery-note", exportHandler.ShipmentPDF)

	returns := api.Group("/returns")
	returns.Post("/", shippingHandler.CreateReturn)
	returns.Get("/", shippingHandler.ListReturns)
	returns.Get("/:id", shippingHandler.GetReturn)

	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	trace := api.Group("/trace")
	traceHandler := NewTraceHandler(deps.TraceUC)
	trace.Get("/search", traceHandler.ByProductAndLot)
	trace.Get("/lots/:id/forward", traceHandler.Forward)
	trace.Get("/lots/:id/reverse", traceHandler.Reverse)
	trace.Get("/customers/:id", traceHandler.Customer)

	alertsGroup := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertsGroup.Get("/", alertHandler.List)
	alertsGroup.Get("/count", alertHandler.Count)
	alertsGroup.Post("/regenerate", alertHandler.Regenerate)
	alertsGroup.Post("/:id/read", alertHandler.MarkRead)
	alertsGroup.Post("/:id/dismiss", alertHandler.Dismiss)

	exports := api.Group("/exports")
	exports.Get("/inventory", exportHandler.InventoryExcel)
}
