package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/alerts"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/apptest"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/catalog"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/export"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/production"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/shipping"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/traceability"
	infraexcel "github.com/tu-usuario/trazabilidad-pro/internal/infrastructure/excel"
	infrapdf "github.com/tu-usuario/trazabilidad-pro/internal/infrastructure/pdf"
	apphttp "github.com/tu-usuario/trazabilidad-pro/internal/interfaces/http"
)

// buildTestApp monta la API completa sobre los repositorios en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	locs := store.SeedLocations()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:    catalog.NewProductUseCase(store.Products, store.Lots),
		CustomerUC:   catalog.NewCustomerUseCase(store.Customers),
		LedgerUC:     inventory.NewLedgerUseCase(store, store.Products, store.Lots, store.Locations, locs),
		StockQueryUC: inventory.NewStockQueryUseCase(store.Products, store.Lots, store.LotLocs, store.Movements, store.Locations, locs),
		ProductionUC: production.NewOrderUseCase(store, store.Orders, store.Products, store.Lots, store.LotLocs, locs),
		ShippingUC:   shipping.NewShippingUseCase(store, store.Shipments, store.Returns, store.Customers, store.Lots, locs),
		TraceUC:      traceability.NewTraceUseCase(store.Products, store.Lots, store.Movements, store.Orders, store.Shipments, store.Returns, store.Customers),
		AlertUC:      alerts.NewAlertUseCase(store.Alerts, store.Products, store.Lots),
		ExportUC: export.NewExportUseCase(
			store.Products, store.Lots, store.LotLocs, store.Locations,
			store.Shipments, store.Customers,
			infraexcel.NewInventoryExporter(), infrapdf.NewDocumentGenerator(),
		),
		LocationRepo: store.Locations,
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCrearProductoYDuplicado(t *testing.T) {
	app, _ := buildTestApp(t)

	body := map[string]any{
		"code":         "MP-001",
		"name":         "Harina de trigo",
		"category":     "raw_material",
		"storage_unit": "kg",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/products/", body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]any
	decode(t, resp, &created)
	assert.Equal(t, "MP-001", created["code"])
	assert.Equal(t, "kg", created["consumption_unit"], "sin unidad de consumo hereda la de almacén")

	resp = doJSON(t, app, http.MethodPost, "/api/products/", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCrearProductoCuerpoInvalido(t *testing.T) {
	app, _ := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products/", bytes.NewReader([]byte("{no json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProductoNoEncontrado(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/products/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRecepcionCreaLoteConsultable(t *testing.T) {
	app, store := buildTestApp(t)
	product := store.SeedProduct("MP-002", "Azúcar", "raw_material", "kg")

	resp := doJSON(t, app, http.MethodPost, "/api/lots/reception", map[string]any{
		"product_id":         product.ID,
		"lot_number":         "AZ-2026-01",
		"quantity":           "100",
		"unit":               "kg",
		"manufacturing_date": "2026-01-10T00:00:00Z",
		"expiration_date":    "2027-01-10T00:00:00Z",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var lot map[string]any
	decode(t, resp, &lot)
	assert.Equal(t, "AZ-2026-01", lot["lot_number"])
	assert.Equal(t, "active", lot["status"])

	resp = doJSON(t, app, http.MethodGet, "/api/lots/"+lot["id"].(string), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail struct {
		Distribution []map[string]any `json:"distribution"`
		Movements    []map[string]any `json:"movements"`
	}
	decode(t, resp, &detail)
	require.Len(t, detail.Distribution, 1)
	assert.Equal(t, "REC", detail.Distribution[0]["location_code"])
	require.Len(t, detail.Movements, 1)
	assert.Equal(t, "entry", detail.Movements[0]["type"])
}

func TestRecepcionMateriaPrimaSinCaducidad(t *testing.T) {
	app, store := buildTestApp(t)
	product := store.SeedProduct("MP-003", "Cacao", "raw_material", "kg")

	resp := doJSON(t, app, http.MethodPost, "/api/lots/reception", map[string]any{
		"product_id":         product.ID,
		"lot_number":         "CA-01",
		"quantity":           "10",
		"unit":               "kg",
		"manufacturing_date": "2026-01-10T00:00:00Z",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInventarioExcelDescargable(t *testing.T) {
	app, store := buildTestApp(t)
	product := store.SeedProduct("MP-004", "Sal", "raw_material", "kg")

	resp := doJSON(t, app, http.MethodPost, "/api/lots/reception", map[string]any{
		"product_id":         product.ID,
		"lot_number":         "SAL-01",
		"quantity":           "50",
		"unit":               "kg",
		"manufacturing_date": "2026-01-10T00:00:00Z",
		"expiration_date":    "2028-01-10T00:00:00Z",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/exports/inventory", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, data)
}

func TestContadorDeAlertas(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/alerts/regenerate", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/alerts/count", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var count map[string]int
	decode(t, resp, &count)
	assert.Equal(t, 0, count["count"])
}
