package traceability_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/apptest"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/production"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/shipping"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/traceability"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// cadena monta el escenario completo: la harina H-001 se consume en una
// orden que produce el lote CR-001, que se envía al cliente y del que
// vuelve una parte.
type cadena struct {
	store    *apptest.Store
	locs     *inventory.Locations
	uc       *traceability.TraceUseCase
	cliente  *entity.Customer
	harina   *entity.Product
	crema    *entity.Product
	lotH     *entity.Lot
	lotCrema *entity.Lot
	orden    *entity.ProductionOrder
	envio    *entity.Shipment
}

func nuevaCadena(t *testing.T) *cadena {
	t.Helper()
	ctx := context.Background()
	store := apptest.NewStore()
	locs := store.SeedLocations()

	c := &cadena{store: store, locs: locs}
	c.uc = traceability.NewTraceUseCase(
		store.Products, store.Lots, store.Movements, store.Orders, store.Shipments, store.Returns, store.Customers)

	c.harina = store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	c.crema = store.SeedProduct("PT-001", "Crema", entity.CategoryFinishedProduct, "ud")
	exp := time.Now().AddDate(0, 6, 0)
	c.lotH = store.SeedLot(c.harina, "H-001", decimal.NewFromInt(200), locs.Released.ID, &exp)

	c.cliente = &entity.Customer{ID: "c1", Code: "CLI-0001", Name: "Distribuciones Sur", Active: true}
	require.NoError(t, store.Customers.Create(c.cliente))

	// producción
	prodUC := production.NewOrderUseCase(store, store.Orders, store.Products, store.Lots, store.LotLocs, locs)
	orden, err := prodUC.CreateOrder(ctx, production.CreateOrderInput{
		BaseLotNumber:  "CR-001",
		ProductionDate: time.Now(),
		FinishedProducts: []production.FinishedProductInput{
			{ProductID: c.crema.ID, Unit: "ud"},
		},
	})
	require.NoError(t, err)
	_, err = prodUC.AddMaterial(ctx, orden.ID, production.AddMaterialInput{
		LotID: c.lotH.ID, Quantity: decimal.NewFromInt(80), Unit: "kg",
	})
	require.NoError(t, err)
	c.orden, err = prodUC.CloseOrder(ctx, orden.ID, []production.CloseLineResult{
		{FinishedProductID: orden.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(400)},
	})
	require.NoError(t, err)
	c.lotCrema, err = store.Lots.GetByID(*c.orden.FinishedProducts[0].LotID)
	require.NoError(t, err)

	// liberación y envío
	ledger := inventory.NewLedgerUseCase(store, store.Products, store.Lots, store.Locations, locs)
	require.NoError(t, ledger.Transfer(ctx, c.lotCrema.ID, locs.Production.ID, locs.Released.ID,
		decimal.NewFromInt(400), "liberado por calidad"))

	shipUC := shipping.NewShippingUseCase(store, store.Shipments, store.Returns, store.Customers, store.Lots, locs)
	c.envio, err = shipUC.CreateShipment(ctx, shipping.CreateShipmentInput{
		CustomerID:     c.cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: c.lotCrema.ID, Quantity: decimal.NewFromInt(150)}},
	})
	require.NoError(t, err)

	customerID := c.cliente.ID
	_, err = shipUC.CreateReturn(ctx, shipping.CreateReturnInput{
		CustomerID: &customerID,
		ReturnDate: time.Now(),
		Reason:     entity.ReturnReasonCustomer,
		Lines:      []shipping.ReturnLineInput{{LotID: c.lotCrema.ID, Quantity: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	return c
}

func TestTraceForward_DeMateriaPrimaACliente(t *testing.T) {
	c := nuevaCadena(t)

	trace, err := c.uc.TraceForward(context.Background(), c.lotH.ID)
	require.NoError(t, err)

	require.Len(t, trace.FinishedLots, 1)
	traced := trace.FinishedLots[0]
	assert.Equal(t, c.lotCrema.ID, traced.Lot.ID)
	assert.Equal(t, c.orden.ID, traced.Order.ID)
	assert.True(t, traced.Consumed.Equal(decimal.NewFromInt(80)))

	require.Len(t, traced.Shipments, 1)
	assert.Equal(t, c.envio.ID, traced.Shipments[0].Shipment.ID)
	require.NotNil(t, traced.Shipments[0].Customer)
	assert.Equal(t, "Distribuciones Sur", traced.Shipments[0].Customer.Name)

	// la harina en sí nunca salió a cliente
	assert.Empty(t, trace.DirectShipments)
}

func TestTraceReverse_DeAcabadoASusMateriales(t *testing.T) {
	c := nuevaCadena(t)

	trace, err := c.uc.TraceReverse(context.Background(), c.lotCrema.ID)
	require.NoError(t, err)

	require.NotNil(t, trace.Order)
	assert.Equal(t, c.orden.ID, trace.Order.ID)
	require.Len(t, trace.Materials, 1)
	assert.Equal(t, c.lotH.ID, trace.Materials[0].Lot.ID)
	assert.True(t, trace.Materials[0].Quantity.Equal(decimal.NewFromInt(80)))
}

func TestTraceReverse_LoteRecibidoNoTieneOrden(t *testing.T) {
	c := nuevaCadena(t)

	trace, err := c.uc.TraceReverse(context.Background(), c.lotH.ID)
	require.NoError(t, err)
	assert.Nil(t, trace.Order)
	assert.Empty(t, trace.Materials)
}

func TestTraceReverse_ResuelvePorNumeroDeLoteSinReferencia(t *testing.T) {
	c := nuevaCadena(t)

	// órdenes antiguas no guardaban la referencia directa al lote creado
	c.orden.FinishedProducts[0].LotID = nil

	trace, err := c.uc.TraceReverse(context.Background(), c.lotCrema.ID)
	require.NoError(t, err)
	require.NotNil(t, trace.Order)
	assert.Equal(t, c.orden.ID, trace.Order.ID)
	require.Len(t, trace.Materials, 1)
}

func TestTraceForward_IncluyeDevoluciones(t *testing.T) {
	c := nuevaCadena(t)

	trace, err := c.uc.TraceForward(context.Background(), c.lotCrema.ID)
	require.NoError(t, err)
	require.Len(t, trace.Returns, 1)
	assert.True(t, trace.Returns[0].Detail.Quantity.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, trace.Returns[0].Customer)
	assert.Equal(t, c.cliente.ID, trace.Returns[0].Customer.ID)
}

func TestTraceForward_IncluyeAjustesDeRecuento(t *testing.T) {
	c := nuevaCadena(t)
	ctx := context.Background()

	// un recuento físico encuentra 240 en vez de 250 tras el envío
	ledger := inventory.NewLedgerUseCase(c.store, c.store.Products, c.store.Lots, c.store.Locations, c.locs)
	require.NoError(t, ledger.Adjust(ctx, c.lotCrema.ID, c.locs.Released.ID, decimal.NewFromInt(240), "recuento mensual"))

	trace, err := c.uc.TraceForward(ctx, c.lotCrema.ID)
	require.NoError(t, err)
	require.Len(t, trace.Adjustments, 1)
	assert.Equal(t, entity.MovementAdjustment, trace.Adjustments[0].Type)
	assert.True(t, trace.Adjustments[0].Quantity.Equal(decimal.NewFromInt(-10)))

	// la harina no tuvo recuentos
	trace, err = c.uc.TraceForward(ctx, c.lotH.ID)
	require.NoError(t, err)
	assert.Empty(t, trace.Adjustments)
}

func TestTraceByProductAndLot_AmbasDirecciones(t *testing.T) {
	c := nuevaCadena(t)

	forward, reverse, err := c.uc.TraceByProductAndLot(context.Background(), c.crema.ID, "CR-001")
	require.NoError(t, err)
	assert.Equal(t, c.lotCrema.ID, forward.Lot.ID)
	require.NotNil(t, reverse.Order)
	assert.Equal(t, c.orden.ID, reverse.Order.ID)
	require.Len(t, forward.DirectShipments, 1)
}

func TestTraceCustomer_HistorialCompleto(t *testing.T) {
	c := nuevaCadena(t)

	trace, err := c.uc.TraceCustomer(context.Background(), c.cliente.ID)
	require.NoError(t, err)
	assert.Len(t, trace.Shipments, 1)
	assert.Len(t, trace.Returns, 1)
}
