package shipping_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/apptest"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/shipping"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

type expediciones struct {
	store   *apptest.Store
	locs    *inventory.Locations
	uc      *shipping.ShippingUseCase
	cliente *entity.Customer
	crema   *entity.Product
	lote    *entity.Lot
}

func nuevasExpediciones(t *testing.T) *expediciones {
	t.Helper()
	store := apptest.NewStore()
	locs := store.SeedLocations()
	uc := shipping.NewShippingUseCase(store, store.Shipments, store.Returns, store.Customers, store.Lots, locs)

	e := &expediciones{store: store, locs: locs, uc: uc}
	e.cliente = &entity.Customer{
		ID: uuid.New().String(), Code: "CLI-0001", Name: "Distribuciones Sur", Active: true,
	}
	require.NoError(t, store.Customers.Create(e.cliente))
	e.crema = store.SeedProduct("PT-001", "Crema", entity.CategoryFinishedProduct, "ud")
	e.lote = store.SeedLot(e.crema, "CR-001", decimal.NewFromInt(500), locs.Released.ID, nil)
	return e
}

func TestCreateShipment_DescuentaDeLiberado(t *testing.T) {
	e := nuevasExpediciones(t)

	shipment, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		CustomerID:     e.cliente.ID,
		ShipmentNumber: "ALB-2026-001",
		ShipmentDate:   time.Now(),
		Lines: []shipping.ShipmentLineInput{
			{LotID: e.lote.ID, Quantity: decimal.NewFromInt(120)},
		},
	})
	require.NoError(t, err)
	require.Len(t, shipment.Details, 1)
	assert.Equal(t, "ud", shipment.Details[0].Unit)

	lot, err := e.store.Lots.GetByID(e.lote.ID)
	require.NoError(t, err)
	assert.True(t, lot.CurrentQuantity.Equal(decimal.NewFromInt(380)))

	row, err := e.store.LotLocs.Get(e.lote.ID, e.locs.Released.ID)
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(380)))

	movs, err := e.store.Movements.ListByLotAndType(e.lote.ID, entity.MovementShipment)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(-120)))
	require.NotNil(t, movs[0].ReferenceType)
	assert.Equal(t, entity.RefShipment, *movs[0].ReferenceType)
}

func TestCreateShipment_LoteBloqueadoRechazado(t *testing.T) {
	e := nuevasExpediciones(t)
	e.lote.Blocked = true

	_, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		CustomerID:     e.cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateShipment_LoteCaducadoRechazado(t *testing.T) {
	e := nuevasExpediciones(t)
	past := time.Now().AddDate(0, 0, -10)
	caducado := e.store.SeedLot(e.crema, "CR-VIEJO", decimal.NewFromInt(50), e.locs.Released.ID, &past)

	_, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		CustomerID:     e.cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: caducado.ID, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateShipment_SinStockSuficiente(t *testing.T) {
	e := nuevasExpediciones(t)

	_, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		CustomerID:     e.cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(501)}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreateShipment_NumeroDuplicadoRechazado(t *testing.T) {
	e := nuevasExpediciones(t)
	ctx := context.Background()

	input := shipping.CreateShipmentInput{
		CustomerID:     e.cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(10)}},
	}
	_, err := e.uc.CreateShipment(ctx, input)
	require.NoError(t, err)

	_, err = e.uc.CreateShipment(ctx, input)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateShipment_LoteRepetidoEnLineasRechazado(t *testing.T) {
	e := nuevasExpediciones(t)

	_, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		CustomerID:     e.cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Lines: []shipping.ShipmentLineInput{
			{LotID: e.lote.ID, Quantity: decimal.NewFromInt(10)},
			{LotID: e.lote.ID, Quantity: decimal.NewFromInt(5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateShipment_MateriaPrimaRechazada(t *testing.T) {
	e := nuevasExpediciones(t)
	harina := e.store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	exp := time.Now().AddDate(1, 0, 0)
	loteH := e.store.SeedLot(harina, "H-001", decimal.NewFromInt(100), e.locs.Released.ID, &exp)

	_, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		CustomerID:     e.cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: loteH.ID, Quantity: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateShipment_ClienteNuevoInline(t *testing.T) {
	e := nuevasExpediciones(t)

	shipment, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		NewCustomer: &shipping.NewCustomerInput{
			Name:  "Panadería Norte",
			Email: "pedidos@panorte.example",
		},
		ShipmentNumber: "ALB-002",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	customer, err := e.store.Customers.GetByID(shipment.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Panadería Norte", customer.Name)
	assert.Equal(t, "CLI-0002", customer.Code, "sigue al CLI-0001 existente")
	assert.True(t, customer.Active)
}

func TestCreateShipment_ClienteInlineSinNombre(t *testing.T) {
	e := nuevasExpediciones(t)

	_, err := e.uc.CreateShipment(context.Background(), shipping.CreateShipmentInput{
		NewCustomer:    &shipping.NewCustomerInput{Email: "sin-nombre@example"},
		ShipmentNumber: "ALB-003",
		ShipmentDate:   time.Now(),
		Lines:          []shipping.ShipmentLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateReturn_ReingresaEnDevoluciones(t *testing.T) {
	e := nuevasExpediciones(t)
	customerID := e.cliente.ID

	ret, err := e.uc.CreateReturn(context.Background(), shipping.CreateReturnInput{
		CustomerID: &customerID,
		ReturnDate: time.Now(),
		Reason:     entity.ReturnReasonCustomer,
		Lines:      []shipping.ReturnLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(20)}},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("DEV-%d-001", time.Now().Year()), ret.ReturnNumber)

	// el stock devuelto queda retenido en DEV, no vuelve a liberado
	row, err := e.store.LotLocs.Get(e.lote.ID, e.locs.Returns.ID)
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(20)))

	lot, err := e.store.Lots.GetByID(e.lote.ID)
	require.NoError(t, err)
	assert.True(t, lot.CurrentQuantity.Equal(decimal.NewFromInt(520)))

	movs, err := e.store.Movements.ListByLotAndType(e.lote.ID, entity.MovementReturn)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(20)))
}

func TestCreateReturn_RetiradaSinCliente(t *testing.T) {
	e := nuevasExpediciones(t)

	ret, err := e.uc.CreateReturn(context.Background(), shipping.CreateReturnInput{
		ReturnDate: time.Now(),
		Reason:     entity.ReturnReasonRecall,
		Lines:      []shipping.ReturnLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	assert.Nil(t, ret.CustomerID)
}

func TestCreateReturn_MateriaPrimaRechazada(t *testing.T) {
	e := nuevasExpediciones(t)
	harina := e.store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	exp := time.Now().AddDate(1, 0, 0)
	loteH := e.store.SeedLot(harina, "H-001", decimal.NewFromInt(100), e.locs.Released.ID, &exp)

	_, err := e.uc.CreateReturn(context.Background(), shipping.CreateReturnInput{
		ReturnDate: time.Now(),
		Reason:     entity.ReturnReasonQuality,
		Lines:      []shipping.ReturnLineInput{{LotID: loteH.ID, Quantity: decimal.NewFromInt(5)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateReturn_LoteBloqueadoAceptado(t *testing.T) {
	e := nuevasExpediciones(t)
	e.lote.Blocked = true
	customerID := e.cliente.ID

	// la mercancía devuelta entra en DEV aunque el lote esté bloqueado:
	// ya está en planta y tiene que quedar contabilizada
	_, err := e.uc.CreateReturn(context.Background(), shipping.CreateReturnInput{
		CustomerID: &customerID,
		ReturnDate: time.Now(),
		Reason:     entity.ReturnReasonQuality,
		Lines:      []shipping.ReturnLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(8)}},
	})
	require.NoError(t, err)

	row, err := e.store.LotLocs.Get(e.lote.ID, e.locs.Returns.ID)
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(8)))
}

func TestCreateReturn_MotivoDesconocidoRechazado(t *testing.T) {
	e := nuevasExpediciones(t)

	_, err := e.uc.CreateReturn(context.Background(), shipping.CreateReturnInput{
		ReturnDate: time.Now(),
		Reason:     "capricho",
		Lines:      []shipping.ReturnLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(5)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateReturn_AutonumeracionConsecutiva(t *testing.T) {
	e := nuevasExpediciones(t)
	ctx := context.Background()
	year := time.Now().Year()

	for i := 1; i <= 3; i++ {
		ret, err := e.uc.CreateReturn(ctx, shipping.CreateReturnInput{
			ReturnDate: time.Now(),
			Reason:     entity.ReturnReasonQuality,
			Lines:      []shipping.ReturnLineInput{{LotID: e.lote.ID, Quantity: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("DEV-%d-%03d", year, i), ret.ReturnNumber)
	}
}
