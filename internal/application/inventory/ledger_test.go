package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/apptest"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

func buildLedger(t *testing.T) (*apptest.Store, *inventory.Locations, *inventory.LedgerUseCase) {
	t.Helper()
	store := apptest.NewStore()
	locs := store.SeedLocations()
	uc := inventory.NewLedgerUseCase(store, store.Products, store.Lots, store.Locations, locs)
	return store, locs, uc
}

// sumaPorUbicaciones comprueba el invariante del libro: la suma del stock
// por ubicación de un lote coincide con su cantidad total.
func sumaPorUbicaciones(t *testing.T, store *apptest.Store, lotID string) {
	t.Helper()
	lot, err := store.Lots.GetByID(lotID)
	require.NoError(t, err)
	rows, err := store.LotLocs.ListByLot(lotID)
	require.NoError(t, err)
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Quantity)
	}
	assert.True(t, total.Equal(lot.CurrentQuantity),
		"suma por ubicaciones %s != total del lote %s", total, lot.CurrentQuantity)
}

func TestRegisterReception_CreaLoteStockYMovimiento(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	exp := time.Now().AddDate(0, 6, 0)

	lot, err := uc.RegisterReception(context.Background(), inventory.ReceptionInput{
		ProductID:         harina.ID,
		LotNumber:         "H-2026-01",
		Quantity:          decimal.NewFromInt(500),
		Unit:              "kg",
		ManufacturingDate: time.Now().AddDate(0, 0, -2),
		ExpirationDate:    &exp,
	})
	require.NoError(t, err)

	assert.True(t, lot.CurrentQuantity.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "kg", lot.Unit)

	// el stock entra en la ubicación de recepción
	row, err := store.LotLocs.Get(lot.ID, locs.Reception.ID)
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(500)))

	movs, err := store.Movements.ListByLotAndType(lot.ID, entity.MovementEntry)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(500)))
	require.NotNil(t, movs[0].ToLocationID)
	assert.Equal(t, locs.Reception.ID, *movs[0].ToLocationID)

	sumaPorUbicaciones(t, store, lot.ID)
}

func TestRegisterReception_ConvierteUnidadDeEntrada(t *testing.T) {
	store, _, uc := buildLedger(t)
	// aroma almacenado en kg pero pesado en g en báscula
	aroma := store.SeedProduct("MP-002", "Aroma", entity.CategoryRawMaterial, "kg")
	exp := time.Now().AddDate(1, 0, 0)

	lot, err := uc.RegisterReception(context.Background(), inventory.ReceptionInput{
		ProductID:         aroma.ID,
		LotNumber:         "A-001",
		Quantity:          decimal.NewFromInt(2500),
		Unit:              "g",
		ManufacturingDate: time.Now(),
		ExpirationDate:    &exp,
	})
	require.NoError(t, err)
	assert.True(t, lot.CurrentQuantity.Equal(decimal.RequireFromString("2.5")),
		"2500 g deben almacenarse como 2.5 kg")
	sumaPorUbicaciones(t, store, lot.ID)
}

func TestRegisterReception_MateriaPrimaSinCaducidadRechazada(t *testing.T) {
	store, _, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")

	_, err := uc.RegisterReception(context.Background(), inventory.ReceptionInput{
		ProductID:         harina.ID,
		LotNumber:         "H-001",
		Quantity:          decimal.NewFromInt(10),
		ManufacturingDate: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterReception_EnvaseSinCaducidadPermitido(t *testing.T) {
	store, _, uc := buildLedger(t)
	tarro := store.SeedProduct("EN-001", "Tarro 250ml", entity.CategoryPackaging, "ud")

	lot, err := uc.RegisterReception(context.Background(), inventory.ReceptionInput{
		ProductID:         tarro.ID,
		LotNumber:         "T-001",
		Quantity:          decimal.NewFromInt(1000),
		ManufacturingDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, lot.ExpirationDate)
	sumaPorUbicaciones(t, store, lot.ID)
}

func TestTransfer_ConservaElTotalDelLote(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(100), locs.Reception.ID, nil)

	err := uc.Transfer(context.Background(), lot.ID, locs.Reception.ID, locs.Released.ID,
		decimal.NewFromInt(60), "liberado por calidad")
	require.NoError(t, err)

	rec, err := store.LotLocs.Get(lot.ID, locs.Reception.ID)
	require.NoError(t, err)
	lib, err := store.LotLocs.Get(lot.ID, locs.Released.ID)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(40)))
	assert.True(t, lib.Quantity.Equal(decimal.NewFromInt(60)))

	// el total del lote no cambia con un traspaso
	updated, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentQuantity.Equal(decimal.NewFromInt(100)))
	sumaPorUbicaciones(t, store, lot.ID)

	movs, err := store.Movements.ListByLotAndType(lot.ID, entity.MovementTransfer)
	require.NoError(t, err)
	require.Len(t, movs, 1)
}

func TestTransfer_SinStockSuficiente(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(10), locs.Reception.ID, nil)

	err := uc.Transfer(context.Background(), lot.ID, locs.Reception.ID, locs.Released.ID,
		decimal.NewFromInt(11), "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTransfer_MismaUbicacionRechazada(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(10), locs.Reception.ID, nil)

	err := uc.Transfer(context.Background(), lot.ID, locs.Reception.ID, locs.Reception.ID,
		decimal.NewFromInt(5), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_AplicaDiferenciaARecuentoYTotal(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(100), locs.Released.ID, nil)

	// el recuento físico encuentra 97 kg
	err := uc.Adjust(context.Background(), lot.ID, locs.Released.ID, decimal.NewFromInt(97), "recuento mensual")
	require.NoError(t, err)

	row, err := store.LotLocs.Get(lot.ID, locs.Released.ID)
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(97)))

	updated, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentQuantity.Equal(decimal.NewFromInt(97)))
	sumaPorUbicaciones(t, store, lot.ID)

	movs, err := store.Movements.ListByLotAndType(lot.ID, entity.MovementAdjustment)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(-3)))
}

func TestAdjust_SinDiferenciaNoEscribeMovimiento(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(100), locs.Released.ID, nil)

	// recontar dos veces la misma cantidad es idempotente
	for i := 0; i < 2; i++ {
		err := uc.Adjust(context.Background(), lot.ID, locs.Released.ID, decimal.NewFromInt(100), "")
		require.NoError(t, err)
	}

	movs, err := store.Movements.ListByLotAndType(lot.ID, entity.MovementAdjustment)
	require.NoError(t, err)
	assert.Empty(t, movs)
	sumaPorUbicaciones(t, store, lot.ID)
}

func TestAdjust_RecuentoNegativoRechazado(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(100), locs.Released.ID, nil)

	err := uc.Adjust(context.Background(), lot.ID, locs.Released.ID, decimal.NewFromInt(-1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlockLot_EsReversible(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(100), locs.Released.ID, nil)

	require.NoError(t, uc.BlockLot(context.Background(), lot.ID))
	blocked, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStatusBlocked, blocked.Status())

	require.NoError(t, uc.UnblockLot(context.Background(), lot.ID))
	unblocked, err := store.Lots.GetByID(lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStatusActive, unblocked.Status())
}

func TestDeleteLot_ConReferenciasRechazado(t *testing.T) {
	store, locs, uc := buildLedger(t)
	crema := store.SeedProduct("PT-001", "Crema", entity.CategoryFinishedProduct, "ud")
	cliente := &entity.Customer{ID: "c1", Code: "CLI-0001", Name: "Distribuciones Sur", Active: true}
	require.NoError(t, store.Customers.Create(cliente))
	lot := store.SeedLot(crema, "C-001", decimal.NewFromInt(50), locs.Released.ID, nil)

	require.NoError(t, store.Shipments.Create(&entity.Shipment{
		ID:             "s1",
		CustomerID:     cliente.ID,
		ShipmentNumber: "ALB-001",
		ShipmentDate:   time.Now(),
		Details: []*entity.ShipmentDetail{
			{ID: "d1", ShipmentID: "s1", LotID: lot.ID, Quantity: decimal.NewFromInt(10), Unit: "ud"},
		},
	}))

	err := uc.DeleteLot(context.Background(), lot.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteLot_SinReferenciasBorraEnCascada(t *testing.T) {
	store, locs, uc := buildLedger(t)
	harina := store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	lot := store.SeedLot(harina, "H-001", decimal.NewFromInt(100), locs.Reception.ID, nil)

	require.NoError(t, uc.DeleteLot(context.Background(), lot.ID))

	_, err := store.Lots.GetByID(lot.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	rows, err := store.LotLocs.ListByLot(lot.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
