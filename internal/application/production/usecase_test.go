package production_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/apptest"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/production"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// planta arma un escenario con materia prima liberada y un producto
// acabado listos para fabricar.
type planta struct {
	store  *apptest.Store
	locs   *inventory.Locations
	uc     *production.OrderUseCase
	harina *entity.Product
	tarro  *entity.Product
	crema  *entity.Product
	lotH   *entity.Lot
	lotT   *entity.Lot
}

func nuevaPlanta(t *testing.T) *planta {
	t.Helper()
	store := apptest.NewStore()
	locs := store.SeedLocations()
	uc := production.NewOrderUseCase(store, store.Orders, store.Products, store.Lots, store.LotLocs, locs)

	p := &planta{store: store, locs: locs, uc: uc}
	p.harina = store.SeedProduct("MP-001", "Harina", entity.CategoryRawMaterial, "kg")
	p.tarro = store.SeedProduct("EN-001", "Tarro", entity.CategoryPackaging, "ud")
	p.crema = store.SeedProduct("PT-001", "Crema de avellana", entity.CategoryFinishedProduct, "ud")

	exp := time.Now().AddDate(0, 6, 0)
	p.lotH = store.SeedLot(p.harina, "H-001", decimal.NewFromInt(200), locs.Released.ID, &exp)
	p.lotT = store.SeedLot(p.tarro, "T-001", decimal.NewFromInt(1000), locs.Released.ID, nil)
	return p
}

func (p *planta) ordenBorrador(t *testing.T) *entity.ProductionOrder {
	t.Helper()
	order, err := p.uc.CreateOrder(context.Background(), production.CreateOrderInput{
		BaseProductName: "Crema de avellana",
		BaseLotNumber:   "CR-2026-001",
		ProductionDate:  time.Now(),
		FinishedProducts: []production.FinishedProductInput{
			{ProductID: p.crema.ID, Unit: "ud"},
		},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder_AutonumeraPorAnio(t *testing.T) {
	p := nuevaPlanta(t)
	year := time.Now().Year()

	first := p.ordenBorrador(t)
	second, err := p.uc.CreateOrder(context.Background(), production.CreateOrderInput{
		BaseLotNumber:  "CR-2026-002",
		ProductionDate: time.Now(),
		FinishedProducts: []production.FinishedProductInput{
			{ProductID: p.crema.ID, Unit: "ud"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, fmtOrderNumber(year, 1), first.OrderNumber)
	assert.Equal(t, fmtOrderNumber(year, 2), second.OrderNumber)
	assert.Equal(t, entity.OrderStatusDraft, first.Status)
	// la línea lleva el número de lote de la cabecera
	assert.Equal(t, "CR-2026-001", first.FinishedProducts[0].LotNumber)
}

func TestCreateOrder_ProductoRepetidoRechazado(t *testing.T) {
	p := nuevaPlanta(t)

	_, err := p.uc.CreateOrder(context.Background(), production.CreateOrderInput{
		BaseLotNumber:  "CR-2026-003",
		ProductionDate: time.Now(),
		FinishedProducts: []production.FinishedProductInput{
			{ProductID: p.crema.ID, Unit: "ud"},
			{ProductID: p.crema.ID, Unit: "ud"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func fmtOrderNumber(year, seq int) string {
	return fmt.Sprintf("%d-%03d", year, seq)
}

func TestCreateOrder_SoloProductoAcabado(t *testing.T) {
	p := nuevaPlanta(t)

	_, err := p.uc.CreateOrder(context.Background(), production.CreateOrderInput{
		BaseLotNumber:  "X-001",
		ProductionDate: time.Now(),
		FinishedProducts: []production.FinishedProductInput{
			{ProductID: p.harina.ID, Unit: "kg"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddMaterial_ConvierteAUnidadDeAlmacen(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)

	// pesada en g sobre un producto almacenado en kg
	material, err := p.uc.AddMaterial(context.Background(), order.ID, production.AddMaterialInput{
		LotID:    p.lotH.ID,
		Quantity: decimal.NewFromInt(2500),
		Unit:     "g",
	})
	require.NoError(t, err)
	assert.True(t, material.QuantityConsumed.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "kg", material.Unit)
	require.NotNil(t, material.OriginalQuantity)
	assert.True(t, material.OriginalQuantity.Equal(decimal.NewFromInt(2500)))
	require.NotNil(t, material.OriginalUnit)
	assert.Equal(t, "g", *material.OriginalUnit)
}

func TestAddMaterial_LoteRepetidoRechazado(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	ctx := context.Background()

	first, err := p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID:    p.lotH.ID,
		Quantity: decimal.NewFromInt(50),
		Unit:     "kg",
	})
	require.NoError(t, err)
	assert.True(t, first.QuantityConsumed.Equal(decimal.NewFromInt(50)))

	// volver a escanear el mismo lote para la misma línea es un conflicto
	_, err = p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID:    p.lotH.ID,
		Quantity: decimal.NewFromInt(2500),
		Unit:     "g",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// la línea original queda intacta
	refreshed, err := p.uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, refreshed.Materials, 1)
	assert.True(t, refreshed.Materials[0].QuantityConsumed.Equal(decimal.NewFromInt(50)))
	assert.Nil(t, refreshed.Materials[0].OriginalQuantity)

	// el mismo lote sí puede escanearse ligado a una línea concreta
	lineID := order.FinishedProducts[0].ID
	_, err = p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID:                    p.lotH.ID,
		Quantity:                 decimal.NewFromInt(10),
		Unit:                     "kg",
		RelatedFinishedProductID: &lineID,
	})
	assert.NoError(t, err)
}

func TestAddMaterial_SinStockLiberadoSuficiente(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)

	_, err := p.uc.AddMaterial(context.Background(), order.ID, production.AddMaterialInput{
		LotID:    p.lotH.ID,
		Quantity: decimal.NewFromInt(201),
		Unit:     "kg",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAddMaterial_LoteBloqueadoRechazado(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	p.lotH.Blocked = true

	_, err := p.uc.AddMaterial(context.Background(), order.ID, production.AddMaterialInput{
		LotID:    p.lotH.ID,
		Quantity: decimal.NewFromInt(10),
		Unit:     "kg",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAddMaterial_ProductoAcabadoComoMaterialRechazado(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	lotPT := p.store.SeedLot(p.crema, "CR-000", decimal.NewFromInt(10), p.locs.Released.ID, nil)

	_, err := p.uc.AddMaterial(context.Background(), order.ID, production.AddMaterialInput{
		LotID:    lotPT.ID,
		Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseOrder_ConsumeMaterialesYCreaLotes(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	ctx := context.Background()

	_, err := p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(50), Unit: "kg",
	})
	require.NoError(t, err)
	_, err = p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotT.ID, Quantity: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	closed, err := p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(295)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	// materiales descontados de liberado
	lotH, err := p.store.Lots.GetByID(p.lotH.ID)
	require.NoError(t, err)
	assert.True(t, lotH.CurrentQuantity.Equal(decimal.NewFromInt(150)))
	lotT, err := p.store.Lots.GetByID(p.lotT.ID)
	require.NoError(t, err)
	assert.True(t, lotT.CurrentQuantity.Equal(decimal.NewFromInt(700)))

	// lote de acabado creado en la ubicación de producción
	line := closed.FinishedProducts[0]
	require.NotNil(t, line.LotID)
	finished, err := p.store.Lots.GetByID(*line.LotID)
	require.NoError(t, err)
	assert.Equal(t, "CR-2026-001", finished.LotNumber)
	assert.True(t, finished.CurrentQuantity.Equal(decimal.NewFromInt(295)))
	row, err := p.store.LotLocs.Get(finished.ID, p.locs.Production.ID)
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(295)))

	// movimientos de producción con referencia a la orden
	movs, err := p.store.Movements.ListByLotAndType(finished.ID, entity.MovementProduction)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].ReferenceID)
	assert.Equal(t, order.ID, *movs[0].ReferenceID)
	require.NotNil(t, movs[0].ReferenceType)
	assert.Equal(t, entity.RefProductionOrder, *movs[0].ReferenceType)
}

func TestCloseOrder_TodoONada(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	ctx := context.Background()

	_, err := p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(50), Unit: "kg",
	})
	require.NoError(t, err)
	_, err = p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotT.ID, Quantity: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	// bloquean la harina tras escanearla: el cierre entero debe fallar
	p.lotH.Blocked = true

	_, err = p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(295)},
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	// nada se movió: ni el tarro ni la harina
	lotT, err := p.store.Lots.GetByID(p.lotT.ID)
	require.NoError(t, err)
	assert.True(t, lotT.CurrentQuantity.Equal(decimal.NewFromInt(1000)))
	refreshed, err := p.uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDraft, refreshed.Status)
}

func TestCloseOrder_DosVecesRechazado(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	ctx := context.Background()

	_, err := p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(10), Unit: "kg",
	})
	require.NoError(t, err)

	results := []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(100)},
	}
	_, err = p.uc.CloseOrder(ctx, order.ID, results)
	require.NoError(t, err)

	_, err = p.uc.CloseOrder(ctx, order.ID, results)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCloseOrder_SinMaterialesRechazado(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	ctx := context.Background()

	// sin ningún material escaneado el cierre crearía acabado sin origen
	_, err := p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(100)},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	refreshed, err := p.uc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDraft, refreshed.Status)
	lots, err := p.store.Lots.ListFEFO(repository.LotFilter{ProductID: p.crema.ID})
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestCloseOrder_ProduccionParcial(t *testing.T) {
	p := nuevaPlanta(t)
	ctx := context.Background()
	tarta := p.store.SeedProduct("PT-002", "Tarta de avellana", entity.CategoryFinishedProduct, "ud")

	order, err := p.uc.CreateOrder(ctx, production.CreateOrderInput{
		BaseLotNumber:  "CR-2026-009",
		ProductionDate: time.Now(),
		FinishedProducts: []production.FinishedProductInput{
			{ProductID: p.crema.ID, Unit: "ud"},
			{ProductID: tarta.ID, Unit: "ud"},
		},
	})
	require.NoError(t, err)
	_, err = p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(40), Unit: "kg",
	})
	require.NoError(t, err)

	// la segunda línea no llegó a fabricarse: se omite del cierre
	closed, err := p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(120)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusClosed, closed.Status)
	require.NotNil(t, closed.FinishedProducts[0].LotID)
	assert.Nil(t, closed.FinishedProducts[1].LotID)

	lots, err := p.store.Lots.ListFEFO(repository.LotFilter{ProductID: tarta.ID})
	require.NoError(t, err)
	assert.Empty(t, lots, "la línea sin producción no crea lote")
}

func TestCloseOrder_SinProduccionAlgunaRechazado(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	ctx := context.Background()

	_, err := p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(10), Unit: "kg",
	})
	require.NoError(t, err)

	_, err = p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.Zero},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(-5)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseOrder_LineaDesconocidaRechazada(t *testing.T) {
	p := nuevaPlanta(t)
	order := p.ordenBorrador(t)
	ctx := context.Background()

	_, err := p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(10), Unit: "kg",
	})
	require.NoError(t, err)

	_, err = p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: "no-existe", ProducedQuantity: decimal.NewFromInt(10)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseOrder_LotesHeredanCabecera(t *testing.T) {
	p := nuevaPlanta(t)
	ctx := context.Background()
	tarta := p.store.SeedProduct("PT-002", "Tarta de avellana", entity.CategoryFinishedProduct, "ud")
	exp := time.Now().AddDate(0, 3, 0)

	order, err := p.uc.CreateOrder(ctx, production.CreateOrderInput{
		BaseLotNumber:  "CR-2026-010",
		ProductionDate: time.Now(),
		ExpirationDate: &exp,
		FinishedProducts: []production.FinishedProductInput{
			{ProductID: p.crema.ID, Unit: "ud"},
			{ProductID: tarta.ID, Unit: "ud"},
		},
	})
	require.NoError(t, err)
	_, err = p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(30), Unit: "kg",
	})
	require.NoError(t, err)

	closed, err := p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(100)},
		{FinishedProductID: order.FinishedProducts[1].ID, ProducedQuantity: decimal.NewFromInt(40)},
	})
	require.NoError(t, err)

	// toda la tirada comparte el lote y la caducidad de la cabecera
	for _, line := range closed.FinishedProducts {
		require.NotNil(t, line.LotID)
		lot, err := p.store.Lots.GetByID(*line.LotID)
		require.NoError(t, err)
		assert.Equal(t, "CR-2026-010", lot.LotNumber)
		require.NotNil(t, lot.ExpirationDate)
		assert.True(t, lot.ExpirationDate.Equal(exp))
	}
}

func TestDeleteOrder_SoloBorradores(t *testing.T) {
	p := nuevaPlanta(t)
	ctx := context.Background()
	order := p.ordenBorrador(t)

	_, err := p.uc.AddMaterial(ctx, order.ID, production.AddMaterialInput{
		LotID: p.lotH.ID, Quantity: decimal.NewFromInt(10), Unit: "kg",
	})
	require.NoError(t, err)
	_, err = p.uc.CloseOrder(ctx, order.ID, []production.CloseLineResult{
		{FinishedProductID: order.FinishedProducts[0].ID, ProducedQuantity: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)

	err = p.uc.DeleteOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	draft := p.ordenBorrador(t)
	require.NoError(t, p.uc.DeleteOrder(ctx, draft.ID))
	_, err = p.uc.GetOrder(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
