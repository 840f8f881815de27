package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/apptest"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/catalog"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

func buildProducts(t *testing.T) (*apptest.Store, *catalog.ProductUseCase) {
	t.Helper()
	store := apptest.NewStore()
	return store, catalog.NewProductUseCase(store.Products, store.Lots)
}

func TestCreateProduct_CodigoDuplicadoRechazado(t *testing.T) {
	_, uc := buildProducts(t)
	ctx := context.Background()

	input := catalog.CreateProductInput{
		Code: "MP-001", Name: "Harina", Category: entity.CategoryRawMaterial, StorageUnit: "kg",
	}
	_, err := uc.CreateProduct(ctx, input)
	require.NoError(t, err)

	_, err = uc.CreateProduct(ctx, input)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_UnidadDeConsumoPorDefecto(t *testing.T) {
	_, uc := buildProducts(t)

	product, err := uc.CreateProduct(context.Background(), catalog.CreateProductInput{
		Code: "MP-001", Name: "Harina", Category: entity.CategoryRawMaterial, StorageUnit: "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, "kg", product.ConsumptionUnit)
}

func TestCreateProduct_DensidadNoPositivaRechazada(t *testing.T) {
	_, uc := buildProducts(t)
	zero := decimal.Zero

	_, err := uc.CreateProduct(context.Background(), catalog.CreateProductInput{
		Code: "MP-002", Name: "Aceite", Category: entity.CategoryRawMaterial,
		StorageUnit: "l", ConsumptionUnit: "kg", Density: &zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListProducts_BusquedaSinAcentos(t *testing.T) {
	_, uc := buildProducts(t)
	ctx := context.Background()

	for _, p := range []catalog.CreateProductInput{
		{Code: "MP-001", Name: "Azúcar moreno", Category: entity.CategoryRawMaterial, StorageUnit: "kg"},
		{Code: "MP-002", Name: "Cacao", Category: entity.CategoryRawMaterial, StorageUnit: "kg"},
		{Code: "PT-001", Name: "Turrón clásico", Category: entity.CategoryFinishedProduct, StorageUnit: "ud"},
	} {
		_, err := uc.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	// «azucar» sin tilde encuentra «Azúcar»
	found, err := uc.ListProducts(ctx, repository.ProductFilter{}, "azucar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Azúcar moreno", found[0].Name)

	// y «turrón» con tilde encuentra aunque se busque «TURRON»
	found, err = uc.ListProducts(ctx, repository.ProductFilter{}, "TURRON")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "PT-001", found[0].Code)

	// también por código
	found, err = uc.ListProducts(ctx, repository.ProductFilter{}, "mp-002")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Cacao", found[0].Name)
}

func TestDeleteProduct_ConLotesSoloDesactiva(t *testing.T) {
	store, uc := buildProducts(t)
	ctx := context.Background()
	locs := store.SeedLocations()

	product, err := uc.CreateProduct(ctx, catalog.CreateProductInput{
		Code: "MP-001", Name: "Harina", Category: entity.CategoryRawMaterial, StorageUnit: "kg",
	})
	require.NoError(t, err)
	store.SeedLot(product, "H-001", decimal.NewFromInt(10), locs.Reception.ID, nil)

	require.NoError(t, uc.DeleteProduct(ctx, product.ID))

	kept, err := store.Products.GetByID(product.ID)
	require.NoError(t, err, "con historial el producto se conserva")
	assert.False(t, kept.Active)
}

func TestDeleteProduct_SinLotesBorra(t *testing.T) {
	store, uc := buildProducts(t)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, catalog.CreateProductInput{
		Code: "MP-001", Name: "Harina", Category: entity.CategoryRawMaterial, StorageUnit: "kg",
	})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteProduct(ctx, product.ID))

	_, err = store.Products.GetByID(product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateCustomer_AutonumeraCodigos(t *testing.T) {
	store := apptest.NewStore()
	uc := catalog.NewCustomerUseCase(store.Customers)
	ctx := context.Background()

	first, err := uc.CreateCustomer(ctx, catalog.CreateCustomerInput{Name: "Distribuciones Sur"})
	require.NoError(t, err)
	second, err := uc.CreateCustomer(ctx, catalog.CreateCustomerInput{Name: "Pastelería Núñez"})
	require.NoError(t, err)

	assert.Equal(t, "CLI-0001", first.Code)
	assert.Equal(t, "CLI-0002", second.Code)
}

func TestListCustomers_BusquedaSinAcentos(t *testing.T) {
	store := apptest.NewStore()
	uc := catalog.NewCustomerUseCase(store.Customers)
	ctx := context.Background()

	_, err := uc.CreateCustomer(ctx, catalog.CreateCustomerInput{Name: "Pastelería Núñez"})
	require.NoError(t, err)
	_, err = uc.CreateCustomer(ctx, catalog.CreateCustomerInput{Name: "Horno del Valle"})
	require.NoError(t, err)

	found, err := uc.ListCustomers(ctx, false, "nunez")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Pastelería Núñez", found[0].Name)
}
