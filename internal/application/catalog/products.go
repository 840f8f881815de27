package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// ProductUseCase gestiona el catálogo de productos.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(productRepo repository.ProductRepository, lotRepo repository.LotRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, lotRepo: lotRepo}
}

// CreateProductInput entrada para dar de alta un producto.
type CreateProductInput struct {
	Code            string
	Name            string
	Category        entity.ProductCategory
	Description     string
	MinStock        *decimal.Decimal
	StorageUnit     string
	ConsumptionUnit string
	Density         *decimal.Decimal
}

// CreateProduct da de alta un producto con código único.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if input.Code == "" || input.Name == "" || !input.Category.Valid() || input.StorageUnit == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Density != nil && !input.Density.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.productRepo.GetByCode(input.Code); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	consumptionUnit := input.ConsumptionUnit
	if consumptionUnit == "" {
		consumptionUnit = input.StorageUnit
	}
	product := &entity.Product{
		ID:              uuid.New().String(),
		Code:            input.Code,
		Name:            input.Name,
		Category:        input.Category,
		Description:     input.Description,
		MinStock:        input.MinStock,
		StorageUnit:     input.StorageUnit,
		ConsumptionUnit: consumptionUnit,
		Density:         input.Density,
		Active:          true,
		CreatedAt:       time.Now(),
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput campos editables de un producto. El código es
// identidad y no se toca.
type UpdateProductInput struct {
	Name            string
	Description     string
	MinStock        *decimal.Decimal
	StorageUnit     string
	ConsumptionUnit string
	Density         *decimal.Decimal
	Active          bool
}

// UpdateProduct edita los atributos de un producto.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*entity.Product, error) {
	if input.Name == "" || input.StorageUnit == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Density != nil && !input.Density.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Description = input.Description
	product.MinStock = input.MinStock
	product.StorageUnit = input.StorageUnit
	product.ConsumptionUnit = input.ConsumptionUnit
	if product.ConsumptionUnit == "" {
		product.ConsumptionUnit = input.StorageUnit
	}
	product.Density = input.Density
	product.Active = input.Active
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct devuelve un producto por id.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(id)
}

// ListProducts lista productos con búsqueda opcional por código o nombre,
// sin distinguir mayúsculas ni acentos («azucar» encuentra «Azúcar»).
func (uc *ProductUseCase) ListProducts(ctx context.Context, filter repository.ProductFilter, search string) ([]*entity.Product, error) {
	products, err := uc.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	folded := foldAccents(search)
	if folded == "" {
		return products, nil
	}
	out := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if matchesSearch(folded, p.Code, p.Name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// DeleteProduct elimina un producto sin lotes; con historial, lo desactiva
// para conservar la trazabilidad.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	lots, err := uc.lotRepo.ListFEFO(repository.LotFilter{ProductID: id})
	if err != nil {
		return err
	}
	if len(lots) > 0 {
		product.Active = false
		return uc.productRepo.Update(product)
	}
	return uc.productRepo.Delete(id)
}
