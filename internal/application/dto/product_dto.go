package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// CreateProductRequest entrada para dar de alta un producto.
type CreateProductRequest struct {
	Code            string           `json:"code" validate:"required,min=1,max=50"`
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	Category        string           `json:"category" validate:"required"`
	Description     string           `json:"description"`
	MinStock        *decimal.Decimal `json:"min_stock"`
	StorageUnit     string           `json:"storage_unit" validate:"required"`
	ConsumptionUnit string           `json:"consumption_unit"`
	Density         *decimal.Decimal `json:"density"`
}

// UpdateProductRequest entrada para editar un producto. El código no se toca.
type UpdateProductRequest struct {
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	Description     string           `json:"description"`
	MinStock        *decimal.Decimal `json:"min_stock"`
	StorageUnit     string           `json:"storage_unit" validate:"required"`
	ConsumptionUnit string           `json:"consumption_unit"`
	Density         *decimal.Decimal `json:"density"`
	Active          bool             `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string           `json:"id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Description     string           `json:"description"`
	MinStock        *decimal.Decimal `json:"min_stock,omitempty"`
	StorageUnit     string           `json:"storage_unit"`
	ConsumptionUnit string           `json:"consumption_unit"`
	Density         *decimal.Decimal `json:"density,omitempty"`
	Active          bool             `json:"active"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Product convierte la entidad a su representación HTTP.
func Product(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Category:        string(p.Category),
		Description:     p.Description,
		MinStock:        p.MinStock,
		StorageUnit:     p.StorageUnit,
		ConsumptionUnit: p.ConsumptionUnit,
		Density:         p.Density,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
	}
}

// Products convierte una lista de productos.
func Products(items []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, Product(p))
	}
	return out
}
