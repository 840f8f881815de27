package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory clasifica el producto dentro de la planta.
type ProductCategory string

const (
	CategoryRawMaterial     ProductCategory = "raw_material"     // materia prima
	CategoryPackaging       ProductCategory = "packaging"        // envase
	CategoryFinishedProduct ProductCategory = "finished_product" // producto acabado
)

// Valid indica si la categoría es una de las tres conocidas.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryRawMaterial, CategoryPackaging, CategoryFinishedProduct:
		return true
	}
	return false
}

// IsMaterial indica si el producto puede consumirse en producción.
func (c ProductCategory) IsMaterial() bool {
	return c == CategoryRawMaterial || c == CategoryPackaging
}

// Product representa un producto del catálogo. La identidad (código) es
// inmutable; los atributos son editables. El stock vive en lotes, nunca aquí.
type Product struct {
	ID              string
	Code            string // único
	Name            string
	Category        ProductCategory
	Description     string
	MinStock        *decimal.Decimal // umbral de alerta, opcional
	StorageUnit     string           // unidad de almacén (ej. "l", "kg")
	ConsumptionUnit string           // unidad de receta (ej. "kg")
	Density         *decimal.Decimal // factor de conversión (ej. kg/l), opcional
	Active          bool
	CreatedAt       time.Time
}

// HasDensity indica si hay un factor de conversión utilizable.
func (p *Product) HasDensity() bool {
	return p.Density != nil && p.Density.GreaterThan(decimal.Zero)
}
