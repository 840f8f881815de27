package repository

import "github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"

// ProductFilter filtros de listado de productos. La búsqueda por texto se
// resuelve en la capa de aplicación, que normaliza acentos.
type ProductFilter struct {
	Category   entity.ProductCategory // vacío = todas
	ActiveOnly bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(filter ProductFilter) ([]*entity.Product, error)
	Delete(id string) error
}
