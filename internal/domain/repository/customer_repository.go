package repository

import "github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCode(code string) (*entity.Customer, error)
	List(activeOnly bool) ([]*entity.Customer, error)
	// LastCodeWithPrefix último código con el prefijo dado (CLI-NNNN).
	LastCodeWithPrefix(prefix string) (string, error)
}
