package dto

import (
	"time"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// CreateCustomerRequest entrada para dar de alta un cliente.
// Code vacío = autonumerar CLI-NNNN.
type CreateCustomerRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Customer convierte la entidad a su representación HTTP.
func Customer(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

// Customers convierte una lista de clientes.
func Customers(items []*entity.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, Customer(c))
	}
	return out
}
