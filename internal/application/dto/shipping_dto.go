package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// ShipmentLineRequest línea de envío: un lote y la cantidad.
type ShipmentLineRequest struct {
	LotID    string          `json:"lot_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewCustomerRequest cliente dado de alta junto con el envío.
type NewCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateShipmentRequest body para registrar un envío. Lleva customer_id
// o new_customer, no hace falta ambos.
type CreateShipmentRequest struct {
	CustomerID     string                `json:"customer_id"`
	NewCustomer    *NewCustomerRequest   `json:"new_customer"`
	ShipmentNumber string                `json:"shipment_number" validate:"required"`
	ShipmentDate   time.Time             `json:"shipment_date"`
	Notes          string                `json:"notes"`
	Lines          []ShipmentLineRequest `json:"lines" validate:"required,min=1"`
}

// ShipmentDetailResponse línea de envío.
type ShipmentDetailResponse struct {
	ID       string          `json:"id"`
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// ShipmentResponse envío con sus líneas.
type ShipmentResponse struct {
	ID             string                   `json:"id"`
	CustomerID     string                   `json:"customer_id"`
	ShipmentNumber string                   `json:"shipment_number"`
	ShipmentDate   time.Time                `json:"shipment_date"`
	Notes          string                   `json:"notes,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	Details        []ShipmentDetailResponse `json:"details"`
}

// Shipment convierte un envío a su representación HTTP.
func Shipment(s *entity.Shipment) ShipmentResponse {
	details := make([]ShipmentDetailResponse, 0, len(s.Details))
	for _, d := range s.Details {
		details = append(details, ShipmentDetailResponse{
			ID: d.ID, LotID: d.LotID, Quantity: d.Quantity, Unit: d.Unit,
		})
	}
	return ShipmentResponse{
		ID:             s.ID,
		CustomerID:     s.CustomerID,
		ShipmentNumber: s.ShipmentNumber,
		ShipmentDate:   s.ShipmentDate,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
		Details:        details,
	}
}

// Shipments convierte una lista de envíos.
func Shipments(items []*entity.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, 0, len(items))
	for _, s := range items {
		out = append(out, Shipment(s))
	}
	return out
}

// ReturnLineRequest línea de devolución: un lote y la cantidad devuelta.
type ReturnLineRequest struct {
	LotID    string          `json:"lot_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateReturnRequest body para registrar una devolución o retirada.
// El cliente es opcional (una retirada interna no tiene cliente).
type CreateReturnRequest struct {
	CustomerID   *string             `json:"customer_id"`
	ReturnNumber string              `json:"return_number"`
	ReturnDate   time.Time           `json:"return_date"`
	Reason       string              `json:"reason" validate:"required"`
	Notes        string              `json:"notes"`
	Lines        []ReturnLineRequest `json:"lines" validate:"required,min=1"`
}

// ReturnDetailResponse línea de devolución.
type ReturnDetailResponse struct {
	ID       string          `json:"id"`
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// ReturnResponse devolución con sus líneas.
type ReturnResponse struct {
	ID           string                 `json:"id"`
	CustomerID   *string                `json:"customer_id,omitempty"`
	ReturnNumber string                 `json:"return_number"`
	ReturnDate   time.Time              `json:"return_date"`
	Reason       string                 `json:"reason"`
	Notes        string                 `json:"notes,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	Details      []ReturnDetailResponse `json:"details"`
}

// Return convierte una devolución a su representación HTTP.
func Return(ret *entity.Return) ReturnResponse {
	details := make([]ReturnDetailResponse, 0, len(ret.Details))
	for _, d := range ret.Details {
		details = append(details, ReturnDetailResponse{
			ID: d.ID, LotID: d.LotID, Quantity: d.Quantity, Unit: d.Unit,
		})
	}
	return ReturnResponse{
		ID:           ret.ID,
		CustomerID:   ret.CustomerID,
		ReturnNumber: ret.ReturnNumber,
		ReturnDate:   ret.ReturnDate,
		Reason:       ret.Reason,
		Notes:        ret.Notes,
		CreatedAt:    ret.CreatedAt,
		Details:      details,
	}
}

// Returns convierte una lista de devoluciones.
func Returns(items []*entity.Return) []ReturnResponse {
	out := make([]ReturnResponse, 0, len(items))
	for _, ret := range items {
		out = append(out, Return(ret))
	}
	return out
}
