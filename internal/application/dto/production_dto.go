package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// FinishedProductLineRequest línea de acabado al crear una orden. El
// número de lote y la caducidad son los de la cabecera.
type FinishedProductLineRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	TargetQuantity *decimal.Decimal `json:"target_quantity"`
	Unit           string           `json:"unit"`
}

// CreateOrderRequest body para crear una orden de producción.
type CreateOrderRequest struct {
	OrderNumber      string                       `json:"order_number"`
	BaseProductName  string                       `json:"base_product_name"`
	BaseLotNumber    string                       `json:"base_lot_number" validate:"required"`
	ProductionDate   time.Time                    `json:"production_date"`
	ExpirationDate   *time.Time                   `json:"expiration_date"`
	Notes            string                       `json:"notes"`
	FinishedProducts []FinishedProductLineRequest `json:"finished_products" validate:"required,min=1"`
}

// UpdateOrderRequest cabecera editable de una orden en borrador.
type UpdateOrderRequest struct {
	BaseProductName string     `json:"base_product_name"`
	BaseLotNumber   string     `json:"base_lot_number" validate:"required"`
	ProductionDate  time.Time  `json:"production_date"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	Notes           string     `json:"notes"`
}

// AddMaterialRequest body para escanear un material en una orden.
type AddMaterialRequest struct {
	LotID                    string          `json:"lot_id" validate:"required"`
	Quantity                 decimal.Decimal `json:"quantity"`
	Unit                     string          `json:"unit"`
	RelatedFinishedProductID *string         `json:"related_finished_product_id"`
}

// CloseLineRequest cantidad producida de una línea de acabado al cerrar.
type CloseLineRequest struct {
	FinishedProductID string          `json:"finished_product_id" validate:"required"`
	ProducedQuantity  decimal.Decimal `json:"produced_quantity"`
}

// CloseOrderRequest body para cerrar una orden.
type CloseOrderRequest struct {
	Results []CloseLineRequest `json:"results" validate:"required,min=1"`
}

// FinishedProductResponse línea de acabado de una orden.
type FinishedProductResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	LotNumber      string           `json:"lot_number"`
	TargetQuantity *decimal.Decimal `json:"target_quantity,omitempty"`
	ProducedQty    *decimal.Decimal `json:"produced_quantity,omitempty"`
	Unit           string           `json:"unit"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	LotID          *string          `json:"lot_id,omitempty"`
	Legacy         bool             `json:"legacy,omitempty"`
}

// MaterialResponse línea de material consumido.
type MaterialResponse struct {
	ID                       string           `json:"id"`
	LotID                    string           `json:"lot_id"`
	QuantityConsumed         decimal.Decimal  `json:"quantity_consumed"`
	Unit                     string           `json:"unit"`
	OriginalQuantity         *decimal.Decimal `json:"original_quantity,omitempty"`
	OriginalUnit             *string          `json:"original_unit,omitempty"`
	RelatedFinishedProductID *string          `json:"related_finished_product_id,omitempty"`
}

// OrderResponse orden de producción con sus líneas.
type OrderResponse struct {
	ID               string                    `json:"id"`
	OrderNumber      string                    `json:"order_number"`
	BaseProductName  string                    `json:"base_product_name"`
	BaseLotNumber    string                    `json:"base_lot_number"`
	ProductionDate   time.Time                 `json:"production_date"`
	ExpirationDate   *time.Time                `json:"expiration_date,omitempty"`
	Status           string                    `json:"status"`
	Notes            string                    `json:"notes,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	ClosedAt         *time.Time                `json:"closed_at,omitempty"`
	FinishedProducts []FinishedProductResponse `json:"finished_products"`
	Materials        []MaterialResponse        `json:"materials"`
}

// Order convierte una orden a su representación HTTP.
func Order(o *entity.ProductionOrder) OrderResponse {
	finished := make([]FinishedProductResponse, 0, len(o.FinishedProducts))
	for _, line := range o.FinishedProducts {
		finished = append(finished, FinishedProductResponse{
			ID:             line.ID,
			ProductID:      line.ProductID,
			LotNumber:      line.LotNumber,
			TargetQuantity: line.TargetQuantity,
			ProducedQty:    line.ProducedQty,
			Unit:           line.Unit,
			ExpirationDate: line.ExpirationDate,
			LotID:          line.LotID,
			Legacy:         line.Legacy,
		})
	}
	materials := make([]MaterialResponse, 0, len(o.Materials))
	for _, m := range o.Materials {
		materials = append(materials, Material(m))
	}
	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		BaseProductName:  o.BaseProductName,
		BaseLotNumber:    o.BaseLotNumber,
		ProductionDate:   o.ProductionDate,
		ExpirationDate:   o.ExpirationDate,
		Status:           string(o.Status),
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
		ClosedAt:         o.ClosedAt,
		FinishedProducts: finished,
		Materials:        materials,
	}
}

// Material convierte una línea de material.
func Material(m *entity.OrderMaterial) MaterialResponse {
	return MaterialResponse{
		ID:                       m.ID,
		LotID:                    m.LotID,
		QuantityConsumed:         m.QuantityConsumed,
		Unit:                     m.Unit,
		OriginalQuantity:         m.OriginalQuantity,
		OriginalUnit:             m.OriginalUnit,
		RelatedFinishedProductID: m.RelatedFinishedProductID,
	}
}

// Orders convierte una lista de órdenes.
func Orders(items []*entity.ProductionOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(items))
	for _, o := range items {
		out = append(out, Order(o))
	}
	return out
}
