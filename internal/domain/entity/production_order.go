package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de una orden de producción. closed es terminal:
// una orden cerrada no admite ninguna mutación posterior.
type OrderStatus string

const (
	OrderStatusDraft  OrderStatus = "draft"
	OrderStatusClosed OrderStatus = "closed"
)

// ProductionOrder orden de fabricación: consume lotes de materiales y crea
// lotes de producto acabado. Los campos de cabecera (BaseLotNumber,
// ProductionDate, ExpirationDate) los heredan todos los lotes acabados.
type ProductionOrder struct {
	ID              string
	OrderNumber     string // único
	BaseProductName string
	BaseLotNumber   string
	ProductionDate  time.Time
	ExpirationDate  *time.Time
	Status          OrderStatus
	Notes           string
	CreatedAt       time.Time
	ClosedAt        *time.Time

	FinishedProducts []*OrderFinishedProduct
	Materials        []*OrderMaterial
}

// OrderFinishedProduct línea de producto acabado de una orden. LotID se
// rellena al cerrar la orden con el lote creado. Legacy marca líneas
// normalizadas desde el formato antiguo de un solo producto por orden.
type OrderFinishedProduct struct {
	ID             string
	OrderID        string
	ProductID      string
	LotNumber      string
	TargetQuantity *decimal.Decimal
	ProducedQty    *decimal.Decimal
	Unit           string
	ExpirationDate *time.Time
	LotID          *string
	Legacy         bool
	CreatedAt      time.Time
}

// OrderMaterial línea de material consumido: guarda tanto la cantidad
// convertida a unidad de almacén como los valores tal y como se teclearon.
// RelatedFinishedProductID liga el material a una línea de acabado concreta;
// nil significa material común a toda la orden.
type OrderMaterial struct {
	ID                       string
	OrderID                  string
	LotID                    string
	QuantityConsumed         decimal.Decimal // en unidad de almacén del lote
	Unit                     string
	OriginalQuantity         *decimal.Decimal
	OriginalUnit             *string
	RelatedFinishedProductID *string
}

// MaterialFor indica si el material aplica a la línea de acabado dada:
// los comunes (sin enlace) aplican siempre; los enlazados solo a su línea.
func (m *OrderMaterial) MaterialFor(finishedProductLineID string) bool {
	if m.RelatedFinishedProductID == nil {
		return true
	}
	return *m.RelatedFinishedProductID == finishedProductLineID
}
