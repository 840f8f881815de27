package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment envío de producto acabado a un cliente (albarán).
type Shipment struct {
	ID             string
	CustomerID     string
	ShipmentNumber string // único
	ShipmentDate   time.Time
	Notes          string
	CreatedAt      time.Time

	Details []*ShipmentDetail
}

// ShipmentDetail línea de envío: un lote y una cantidad.
// Único por (envío, lote).
type ShipmentDetail struct {
	ID         string
	ShipmentID string
	LotID      string
	Quantity   decimal.Decimal
	Unit       string
}
