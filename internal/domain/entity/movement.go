package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType causa de un movimiento de stock.
type MovementType string

const (
	MovementEntry      MovementType = "entry"      // recepción o alta manual
	MovementProduction MovementType = "production" // consumo/creación por orden
	MovementShipment   MovementType = "shipment"   // envío a cliente
	MovementAdjustment MovementType = "adjustment" // recuento / ajuste manual
	MovementReturn     MovementType = "return"     // devolución o retirada
	MovementTransfer   MovementType = "transfer"   // entre ubicaciones
)

// Tipos de documento que originan movimientos (ReferenceType).
const (
	RefProductionOrder = "production_order"
	RefShipment        = "shipment"
	RefReturn          = "return"
)

// StockMovement registro inmutable del libro de movimientos: cantidad con
// signo (positiva entra, negativa sale), causa y ubicaciones implicadas.
// Nunca se actualiza ni se borra una vez escrito.
type StockMovement struct {
	ID             string
	LotID          string
	Type           MovementType
	Quantity       decimal.Decimal
	MovementDate   time.Time
	FromLocationID *string
	ToLocationID   *string
	ReferenceID    *string // documento que lo origina
	ReferenceType  *string // production_order, shipment, return
	Notes          string
}
