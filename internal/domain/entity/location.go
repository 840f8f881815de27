package entity

import "github.com/shopspring/decimal"

// Location representa una ubicación física de almacén. Exactamente una
// ubicación del sistema lleva IsAvailable=true: solo desde ella se puede
// consumir en producción o enviar a cliente.
type Location struct {
	ID          string
	Code        string // único (REC, LIB, FAB, DEV, NC...)
	Name        string
	IsAvailable bool
	Active      bool
}

// LotLocation stock de un lote en una ubicación concreta.
// Invariante del libro: para cada lote, la suma de sus LotLocation.Quantity
// es igual a Lot.CurrentQuantity tras completar cualquier operación.
type LotLocation struct {
	ID         string
	LotID      string
	LocationID string
	Quantity   decimal.Decimal // nunca negativa
}
