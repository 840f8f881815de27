package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// LotAtLocation lote con su cantidad en una ubicación concreta.
type LotAtLocation struct {
	Lot      *entity.Lot
	Quantity decimal.Decimal
}

// LotLocationRepository define el puerto para las filas de stock por
// (lote, ubicación). El chequeo de cantidad y su decremento deben
// serializarse con GetForUpdate dentro de la misma transacción.
type LotLocationRepository interface {
	Get(lotID, locationID string) (*entity.LotLocation, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); si no existe
	// devuelve una fila a cero sin persistir.
	GetForUpdate(lotID, locationID string) (*entity.LotLocation, error)
	Upsert(row *entity.LotLocation) error
	ListByLot(lotID string) ([]*entity.LotLocation, error)
	// ListAvailableAt lotes con stock positivo en una ubicación, orden FEFO.
	// productID vacío = todos los productos.
	ListAvailableAt(locationID, productID string) ([]*LotAtLocation, error)
	DeleteByLot(lotID string) error
}
