package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// LotFilter filtros de listado de lotes. El orden de salida es siempre
// FEFO: caducidad ascendente con nulos al final, creación ascendente.
type LotFilter struct {
	ProductID    string
	LotNumber    string // subcadena
	OnlyWithStock bool
}

// LotRepository define el puerto de persistencia para Lot.
// Las cantidades solo se tocan desde operaciones del libro (dentro de tx).
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Lot, error)
	GetByProductAndNumber(productID, lotNumber string) (*entity.Lot, error)
	ListFEFO(filter LotFilter) ([]*entity.Lot, error)
	// Update persiste número, fechas y flag de bloqueo. Nunca cantidades.
	Update(lot *entity.Lot) error
	// UpdateQuantity fija la cantidad total actual del lote.
	UpdateQuantity(lotID string, quantity decimal.Decimal) error
	// SumCurrentByProduct suma el stock vivo de un producto (para mínimos).
	SumCurrentByProduct(productID string) (decimal.Decimal, error)
	Delete(id string) error
}
