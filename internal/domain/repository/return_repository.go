package repository

import (
	"time"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// ReturnFilter filtros de listado de devoluciones.
type ReturnFilter struct {
	CustomerID string
	Reason     string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// LotReturn línea de devolución con cabecera y cliente resueltos
// (agregado de lectura para trazabilidad).
type LotReturn struct {
	Detail   *entity.ReturnDetail
	Return   *entity.Return
	Customer *entity.Customer // nil en retiradas sin cliente
}

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ret *entity.Return) error
	GetByID(id string) (*entity.Return, error)
	GetByNumber(returnNumber string) (*entity.Return, error)
	List(filter ReturnFilter) ([]*entity.Return, error)
	ListByLot(lotID string) ([]*LotReturn, error)
	// LastNumberWithPrefix último número con el prefijo dado (DEV-YYYY-NNN).
	LastNumberWithPrefix(prefix string) (string, error)
}
