package repository

import (
	"time"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// ShipmentFilter filtros de listado de envíos.
type ShipmentFilter struct {
	CustomerID string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// LotShipment línea de envío con su cabecera y cliente resueltos
// (agregado de lectura para trazabilidad).
type LotShipment struct {
	Detail   *entity.ShipmentDetail
	Shipment *entity.Shipment
	Customer *entity.Customer
}

// ShipmentRepository define el puerto de persistencia para envíos.
type ShipmentRepository interface {
	// Create persiste cabecera y detalles juntos.
	Create(shipment *entity.Shipment) error
	GetByID(id string) (*entity.Shipment, error)
	GetByNumber(shipmentNumber string) (*entity.Shipment, error)
	List(filter ShipmentFilter) ([]*entity.Shipment, error)
	// ListByLot envíos que contienen un lote, con cliente resuelto.
	ListByLot(lotID string) ([]*LotShipment, error)
	// ListByCustomer envíos de un cliente, más recientes primero.
	ListByCustomer(customerID string) ([]*entity.Shipment, error)
	// HasDetailsForLot indica si el lote aparece en algún envío.
	HasDetailsForLot(lotID string) (bool, error)
}
