package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// ProductionOrderRepository define el puerto de persistencia para órdenes
// de producción y sus líneas. Las órdenes con el formato antiguo de un solo
// producto se normalizan al leerlas: aparecen como una línea de acabado con
// Legacy=true.
type ProductionOrderRepository interface {
	Create(order *entity.ProductionOrder) error
	GetByID(id string) (*entity.ProductionOrder, error)
	// GetForUpdate bloquea la cabecera de la orden (SELECT FOR UPDATE) para
	// que dos cierres concurrentes no puedan pasar ambos la validación.
	GetForUpdate(id string) (*entity.ProductionOrder, error)
	GetByOrderNumber(orderNumber string) (*entity.ProductionOrder, error)
	List(status entity.OrderStatus) ([]*entity.ProductionOrder, error)
	UpdateHeader(order *entity.ProductionOrder) error
	// SetClosed marca la orden como cerrada con su sello de tiempo.
	SetClosed(orderID string, closedAt time.Time) error

	AddMaterial(material *entity.OrderMaterial) error
	GetMaterial(orderID, materialID string) (*entity.OrderMaterial, error)
	DeleteMaterial(materialID string) error
	// ListMaterialsByLot todas las líneas de material que consumen un lote.
	ListMaterialsByLot(lotID string) ([]*entity.OrderMaterial, error)

	// SetFinishedProductResult fija el lote creado y la cantidad producida
	// de una línea de acabado al cerrar la orden.
	SetFinishedProductResult(lineID, lotID string, producedQty decimal.Decimal) error
	// FindFinishedProductByLotID línea de acabado con referencia directa al lote.
	FindFinishedProductByLotID(lotID string) (*entity.OrderFinishedProduct, error)
	// FindFinishedProductByProductAndNumber resolución por (producto, nº de
	// lote): determinista, devuelve la coincidencia más antigua.
	FindFinishedProductByProductAndNumber(productID, lotNumber string) (*entity.OrderFinishedProduct, error)

	// LastOrderNumberWithPrefix último número de orden con el prefijo dado
	// (para autonumeración YYYY-NNN). Vacío si no hay ninguno.
	LastOrderNumberWithPrefix(prefix string) (string, error)

	// Delete elimina la orden y, en cascada explícita, sus líneas.
	Delete(orderID string) error
}
