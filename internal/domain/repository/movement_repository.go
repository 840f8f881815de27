package repository

import "github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"

// MovementRepository define el puerto del libro de movimientos.
// Los movimientos son inmutables: solo alta, lectura y el borrado en
// cascada explícito al eliminar un lote nunca referenciado.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByLot(lotID string) ([]*entity.StockMovement, error)
	ListByLotAndType(lotID string, movementType entity.MovementType) ([]*entity.StockMovement, error)
	// FirstByLotAndType primer movimiento (más antiguo) del tipo dado.
	FirstByLotAndType(lotID string, movementType entity.MovementType) (*entity.StockMovement, error)
	DeleteByLot(lotID string) error
}
