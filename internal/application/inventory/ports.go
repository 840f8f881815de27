package inventory

import (
	"context"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Products     repository.ProductRepository
	Lots         repository.LotRepository
	LotLocations repository.LotLocationRepository
	Movements    repository.MovementRepository
	Orders       repository.ProductionOrderRepository
	Shipments    repository.ShipmentRepository
	Returns      repository.ReturnRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit si fn devuelve nil, Rollback si no.
// Garantiza atomicidad para el libro de movimientos.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
