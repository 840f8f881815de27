package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// UpdateLotInput campos editables de un lote. Las cantidades no están:
// solo cambian a través del libro de movimientos.
type UpdateLotInput struct {
	LotNumber         string
	ManufacturingDate time.Time
	ExpirationDate    *time.Time
}

// UpdateLot edita número y fechas de un lote.
func (uc *LedgerUseCase) UpdateLot(ctx context.Context, lotID string, input UpdateLotInput) (*entity.Lot, error) {
	if input.LotNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, err
	}
	if input.LotNumber != lot.LotNumber {
		existing, err := uc.lotRepo.GetByProductAndNumber(lot.ProductID, input.LotNumber)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != lot.ID {
			return nil, domain.ErrDuplicate
		}
	}
	lot.LotNumber = input.LotNumber
	lot.ManufacturingDate = input.ManufacturingDate
	lot.ExpirationDate = input.ExpirationDate
	if err := uc.lotRepo.Update(lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// DeleteLot elimina un lote que nunca ha sido referenciado por envíos,
// devoluciones ni órdenes de producción. Borra en cascada explícita su
// stock por ubicación y sus movimientos. Si hay referencias, ErrConflict:
// borrar rompería la trazabilidad.
func (uc *LedgerUseCase) DeleteLot(ctx context.Context, lotID string) error {
	if _, err := uc.lotRepo.GetByID(lotID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		shipped, err := r.Shipments.HasDetailsForLot(lotID)
		if err != nil {
			return err
		}
		if shipped {
			return domain.ErrConflict
		}
		returns, err := r.Returns.ListByLot(lotID)
		if err != nil {
			return err
		}
		if len(returns) > 0 {
			return domain.ErrConflict
		}
		materials, err := r.Orders.ListMaterialsByLot(lotID)
		if err != nil {
			return err
		}
		if len(materials) > 0 {
			return domain.ErrConflict
		}
		if _, err := r.Orders.FindFinishedProductByLotID(lotID); err == nil {
			return domain.ErrConflict
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := r.Movements.DeleteByLot(lotID); err != nil {
			return err
		}
		if err := r.LotLocations.DeleteByLot(lotID); err != nil {
			return err
		}
		return r.Lots.Delete(lotID)
	})
}
