package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	domInv "github.com/tu-usuario/trazabilidad-pro/internal/domain/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// LedgerUseCase opera el libro de movimientos: recepciones, traspasos,
// ajustes por recuento y bloqueo de lotes. Toda mutación de stock pasa por
// aquí o por las primitivas InTx, siempre dentro de una transacción con
// bloqueo de fila (SELECT FOR UPDATE).
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
	locRepo     repository.LocationRepository
	locs        *Locations
}

// NewLedgerUseCase construye el caso de uso del libro de movimientos.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	locRepo repository.LocationRepository,
	locs *Locations,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		lotRepo:     lotRepo,
		locRepo:     locRepo,
		locs:        locs,
	}
}

// Primitivas de stock dentro de una transacción. No escriben movimientos:
// el caller registra el suyo con su tipo y referencia. Orden de bloqueo
// fijo para evitar interbloqueos: primero el lote, después la fila de
// ubicación.

// DebitInTx descuenta qty de un lote en una ubicación y del total del lote.
func DebitInTx(r TxRepos, lotID, locationID string, qty decimal.Decimal) (*entity.Lot, error) {
	lot, err := r.Lots.GetForUpdate(lotID)
	if err != nil {
		return nil, err
	}
	row, err := r.LotLocations.GetForUpdate(lotID, locationID)
	if err != nil {
		return nil, err
	}
	if row.Quantity.LessThan(qty) {
		return nil, domain.ErrInsufficientStock
	}
	row.Quantity = row.Quantity.Sub(qty)
	if err := r.LotLocations.Upsert(row); err != nil {
		return nil, err
	}
	lot.CurrentQuantity = lot.CurrentQuantity.Sub(qty)
	if err := r.Lots.UpdateQuantity(lot.ID, lot.CurrentQuantity); err != nil {
		return nil, err
	}
	return lot, nil
}

// CreditInTx añade qty a un lote en una ubicación y al total del lote.
func CreditInTx(r TxRepos, lotID, locationID string, qty decimal.Decimal) (*entity.Lot, error) {
	lot, err := r.Lots.GetForUpdate(lotID)
	if err != nil {
		return nil, err
	}
	row, err := r.LotLocations.GetForUpdate(lotID, locationID)
	if err != nil {
		return nil, err
	}
	row.Quantity = row.Quantity.Add(qty)
	if err := r.LotLocations.Upsert(row); err != nil {
		return nil, err
	}
	lot.CurrentQuantity = lot.CurrentQuantity.Add(qty)
	if err := r.Lots.UpdateQuantity(lot.ID, lot.CurrentQuantity); err != nil {
		return nil, err
	}
	return lot, nil
}

// MoveInTx traslada qty entre dos ubicaciones del mismo lote.
// El total del lote no cambia.
func MoveInTx(r TxRepos, lotID, fromLocationID, toLocationID string, qty decimal.Decimal) error {
	if _, err := r.Lots.GetForUpdate(lotID); err != nil {
		return err
	}
	origin, err := r.LotLocations.GetForUpdate(lotID, fromLocationID)
	if err != nil {
		return err
	}
	if origin.Quantity.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	dest, err := r.LotLocations.GetForUpdate(lotID, toLocationID)
	if err != nil {
		return err
	}
	origin.Quantity = origin.Quantity.Sub(qty)
	dest.Quantity = dest.Quantity.Add(qty)
	if err := r.LotLocations.Upsert(origin); err != nil {
		return err
	}
	return r.LotLocations.Upsert(dest)
}

// ReceptionInput entrada para registrar una recepción de mercancía.
// La cantidad puede venir en cualquier unidad convertible: se almacena
// en la unidad de almacén del producto.
type ReceptionInput struct {
	ProductID         string
	LotNumber         string
	Quantity          decimal.Decimal
	Unit              string
	ManufacturingDate time.Time
	ExpirationDate    *time.Time
	LocationID        string // vacío = ubicación de recepción
	Notes             string
}

// RegisterReception crea el lote, su stock en la ubicación de entrada y el
// movimiento de tipo entry, todo en una transacción.
func (uc *LedgerUseCase) RegisterReception(ctx context.Context, input ReceptionInput) (*entity.Lot, error) {
	if input.ProductID == "" || input.LotNumber == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Category == entity.CategoryRawMaterial && input.ExpirationDate == nil {
		return nil, domain.ErrInvalidInput
	}

	locationID := input.LocationID
	if locationID == "" {
		locationID = uc.locs.Reception.ID
	}
	if _, err := uc.locRepo.GetByID(locationID); err != nil {
		return nil, err
	}

	qty := domInv.ToStorageUnit(product, input.Quantity, input.Unit)
	now := time.Now()
	lot := &entity.Lot{
		ID:                uuid.New().String(),
		ProductID:         product.ID,
		LotNumber:         input.LotNumber,
		ManufacturingDate: input.ManufacturingDate,
		ExpirationDate:    input.ExpirationDate,
		InitialQuantity:   qty,
		CurrentQuantity:   qty,
		Unit:              product.StorageUnit,
		CreatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := r.Lots.Create(lot); err != nil {
			return err
		}
		if err := r.LotLocations.Upsert(&entity.LotLocation{
			ID:         uuid.New().String(),
			LotID:      lot.ID,
			LocationID: locationID,
			Quantity:   qty,
		}); err != nil {
			return err
		}
		return r.Movements.Create(&entity.StockMovement{
			ID:           uuid.New().String(),
			LotID:        lot.ID,
			Type:         entity.MovementEntry,
			Quantity:     qty,
			MovementDate: now,
			ToLocationID: &locationID,
			Notes:        input.Notes,
		})
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// Transfer traslada cantidad de un lote entre dos ubicaciones y registra
// el movimiento de tipo transfer.
func (uc *LedgerUseCase) Transfer(ctx context.Context, lotID, fromLocationID, toLocationID string, qty decimal.Decimal, notes string) error {
	if lotID == "" || fromLocationID == "" || toLocationID == "" || fromLocationID == toLocationID {
		return domain.ErrInvalidInput
	}
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if _, err := uc.locRepo.GetByID(fromLocationID); err != nil {
		return err
	}
	if _, err := uc.locRepo.GetByID(toLocationID); err != nil {
		return err
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := MoveInTx(r, lotID, fromLocationID, toLocationID, qty); err != nil {
			return err
		}
		return r.Movements.Create(&entity.StockMovement{
			ID:             uuid.New().String(),
			LotID:          lotID,
			Type:           entity.MovementTransfer,
			Quantity:       qty,
			MovementDate:   now,
			FromLocationID: &fromLocationID,
			ToLocationID:   &toLocationID,
			Notes:          notes,
		})
	})
}

// Adjust registra el resultado de un recuento físico: fija la cantidad real
// del lote en una ubicación y aplica la diferencia también al total del
// lote, de modo que el invariante suma-de-ubicaciones = total se conserva.
// Si la cantidad contada coincide con la registrada no se escribe nada.
func (uc *LedgerUseCase) Adjust(ctx context.Context, lotID, locationID string, countedQty decimal.Decimal, notes string) error {
	if lotID == "" || locationID == "" || countedQty.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if _, err := uc.locRepo.GetByID(locationID); err != nil {
		return err
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		lot, err := r.Lots.GetForUpdate(lotID)
		if err != nil {
			return err
		}
		row, err := r.LotLocations.GetForUpdate(lotID, locationID)
		if err != nil {
			return err
		}
		diff := countedQty.Sub(row.Quantity)
		if diff.IsZero() {
			return nil
		}
		row.Quantity = countedQty
		if err := r.LotLocations.Upsert(row); err != nil {
			return err
		}
		newTotal := lot.CurrentQuantity.Add(diff)
		if newTotal.LessThan(decimal.Zero) {
			return domain.ErrConflict
		}
		if err := r.Lots.UpdateQuantity(lot.ID, newTotal); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:           uuid.New().String(),
			LotID:        lotID,
			Type:         entity.MovementAdjustment,
			Quantity:     diff,
			MovementDate: now,
			Notes:        notes,
		}
		if diff.GreaterThan(decimal.Zero) {
			mov.ToLocationID = &locationID
		} else {
			mov.FromLocationID = &locationID
		}
		return r.Movements.Create(mov)
	})
}

// BlockLot marca un lote como bloqueado: deja de ser consumible y enviable
// sin mover su stock.
func (uc *LedgerUseCase) BlockLot(ctx context.Context, lotID string) error {
	return uc.setBlocked(lotID, true)
}

// UnblockLot levanta el bloqueo de un lote.
func (uc *LedgerUseCase) UnblockLot(ctx context.Context, lotID string) error {
	return uc.setBlocked(lotID, false)
}

func (uc *LedgerUseCase) setBlocked(lotID string, blocked bool) error {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return err
	}
	if lot.Blocked == blocked {
		return nil
	}
	lot.Blocked = blocked
	return uc.lotRepo.Update(lot)
}
