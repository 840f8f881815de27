package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// StockQueryUseCase lecturas del inventario: detalle de lote, stock por
// producto y por ubicación, lotes próximos a caducar. No muta nada.
type StockQueryUseCase struct {
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
	lotLocRepo  repository.LotLocationRepository
	movRepo     repository.MovementRepository
	locRepo     repository.LocationRepository
	locs        *Locations
}

// NewStockQueryUseCase construye el caso de uso de consultas.
func NewStockQueryUseCase(
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	lotLocRepo repository.LotLocationRepository,
	movRepo repository.MovementRepository,
	locRepo repository.LocationRepository,
	locs *Locations,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		productRepo: productRepo,
		lotRepo:     lotRepo,
		lotLocRepo:  lotLocRepo,
		movRepo:     movRepo,
		locRepo:     locRepo,
		locs:        locs,
	}
}

// LotDistribution cantidad de un lote en una ubicación concreta.
type LotDistribution struct {
	Location *entity.Location
	Quantity decimal.Decimal
}

// LotDetail lote con producto, reparto por ubicaciones e historial.
type LotDetail struct {
	Lot          *entity.Lot
	Product      *entity.Product
	Distribution []*LotDistribution
	Movements    []*entity.StockMovement
}

// GetLotDetail devuelve el lote con su reparto por ubicaciones (solo
// cantidades positivas) y su historial completo de movimientos.
func (uc *StockQueryUseCase) GetLotDetail(ctx context.Context, lotID string) (*LotDetail, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(lot.ProductID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.lotLocRepo.ListByLot(lotID)
	if err != nil {
		return nil, err
	}
	distribution := make([]*LotDistribution, 0, len(rows))
	for _, row := range rows {
		if !row.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		loc, err := uc.locRepo.GetByID(row.LocationID)
		if err != nil {
			return nil, err
		}
		distribution = append(distribution, &LotDistribution{Location: loc, Quantity: row.Quantity})
	}
	movements, err := uc.movRepo.ListByLot(lotID)
	if err != nil {
		return nil, err
	}
	return &LotDetail{Lot: lot, Product: product, Distribution: distribution, Movements: movements}, nil
}

// ListLots lista lotes en orden FEFO según el filtro dado.
func (uc *StockQueryUseCase) ListLots(ctx context.Context, filter repository.LotFilter) ([]*entity.Lot, error) {
	return uc.lotRepo.ListFEFO(filter)
}

// ListAvailableForConsumption lotes de un producto con stock en la
// ubicación de liberado, en orden FEFO, excluyendo bloqueados y caducados.
// Es la lista de la que producción y envíos pueden tirar.
func (uc *StockQueryUseCase) ListAvailableForConsumption(ctx context.Context, productID string) ([]*repository.LotAtLocation, error) {
	rows, err := uc.lotLocRepo.ListAvailableAt(uc.locs.Released.ID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]*repository.LotAtLocation, 0, len(rows))
	for _, row := range rows {
		if row.Lot.IsAvailable() {
			out = append(out, row)
		}
	}
	return out, nil
}

// ProductStock stock vivo de un producto con desglose por lote.
type ProductStock struct {
	Product       *entity.Product
	Total         decimal.Decimal
	BelowMinStock bool
	Lots          []*entity.Lot
}

// GetProductStock devuelve el total y los lotes con stock de un producto,
// marcando si el total ha caído por debajo del stock mínimo configurado.
func (uc *StockQueryUseCase) GetProductStock(ctx context.Context, productID string) (*ProductStock, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	lots, err := uc.lotRepo.ListFEFO(repository.LotFilter{ProductID: productID, OnlyWithStock: true})
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.CurrentQuantity)
	}
	below := product.MinStock != nil && total.LessThan(*product.MinStock)
	return &ProductStock{Product: product, Total: total, BelowMinStock: below, Lots: lots}, nil
}

// ListExpiringLots lotes con stock cuya caducidad cae dentro de los
// próximos days días (incluye ya caducados), en orden FEFO.
func (uc *StockQueryUseCase) ListExpiringLots(ctx context.Context, days int) ([]*entity.Lot, error) {
	lots, err := uc.lotRepo.ListFEFO(repository.LotFilter{OnlyWithStock: true})
	if err != nil {
		return nil, err
	}
	limit := time.Now().AddDate(0, 0, days)
	out := make([]*entity.Lot, 0)
	for _, lot := range lots {
		if lot.ExpirationDate != nil && !lot.ExpirationDate.After(limit) {
			out = append(out, lot)
		}
	}
	return out, nil
}

// ListStockAtLocation lotes con stock positivo en una ubicación, orden FEFO.
func (uc *StockQueryUseCase) ListStockAtLocation(ctx context.Context, locationID string) ([]*repository.LotAtLocation, error) {
	if _, err := uc.locRepo.GetByID(locationID); err != nil {
		return nil, err
	}
	return uc.lotLocRepo.ListAvailableAt(locationID, "")
}
