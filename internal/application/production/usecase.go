package production

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	domInv "github.com/tu-usuario/trazabilidad-pro/internal/domain/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// OrderUseCase gestiona las órdenes de producción: alta con varias líneas
// de acabado, escaneo de materiales y cierre atómico que consume los
// materiales y crea los lotes de producto acabado.
type OrderUseCase struct {
	txRunner    inventory.TxRunner
	orderRepo   repository.ProductionOrderRepository
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
	lotLocRepo  repository.LotLocationRepository
	locs        *inventory.Locations
}

// NewOrderUseCase construye el caso de uso de producción.
func NewOrderUseCase(
	txRunner inventory.TxRunner,
	orderRepo repository.ProductionOrderRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	lotLocRepo repository.LotLocationRepository,
	locs *inventory.Locations,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		lotRepo:     lotRepo,
		lotLocRepo:  lotLocRepo,
		locs:        locs,
	}
}

// FinishedProductInput línea de producto acabado al crear la orden.
// Número de lote y caducidad son siempre los de la cabecera: toda la
// tirada comparte lote.
type FinishedProductInput struct {
	ProductID      string
	TargetQuantity *decimal.Decimal
	Unit           string
}

// CreateOrderInput entrada para crear una orden de producción.
type CreateOrderInput struct {
	OrderNumber      string // vacío = autonumerar YYYY-NNN
	BaseProductName  string
	BaseLotNumber    string
	ProductionDate   time.Time
	ExpirationDate   *time.Time
	Notes            string
	FinishedProducts []FinishedProductInput
}

// CreateOrder da de alta una orden en borrador con sus líneas de acabado.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*entity.ProductionOrder, error) {
	if input.BaseLotNumber == "" || len(input.FinishedProducts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(input.FinishedProducts))
	for _, fp := range input.FinishedProducts {
		// Todas las líneas comparten el lote de cabecera: un producto
		// repetido chocaría al cerrar.
		if seen[fp.ProductID] {
			return nil, domain.ErrDuplicate
		}
		seen[fp.ProductID] = true
		product, err := uc.productRepo.GetByID(fp.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Category != entity.CategoryFinishedProduct {
			return nil, domain.ErrInvalidInput
		}
	}

	orderNumber := input.OrderNumber
	if orderNumber == "" {
		var err error
		orderNumber, err = uc.nextOrderNumber(input.ProductionDate.Year())
		if err != nil {
			return nil, err
		}
	} else if _, err := uc.orderRepo.GetByOrderNumber(orderNumber); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	order := &entity.ProductionOrder{
		ID:              uuid.New().String(),
		OrderNumber:     orderNumber,
		BaseProductName: input.BaseProductName,
		BaseLotNumber:   input.BaseLotNumber,
		ProductionDate:  input.ProductionDate,
		ExpirationDate:  input.ExpirationDate,
		Status:          entity.OrderStatusDraft,
		Notes:           input.Notes,
		CreatedAt:       now,
	}
	for _, fp := range input.FinishedProducts {
		order.FinishedProducts = append(order.FinishedProducts, &entity.OrderFinishedProduct{
			ID:             uuid.New().String(),
			OrderID:        order.ID,
			ProductID:      fp.ProductID,
			LotNumber:      input.BaseLotNumber,
			TargetQuantity: fp.TargetQuantity,
			Unit:           fp.Unit,
			ExpirationDate: input.ExpirationDate,
			CreatedAt:      now,
		})
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// nextOrderNumber genera el siguiente número YYYY-NNN del año dado.
func (uc *OrderUseCase) nextOrderNumber(year int) (string, error) {
	prefix := fmt.Sprintf("%d-", year)
	last, err := uc.orderRepo.LastOrderNumberWithPrefix(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("número de orden no reconocible %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// AddMaterialInput entrada para escanear un material en una orden.
// La cantidad viene tal y como se tecleó, en cualquier unidad convertible
// del producto del lote.
type AddMaterialInput struct {
	LotID                    string
	Quantity                 decimal.Decimal
	Unit                     string
	RelatedFinishedProductID *string // nil = material común a toda la orden
}

// AddMaterial añade una línea de material en una orden en borrador. Cada
// lote se escanea una sola vez por línea de acabado; repetirlo es un
// conflicto. Comprueba que el lote esté disponible y que haya stock
// suficiente en la ubicación de liberado; la reserva real ocurre al cerrar.
func (uc *OrderUseCase) AddMaterial(ctx context.Context, orderID string, input AddMaterialInput) (*entity.OrderMaterial, error) {
	if input.LotID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusDraft {
		return nil, domain.ErrConflict
	}
	lot, err := uc.lotRepo.GetByID(input.LotID)
	if err != nil {
		return nil, err
	}
	if !lot.IsAvailable() {
		return nil, domain.ErrConflict
	}
	product, err := uc.productRepo.GetByID(lot.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Category.IsMaterial() {
		return nil, domain.ErrInvalidInput
	}
	if input.RelatedFinishedProductID != nil {
		if line := findFinishedLine(order, *input.RelatedFinishedProductID); line == nil {
			return nil, domain.ErrNotFound
		}
	}

	if findMaterialLine(order, input.LotID, input.RelatedFinishedProductID) != nil {
		return nil, domain.ErrConflict
	}

	converted := domInv.ToStorageUnit(product, input.Quantity, input.Unit)

	// Pendiente de cerrar, la comprobación de stock es orientativa.
	row, err := uc.lotLocRepo.Get(input.LotID, uc.locs.Released.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	available := decimal.Zero
	if row != nil {
		available = row.Quantity
	}
	if available.LessThan(converted) {
		return nil, domain.ErrInsufficientStock
	}

	material := &entity.OrderMaterial{
		ID:                       uuid.New().String(),
		OrderID:                  order.ID,
		LotID:                    input.LotID,
		QuantityConsumed:         converted,
		Unit:                     product.StorageUnit,
		RelatedFinishedProductID: input.RelatedFinishedProductID,
	}
	if !converted.Equal(input.Quantity) || !strings.EqualFold(strings.TrimSpace(input.Unit), product.StorageUnit) {
		qty := input.Quantity
		unit := input.Unit
		material.OriginalQuantity = &qty
		material.OriginalUnit = &unit
	}
	if err := uc.orderRepo.AddMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

// RemoveMaterial quita una línea de material de una orden en borrador.
func (uc *OrderUseCase) RemoveMaterial(ctx context.Context, orderID, materialID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderStatusDraft {
		return domain.ErrConflict
	}
	if _, err := uc.orderRepo.GetMaterial(orderID, materialID); err != nil {
		return err
	}
	return uc.orderRepo.DeleteMaterial(materialID)
}

// CloseLineResult cantidad realmente producida de una línea de acabado.
type CloseLineResult struct {
	FinishedProductID string
	ProducedQuantity  decimal.Decimal
}

// CloseOrder cierra la orden: valida todo primero y después aplica todo,
// en una sola transacción. Consume cada material de la ubicación de
// liberado, crea un lote por línea de acabado con producción positiva en
// la ubicación de producción y deja la orden cerrada. Los lotes creados
// heredan el número de lote, la fecha de producción y la caducidad de la
// cabecera. Las líneas con producción cero u omitidas no crean lote. Si
// cualquier comprobación falla no se mueve nada.
func (uc *OrderUseCase) CloseOrder(ctx context.Context, orderID string, results []CloseLineResult) (*entity.ProductionOrder, error) {
	if len(results) == 0 {
		return nil, domain.ErrInvalidInput
	}
	produced := make(map[string]decimal.Decimal, len(results))
	anyProduced := false
	for _, res := range results {
		if res.ProducedQuantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if res.ProducedQuantity.GreaterThan(decimal.Zero) {
			anyProduced = true
		}
		produced[res.FinishedProductID] = res.ProducedQuantity
	}
	if !anyProduced {
		return nil, domain.ErrInvalidInput
	}

	var closed *entity.ProductionOrder
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		// Bloquea la cabecera: dos cierres concurrentes no pasan ambos.
		order, err := r.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderStatusDraft {
			return domain.ErrConflict
		}
		if len(order.FinishedProducts) == 0 {
			return domain.ErrConflict
		}
		// Una orden sin materiales escaneados no puede cerrar: crearía
		// producto acabado sin origen trazable.
		if len(order.Materials) == 0 {
			return domain.ErrConflict
		}
		for lineID := range produced {
			if findFinishedLine(order, lineID) == nil {
				return domain.ErrInvalidInput
			}
		}

		// Fase de validación: todos los materiales disponibles y con stock.
		type lockedMaterial struct {
			material *entity.OrderMaterial
			lot      *entity.Lot
		}
		lockedMaterials := make([]lockedMaterial, 0, len(order.Materials))
		for _, material := range order.Materials {
			lot, err := r.Lots.GetForUpdate(material.LotID)
			if err != nil {
				return err
			}
			if !lot.IsAvailable() {
				return fmt.Errorf("lote %s no disponible: %w", lot.LotNumber, domain.ErrConflict)
			}
			row, err := r.LotLocations.GetForUpdate(material.LotID, uc.locs.Released.ID)
			if err != nil {
				return err
			}
			if row.Quantity.LessThan(material.QuantityConsumed) {
				return fmt.Errorf("lote %s: %w", lot.LotNumber, domain.ErrInsufficientStock)
			}
			lockedMaterials = append(lockedMaterials, lockedMaterial{material: material, lot: lot})
		}
		for _, line := range order.FinishedProducts {
			if !produced[line.ID].GreaterThan(decimal.Zero) {
				continue
			}
			existing, err := r.Lots.GetByProductAndNumber(line.ProductID, order.BaseLotNumber)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if existing != nil {
				return fmt.Errorf("lote %s ya existe: %w", order.BaseLotNumber, domain.ErrDuplicate)
			}
		}

		now := time.Now()
		refType := entity.RefProductionOrder

		// Fase de aplicación: consumir materiales.
		for _, lm := range lockedMaterials {
			if _, err := inventory.DebitInTx(r, lm.lot.ID, uc.locs.Released.ID, lm.material.QuantityConsumed); err != nil {
				return err
			}
			if err := r.Movements.Create(&entity.StockMovement{
				ID:             uuid.New().String(),
				LotID:          lm.lot.ID,
				Type:           entity.MovementProduction,
				Quantity:       lm.material.QuantityConsumed.Neg(),
				MovementDate:   now,
				FromLocationID: &uc.locs.Released.ID,
				ReferenceID:    &order.ID,
				ReferenceType:  &refType,
				Notes:          "consumo orden " + order.OrderNumber,
			}); err != nil {
				return err
			}
		}

		// Crear los lotes de acabado en la ubicación de producción.
		for _, line := range order.FinishedProducts {
			qty := produced[line.ID]
			if !qty.GreaterThan(decimal.Zero) {
				continue
			}
			product, err := r.Products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			lot := &entity.Lot{
				ID:                uuid.New().String(),
				ProductID:         line.ProductID,
				LotNumber:         order.BaseLotNumber,
				ManufacturingDate: order.ProductionDate,
				ExpirationDate:    order.ExpirationDate,
				InitialQuantity:   qty,
				CurrentQuantity:   qty,
				Unit:              product.StorageUnit,
				CreatedAt:         now,
			}
			if err := r.Lots.Create(lot); err != nil {
				return err
			}
			if err := r.LotLocations.Upsert(&entity.LotLocation{
				ID:         uuid.New().String(),
				LotID:      lot.ID,
				LocationID: uc.locs.Production.ID,
				Quantity:   qty,
			}); err != nil {
				return err
			}
			if err := r.Movements.Create(&entity.StockMovement{
				ID:            uuid.New().String(),
				LotID:         lot.ID,
				Type:          entity.MovementProduction,
				Quantity:      qty,
				MovementDate:  now,
				ToLocationID:  &uc.locs.Production.ID,
				ReferenceID:   &order.ID,
				ReferenceType: &refType,
				Notes:         "producción orden " + order.OrderNumber,
			}); err != nil {
				return err
			}
			if err := r.Orders.SetFinishedProductResult(line.ID, lot.ID, qty); err != nil {
				return err
			}
			line.LotID = &lot.ID
			line.ProducedQty = &qty
		}

		if err := r.Orders.SetClosed(order.ID, now); err != nil {
			return err
		}
		order.Status = entity.OrderStatusClosed
		order.ClosedAt = &now
		closed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// UpdateOrderInput campos de cabecera editables mientras la orden está
// en borrador.
type UpdateOrderInput struct {
	BaseProductName string
	BaseLotNumber   string
	ProductionDate  time.Time
	ExpirationDate  *time.Time
	Notes           string
}

// UpdateOrder edita la cabecera de una orden en borrador.
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, orderID string, input UpdateOrderInput) (*entity.ProductionOrder, error) {
	if input.BaseLotNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusDraft {
		return nil, domain.ErrConflict
	}
	order.BaseProductName = input.BaseProductName
	order.BaseLotNumber = input.BaseLotNumber
	order.ProductionDate = input.ProductionDate
	order.ExpirationDate = input.ExpirationDate
	order.Notes = input.Notes
	if err := uc.orderRepo.UpdateHeader(order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder elimina una orden en borrador con todas sus líneas.
// Las cerradas no se tocan: ya forman parte de la trazabilidad.
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderStatusDraft {
		return domain.ErrConflict
	}
	return uc.orderRepo.Delete(orderID)
}

// GetOrder devuelve una orden con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*entity.ProductionOrder, error) {
	return uc.orderRepo.GetByID(orderID)
}

// ListOrders lista órdenes, opcionalmente por estado (vacío = todas).
func (uc *OrderUseCase) ListOrders(ctx context.Context, status entity.OrderStatus) ([]*entity.ProductionOrder, error) {
	return uc.orderRepo.List(status)
}

func findFinishedLine(order *entity.ProductionOrder, lineID string) *entity.OrderFinishedProduct {
	for _, line := range order.FinishedProducts {
		if line.ID == lineID {
			return line
		}
	}
	return nil
}

func findMaterialLine(order *entity.ProductionOrder, lotID string, relatedLineID *string) *entity.OrderMaterial {
	for _, material := range order.Materials {
		if material.LotID != lotID {
			continue
		}
		if (material.RelatedFinishedProductID == nil) != (relatedLineID == nil) {
			continue
		}
		if relatedLineID != nil && *material.RelatedFinishedProductID != *relatedLineID {
			continue
		}
		return material
	}
	return nil
}
