package shipping

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
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// ShippingUseCase gestiona envíos a cliente y devoluciones. Un envío saca
// stock de la ubicación de liberado; una devolución lo reingresa en la
// ubicación de devoluciones a la espera de revisión de calidad.
type ShippingUseCase struct {
	txRunner     inventory.TxRunner
	shipmentRepo repository.ShipmentRepository
	returnRepo   repository.ReturnRepository
	customerRepo repository.CustomerRepository
	lotRepo      repository.LotRepository
	locs         *inventory.Locations
}

// NewShippingUseCase construye el caso de uso de expediciones.
func NewShippingUseCase(
	txRunner inventory.TxRunner,
	shipmentRepo repository.ShipmentRepository,
	returnRepo repository.ReturnRepository,
	customerRepo repository.CustomerRepository,
	lotRepo repository.LotRepository,
	locs *inventory.Locations,
) *ShippingUseCase {
	return &ShippingUseCase{
		txRunner:     txRunner,
		shipmentRepo: shipmentRepo,
		returnRepo:   returnRepo,
		customerRepo: customerRepo,
		lotRepo:      lotRepo,
		locs:         locs,
	}
}

// ShipmentLineInput línea de envío: un lote y la cantidad a enviar.
type ShipmentLineInput struct {
	LotID    string
	Quantity decimal.Decimal
}

// NewCustomerInput cliente dado de alta sobre la marcha al registrar un
// envío, con código CLI-NNNN autonumerado.
type NewCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CreateShipmentInput entrada para registrar un envío. O bien CustomerID
// apunta a un cliente existente, o bien NewCustomer lo da de alta.
type CreateShipmentInput struct {
	CustomerID     string
	NewCustomer    *NewCustomerInput
	ShipmentNumber string
	ShipmentDate   time.Time
	Notes          string
	Lines          []ShipmentLineInput
}

// CreateShipment registra el envío y descuenta cada lote de la ubicación
// de liberado en una sola transacción. Solo sale producto acabado; lotes
// bloqueados, caducados o sin stock suficiente hacen fallar el envío
// entero.
func (uc *ShippingUseCase) CreateShipment(ctx context.Context, input CreateShipmentInput) (*entity.Shipment, error) {
	if (input.CustomerID == "" && input.NewCustomer == nil) || input.ShipmentNumber == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(input.Lines))
	for _, line := range input.Lines {
		if line.LotID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if seen[line.LotID] {
			return nil, domain.ErrDuplicate
		}
		seen[line.LotID] = true
	}
	customerID, err := uc.resolveCustomer(input)
	if err != nil {
		return nil, err
	}
	if _, err := uc.shipmentRepo.GetByNumber(input.ShipmentNumber); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	shipment := &entity.Shipment{
		ID:             uuid.New().String(),
		CustomerID:     customerID,
		ShipmentNumber: input.ShipmentNumber,
		ShipmentDate:   input.ShipmentDate,
		Notes:          input.Notes,
		CreatedAt:      now,
	}

	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		refType := entity.RefShipment
		for _, line := range input.Lines {
			lot, err := r.Lots.GetForUpdate(line.LotID)
			if err != nil {
				return err
			}
			product, err := r.Products.GetByID(lot.ProductID)
			if err != nil {
				return err
			}
			if product.Category != entity.CategoryFinishedProduct {
				return fmt.Errorf("lote %s no es producto acabado: %w", lot.LotNumber, domain.ErrInvalidInput)
			}
			if !lot.IsAvailable() {
				return fmt.Errorf("lote %s no disponible: %w", lot.LotNumber, domain.ErrConflict)
			}
			if _, err := inventory.DebitInTx(r, lot.ID, uc.locs.Released.ID, line.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return fmt.Errorf("lote %s: %w", lot.LotNumber, err)
				}
				return err
			}
			if err := r.Movements.Create(&entity.StockMovement{
				ID:             uuid.New().String(),
				LotID:          lot.ID,
				Type:           entity.MovementShipment,
				Quantity:       line.Quantity.Neg(),
				MovementDate:   input.ShipmentDate,
				FromLocationID: &uc.locs.Released.ID,
				ReferenceID:    &shipment.ID,
				ReferenceType:  &refType,
				Notes:          "envío " + shipment.ShipmentNumber,
			}); err != nil {
				return err
			}
			shipment.Details = append(shipment.Details, &entity.ShipmentDetail{
				ID:         uuid.New().String(),
				ShipmentID: shipment.ID,
				LotID:      lot.ID,
				Quantity:   line.Quantity,
				Unit:       lot.Unit,
			})
		}
		return r.Shipments.Create(shipment)
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

// resolveCustomer devuelve el id del cliente del envío, dándolo de alta
// si viene inline. Con ambos campos presentes manda el id existente.
func (uc *ShippingUseCase) resolveCustomer(input CreateShipmentInput) (string, error) {
	if input.CustomerID != "" {
		if _, err := uc.customerRepo.GetByID(input.CustomerID); err != nil {
			return "", err
		}
		return input.CustomerID, nil
	}
	if input.NewCustomer.Name == "" {
		return "", domain.ErrInvalidInput
	}
	code, err := uc.nextCustomerCode()
	if err != nil {
		return "", err
	}
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      input.NewCustomer.Name,
		Email:     input.NewCustomer.Email,
		Phone:     input.NewCustomer.Phone,
		Address:   input.NewCustomer.Address,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return "", err
	}
	return customer.ID, nil
}

// nextCustomerCode genera el siguiente código CLI-NNNN.
func (uc *ShippingUseCase) nextCustomerCode() (string, error) {
	const prefix = "CLI-"
	last, err := uc.customerRepo.LastCodeWithPrefix(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("código de cliente no reconocible %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// GetShipment devuelve un envío con sus líneas.
func (uc *ShippingUseCase) GetShipment(ctx context.Context, id string) (*entity.Shipment, error) {
	return uc.shipmentRepo.GetByID(id)
}

// ListShipments lista envíos según el filtro dado.
func (uc *ShippingUseCase) ListShipments(ctx context.Context, filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	return uc.shipmentRepo.List(filter)
}

// ReturnLineInput línea de devolución: un lote y la cantidad devuelta.
type ReturnLineInput struct {
	LotID    string
	Quantity decimal.Decimal
}

// CreateReturnInput entrada para registrar una devolución o retirada.
// CustomerID es opcional: una retirada interna no tiene cliente.
type CreateReturnInput struct {
	CustomerID   *string
	ReturnNumber string // vacío = autonumerar DEV-YYYY-NNN
	ReturnDate   time.Time
	Reason       string
	Notes        string
	Lines        []ReturnLineInput
}

// CreateReturn registra la devolución y reingresa cada lote en la
// ubicación de devoluciones, en una sola transacción. Solo vuelve
// producto acabado. Un lote bloqueado sí se acepta: la mercancía ya está
// en planta y tiene que quedar contabilizada en devoluciones hasta que
// calidad la reubique.
func (uc *ShippingUseCase) CreateReturn(ctx context.Context, input CreateReturnInput) (*entity.Return, error) {
	if len(input.Lines) == 0 || !entity.ValidReturnReason(input.Reason) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.LotID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	if input.CustomerID != nil {
		if _, err := uc.customerRepo.GetByID(*input.CustomerID); err != nil {
			return nil, err
		}
	}

	returnNumber := input.ReturnNumber
	if returnNumber == "" {
		var err error
		returnNumber, err = uc.nextReturnNumber(input.ReturnDate.Year())
		if err != nil {
			return nil, err
		}
	} else if _, err := uc.returnRepo.GetByNumber(returnNumber); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	ret := &entity.Return{
		ID:           uuid.New().String(),
		CustomerID:   input.CustomerID,
		ReturnNumber: returnNumber,
		ReturnDate:   input.ReturnDate,
		Reason:       input.Reason,
		Notes:        input.Notes,
		CreatedAt:    now,
	}

	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		refType := entity.RefReturn
		for _, line := range input.Lines {
			lot, err := r.Lots.GetForUpdate(line.LotID)
			if err != nil {
				return err
			}
			product, err := r.Products.GetByID(lot.ProductID)
			if err != nil {
				return err
			}
			if product.Category != entity.CategoryFinishedProduct {
				return fmt.Errorf("lote %s no es producto acabado: %w", lot.LotNumber, domain.ErrInvalidInput)
			}
			if _, err := inventory.CreditInTx(r, lot.ID, uc.locs.Returns.ID, line.Quantity); err != nil {
				return err
			}
			if err := r.Movements.Create(&entity.StockMovement{
				ID:            uuid.New().String(),
				LotID:         lot.ID,
				Type:          entity.MovementReturn,
				Quantity:      line.Quantity,
				MovementDate:  input.ReturnDate,
				ToLocationID:  &uc.locs.Returns.ID,
				ReferenceID:   &ret.ID,
				ReferenceType: &refType,
				Notes:         "devolución " + ret.ReturnNumber,
			}); err != nil {
				return err
			}
			ret.Details = append(ret.Details, &entity.ReturnDetail{
				ID:       uuid.New().String(),
				ReturnID: ret.ID,
				LotID:    lot.ID,
				Quantity: line.Quantity,
				Unit:     lot.Unit,
			})
		}
		return r.Returns.Create(ret)
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// nextReturnNumber genera el siguiente número DEV-YYYY-NNN del año dado.
func (uc *ShippingUseCase) nextReturnNumber(year int) (string, error) {
	prefix := fmt.Sprintf("DEV-%d-", year)
	last, err := uc.returnRepo.LastNumberWithPrefix(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("número de devolución no reconocible %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// GetReturn devuelve una devolución con sus líneas.
func (uc *ShippingUseCase) GetReturn(ctx context.Context, id string) (*entity.Return, error) {
	return uc.returnRepo.GetByID(id)
}

// ListReturns lista devoluciones según el filtro dado.
func (uc *ShippingUseCase) ListReturns(ctx context.Context, filter repository.ReturnFilter) ([]*entity.Return, error) {
	return uc.returnRepo.List(filter)
}
