package traceability

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// TraceUseCase reconstruye cadenas de trazabilidad a partir del libro de
// movimientos y de los documentos que lo originaron: hacia delante (de un
// lote de materia prima a los clientes que recibieron producto hecho con
// él) y hacia atrás (de un lote de acabado a los lotes de material que lo
// componen).
type TraceUseCase struct {
	productRepo  repository.ProductRepository
	lotRepo      repository.LotRepository
	movRepo      repository.MovementRepository
	orderRepo    repository.ProductionOrderRepository
	shipmentRepo repository.ShipmentRepository
	returnRepo   repository.ReturnRepository
	customerRepo repository.CustomerRepository
}

// NewTraceUseCase construye el caso de uso de trazabilidad.
func NewTraceUseCase(
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	orderRepo repository.ProductionOrderRepository,
	shipmentRepo repository.ShipmentRepository,
	returnRepo repository.ReturnRepository,
	customerRepo repository.CustomerRepository,
) *TraceUseCase {
	return &TraceUseCase{
		productRepo:  productRepo,
		lotRepo:      lotRepo,
		movRepo:      movRepo,
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		returnRepo:   returnRepo,
		customerRepo: customerRepo,
	}
}

// TracedShipment envío de un lote con el cliente que lo recibió.
type TracedShipment struct {
	Shipment *entity.Shipment
	Customer *entity.Customer
	Quantity decimal.Decimal
}

// TracedFinishedLot lote de acabado producido con un material, con la
// orden que lo creó y los envíos en los que salió.
type TracedFinishedLot struct {
	Lot       *entity.Lot
	Product   *entity.Product
	Order     *entity.ProductionOrder
	Consumed  decimal.Decimal // cantidad del material consumida en la orden
	Shipments []*TracedShipment
}

// ForwardTrace resultado de trazar un lote hacia delante.
type ForwardTrace struct {
	Lot          *entity.Lot
	Product      *entity.Product
	FinishedLots []*TracedFinishedLot
	// DirectShipments envíos en los que el propio lote salió a cliente.
	DirectShipments []*TracedShipment
	// Returns devoluciones en las que el lote volvió.
	Returns []*repository.LotReturn
	// Adjustments recuentos físicos que corrigieron el stock del lote.
	Adjustments []*entity.StockMovement
}

// TraceForward responde a «¿a dónde fue este lote?»: órdenes que lo
// consumieron, lotes de acabado resultantes y clientes que los recibieron,
// más los envíos directos del propio lote.
func (uc *TraceUseCase) TraceForward(ctx context.Context, lotID string) (*ForwardTrace, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(lot.ProductID)
	if err != nil {
		return nil, err
	}
	trace := &ForwardTrace{Lot: lot, Product: product}

	materials, err := uc.orderRepo.ListMaterialsByLot(lotID)
	if err != nil {
		return nil, err
	}
	for _, material := range materials {
		order, err := uc.orderRepo.GetByID(material.OrderID)
		if err != nil {
			return nil, err
		}
		if order.Status != entity.OrderStatusClosed {
			continue
		}
		for _, line := range order.FinishedProducts {
			if !material.MaterialFor(line.ID) {
				continue
			}
			finishedLot, err := uc.resolveFinishedLot(line)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, err
			}
			finishedProduct, err := uc.productRepo.GetByID(finishedLot.ProductID)
			if err != nil {
				return nil, err
			}
			shipments, err := uc.lotShipments(finishedLot.ID)
			if err != nil {
				return nil, err
			}
			trace.FinishedLots = append(trace.FinishedLots, &TracedFinishedLot{
				Lot:       finishedLot,
				Product:   finishedProduct,
				Order:     order,
				Consumed:  material.QuantityConsumed,
				Shipments: shipments,
			})
		}
	}

	if trace.DirectShipments, err = uc.lotShipments(lotID); err != nil {
		return nil, err
	}
	if trace.Returns, err = uc.returnRepo.ListByLot(lotID); err != nil {
		return nil, err
	}
	if trace.Adjustments, err = uc.movRepo.ListByLotAndType(lotID, entity.MovementAdjustment); err != nil {
		return nil, err
	}
	return trace, nil
}

// resolveFinishedLot localiza el lote creado por una línea de acabado.
// Primero la referencia directa guardada al cerrar; si falta (órdenes
// antiguas) resuelve por (producto, número de lote), que es determinista.
func (uc *TraceUseCase) resolveFinishedLot(line *entity.OrderFinishedProduct) (*entity.Lot, error) {
	if line.LotID != nil {
		return uc.lotRepo.GetByID(*line.LotID)
	}
	return uc.lotRepo.GetByProductAndNumber(line.ProductID, line.LotNumber)
}

func (uc *TraceUseCase) lotShipments(lotID string) ([]*TracedShipment, error) {
	rows, err := uc.shipmentRepo.ListByLot(lotID)
	if err != nil {
		return nil, err
	}
	out := make([]*TracedShipment, 0, len(rows))
	for _, row := range rows {
		out = append(out, &TracedShipment{
			Shipment: row.Shipment,
			Customer: row.Customer,
			Quantity: row.Detail.Quantity,
		})
	}
	return out, nil
}

// TracedMaterial lote de material consumido en la producción de un lote.
type TracedMaterial struct {
	Lot      *entity.Lot
	Product  *entity.Product
	Quantity decimal.Decimal
}

// ReverseTrace resultado de trazar un lote hacia atrás.
type ReverseTrace struct {
	Lot       *entity.Lot
	Product   *entity.Product
	Order     *entity.ProductionOrder // nil si el lote entró por recepción
	Materials []*TracedMaterial
}

// TraceReverse responde a «¿de qué está hecho este lote?»: la orden que lo
// produjo y los lotes de material consumidos que aplican a su línea. Un
// lote recibido de proveedor no tiene orden ni materiales.
func (uc *TraceUseCase) TraceReverse(ctx context.Context, lotID string) (*ReverseTrace, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(lot.ProductID)
	if err != nil {
		return nil, err
	}
	trace := &ReverseTrace{Lot: lot, Product: product}

	line, err := uc.resolveProducingLine(lot)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return trace, nil
		}
		return nil, err
	}
	order, err := uc.orderRepo.GetByID(line.OrderID)
	if err != nil {
		return nil, err
	}
	trace.Order = order

	for _, material := range order.Materials {
		if !material.MaterialFor(line.ID) {
			continue
		}
		materialLot, err := uc.lotRepo.GetByID(material.LotID)
		if err != nil {
			return nil, err
		}
		materialProduct, err := uc.productRepo.GetByID(materialLot.ProductID)
		if err != nil {
			return nil, err
		}
		trace.Materials = append(trace.Materials, &TracedMaterial{
			Lot:      materialLot,
			Product:  materialProduct,
			Quantity: material.QuantityConsumed,
		})
	}
	return trace, nil
}

// resolveProducingLine localiza la línea de acabado que creó un lote:
// referencia directa primero, después por (producto, número de lote).
func (uc *TraceUseCase) resolveProducingLine(lot *entity.Lot) (*entity.OrderFinishedProduct, error) {
	line, err := uc.orderRepo.FindFinishedProductByLotID(lot.ID)
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return uc.orderRepo.FindFinishedProductByProductAndNumber(lot.ProductID, lot.LotNumber)
}

// TraceByProductAndLot resuelve el lote por producto y número y lo traza
// en ambas direcciones.
func (uc *TraceUseCase) TraceByProductAndLot(ctx context.Context, productID, lotNumber string) (*ForwardTrace, *ReverseTrace, error) {
	lot, err := uc.lotRepo.GetByProductAndNumber(productID, lotNumber)
	if err != nil {
		return nil, nil, err
	}
	forward, err := uc.TraceForward(ctx, lot.ID)
	if err != nil {
		return nil, nil, err
	}
	reverse, err := uc.TraceReverse(ctx, lot.ID)
	if err != nil {
		return nil, nil, err
	}
	return forward, reverse, nil
}

// CustomerTrace historial de un cliente: sus envíos con los lotes
// recibidos y sus devoluciones.
type CustomerTrace struct {
	Customer  *entity.Customer
	Shipments []*entity.Shipment
	Returns   []*entity.Return
}

// TraceCustomer responde a «¿qué ha recibido este cliente?».
func (uc *TraceUseCase) TraceCustomer(ctx context.Context, customerID string) (*CustomerTrace, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	shipments, err := uc.shipmentRepo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	returns, err := uc.returnRepo.List(repository.ReturnFilter{CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	return &CustomerTrace{Customer: customer, Shipments: shipments, Returns: returns}, nil
}
