// Package apptest contiene dobles en memoria de los puertos de
// persistencia para probar los casos de uso sin base de datos.
package apptest

import (
	"context"
	"sort"
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

// Store agrupa todos los repositorios en memoria. Implementa TxRunner
// ejecutando la función directamente: los tests de atomicidad real
// pertenecen a la capa de infraestructura.
type Store struct {
	Products  *ProductRepo
	Lots      *LotRepo
	LotLocs   *LotLocationRepo
	Movements *MovementRepo
	Locations *LocationRepo
	Orders    *OrderRepo
	Shipments *ShipmentRepo
	Returns   *ReturnRepo
	Customers *CustomerRepo
	Alerts    *AlertRepo
}

// NewStore crea un almacén en memoria vacío.
func NewStore() *Store {
	s := &Store{}
	s.Products = &ProductRepo{byID: map[string]*entity.Product{}}
	s.Lots = &LotRepo{byID: map[string]*entity.Lot{}}
	s.LotLocs = &LotLocationRepo{rows: map[string]*entity.LotLocation{}, lots: s.Lots}
	s.Movements = &MovementRepo{}
	s.Locations = &LocationRepo{byID: map[string]*entity.Location{}}
	s.Orders = &OrderRepo{byID: map[string]*entity.ProductionOrder{}}
	s.Shipments = &ShipmentRepo{byID: map[string]*entity.Shipment{}, customers: func(id string) *entity.Customer {
		c, _ := s.Customers.GetByID(id)
		return c
	}}
	s.Returns = &ReturnRepo{byID: map[string]*entity.Return{}, customers: func(id string) *entity.Customer {
		c, _ := s.Customers.GetByID(id)
		return c
	}}
	s.Customers = &CustomerRepo{byID: map[string]*entity.Customer{}}
	s.Alerts = &AlertRepo{byID: map[string]*entity.Alert{}}
	return s
}

// Run implementa inventory.TxRunner sin transacción real.
func (s *Store) Run(_ context.Context, fn func(r inventory.TxRepos) error) error {
	return fn(inventory.TxRepos{
		Products:     s.Products,
		Lots:         s.Lots,
		LotLocations: s.LotLocs,
		Movements:    s.Movements,
		Orders:       s.Orders,
		Shipments:    s.Shipments,
		Returns:      s.Returns,
	})
}

// SeedLocations crea las cinco ubicaciones por defecto y devuelve el
// conjunto resuelto, con LIB como única disponible.
func (s *Store) SeedLocations() *inventory.Locations {
	defaults := []struct {
		code, name string
		available  bool
	}{
		{"REC", "Recepción", false},
		{"LIB", "Liberado", true},
		{"FAB", "Producción", false},
		{"DEV", "Devoluciones", false},
		{"NC", "No conforme", false},
	}
	for _, d := range defaults {
		_ = s.Locations.Create(&entity.Location{
			ID:          uuid.New().String(),
			Code:        d.code,
			Name:        d.name,
			IsAvailable: d.available,
			Active:      true,
		})
	}
	locs, err := inventory.ResolveLocations(s.Locations, inventory.LocationCodes{
		Reception:     "REC",
		Released:      "LIB",
		Production:    "FAB",
		Returns:       "DEV",
		NonConforming: "NC",
	})
	if err != nil {
		panic(err)
	}
	return locs
}

// SeedProduct crea un producto mínimo de la categoría dada.
func (s *Store) SeedProduct(code, name string, category entity.ProductCategory, storageUnit string) *entity.Product {
	p := &entity.Product{
		ID:              uuid.New().String(),
		Code:            code,
		Name:            name,
		Category:        category,
		StorageUnit:     storageUnit,
		ConsumptionUnit: storageUnit,
		Active:          true,
		CreatedAt:       time.Now(),
	}
	if err := s.Products.Create(p); err != nil {
		panic(err)
	}
	return p
}

// SeedLot crea un lote con todo su stock en una ubicación.
func (s *Store) SeedLot(product *entity.Product, lotNumber string, qty decimal.Decimal, locationID string, expiration *time.Time) *entity.Lot {
	lot := &entity.Lot{
		ID:                uuid.New().String(),
		ProductID:         product.ID,
		LotNumber:         lotNumber,
		ManufacturingDate: time.Now().AddDate(0, 0, -1),
		ExpirationDate:    expiration,
		InitialQuantity:   qty,
		CurrentQuantity:   qty,
		Unit:              product.StorageUnit,
		CreatedAt:         time.Now(),
	}
	if err := s.Lots.Create(lot); err != nil {
		panic(err)
	}
	if err := s.LotLocs.Upsert(&entity.LotLocation{
		ID:         uuid.New().String(),
		LotID:      lot.ID,
		LocationID: locationID,
		Quantity:   qty,
	}); err != nil {
		panic(err)
	}
	return lot
}

// ProductRepo doble en memoria de repository.ProductRepository.
type ProductRepo struct {
	byID map[string]*entity.Product
}

func (r *ProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.byID {
		if existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.byID[p.ID] = p
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepo) Update(p *entity.Product) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.byID))
	for _, p := range r.byID {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *ProductRepo) Delete(id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// LotRepo doble en memoria de repository.LotRepository.
type LotRepo struct {
	byID map[string]*entity.Lot
}

func (r *LotRepo) Create(lot *entity.Lot) error {
	for _, existing := range r.byID {
		if existing.ProductID == lot.ProductID && existing.LotNumber == lot.LotNumber {
			return domain.ErrDuplicate
		}
	}
	r.byID[lot.ID] = lot
	return nil
}

func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	lot, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	return r.GetByID(id)
}

func (r *LotRepo) GetByProductAndNumber(productID, lotNumber string) (*entity.Lot, error) {
	var found *entity.Lot
	for _, lot := range r.byID {
		if lot.ProductID != productID || lot.LotNumber != lotNumber {
			continue
		}
		if found == nil || lot.CreatedAt.Before(found.CreatedAt) {
			found = lot
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *LotRepo) ListFEFO(filter repository.LotFilter) ([]*entity.Lot, error) {
	out := make([]*entity.Lot, 0, len(r.byID))
	for _, lot := range r.byID {
		if filter.ProductID != "" && lot.ProductID != filter.ProductID {
			continue
		}
		if filter.LotNumber != "" && !strings.Contains(lot.LotNumber, filter.LotNumber) {
			continue
		}
		if filter.OnlyWithStock && !lot.CurrentQuantity.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, lot)
	}
	domInv.SortFEFO(out)
	return out, nil
}

func (r *LotRepo) Update(lot *entity.Lot) error {
	if _, ok := r.byID[lot.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[lot.ID] = lot
	return nil
}

func (r *LotRepo) UpdateQuantity(lotID string, quantity decimal.Decimal) error {
	lot, ok := r.byID[lotID]
	if !ok {
		return domain.ErrNotFound
	}
	lot.CurrentQuantity = quantity
	return nil
}

func (r *LotRepo) SumCurrentByProduct(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, lot := range r.byID {
		if lot.ProductID == productID && lot.CurrentQuantity.GreaterThan(decimal.Zero) {
			total = total.Add(lot.CurrentQuantity)
		}
	}
	return total, nil
}

func (r *LotRepo) Delete(id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// LotLocationRepo doble en memoria de repository.LotLocationRepository.
type LotLocationRepo struct {
	rows map[string]*entity.LotLocation // clave lotID+"/"+locationID
	lots *LotRepo
}

func lotLocKey(lotID, locationID string) string { return lotID + "/" + locationID }

func (r *LotLocationRepo) Get(lotID, locationID string) (*entity.LotLocation, error) {
	row, ok := r.rows[lotLocKey(lotID, locationID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

func (r *LotLocationRepo) GetForUpdate(lotID, locationID string) (*entity.LotLocation, error) {
	if row, ok := r.rows[lotLocKey(lotID, locationID)]; ok {
		return row, nil
	}
	return &entity.LotLocation{LotID: lotID, LocationID: locationID, Quantity: decimal.Zero}, nil
}

func (r *LotLocationRepo) Upsert(row *entity.LotLocation) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	r.rows[lotLocKey(row.LotID, row.LocationID)] = row
	return nil
}

func (r *LotLocationRepo) ListByLot(lotID string) ([]*entity.LotLocation, error) {
	out := make([]*entity.LotLocation, 0)
	for _, row := range r.rows {
		if row.LotID == lotID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r *LotLocationRepo) ListAvailableAt(locationID, productID string) ([]*repository.LotAtLocation, error) {
	lots := make([]*entity.Lot, 0)
	qtyByLot := make(map[string]decimal.Decimal)
	for _, row := range r.rows {
		if row.LocationID != locationID || !row.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		lot, ok := r.lots.byID[row.LotID]
		if !ok {
			continue
		}
		if productID != "" && lot.ProductID != productID {
			continue
		}
		lots = append(lots, lot)
		qtyByLot[lot.ID] = row.Quantity
	}
	domInv.SortFEFO(lots)
	out := make([]*repository.LotAtLocation, 0, len(lots))
	for _, lot := range lots {
		out = append(out, &repository.LotAtLocation{Lot: lot, Quantity: qtyByLot[lot.ID]})
	}
	return out, nil
}

func (r *LotLocationRepo) DeleteByLot(lotID string) error {
	for key, row := range r.rows {
		if row.LotID == lotID {
			delete(r.rows, key)
		}
	}
	return nil
}

// MovementRepo doble en memoria de repository.MovementRepository.
type MovementRepo struct {
	movements []*entity.StockMovement
}

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *MovementRepo) ListByLot(lotID string) ([]*entity.StockMovement, error) {
	out := make([]*entity.StockMovement, 0)
	for _, m := range r.movements {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MovementRepo) ListByLotAndType(lotID string, movementType entity.MovementType) ([]*entity.StockMovement, error) {
	out := make([]*entity.StockMovement, 0)
	for _, m := range r.movements {
		if m.LotID == lotID && m.Type == movementType {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MovementRepo) FirstByLotAndType(lotID string, movementType entity.MovementType) (*entity.StockMovement, error) {
	for _, m := range r.movements {
		if m.LotID == lotID && m.Type == movementType {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MovementRepo) DeleteByLot(lotID string) error {
	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.LotID != lotID {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

// All devuelve todos los movimientos registrados, en orden de inserción.
func (r *MovementRepo) All() []*entity.StockMovement {
	return r.movements
}

// LocationRepo doble en memoria de repository.LocationRepository.
type LocationRepo struct {
	byID map[string]*entity.Location
}

func (r *LocationRepo) Create(loc *entity.Location) error {
	r.byID[loc.ID] = loc
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	loc, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

func (r *LocationRepo) GetByCode(code string) (*entity.Location, error) {
	for _, loc := range r.byID {
		if loc.Code == code {
			return loc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *LocationRepo) List(activeOnly bool) ([]*entity.Location, error) {
	out := make([]*entity.Location, 0, len(r.byID))
	for _, loc := range r.byID {
		if activeOnly && !loc.Active {
			continue
		}
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// OrderRepo doble en memoria de repository.ProductionOrderRepository.
type OrderRepo struct {
	byID map[string]*entity.ProductionOrder
}

func (r *OrderRepo) Create(order *entity.ProductionOrder) error {
	for _, existing := range r.byID {
		if existing.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	r.byID[order.ID] = order
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.ProductionOrder, error) {
	order, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (r *OrderRepo) GetForUpdate(id string) (*entity.ProductionOrder, error) {
	return r.GetByID(id)
}

func (r *OrderRepo) GetByOrderNumber(orderNumber string) (*entity.ProductionOrder, error) {
	for _, order := range r.byID {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepo) List(status entity.OrderStatus) ([]*entity.ProductionOrder, error) {
	out := make([]*entity.ProductionOrder, 0, len(r.byID))
	for _, order := range r.byID {
		if status != "" && order.Status != status {
			continue
		}
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out, nil
}

func (r *OrderRepo) UpdateHeader(order *entity.ProductionOrder) error {
	if _, ok := r.byID[order.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[order.ID] = order
	return nil
}

func (r *OrderRepo) SetClosed(orderID string, closedAt time.Time) error {
	order, ok := r.byID[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	order.Status = entity.OrderStatusClosed
	order.ClosedAt = &closedAt
	return nil
}

func (r *OrderRepo) AddMaterial(material *entity.OrderMaterial) error {
	order, ok := r.byID[material.OrderID]
	if !ok {
		return domain.ErrNotFound
	}
	order.Materials = append(order.Materials, material)
	return nil
}

func (r *OrderRepo) GetMaterial(orderID, materialID string) (*entity.OrderMaterial, error) {
	order, ok := r.byID[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, material := range order.Materials {
		if material.ID == materialID {
			return material, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepo) DeleteMaterial(materialID string) error {
	for _, order := range r.byID {
		for i, material := range order.Materials {
			if material.ID == materialID {
				order.Materials = append(order.Materials[:i], order.Materials[i+1:]...)
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *OrderRepo) ListMaterialsByLot(lotID string) ([]*entity.OrderMaterial, error) {
	out := make([]*entity.OrderMaterial, 0)
	for _, order := range r.byID {
		for _, material := range order.Materials {
			if material.LotID == lotID {
				out = append(out, material)
			}
		}
	}
	return out, nil
}

func (r *OrderRepo) SetFinishedProductResult(lineID, lotID string, producedQty decimal.Decimal) error {
	for _, order := range r.byID {
		for _, line := range order.FinishedProducts {
			if line.ID == lineID {
				line.LotID = &lotID
				line.ProducedQty = &producedQty
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *OrderRepo) FindFinishedProductByLotID(lotID string) (*entity.OrderFinishedProduct, error) {
	var found *entity.OrderFinishedProduct
	for _, order := range r.byID {
		for _, line := range order.FinishedProducts {
			if line.LotID == nil || *line.LotID != lotID {
				continue
			}
			if found == nil || line.CreatedAt.Before(found.CreatedAt) {
				found = line
			}
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *OrderRepo) FindFinishedProductByProductAndNumber(productID, lotNumber string) (*entity.OrderFinishedProduct, error) {
	var found *entity.OrderFinishedProduct
	for _, order := range r.byID {
		for _, line := range order.FinishedProducts {
			if line.ProductID != productID || line.LotNumber != lotNumber {
				continue
			}
			if found == nil || line.CreatedAt.Before(found.CreatedAt) {
				found = line
			}
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *OrderRepo) LastOrderNumberWithPrefix(prefix string) (string, error) {
	last := ""
	for _, order := range r.byID {
		if strings.HasPrefix(order.OrderNumber, prefix) && order.OrderNumber > last {
			last = order.OrderNumber
		}
	}
	return last, nil
}

func (r *OrderRepo) Delete(orderID string) error {
	if _, ok := r.byID[orderID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, orderID)
	return nil
}

// ShipmentRepo doble en memoria de repository.ShipmentRepository.
type ShipmentRepo struct {
	byID      map[string]*entity.Shipment
	customers func(id string) *entity.Customer
}

func (r *ShipmentRepo) Create(shipment *entity.Shipment) error {
	r.byID[shipment.ID] = shipment
	return nil
}

func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	shipment, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return shipment, nil
}

func (r *ShipmentRepo) GetByNumber(shipmentNumber string) (*entity.Shipment, error) {
	for _, shipment := range r.byID {
		if shipment.ShipmentNumber == shipmentNumber {
			return shipment, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ShipmentRepo) List(filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	out := make([]*entity.Shipment, 0, len(r.byID))
	for _, shipment := range r.byID {
		if filter.CustomerID != "" && shipment.CustomerID != filter.CustomerID {
			continue
		}
		if filter.DateFrom != nil && shipment.ShipmentDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && shipment.ShipmentDate.After(*filter.DateTo) {
			continue
		}
		out = append(out, shipment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShipmentNumber < out[j].ShipmentNumber })
	return out, nil
}

func (r *ShipmentRepo) ListByLot(lotID string) ([]*repository.LotShipment, error) {
	out := make([]*repository.LotShipment, 0)
	for _, shipment := range r.byID {
		for _, detail := range shipment.Details {
			if detail.LotID != lotID {
				continue
			}
			out = append(out, &repository.LotShipment{
				Detail:   detail,
				Shipment: shipment,
				Customer: r.customers(shipment.CustomerID),
			})
		}
	}
	return out, nil
}

func (r *ShipmentRepo) ListByCustomer(customerID string) ([]*entity.Shipment, error) {
	out := make([]*entity.Shipment, 0)
	for _, shipment := range r.byID {
		if shipment.CustomerID == customerID {
			out = append(out, shipment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShipmentDate.After(out[j].ShipmentDate) })
	return out, nil
}

func (r *ShipmentRepo) HasDetailsForLot(lotID string) (bool, error) {
	for _, shipment := range r.byID {
		for _, detail := range shipment.Details {
			if detail.LotID == lotID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ReturnRepo doble en memoria de repository.ReturnRepository.
type ReturnRepo struct {
	byID      map[string]*entity.Return
	customers func(id string) *entity.Customer
}

func (r *ReturnRepo) Create(ret *entity.Return) error {
	r.byID[ret.ID] = ret
	return nil
}

func (r *ReturnRepo) GetByID(id string) (*entity.Return, error) {
	ret, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ret, nil
}

func (r *ReturnRepo) GetByNumber(returnNumber string) (*entity.Return, error) {
	for _, ret := range r.byID {
		if ret.ReturnNumber == returnNumber {
			return ret, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ReturnRepo) List(filter repository.ReturnFilter) ([]*entity.Return, error) {
	out := make([]*entity.Return, 0, len(r.byID))
	for _, ret := range r.byID {
		if filter.CustomerID != "" && (ret.CustomerID == nil || *ret.CustomerID != filter.CustomerID) {
			continue
		}
		if filter.Reason != "" && ret.Reason != filter.Reason {
			continue
		}
		if filter.DateFrom != nil && ret.ReturnDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && ret.ReturnDate.After(*filter.DateTo) {
			continue
		}
		out = append(out, ret)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReturnNumber < out[j].ReturnNumber })
	return out, nil
}

func (r *ReturnRepo) ListByLot(lotID string) ([]*repository.LotReturn, error) {
	out := make([]*repository.LotReturn, 0)
	for _, ret := range r.byID {
		for _, detail := range ret.Details {
			if detail.LotID != lotID {
				continue
			}
			var customer *entity.Customer
			if ret.CustomerID != nil {
				customer = r.customers(*ret.CustomerID)
			}
			out = append(out, &repository.LotReturn{Detail: detail, Return: ret, Customer: customer})
		}
	}
	return out, nil
}

func (r *ReturnRepo) LastNumberWithPrefix(prefix string) (string, error) {
	last := ""
	for _, ret := range r.byID {
		if strings.HasPrefix(ret.ReturnNumber, prefix) && ret.ReturnNumber > last {
			last = ret.ReturnNumber
		}
	}
	return last, nil
}

// CustomerRepo doble en memoria de repository.CustomerRepository.
type CustomerRepo struct {
	byID map[string]*entity.Customer
}

func (r *CustomerRepo) Create(customer *entity.Customer) error {
	for _, existing := range r.byID {
		if existing.Code == customer.Code {
			return domain.ErrDuplicate
		}
	}
	r.byID[customer.ID] = customer
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	customer, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (r *CustomerRepo) GetByCode(code string) (*entity.Customer, error) {
	for _, customer := range r.byID {
		if customer.Code == code {
			return customer, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *CustomerRepo) List(activeOnly bool) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(r.byID))
	for _, customer := range r.byID {
		if activeOnly && !customer.Active {
			continue
		}
		out = append(out, customer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *CustomerRepo) LastCodeWithPrefix(prefix string) (string, error) {
	last := ""
	for _, customer := range r.byID {
		if strings.HasPrefix(customer.Code, prefix) && customer.Code > last {
			last = customer.Code
		}
	}
	return last, nil
}

// AlertRepo doble en memoria de repository.AlertRepository.
type AlertRepo struct {
	byID map[string]*entity.Alert
}

func (r *AlertRepo) Create(alert *entity.Alert) error {
	r.byID[alert.ID] = alert
	return nil
}

func (r *AlertRepo) GetByID(id string) (*entity.Alert, error) {
	alert, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return alert, nil
}

func (r *AlertRepo) List(filter repository.AlertFilter) ([]*entity.Alert, error) {
	out := make([]*entity.Alert, 0, len(r.byID))
	for _, alert := range r.byID {
		if filter.Type != "" && alert.Type != filter.Type {
			continue
		}
		if filter.Severity != "" && alert.Severity != filter.Severity {
			continue
		}
		if filter.IsRead != nil && alert.IsRead != *filter.IsRead {
			continue
		}
		if filter.IsDismissed != nil && alert.IsDismissed != *filter.IsDismissed {
			continue
		}
		out = append(out, alert)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Message < out[j].Message })
	return out, nil
}

func (r *AlertRepo) CountActive() (int, error) {
	count := 0
	for _, alert := range r.byID {
		if !alert.IsRead && !alert.IsDismissed {
			count++
		}
	}
	return count, nil
}

func (r *AlertRepo) MarkRead(id string) error {
	alert, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	alert.IsRead = true
	return nil
}

func (r *AlertRepo) Dismiss(id string) error {
	alert, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	alert.IsDismissed = true
	return nil
}

func (r *AlertRepo) DeleteAll() error {
	r.byID = map[string]*entity.Alert{}
	return nil
}
