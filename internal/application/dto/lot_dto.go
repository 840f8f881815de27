package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// ReceptionRequest body para registrar una recepción de mercancía.
type ReceptionRequest struct {
	ProductID         string          `json:"product_id" validate:"required"`
	LotNumber         string          `json:"lot_number" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	ManufacturingDate time.Time       `json:"manufacturing_date"`
	ExpirationDate    *time.Time      `json:"expiration_date"`
	LocationID        string          `json:"location_id"`
	Notes             string          `json:"notes"`
}

// TransferRequest body para mover stock de un lote entre ubicaciones.
type TransferRequest struct {
	FromLocationID string          `json:"from_location_id" validate:"required"`
	ToLocationID   string          `json:"to_location_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	Notes          string          `json:"notes"`
}

// AdjustRequest body para un recuento: la cantidad contada en una ubicación.
type AdjustRequest struct {
	LocationID string          `json:"location_id" validate:"required"`
	CountedQty decimal.Decimal `json:"counted_quantity"`
	Notes      string          `json:"notes"`
}

// UpdateLotRequest campos editables de un lote. Las cantidades no:
// solo cambian a través del libro de movimientos.
type UpdateLotRequest struct {
	LotNumber         string     `json:"lot_number" validate:"required"`
	ManufacturingDate time.Time  `json:"manufacturing_date"`
	ExpirationDate    *time.Time `json:"expiration_date"`
}

// LotResponse salida de un lote con su estado derivado.
type LotResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	LotNumber         string          `json:"lot_number"`
	ManufacturingDate time.Time       `json:"manufacturing_date"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	Unit              string          `json:"unit"`
	Blocked           bool            `json:"blocked"`
	Status            string          `json:"status"`
	DaysToExpiration  *int            `json:"days_to_expiration,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Lot convierte la entidad a su representación HTTP.
func Lot(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		LotNumber:         l.LotNumber,
		ManufacturingDate: l.ManufacturingDate,
		ExpirationDate:    l.ExpirationDate,
		InitialQuantity:   l.InitialQuantity,
		CurrentQuantity:   l.CurrentQuantity,
		Unit:              l.Unit,
		Blocked:           l.Blocked,
		Status:            string(l.Status()),
		DaysToExpiration:  l.DaysToExpiration(time.Now()),
		CreatedAt:         l.CreatedAt,
	}
}

// Lots convierte una lista de lotes.
func Lots(items []*entity.Lot) []LotResponse {
	out := make([]LotResponse, 0, len(items))
	for _, l := range items {
		out = append(out, Lot(l))
	}
	return out
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID             string          `json:"id"`
	LotID          string          `json:"lot_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	MovementDate   time.Time       `json:"movement_date"`
	FromLocationID *string         `json:"from_location_id,omitempty"`
	ToLocationID   *string         `json:"to_location_id,omitempty"`
	ReferenceID    *string         `json:"reference_id,omitempty"`
	ReferenceType  *string         `json:"reference_type,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// Movement convierte un movimiento a su representación HTTP.
func Movement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		LotID:          m.LotID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		MovementDate:   m.MovementDate,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		ReferenceID:    m.ReferenceID,
		ReferenceType:  m.ReferenceType,
		Notes:          m.Notes,
	}
}

// Movements convierte el historial completo.
func Movements(items []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(items))
	for _, m := range items {
		out = append(out, Movement(m))
	}
	return out
}

// LotDistributionResponse cantidad de un lote en una ubicación.
type LotDistributionResponse struct {
	LocationID   string          `json:"location_id"`
	LocationCode string          `json:"location_code"`
	LocationName string          `json:"location_name"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// LotDetailResponse lote con producto, reparto e historial.
type LotDetailResponse struct {
	Lot          LotResponse               `json:"lot"`
	Product      ProductResponse           `json:"product"`
	Distribution []LotDistributionResponse `json:"distribution"`
	Movements    []MovementResponse        `json:"movements"`
}

// LotDetail convierte el detalle completo de un lote.
func LotDetail(d *inventory.LotDetail) LotDetailResponse {
	dist := make([]LotDistributionResponse, 0, len(d.Distribution))
	for _, row := range d.Distribution {
		dist = append(dist, LotDistributionResponse{
			LocationID:   row.Location.ID,
			LocationCode: row.Location.Code,
			LocationName: row.Location.Name,
			Quantity:     row.Quantity,
		})
	}
	return LotDetailResponse{
		Lot:          Lot(d.Lot),
		Product:      Product(d.Product),
		Distribution: dist,
		Movements:    Movements(d.Movements),
	}
}

// LotAtLocationResponse lote con la cantidad presente en una ubicación.
type LotAtLocationResponse struct {
	Lot      LotResponse     `json:"lot"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LotsAtLocation convierte las filas de stock por ubicación.
func LotsAtLocation(rows []*repository.LotAtLocation) []LotAtLocationResponse {
	out := make([]LotAtLocationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, LotAtLocationResponse{Lot: Lot(row.Lot), Quantity: row.Quantity})
	}
	return out
}

// ProductStockResponse stock vivo de un producto con desglose por lote.
type ProductStockResponse struct {
	Product       ProductResponse `json:"product"`
	Total         decimal.Decimal `json:"total"`
	BelowMinStock bool            `json:"below_min_stock"`
	Lots          []LotResponse   `json:"lots"`
}

// ProductStock convierte el stock agregado de un producto.
func ProductStock(s *inventory.ProductStock) ProductStockResponse {
	return ProductStockResponse{
		Product:       Product(s.Product),
		Total:         s.Total,
		BelowMinStock: s.BelowMinStock,
		Lots:          Lots(s.Lots),
	}
}
