package export

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// InventoryRow fila del informe de inventario: un lote en una ubicación.
type InventoryRow struct {
	ProductCode    string
	ProductName    string
	Category       string
	LotNumber      string
	Status         string
	LocationCode   string
	Quantity       decimal.Decimal
	Unit           string
	ExpirationDate *time.Time
}

// DeliveryNoteLine línea del albarán de entrega.
type DeliveryNoteLine struct {
	ProductName    string
	LotNumber      string
	Quantity       decimal.Decimal
	Unit           string
	ExpirationDate *time.Time
}

// DeliveryNote datos completos para imprimir el albarán de un envío.
type DeliveryNote struct {
	Shipment *entity.Shipment
	Customer *entity.Customer
	Lines    []DeliveryNoteLine
}

// CertificateLocation ubicación del stock de un lote en el certificado.
type CertificateLocation struct {
	LocationCode string
	LocationName string
	Quantity     decimal.Decimal
}

// ReceptionCertificate datos para imprimir el certificado de recepción
// de un lote.
type ReceptionCertificate struct {
	Product      *entity.Product
	Lot          *entity.Lot
	Distribution []CertificateLocation
}

// InventoryExporter genera el informe de inventario en XLSX.
type InventoryExporter interface {
	ExportInventory(rows []InventoryRow) ([]byte, error)
}

// DocumentGenerator genera los documentos PDF de planta: albaranes de
// entrega y certificados de recepción.
type DocumentGenerator interface {
	GenerateDeliveryNote(ctx context.Context, note *DeliveryNote) ([]byte, error)
	GenerateReceptionCertificate(ctx context.Context, cert *ReceptionCertificate) ([]byte, error)
}

// ExportUseCase reúne los datos y delega el formato en los generadores.
type ExportUseCase struct {
	productRepo  repository.ProductRepository
	lotRepo      repository.LotRepository
	lotLocRepo   repository.LotLocationRepository
	locRepo      repository.LocationRepository
	shipmentRepo repository.ShipmentRepository
	customerRepo repository.CustomerRepository

	excel InventoryExporter
	pdf   DocumentGenerator
}

// NewExportUseCase construye el caso de uso de exportación.
func NewExportUseCase(
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	lotLocRepo repository.LotLocationRepository,
	locRepo repository.LocationRepository,
	shipmentRepo repository.ShipmentRepository,
	customerRepo repository.CustomerRepository,
	excel InventoryExporter,
	pdf DocumentGenerator,
) *ExportUseCase {
	return &ExportUseCase{
		productRepo:  productRepo,
		lotRepo:      lotRepo,
		lotLocRepo:   lotLocRepo,
		locRepo:      locRepo,
		shipmentRepo: shipmentRepo,
		customerRepo: customerRepo,
		excel:        excel,
		pdf:          pdf,
	}
}

// InventoryExcel exporta el inventario vivo: una fila por lote y ubicación
// con cantidad positiva, en orden FEFO dentro de cada producto.
func (uc *ExportUseCase) InventoryExcel(ctx context.Context) ([]byte, error) {
	products, err := uc.productRepo.List(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	locations, err := uc.locRepo.List(false)
	if err != nil {
		return nil, err
	}
	locByID := make(map[string]*entity.Location, len(locations))
	for _, loc := range locations {
		locByID[loc.ID] = loc
	}

	var rows []InventoryRow
	for _, product := range products {
		lots, err := uc.lotRepo.ListFEFO(repository.LotFilter{ProductID: product.ID, OnlyWithStock: true})
		if err != nil {
			return nil, err
		}
		for _, lot := range lots {
			distribution, err := uc.lotLocRepo.ListByLot(lot.ID)
			if err != nil {
				return nil, err
			}
			for _, row := range distribution {
				if !row.Quantity.GreaterThan(decimal.Zero) {
					continue
				}
				locationCode := row.LocationID
				if loc, ok := locByID[row.LocationID]; ok {
					locationCode = loc.Code
				}
				rows = append(rows, InventoryRow{
					ProductCode:    product.Code,
					ProductName:    product.Name,
					Category:       string(product.Category),
					LotNumber:      lot.LotNumber,
					Status:         string(lot.Status()),
					LocationCode:   locationCode,
					Quantity:       row.Quantity,
					Unit:           lot.Unit,
					ExpirationDate: lot.ExpirationDate,
				})
			}
		}
	}
	return uc.excel.ExportInventory(rows)
}

// ShipmentPDF genera el albarán de un envío.
func (uc *ExportUseCase) ShipmentPDF(ctx context.Context, shipmentID string) ([]byte, error) {
	shipment, err := uc.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(shipment.CustomerID)
	if err != nil {
		return nil, err
	}

	note := &DeliveryNote{Shipment: shipment, Customer: customer}
	for _, detail := range shipment.Details {
		lot, err := uc.lotRepo.GetByID(detail.LotID)
		if err != nil {
			return nil, err
		}
		product, err := uc.productRepo.GetByID(lot.ProductID)
		if err != nil {
			return nil, err
		}
		note.Lines = append(note.Lines, DeliveryNoteLine{
			ProductName:    product.Name,
			LotNumber:      lot.LotNumber,
			Quantity:       detail.Quantity,
			Unit:           detail.Unit,
			ExpirationDate: lot.ExpirationDate,
		})
	}
	return uc.pdf.GenerateDeliveryNote(ctx, note)
}

// ReceptionPDF genera el certificado de recepción de un lote con su
// distribución actual por ubicaciones.
func (uc *ExportUseCase) ReceptionPDF(ctx context.Context, lotID string) ([]byte, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(lot.ProductID)
	if err != nil {
		return nil, err
	}

	cert := &ReceptionCertificate{Product: product, Lot: lot}
	distribution, err := uc.lotLocRepo.ListByLot(lot.ID)
	if err != nil {
		return nil, err
	}
	for _, row := range distribution {
		if !row.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		loc, err := uc.locRepo.GetByID(row.LocationID)
		if err != nil {
			return nil, err
		}
		cert.Distribution = append(cert.Distribution, CertificateLocation{
			LocationCode: loc.Code,
			LocationName: loc.Name,
			Quantity:     row.Quantity,
		})
	}
	return uc.pdf.GenerateReceptionCertificate(ctx, cert)
}
