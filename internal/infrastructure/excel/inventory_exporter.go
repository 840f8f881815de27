// Package excel genera informes de inventario en XLSX con excelize.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/export"
)

var _ export.InventoryExporter = (*InventoryExporter)(nil)

// InventoryExporter implementa export.InventoryExporter sobre excelize.
type InventoryExporter struct{}

// NewInventoryExporter construye el exportador.
func NewInventoryExporter() *InventoryExporter { return &InventoryExporter{} }

// ExportInventory escribe una hoja "Inventario" con una fila por lote y
// ubicación, y devuelve los bytes del fichero.
func (e *InventoryExporter) ExportInventory(rows []export.InventoryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Inventario"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: borrar hoja por defecto: %w", err)
	}

	header := []interface{}{
		"Código", "Producto", "Categoría", "Lote", "Estado",
		"Ubicación", "Cantidad", "Unidad", "Caducidad",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: cabecera: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}

	for i, row := range rows {
		expiration := ""
		if row.ExpirationDate != nil {
			expiration = row.ExpirationDate.Format("02/01/2006")
		}
		qty, _ := row.Quantity.Float64()
		values := []interface{}{
			row.ProductCode, row.ProductName, row.Category, row.LotNumber,
			row.Status, row.LocationCode, qty, row.Unit, expiration,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 32); err != nil {
		return nil, fmt.Errorf("excel: anchos: %w", err)
	}
	_ = f.SetColWidth(sheet, "C", "F", 14)
	_ = f.SetColWidth(sheet, "I", "I", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}
