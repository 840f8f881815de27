package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/export"
)

// ExportHandler maneja las descargas de informes y albaranes.
type ExportHandler struct {
	uc *export.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// InventoryExcel godoc
// @Summary      Descargar el inventario vivo en XLSX
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/exports/inventory [get]
func (h *ExportHandler) InventoryExcel(c *fiber.Ctx) error {
	data, err := h.uc.InventoryExcel(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ShipmentPDF godoc
// @Summary      Descargar el albarán de un envío en PDF
// @Tags         exports
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/delivery-note [get]
func (h *ExportHandler) ShipmentPDF(c *fiber.Ctx) error {
	data, err := h.uc.ShipmentPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="albaran.pdf"`)
	return c.Send(data)
}

// ReceptionCertificate godoc
// @Summary      Descargar el certificado de recepción de un lote en PDF
// @Tags         exports
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/reception-certificate [get]
func (h *ExportHandler) ReceptionCertificate(c *fiber.Ctx) error {
	data, err := h.uc.ReceptionPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="certificado_recepcion.pdf"`)
	return c.Send(data)
}
