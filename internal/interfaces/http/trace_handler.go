package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/traceability"
)

// TraceHandler maneja las peticiones HTTP de trazabilidad.
type TraceHandler struct {
	uc *traceability.TraceUseCase
}

// NewTraceHandler construye el handler.
func NewTraceHandler(uc *traceability.TraceUseCase) *TraceHandler {
	return &TraceHandler{uc: uc}
}

// Forward godoc
// @Summary      Trazar un lote hacia delante: órdenes, acabados y clientes
// @Tags         traceability
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.ForwardTraceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trace/lots/{id}/forward [get]
func (h *TraceHandler) Forward(c *fiber.Ctx) error {
	trace, err := h.uc.TraceForward(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ForwardTrace(trace))
}

// Reverse godoc
// @Summary      Trazar un lote hacia atrás: orden y materiales de origen
// @Tags         traceability
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.ReverseTraceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trace/lots/{id}/reverse [get]
func (h *TraceHandler) Reverse(c *fiber.Ctx) error {
	trace, err := h.uc.TraceReverse(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReverseTrace(trace))
}

// ByProductAndLot godoc
// @Summary      Traza completa por producto y número de lote
// @Tags         traceability
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        lot_number  query  string  true  "Número de lote"
// @Success      200  {object}  dto.FullTraceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trace/search [get]
func (h *TraceHandler) ByProductAndLot(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	lotNumber := c.Query("lot_number")
	if productID == "" || lotNumber == "" {
		return badRequest(c, "product_id y lot_number son requeridos")
	}
	forward, reverse, err := h.uc.TraceByProductAndLot(c.Context(), productID, lotNumber)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FullTraceResponse{
		Forward: dto.ForwardTrace(forward),
		Reverse: dto.ReverseTrace(reverse),
	})
}

// Customer godoc
// @Summary      Historial de envíos y devoluciones de un cliente
// @Tags         traceability
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerTraceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trace/customers/{id} [get]
func (h *TraceHandler) Customer(c *fiber.Ctx) error {
	trace, err := h.uc.TraceCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CustomerTrace(trace))
}
