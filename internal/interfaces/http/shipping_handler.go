package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/shipping"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// ShippingHandler maneja las peticiones HTTP de envíos y devoluciones.
type ShippingHandler struct {
	uc *shipping.ShippingUseCase
}

// NewShippingHandler construye el handler.
func NewShippingHandler(uc *shipping.ShippingUseCase) *ShippingHandler {
	return &ShippingHandler{uc: uc}
}

// CreateShipment godoc
// @Summary      Registrar envío a cliente
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "Cliente y líneas"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShippingHandler) CreateShipment(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	lines := make([]shipping.ShipmentLineInput, 0, len(in.Lines))
	for _, line := range in.Lines {
		lines = append(lines, shipping.ShipmentLineInput{LotID: line.LotID, Quantity: line.Quantity})
	}
	input := shipping.CreateShipmentInput{
		CustomerID:     in.CustomerID,
		ShipmentNumber: in.ShipmentNumber,
		ShipmentDate:   in.ShipmentDate,
		Notes:          in.Notes,
		Lines:          lines,
	}
	if in.NewCustomer != nil {
		input.NewCustomer = &shipping.NewCustomerInput{
			Name:    in.NewCustomer.Name,
			Email:   in.NewCustomer.Email,
			Phone:   in.NewCustomer.Phone,
			Address: in.NewCustomer.Address,
		}
	}
	shipment, err := h.uc.CreateShipment(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Shipment(shipment))
}

// ListShipments godoc
// @Summary      Listar envíos
// @Tags         shipping
// @Produce      json
// @Param        customer_id  query  string  false  "Filtrar por cliente"
// @Param        from         query  string  false  "Fecha desde (RFC3339)"
// @Param        to           query  string  false  "Fecha hasta (RFC3339)"
// @Success      200  {array}  dto.ShipmentResponse
// @Router       /api/shipments [get]
func (h *ShippingHandler) ListShipments(c *fiber.Ctx) error {
	filter := repository.ShipmentFilter{CustomerID: c.Query("customer_id")}
	var err error
	if filter.DateFrom, err = parseDateQuery(c.Query("from")); err != nil {
		return badRequest(c, "from inválido")
	}
	if filter.DateTo, err = parseDateQuery(c.Query("to")); err != nil {
		return badRequest(c, "to inválido")
	}
	shipments, err := h.uc.ListShipments(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Shipments(shipments))
}

// GetShipment godoc
// @Summary      Obtener envío por ID
// @Tags         shipping
// @Produce      json
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShippingHandler) GetShipment(c *fiber.Ctx) error {
	shipment, err := h.uc.GetShipment(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Shipment(shipment))
}

// CreateReturn godoc
// @Summary      Registrar devolución o retirada
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Motivo y líneas"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ShippingHandler) CreateReturn(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	lines := make([]shipping.ReturnLineInput, 0, len(in.Lines))
	for _, line := range in.Lines {
		lines = append(lines, shipping.ReturnLineInput{LotID: line.LotID, Quantity: line.Quantity})
	}
	ret, err := h.uc.CreateReturn(c.Context(), shipping.CreateReturnInput{
		CustomerID:   in.CustomerID,
		ReturnNumber: in.ReturnNumber,
		ReturnDate:   in.ReturnDate,
		Reason:       in.Reason,
		Notes:        in.Notes,
		Lines:        lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Return(ret))
}

// ListReturns godoc
// @Summary      Listar devoluciones
// @Tags         shipping
// @Produce      json
// @Param        customer_id  query  string  false  "Filtrar por cliente"
// @Param        reason       query  string  false  "customer_return, market_recall o quality_issue"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/returns [get]
func (h *ShippingHandler) ListReturns(c *fiber.Ctx) error {
	returns, err := h.uc.ListReturns(c.Context(), repository.ReturnFilter{
		CustomerID: c.Query("customer_id"),
		Reason:     c.Query("reason"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Returns(returns))
}

// GetReturn godoc
// @Summary      Obtener devolución por ID
// @Tags         shipping
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ShippingHandler) GetReturn(c *fiber.Ctx) error {
	ret, err := h.uc.GetReturn(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Return(ret))
}

func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
