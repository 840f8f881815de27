package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/production"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// ProductionHandler maneja las peticiones HTTP de órdenes de producción.
type ProductionHandler struct {
	uc *production.OrderUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.OrderUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de producción en borrador
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Cabecera y líneas de acabado"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/production-orders [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	lines := make([]production.FinishedProductInput, 0, len(in.FinishedProducts))
	for _, line := range in.FinishedProducts {
		lines = append(lines, production.FinishedProductInput{
			ProductID:      line.ProductID,
			TargetQuantity: line.TargetQuantity,
			Unit:           line.Unit,
		})
	}
	order, err := h.uc.CreateOrder(c.Context(), production.CreateOrderInput{
		OrderNumber:      in.OrderNumber,
		BaseProductName:  in.BaseProductName,
		BaseLotNumber:    in.BaseLotNumber,
		ProductionDate:   in.ProductionDate,
		ExpirationDate:   in.ExpirationDate,
		Notes:            in.Notes,
		FinishedProducts: lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Order(order))
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production
// @Produce      json
// @Param        status  query  string  false  "draft o closed"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/production-orders [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	orders, err := h.uc.ListOrders(c.Context(), entity.OrderStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Orders(orders))
}

// GetByID godoc
// @Summary      Obtener orden con líneas y materiales
// @Tags         production
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Order(order))
}

// Update godoc
// @Summary      Editar cabecera de una orden en borrador
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "Cabecera"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id} [put]
func (h *ProductionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	order, err := h.uc.UpdateOrder(c.Context(), c.Params("id"), production.UpdateOrderInput{
		BaseProductName: in.BaseProductName,
		BaseLotNumber:   in.BaseLotNumber,
		ProductionDate:  in.ProductionDate,
		ExpirationDate:  in.ExpirationDate,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Order(order))
}

// Delete godoc
// @Summary      Eliminar una orden en borrador
// @Tags         production
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id} [delete]
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteOrder(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMaterial godoc
// @Summary      Escanear un material en una orden en borrador
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.AddMaterialRequest  true  "Lote y cantidad"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/materials [post]
func (h *ProductionHandler) AddMaterial(c *fiber.Ctx) error {
	var in dto.AddMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	material, err := h.uc.AddMaterial(c.Context(), c.Params("id"), production.AddMaterialInput{
		LotID:                    in.LotID,
		Quantity:                 in.Quantity,
		Unit:                     in.Unit,
		RelatedFinishedProductID: in.RelatedFinishedProductID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Material(material))
}

// RemoveMaterial godoc
// @Summary      Quitar una línea de material de una orden en borrador
// @Tags         production
// @Param        id          path  string  true  "ID de la orden"
// @Param        materialId  path  string  true  "ID de la línea de material"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/materials/{materialId} [delete]
func (h *ProductionHandler) RemoveMaterial(c *fiber.Ctx) error {
	if err := h.uc.RemoveMaterial(c.Context(), c.Params("id"), c.Params("materialId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Close godoc
// @Summary      Cerrar una orden: consumir materiales y crear lotes de acabado
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.CloseOrderRequest  true  "Cantidades producidas por línea"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/close [post]
func (h *ProductionHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	results := make([]production.CloseLineResult, 0, len(in.Results))
	for _, r := range in.Results {
		results = append(results, production.CloseLineResult{
			FinishedProductID: r.FinishedProductID,
			ProducedQuantity:  r.ProducedQuantity,
		})
	}
	order, err := h.uc.CloseOrder(c.Context(), c.Params("id"), results)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Order(order))
}
