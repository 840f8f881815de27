package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// LotHandler maneja las peticiones HTTP de lotes y movimientos de stock.
type LotHandler struct {
	ledger *inventory.LedgerUseCase
	stock  *inventory.StockQueryUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(ledger *inventory.LedgerUseCase, stock *inventory.StockQueryUseCase) *LotHandler {
	return &LotHandler{ledger: ledger, stock: stock}
}

// Reception godoc
// @Summary      Registrar recepción de mercancía
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceptionRequest  true  "Datos de la recepción"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/reception [post]
func (h *LotHandler) Reception(c *fiber.Ctx) error {
	var in dto.ReceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	lot, err := h.ledger.RegisterReception(c.Context(), inventory.ReceptionInput{
		ProductID:         in.ProductID,
		LotNumber:         in.LotNumber,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		ManufacturingDate: in.ManufacturingDate,
		ExpirationDate:    in.ExpirationDate,
		LocationID:        in.LocationID,
		Notes:             in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Lot(lot))
}

// List godoc
// @Summary      Listar lotes en orden FEFO
// @Tags         lots
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        lot_number  query  string  false  "Búsqueda parcial por número"
// @Param        with_stock  query  bool    false  "Solo lotes con stock"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	lots, err := h.stock.ListLots(c.Context(), repository.LotFilter{
		ProductID:     c.Query("product_id"),
		LotNumber:     c.Query("lot_number"),
		OnlyWithStock: c.QueryBool("with_stock"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Lots(lots))
}

// GetByID godoc
// @Summary      Detalle de un lote: reparto por ubicaciones e historial
// @Tags         lots
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.stock.GetLotDetail(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LotDetail(detail))
}

// Update godoc
// @Summary      Editar número y fechas de un lote
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.LotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [put]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	lot, err := h.ledger.UpdateLot(c.Context(), c.Params("id"), inventory.UpdateLotInput{
		LotNumber:         in.LotNumber,
		ManufacturingDate: in.ManufacturingDate,
		ExpirationDate:    in.ExpirationDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Lot(lot))
}

// Delete godoc
// @Summary      Eliminar un lote nunca referenciado por documentos
// @Tags         lots
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [delete]
func (h *LotHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.DeleteLot(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transfer godoc
// @Summary      Mover stock de un lote entre ubicaciones
// @Tags         lots
// @Accept       json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.TransferRequest  true  "Origen, destino y cantidad"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/transfer [post]
func (h *LotHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	err := h.ledger.Transfer(c.Context(), c.Params("id"), in.FromLocationID, in.ToLocationID, in.Quantity, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Recuento: ajustar el stock de un lote en una ubicación
// @Tags         lots
// @Accept       json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.AdjustRequest  true  "Cantidad contada"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/adjust [post]
func (h *LotHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	err := h.ledger.Adjust(c.Context(), c.Params("id"), in.LocationID, in.CountedQty, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Block godoc
// @Summary      Bloquear un lote (retención de calidad)
// @Tags         lots
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Router       /api/lots/{id}/block [post]
func (h *LotHandler) Block(c *fiber.Ctx) error {
	if err := h.ledger.BlockLot(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unblock godoc
// @Summary      Desbloquear un lote
// @Tags         lots
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Router       /api/lots/{id}/unblock [post]
func (h *LotHandler) Unblock(c *fiber.Ctx) error {
	if err := h.ledger.UnblockLot(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Expiring godoc
// @Summary      Lotes que caducan dentro de N días (por defecto 30)
// @Tags         lots
// @Produce      json
// @Param        days  query  int  false  "Horizonte en días"  default(30)
// @Success      200   {array}  dto.LotResponse
// @Router       /api/lots/expiring [get]
func (h *LotHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 {
		days = 30
	}
	lots, err := h.stock.ListExpiringLots(c.Context(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Lots(lots))
}
