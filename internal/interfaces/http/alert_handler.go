package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/alerts"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// AlertHandler maneja las peticiones HTTP de alertas de inventario.
type AlertHandler struct {
	uc *alerts.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Produce      json
// @Param        type      query  string  false  "low_stock, expiring_soon, expired o blocked"
// @Param        severity  query  string  false  "info, warning o critical"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.Context(), repository.AlertFilter{
		Type:     entity.AlertType(c.Query("type")),
		Severity: entity.AlertSeverity(c.Query("severity")),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Alerts(items))
}

// Count godoc
// @Summary      Número de alertas activas (ni leídas ni descartadas)
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/count [get]
func (h *AlertHandler) Count(c *fiber.Ctx) error {
	count, err := h.uc.CountActive(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// Regenerate godoc
// @Summary      Recalcular todas las alertas a partir del estado actual
// @Tags         alerts
// @Produce      json
// @Param        days  query  int  false  "Umbral de caducidad próxima en días (por defecto 30)"
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/regenerate [post]
func (h *AlertHandler) Regenerate(c *fiber.Ctx) error {
	generated, err := h.uc.Regenerate(c.Context(), c.QueryInt("days"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"generated": generated})
}

// MarkRead godoc
// @Summary      Marcar una alerta como leída
// @Tags         alerts
// @Param        id  path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/read [post]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Dismiss godoc
// @Summary      Descartar una alerta
// @Tags         alerts
// @Param        id  path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	if err := h.uc.Dismiss(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
