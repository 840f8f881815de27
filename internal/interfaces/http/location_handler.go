package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// LocationHandler maneja las peticiones HTTP de ubicaciones.
type LocationHandler struct {
	locRepo repository.LocationRepository
	stock   *inventory.StockQueryUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(locRepo repository.LocationRepository, stock *inventory.StockQueryUseCase) *LocationHandler {
	return &LocationHandler{locRepo: locRepo, stock: stock}
}

// Create godoc
// @Summary      Dar de alta una ubicación auxiliar
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request  body  dto.CreateLocationRequest  true  "Ubicación"
// @Success      201  {object}  dto.LocationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo de la petición inválido")
	}
	if req.Code == "" || req.Name == "" {
		return badRequest(c, "code y name son obligatorios")
	}
	// Solo puede existir una ubicación de liberado.
	if req.IsAvailable {
		existing, err := h.locRepo.List(false)
		if err != nil {
			return respondError(c, err)
		}
		for _, loc := range existing {
			if loc.IsAvailable {
				return respondError(c, domain.ErrConflict)
			}
		}
	}
	location := &entity.Location{
		ID:          uuid.New().String(),
		Code:        req.Code,
		Name:        req.Name,
		IsAvailable: req.IsAvailable,
		Active:      true,
	}
	if err := h.locRepo.Create(location); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Location(location))
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Produce      json
// @Param        active  query  bool  false  "Solo activas"
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.locRepo.List(c.QueryBool("active"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Locations(locations))
}

// Stock godoc
// @Summary      Stock presente en una ubicación, en orden FEFO
// @Tags         locations
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {array}  dto.LotAtLocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/stock [get]
func (h *LocationHandler) Stock(c *fiber.Ctx) error {
	rows, err := h.stock.ListStockAtLocation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LotsAtLocation(rows))
}
