package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/catalog"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc *catalog.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *catalog.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	customer, err := h.uc.CreateCustomer(c.Context(), catalog.CreateCustomerInput{
		Code:    in.Code,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Customer(customer))
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         customers
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.uc.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Customer(customer))
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Produce      json
// @Param        active  query  bool    false  "Solo activos"
// @Param        search  query  string  false  "Búsqueda por nombre o código (ignora acentos)"
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.uc.ListCustomers(c.Context(), c.QueryBool("active"), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Customers(customers))
}
