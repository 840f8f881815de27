package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/catalog"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/dto"
	"github.com/tu-usuario/trazabilidad-pro/internal/application/inventory"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos.
type ProductHandler struct {
	uc    *catalog.ProductUseCase
	stock *inventory.StockQueryUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, stock *inventory.StockQueryUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	product, err := h.uc.CreateProduct(c.Context(), catalog.CreateProductInput{
		Code:            in.Code,
		Name:            in.Name,
		Category:        entity.ProductCategory(in.Category),
		Description:     in.Description,
		MinStock:        in.MinStock,
		StorageUnit:     in.StorageUnit,
		ConsumptionUnit: in.ConsumptionUnit,
		Density:         in.Density,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Product(product))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Product(product))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        category  query  string  false  "raw_material, packaging o finished_product"
// @Param        active    query  bool    false  "Solo activos"
// @Param        search    query  string  false  "Búsqueda por nombre o código (ignora acentos)"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Category:   entity.ProductCategory(c.Query("category")),
		ActiveOnly: c.QueryBool("active"),
	}
	products, err := h.uc.ListProducts(c.Context(), filter, c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Products(products))
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	product, err := h.uc.UpdateProduct(c.Context(), c.Params("id"), catalog.UpdateProductInput{
		Name:            in.Name,
		Description:     in.Description,
		MinStock:        in.MinStock,
		StorageUnit:     in.StorageUnit,
		ConsumptionUnit: in.ConsumptionUnit,
		Density:         in.Density,
		Active:          in.Active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Product(product))
}

// Delete godoc
// @Summary      Eliminar producto (desactiva si tiene lotes)
// @Tags         products
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stock godoc
// @Summary      Stock vivo de un producto con desglose por lote
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *ProductHandler) Stock(c *fiber.Ctx) error {
	stock, err := h.stock.GetProductStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProductStock(stock))
}

// Available godoc
// @Summary      Lotes consumibles de un producto en orden FEFO
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.LotAtLocationResponse
// @Router       /api/products/{id}/available [get]
func (h *ProductHandler) Available(c *fiber.Ctx) error {
	rows, err := h.stock.ListAvailableForConsumption(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LotsAtLocation(rows))
}
