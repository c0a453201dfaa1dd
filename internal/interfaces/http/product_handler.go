package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/application/inventory"
)

// ProductHandler maneja el catálogo: listado, alta/reposición y lista de reposición.
type ProductHandler struct {
	upsert    *catalog.UpsertProductUseCase
	list      *catalog.ListProductsUseCase
	replenish *inventory.ReplenishmentUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(upsert *catalog.UpsertProductUseCase, list *catalog.ListProductsUseCase, replenish *inventory.ReplenishmentUseCase) *ProductHandler {
	return &ProductHandler{upsert: upsert, list: list, replenish: replenish}
}

// Upsert godoc
// @Summary      Alta o reposición de producto
// @Description  Si (name, brand) existe suma quantity y sobrescribe unidad y precios (200 restocked); si no, lo crea (201 created).
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.UpsertProductResponse
// @Success      200   {object}  dto.UpsertProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	product, created, err := h.upsert.Upsert(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.UpsertProductResponse{
		ID:      product.ID,
		Status:  dto.UpsertStatusRestocked,
		Product: catalog.ToProductResponse(product),
	}
	status := fiber.StatusOK
	if created {
		out.Status = dto.UpsertStatusCreated
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.list.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos con stock <= threshold, ordenados por margen y unidades vendidas en los últimos days días.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  string  false  "Punto de reorden"  default(5)
// @Param        days       query  int     false  "Ventana de ventas"  default(90)
// @Success      200  {array}  dto.ReplenishmentSuggestion
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/replenishment [get]
func (h *ProductHandler) Replenishment(c *fiber.Ctx) error {
	var q dto.ReplenishmentQuery
	if err := c.QueryParser(&q); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.ErrKindInvalidInput, "parámetros inválidos")
	}
	out, err := h.replenish.GenerateReplenishmentList(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
