package handler

import (
	"go-dulceria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetCategories returns all categories with their active product count
// GET /api/v1/categories
func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// GET /api/v1/categories/:slug
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

// GetProducts is the storefront listing
// GET /api/v1/products?category=&featured=&search=
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	var q service.ProductQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, errInvalidJSON.WithMessage("Parámetros de búsqueda inválidos"))
	}
	products, err := h.service.ListProducts(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:slug
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// GetAllProducts lists inactive products too
// GET /api/v1/admin/products
func (h *CatalogHandler) GetAllProducts(c *fiber.Ctx) error {
	var q service.ProductQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, errInvalidJSON.WithMessage("Parámetros de búsqueda inválidos"))
	}
	products, err := h.service.ListAllProducts(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	product, err := h.service.CreateProduct(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Producto creado", product)
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Producto actualizado", product)
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Producto eliminado"})
}

// SellProduct records a counter sale
// POST /api/v1/admin/products/:id/sell
func (h *CatalogHandler) SellProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.SellRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	product, err := h.service.Sell(c.UserContext(), id, req.Quantity, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Venta registrada", product)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	category, err := h.service.CreateCategory(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Categoría creada", category)
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	category, err := h.service.UpdateCategory(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Categoría actualizada", category)
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Categoría eliminada"})
}
