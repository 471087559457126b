package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/snapcart/storefront/internal/api/dto"
	"github.com/snapcart/storefront/internal/auth"
	"github.com/snapcart/storefront/internal/domain"
	"github.com/snapcart/storefront/internal/service"
)

// ProductsHandler exposes catalog endpoints.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.catalog.List(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /products/:productId.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.Get(c.Context(), c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(*product)})
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product := &domain.Product{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	}
	if err := h.catalog.Create(c.Context(), subject.ID, product); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "product created successfully",
		"data":    dto.NewProductResponse(*product),
	})
}

// Update handles PATCH /products/:productId.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product := &domain.Product{
		ID:          c.Params("productId"),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	}
	actor := service.ActorRef{ID: subject.ID, Role: subject.Role}
	if err := h.catalog.Update(c.Context(), actor, product); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "product updated successfully"})
}

// Delete handles DELETE /products/:productId.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	actor := service.ActorRef{ID: subject.ID, Role: subject.Role}
	if err := h.catalog.Delete(c.Context(), actor, c.Params("productId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "product deleted successfully"})
}

func parseProductRequest(c *fiber.Ctx) (*dto.ProductRequest, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return nil, fiber.NewError(http.StatusBadRequest, "title required")
	}
	if req.Price < 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "price must not be negative")
	}
	return &req, nil
}
