package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/middleware"
	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/services"
	"github.com/example/glowcheck/internal/stores"
	"github.com/example/glowcheck/internal/utils"
)

// ProductSource finds and fetches product metadata from the external catalog
// site.
type ProductSource interface {
	Search(query string, limit int) ([]services.ProductSummary, error)
	FetchProduct(url string) (*services.ProductData, error)
}

// ProductHandler manages product listing, source search, and community
// ratings.
type ProductHandler struct {
	db       *gorm.DB
	products *stores.ProductStore
	ratings  *stores.RatingStore
	source   ProductSource
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, products *stores.ProductStore, ratings *stores.RatingStore, source ProductSource) *ProductHandler {
	return &ProductHandler{db: db, products: products, ratings: ratings, source: source}
}

// ListProducts returns paginated known products.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.products.List(search, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct loads a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.products.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// SearchProducts proxies a product-name search to the external catalog.
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query is required")
	}

	results, err := h.source.Search(query, 5)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "product search failed")
	}

	return c.JSON(fiber.Map{"success": true, "data": results})
}

// GetRatings returns the community rating buckets for a product. A product
// with no ratings yields an empty object.
func (h *ProductHandler) GetRatings(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	summaries, err := h.ratings.GetCommunityRatings(id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": summaries})
}

type submitRatingRequest struct {
	Rating int `json:"rating"`
}

// SubmitRating records the authenticated user's rating for a product in
// their skin-type bucket.
func (h *ProductHandler) SubmitRating(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req submitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Rating < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must not be negative")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if _, err := h.products.GetByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	status, average, err := h.ratings.SubmitRating(productID, user.SkinType, userID, req.Rating)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "rating could not be applied")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"status":    status,
		"average":   average,
		"skin_type": user.SkinType,
	})
}
