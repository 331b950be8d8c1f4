package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/middleware"
	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/rules"
	"github.com/example/glowcheck/internal/stores"
)

// RoutineHandler manages a user's AM/PM routines and their compatibility
// report.
type RoutineHandler struct {
	db        *gorm.DB
	routines  *stores.RoutineStore
	products  *stores.ProductStore
	ruleStore *stores.RuleStore
	source    ProductSource
}

// NewRoutineHandler constructs RoutineHandler.
func NewRoutineHandler(db *gorm.DB, routines *stores.RoutineStore, products *stores.ProductStore, ruleStore *stores.RuleStore, source ProductSource) *RoutineHandler {
	return &RoutineHandler{db: db, routines: routines, products: products, ruleStore: ruleStore, source: source}
}

func parseDay(c *fiber.Ctx) (rules.TimeOfDay, error) {
	day, ok := rules.ParseTimeOfDay(c.Params("day"))
	if !ok {
		return "", fiber.NewError(fiber.StatusBadRequest, "day must be AM or PM")
	}
	return day, nil
}

// ListRoutine returns the ordered {product, rating} entries for one time of
// day.
func (h *RoutineHandler) ListRoutine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDay(c)
	if err != nil {
		return err
	}

	entries, err := h.routines.List(userID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": entries})
}

type addProductRequest struct {
	ProductURL string `json:"product_url"`
}

// AddProduct puts a product into the routine, creating the product record on
// first reference. Adding an already-present product is a no-op reported with
// 200 instead of 201.
func (h *RoutineHandler) AddProduct(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDay(c)
	if err != nil {
		return err
	}

	var req addProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductURL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_url is required")
	}

	product, err := h.resolveProduct(req.ProductURL)
	if err != nil {
		return err
	}

	added, err := h.routines.Add(userID, day, product.ID)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	message := "product already in routine"
	if added {
		status = fiber.StatusCreated
		message = "product added to routine"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"added":   added,
		"data":    product,
	})
}

// resolveProduct returns the stored product for a source URL, scraping and
// creating it on first reference.
func (h *RoutineHandler) resolveProduct(productURL string) (*models.Product, error) {
	var existing models.Product
	err := h.db.Where("source_url = ?", productURL).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	data, err := h.source.FetchProduct(productURL)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "could not fetch product data")
	}

	product, _, err := h.products.FindOrCreate(stores.NewProduct{
		Brand:       data.Brand,
		Name:        data.Name,
		Description: data.Description,
		SourceURL:   productURL,
		ImageURL:    data.ImageURL,
		Ingredients: data.Ingredients,
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// RemoveProduct deletes a product from the routine.
func (h *RoutineHandler) RemoveProduct(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDay(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.routines.Remove(userID, day, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not in routine")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "product removed from routine"})
}

type updateRatingRequest struct {
	Rating int `json:"rating"`
}

// UpdateRating replaces the routine entry's rating and the user's community
// contribution in one transaction.
func (h *RoutineHandler) UpdateRating(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDay(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateRatingRequest
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

	status, average, err := h.routines.UpdateRating(userID, day, productID, req.Rating, user.SkinType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not in routine")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "rating could not be applied")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  status,
		"average": average,
	})
}

// GetIssues evaluates the routine's compatibility report for the requested
// time of day.
func (h *RoutineHandler) GetIssues(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDay(c)
	if err != nil {
		return err
	}

	entries, err := h.routines.List(userID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	products := make([]rules.ProductInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.Product == nil {
			continue
		}
		products = append(products, rules.ProductInfo{
			ID:   entry.ProductID,
			Name: entry.Product.Name,
			Tags: entry.Product.Tags,
		})
	}

	snapshot, err := h.ruleStore.Snapshot()
	if err != nil {
		return err
	}

	report := rules.Evaluate(products, day, snapshot)
	return c.JSON(fiber.Map{"success": true, "data": report})
}
