package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/models"
)

// StoreHandler serves the public storefront catalog reads.
type StoreHandler struct {
	db *gorm.DB
}

// NewStoreHandler constructs StoreHandler.
func NewStoreHandler(db *gorm.DB) *StoreHandler {
	return &StoreHandler{db: db}
}

// ListProducts returns the full catalog, featured items first, then newest.
func (h *StoreHandler) ListProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.db.Preload("Images").Preload("Variants").
		Order("featured desc, created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

// FeaturedProducts returns up to eight featured products that are in stock.
func (h *StoreHandler) FeaturedProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.db.Preload("Images").Preload("Variants").
		Where("featured = ? AND total_stock > 0", true).
		Order("created_at desc").
		Limit(8).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

// GetProduct returns a single product with images and variants.
func (h *StoreHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Images").Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}
