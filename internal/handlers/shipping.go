package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/models"
	"github.com/example/nairacardigans/internal/validation"
)

// ShippingHandler manages the per-state shipping rate table.
type ShippingHandler struct {
	db *gorm.DB
}

// NewShippingHandler constructs ShippingHandler.
func NewShippingHandler(db *gorm.DB) *ShippingHandler {
	return &ShippingHandler{db: db}
}

// ListRates returns all rates sorted by state.
func (h *ShippingHandler) ListRates(c *fiber.Ctx) error {
	var rates []models.ShippingRate
	if err := h.db.Order("state asc").Find(&rates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rates})
}

// GetRateByState looks a rate up by state, case-insensitively.
func (h *ShippingHandler) GetRateByState(c *fiber.Ctx) error {
	var rate models.ShippingRate
	if err := h.db.Where("LOWER(state) = LOWER(?)", c.Params("state")).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "shipping rate not found for this state")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rate})
}

// UpsertRate creates or replaces a state's rate. The match is
// case-insensitive so "lagos" and "Lagos" can never coexist.
func (h *ShippingHandler) UpsertRate(c *fiber.Ctx) error {
	var req validation.ShippingUpsert
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return err
	}

	var rate models.ShippingRate
	err := h.db.Where("LOWER(state) = LOWER(?)", req.State).First(&rate).Error
	switch {
	case err == nil:
		rate.State = req.State
		rate.Rate = req.Rate
		if req.EstimatedDays != "" {
			rate.EstimatedDays = req.EstimatedDays
		}
		if err := h.db.Save(&rate).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rate = models.ShippingRate{State: req.State, Rate: req.Rate, EstimatedDays: req.EstimatedDays}
		if rate.EstimatedDays == "" {
			rate.EstimatedDays = "3-5 business days"
		}
		if err := h.db.Create(&rate).Error; err != nil {
			return err
		}
	default:
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": rate})
}

// UpdateRate partially updates a rate by ID.
func (h *ShippingHandler) UpdateRate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req validation.ShippingUpdate
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return err
	}

	var rate models.ShippingRate
	if err := h.db.First(&rate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "shipping rate not found")
		}
		return err
	}

	if req.Rate != nil {
		rate.Rate = *req.Rate
	}
	if req.EstimatedDays != nil {
		rate.EstimatedDays = *req.EstimatedDays
	}

	if err := h.db.Save(&rate).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rate})
}

// DeleteRate removes a rate. Historical orders keep their frozen shipping
// cost, so deleting a referenced state is fine.
func (h *ShippingHandler) DeleteRate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res := h.db.Delete(&models.ShippingRate{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "shipping rate not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Shipping rate deleted successfully"})
}
