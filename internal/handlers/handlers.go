// Package handlers contains the HTTP route handlers. Each handler struct
// bundles its dependencies and is constructed once in routes.Register.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/nairacardigans/internal/validation"
)

// respondValidation renders a validation.Error as a 400 with field details.
// Returns false when err is not a validation error.
func respondValidation(c *fiber.Ctx, err error) (bool, error) {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false, nil
	}

	return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  verr.Fields,
	})
}
