package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/models"
	"github.com/example/nairacardigans/internal/services"
)

// CheckoutHandler exposes the public checkout and payment-verification routes.
type CheckoutHandler struct {
	db       *gorm.DB
	checkout *services.CheckoutService
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(db *gorm.DB, checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{db: db, checkout: checkout}
}

// CreateOrder validates the submitted cart, persists a pending order and
// returns the gateway redirect. Structural and shipping failures are 400s;
// catalog, stock and gateway failures surface as 500s with the service's
// message, matching the storefront's expectations.
func (h *CheckoutHandler) CreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.checkout.CreateOrder(c.Context(), req)
	if err != nil {
		log.Printf("[Checkout] Create order failed: %v", err)

		var shipErr *services.ShippingUnavailableError
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return fiber.NewError(fiber.StatusBadRequest, "Cart is empty")
		case errors.Is(err, services.ErrMissingCustomerInfo):
			return fiber.NewError(fiber.StatusBadRequest, "Customer information is required")
		case errors.Is(err, services.ErrMissingShippingState):
			return fiber.NewError(fiber.StatusBadRequest, "Shipping state is required")
		case errors.As(err, &shipErr):
			return fiber.NewError(fiber.StatusBadRequest, "Shipping not available to "+shipErr.State)
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

// VerifyPayment is the poll reconciliation path, hit after the gateway
// redirects the customer back.
func (h *CheckoutHandler) VerifyPayment(c *fiber.Ctx) error {
	result, err := h.checkout.VerifyPayment(c.Context(), c.Params("reference"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		log.Printf("[Checkout] Verification failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	data := fiber.Map{
		"order":           result.Order,
		"paymentVerified": result.PaymentVerified,
	}
	if !result.PaymentVerified && result.ProviderStatus != "" {
		data["paymentStatus"] = result.ProviderStatus
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// ShippingRates lists the configured rates for the storefront's state picker.
func (h *CheckoutHandler) ShippingRates(c *fiber.Ctx) error {
	var rates []models.ShippingRate
	if err := h.db.Order("state asc").Find(&rates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rates})
}

// TrackOrder returns a customer-facing order summary by order number,
// without internal ids.
func (h *CheckoutHandler) TrackOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := h.db.Preload("Items").
		Where("order_number = ?", c.Params("orderNumber")).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	items := make([]fiber.Map, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fiber.Map{
			"name":     item.Name,
			"size":     item.Size,
			"color":    item.Color,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"orderNumber":     order.OrderNumber,
			"orderStatus":     order.OrderStatus,
			"paymentStatus":   order.PaymentStatus,
			"items":           items,
			"total":           order.Total,
			"shippingAddress": order.ShippingAddress,
			"createdAt":       order.CreatedAt,
		},
	})
}
