package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/nairacardigans/internal/metrics"
	"github.com/example/nairacardigans/internal/services"
)

// WebhookHandler receives gateway events. Delivery is at-least-once, so the
// handler leans entirely on the idempotent claim in the checkout service.
type WebhookHandler struct {
	checkout *services.CheckoutService
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(checkout *services.CheckoutService) *WebhookHandler {
	return &WebhookHandler{checkout: checkout}
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// HandlePaystack processes a signed gateway event. Signature verification
// happens in middleware before this runs. Only charge.success mutates state;
// everything else is acked and dropped.
func (h *WebhookHandler) HandlePaystack(c *fiber.Ctx) error {
	var event paystackEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid event payload")
	}

	if event.Event != "charge.success" {
		return c.JSON(fiber.Map{"success": true})
	}

	order, err := h.checkout.FindOrderByReference(c.Context(), event.Data.Reference)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			log.Printf("[Webhook] Order not found for reference %s", event.Data.Reference)
			metrics.WebhookRejected.WithLabelValues("order_not_found").Inc()
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	// The paid amount must match the frozen order total exactly; anything
	// else is treated as tampering and changes no state.
	if expected := services.Kobo(order.Total); expected != event.Data.Amount {
		log.Printf("[Webhook] Amount mismatch for %s: expected %d, received %d",
			order.OrderNumber, expected, event.Data.Amount)
		metrics.WebhookRejected.WithLabelValues("amount_mismatch").Inc()
		return fiber.NewError(fiber.StatusBadRequest, "amount mismatch")
	}

	if err := h.checkout.MarkOrderPaid(c.Context(), order, "webhook"); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
