package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/nairacardigans/internal/metrics"
	"github.com/example/nairacardigans/internal/services"
)

// PaystackSignature verifies the gateway's HMAC-SHA512 signature over the raw
// webhook body before the handler runs. A mismatch is rejected with 401 and
// causes no state change.
func PaystackSignature(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("x-paystack-signature")
		if !services.VerifyWebhookSignature(secretKey, c.Body(), signature) {
			metrics.WebhookRejected.WithLabelValues("signature").Inc()
			return fiber.NewError(fiber.StatusUnauthorized, "invalid signature")
		}
		return c.Next()
	}
}
