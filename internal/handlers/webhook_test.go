package handlers_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nairacardigans/internal/models"
	"github.com/example/nairacardigans/internal/services"
)

func chargeSuccessBody(reference string, amountKobo int64) []byte {
	return []byte(fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q,"amount":%d}}`, reference, amountKobo))
}

// deliverWebhook posts a raw body with the given signature header and
// returns the response status.
func (ta *testApp) deliverWebhook(t *testing.T, body []byte, signature string) int {
	t.Helper()

	resp, _ := ta.request(t, fiber.MethodPost, "/api/webhooks/paystack", json.RawMessage(body), map[string]string{
		"x-paystack-signature": signature,
	})
	return resp.StatusCode
}

func (ta *testApp) sign(body []byte) string {
	return services.NewPaystackService(ta.cfg).Signature(body)
}

func (ta *testApp) reloadOrder(t *testing.T, id any) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, ta.db.Preload("Items").First(&order, "id = ?", id).Error)
	return order
}

func (ta *testApp) variantStock(t *testing.T, product models.Product) int {
	t.Helper()
	var v models.ProductVariant
	require.NoError(t, ta.db.First(&v, "id = ?", product.Variants[0].ID).Error)
	return v.Stock
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedCatalog(t, 10)
	order := ta.placeOrder(t, product, 2)

	body := chargeSuccessBody(order.PaystackReference, services.Kobo(order.Total))

	assert.Equal(t, fiber.StatusUnauthorized, ta.deliverWebhook(t, body, "deadbeef"))
	assert.Equal(t, fiber.StatusUnauthorized, ta.deliverWebhook(t, body, ""))

	reloaded := ta.reloadOrder(t, order.ID)
	assert.Equal(t, models.PaymentPending, reloaded.PaymentStatus)
	assert.Equal(t, 10, ta.variantStock(t, product))
}

func TestWebhookRejectsAmountMismatch(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedCatalog(t, 10)
	order := ta.placeOrder(t, product, 2)

	body := chargeSuccessBody(order.PaystackReference, services.Kobo(order.Total)-100)

	assert.Equal(t, fiber.StatusBadRequest, ta.deliverWebhook(t, body, ta.sign(body)))

	reloaded := ta.reloadOrder(t, order.ID)
	assert.Equal(t, models.PaymentPending, reloaded.PaymentStatus)
	assert.Equal(t, 10, ta.variantStock(t, product))
}

func TestWebhookUnknownReference(t *testing.T) {
	ta := newTestApp(t)
	ta.seedCatalog(t, 10)

	body := chargeSuccessBody("NC-UNKNOWN-1", 100)
	assert.Equal(t, fiber.StatusNotFound, ta.deliverWebhook(t, body, ta.sign(body)))
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedCatalog(t, 10)
	order := ta.placeOrder(t, product, 2)

	body := []byte(fmt.Sprintf(`{"event":"charge.dispute.create","data":{"reference":%q,"amount":1}}`, order.PaystackReference))
	assert.Equal(t, fiber.StatusOK, ta.deliverWebhook(t, body, ta.sign(body)))

	reloaded := ta.reloadOrder(t, order.ID)
	assert.Equal(t, models.PaymentPending, reloaded.PaymentStatus)
}

func TestWebhookMarksOrderPaid(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedCatalog(t, 10)
	order := ta.placeOrder(t, product, 2)

	body := chargeSuccessBody(order.PaystackReference, services.Kobo(order.Total))
	require.Equal(t, fiber.StatusOK, ta.deliverWebhook(t, body, ta.sign(body)))

	reloaded := ta.reloadOrder(t, order.ID)
	assert.Equal(t, models.PaymentVerified, reloaded.PaymentStatus)
	assert.Equal(t, models.OrderProcessing, reloaded.OrderStatus)
	assert.Equal(t, 8, ta.variantStock(t, product))
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedCatalog(t, 10)
	order := ta.placeOrder(t, product, 2)

	body := chargeSuccessBody(order.PaystackReference, services.Kobo(order.Total))
	signature := ta.sign(body)

	require.Equal(t, fiber.StatusOK, ta.deliverWebhook(t, body, signature))
	require.Equal(t, fiber.StatusOK, ta.deliverWebhook(t, body, signature))
	require.Equal(t, fiber.StatusOK, ta.deliverWebhook(t, body, signature))

	assert.Equal(t, 8, ta.variantStock(t, product))
}

func TestWebhookThenPollConverges(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedCatalog(t, 10)
	order := ta.placeOrder(t, product, 2)

	body := chargeSuccessBody(order.PaystackReference, services.Kobo(order.Total))
	require.Equal(t, fiber.StatusOK, ta.deliverWebhook(t, body, ta.sign(body)))

	// The customer's redirect poll after the webhook already settled: it
	// short-circuits without a provider round trip or a second decrement.
	before := ta.gateway.VerifyCalls()
	resp, respBody := ta.request(t, fiber.MethodGet, "/api/checkout/verify/"+order.PaystackReference, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, respBody["data"].(map[string]any)["paymentVerified"])
	assert.Equal(t, before, ta.gateway.VerifyCalls())
	assert.Equal(t, 8, ta.variantStock(t, product))
}
