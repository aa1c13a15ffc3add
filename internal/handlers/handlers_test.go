package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/config"
	"github.com/example/nairacardigans/internal/models"
	"github.com/example/nairacardigans/internal/routes"
	"github.com/example/nairacardigans/internal/testutil"
)

type testApp struct {
	app     *fiber.App
	db      *gorm.DB
	cfg     *config.Config
	gateway *testutil.FakePaystack
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.NewTestDB(t)
	gateway := testutil.NewFakePaystack(t)

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		TokenExpires:      time.Hour,
		PaystackSecretKey: "sk_test_secret",
		PaystackBaseURL:   gateway.Server.URL,
		ClientURL:         "http://localhost:5173",
	}

	app := fiber.New()
	routes.Register(app, db, cfg)

	return &testApp{app: app, db: db, cfg: cfg, gateway: gateway}
}

// request sends a JSON request through the fiber app and decodes the JSON
// response body, if any.
func (ta *testApp) request(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]any
	json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// registerSuperadmin bootstraps the first account and returns its token.
func (ta *testApp) registerSuperadmin(t *testing.T) string {
	t.Helper()

	resp, body := ta.request(t, fiber.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Root Admin",
		"email":    "root@test.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	return data["token"].(string)
}

// seedCatalog creates one product with an M/Blue variant plus a Lagos
// shipping rate, and returns the product.
func (ta *testApp) seedCatalog(t *testing.T, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:        "Handler Test Cardigan",
		Description: "A cardigan used in handler tests",
		Price:       15000,
		Variants: []models.ProductVariant{
			{Size: "M", Color: "Blue", Stock: stock},
		},
	}
	product.RecalculateTotalStock()
	require.NoError(t, ta.db.Create(&product).Error)
	require.NoError(t, ta.db.Create(&models.ShippingRate{State: "Lagos", Rate: 2500}).Error)
	return product
}

// placeOrder runs a full checkout through the public route and returns the
// created order.
func (ta *testApp) placeOrder(t *testing.T, product models.Product, qty int) models.Order {
	t.Helper()

	resp, body := ta.request(t, fiber.MethodPost, "/api/checkout/create-order", map[string]any{
		"items": []map[string]any{{
			"productId": product.ID.String(),
			"variantId": product.Variants[0].ID.String(),
			"quantity":  qty,
		}},
		"customer": map[string]string{
			"name":  "Jane Doe",
			"email": "jane@test.com",
			"phone": "08012345678",
		},
		"shippingAddress": map[string]string{
			"address": "12 Allen Avenue",
			"city":    "Ikeja",
			"state":   "Lagos",
			"zip_code": "100001",
		},
	}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	reference := body["data"].(map[string]any)["reference"].(string)

	var order models.Order
	require.NoError(t, ta.db.Preload("Items").
		Where("paystack_reference = ?", reference).
		First(&order).Error)
	return order
}
