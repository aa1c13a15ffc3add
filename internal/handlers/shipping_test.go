package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nairacardigans/internal/models"
)

func TestUpsertRateCreatesWithDefaultEstimate(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)

	resp, body := ta.request(t, fiber.MethodPost, "/api/shipping/", map[string]any{
		"state": "Lagos", "rate": 2500,
	}, bearer(token))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Lagos", data["state"])
	assert.Equal(t, float64(2500), data["rate"])
	assert.Equal(t, "3-5 business days", data["estimated_days"])
}

func TestUpsertRateReplacesCaseInsensitively(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)

	resp, _ := ta.request(t, fiber.MethodPost, "/api/shipping/", map[string]any{
		"state": "Lagos", "rate": 2500,
	}, bearer(token))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Same state in a different case replaces rather than duplicates.
	resp, _ = ta.request(t, fiber.MethodPost, "/api/shipping/", map[string]any{
		"state": "lagos", "rate": 3000, "estimated_days": "1-2 business days",
	}, bearer(token))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var rates []models.ShippingRate
	require.NoError(t, ta.db.Find(&rates).Error)
	require.Len(t, rates, 1)
	assert.Equal(t, "lagos", rates[0].State)
	assert.Equal(t, 3000.0, rates[0].Rate)
	assert.Equal(t, "1-2 business days", rates[0].EstimatedDays)
}

func TestUpsertRateValidation(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)

	resp, body := ta.request(t, fiber.MethodPost, "/api/shipping/", map[string]any{
		"state": "", "rate": -5,
	}, bearer(token))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["errors"])
}

func TestGetRateByStateCaseInsensitive(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)
	require.NoError(t, ta.db.Create(&models.ShippingRate{State: "Abuja", Rate: 3000}).Error)

	resp, body := ta.request(t, fiber.MethodGet, "/api/shipping/ABUJA", nil, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Abuja", body["data"].(map[string]any)["state"])

	resp, _ = ta.request(t, fiber.MethodGet, "/api/shipping/Atlantis", nil, bearer(token))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateAndDeleteRate(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)

	rate := models.ShippingRate{State: "Kano", Rate: 4000}
	require.NoError(t, ta.db.Create(&rate).Error)

	resp, body := ta.request(t, fiber.MethodPut, "/api/shipping/"+rate.ID.String(), map[string]any{
		"rate": 4500,
	}, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4500), body["data"].(map[string]any)["rate"])

	resp, _ = ta.request(t, fiber.MethodDelete, "/api/shipping/"+rate.ID.String(), nil, bearer(token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = ta.request(t, fiber.MethodDelete, "/api/shipping/"+rate.ID.String(), nil, bearer(token))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPublicShippingRatesList(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.db.Create(&models.ShippingRate{State: "Lagos", Rate: 2500}).Error)
	require.NoError(t, ta.db.Create(&models.ShippingRate{State: "Abuja", Rate: 3000}).Error)

	resp, body := ta.request(t, fiber.MethodGet, "/api/checkout/shipping-rates", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].([]any)
	require.Len(t, data, 2)
	// Sorted by state.
	assert.Equal(t, "Abuja", data[0].(map[string]any)["state"])
	assert.Equal(t, "Lagos", data[1].(map[string]any)["state"])
}
