package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nairacardigans/internal/models"
)

func TestCreateProduct(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)

	resp, body := ta.request(t, fiber.MethodPost, "/api/products/", map[string]any{
		"name":        "Chunky Knit Cardigan",
		"description": "A heavyweight chunky knit cardigan",
		"price":       25000,
		"featured":    true,
		"variants": []map[string]any{
			{"size": "M", "color": "Cream", "stock": 4},
			{"size": "L", "color": "Cream", "stock": 6},
		},
	}, bearer(token))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Chunky Knit Cardigan", data["name"])
	assert.Equal(t, "Cardigan", data["category"]) // default when omitted
	assert.Equal(t, float64(10), data["total_stock"])
	assert.Len(t, data["variants"].([]any), 2)
}

func TestCreateProductValidation(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)

	resp, body := ta.request(t, fiber.MethodPost, "/api/products/", map[string]any{
		"name":        "",
		"description": "too short",
		"price":       0,
	}, bearer(token))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	fields := map[string]bool{}
	for _, e := range body["errors"].([]any) {
		fields[e.(map[string]any)["field"].(string)] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["description"])
	assert.True(t, fields["price"])
	assert.True(t, fields["variants"])

	var count int64
	require.NoError(t, ta.db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateProductReplacesVariants(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)
	product := ta.seedCatalog(t, 10)

	resp, body := ta.request(t, fiber.MethodPut, "/api/products/"+product.ID.String(), map[string]any{
		"price": 18000,
		"variants": []map[string]any{
			{"size": "S", "color": "Green", "stock": 3},
			{"size": "M", "color": "Green", "stock": 7},
			{"size": "L", "color": "Green", "stock": 2},
		},
	}, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(12), body["data"].(map[string]any)["total_stock"])

	var variants []models.ProductVariant
	require.NoError(t, ta.db.Where("product_id = ?", product.ID).Find(&variants).Error)
	require.Len(t, variants, 3)
	for _, v := range variants {
		assert.Equal(t, "Green", v.Color)
	}

	var reloaded models.Product
	require.NoError(t, ta.db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 18000.0, reloaded.Price)
	assert.Equal(t, 12, reloaded.TotalStock)
}

func TestUpdateProductPartialKeepsVariants(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)
	product := ta.seedCatalog(t, 10)

	resp, _ := ta.request(t, fiber.MethodPut, "/api/products/"+product.ID.String(), map[string]any{
		"featured": true,
	}, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var variants []models.ProductVariant
	require.NoError(t, ta.db.Where("product_id = ?", product.ID).Find(&variants).Error)
	assert.Len(t, variants, 1)

	var reloaded models.Product
	require.NoError(t, ta.db.First(&reloaded, "id = ?", product.ID).Error)
	assert.True(t, reloaded.Featured)
	assert.Equal(t, 10, reloaded.TotalStock)
}

func TestDeleteProduct(t *testing.T) {
	ta := newTestApp(t)
	token := ta.registerSuperadmin(t)
	product := ta.seedCatalog(t, 10)

	resp, _ := ta.request(t, fiber.MethodDelete, "/api/products/"+product.ID.String(), nil, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, ta.db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, ta.db.Model(&models.ProductVariant{}).Count(&count).Error)
	assert.Zero(t, count)

	resp, _ = ta.request(t, fiber.MethodDelete, "/api/products/"+product.ID.String(), nil, bearer(token))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStorefrontCatalog(t *testing.T) {
	ta := newTestApp(t)

	featured := models.Product{
		Name: "Featured Cardigan", Description: "A featured knit cardigan", Price: 20000, Featured: true,
		Variants: []models.ProductVariant{{Size: "M", Color: "Black", Stock: 5}},
	}
	featured.RecalculateTotalStock()
	require.NoError(t, ta.db.Create(&featured).Error)

	soldOut := models.Product{
		Name: "Sold Out Cardigan", Description: "A featured but sold-out one", Price: 20000, Featured: true,
		Variants: []models.ProductVariant{{Size: "M", Color: "Grey", Stock: 0}},
	}
	soldOut.RecalculateTotalStock()
	require.NoError(t, ta.db.Create(&soldOut).Error)

	plain := models.Product{
		Name: "Plain Cardigan", Description: "An everyday plain cardigan", Price: 12000,
		Variants: []models.ProductVariant{{Size: "L", Color: "Navy", Stock: 3}},
	}
	plain.RecalculateTotalStock()
	require.NoError(t, ta.db.Create(&plain).Error)

	// Full catalog lists everything, featured first.
	resp, body := ta.request(t, fiber.MethodGet, "/api/store/products", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].([]any)
	require.Len(t, data, 3)
	assert.Equal(t, true, data[0].(map[string]any)["featured"])

	// Featured listing skips out-of-stock items.
	_, body = ta.request(t, fiber.MethodGet, "/api/store/products/featured", nil, nil)
	data = body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Featured Cardigan", data[0].(map[string]any)["name"])

	// Single product fetch includes variants.
	resp, body = ta.request(t, fiber.MethodGet, "/api/store/products/"+featured.ID.String(), nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].(map[string]any)["variants"].([]any), 1)

	resp, _ = ta.request(t, fiber.MethodGet, "/api/store/products/"+"00000000-0000-0000-0000-000000000000", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminProductRoutesRequireAuth(t *testing.T) {
	ta := newTestApp(t)

	resp, _ := ta.request(t, fiber.MethodPost, "/api/products/", map[string]any{"name": "x"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
