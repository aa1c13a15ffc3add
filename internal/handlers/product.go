package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/models"
	"github.com/example/nairacardigans/internal/services"
	"github.com/example/nairacardigans/internal/validation"
)

// ProductHandler manages the admin product catalog.
type ProductHandler struct {
	db    *gorm.DB
	media *services.MediaService
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, media *services.MediaService) *ProductHandler {
	return &ProductHandler{db: db, media: media}
}

// ListProducts returns all products, newest first.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.db.Preload("Images").Preload("Variants").
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

// GetProduct loads a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// CreateProduct validates and persists a new product with its variants.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req validation.ProductCreate
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return err
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Featured:    req.Featured,
		Variants:    buildVariants(req.Variants),
	}
	if product.Category == "" {
		product.Category = "Cardigan"
	}
	product.RecalculateTotalStock()

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct applies a partial update. When the payload carries variants
// the existing set is replaced wholesale and TotalStock is recomputed.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	var req validation.ProductUpdate
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.Variants != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
				return err
			}
			product.Variants = buildVariants(req.Variants)
			for i := range product.Variants {
				product.Variants[i].ProductID = product.ID
			}
			if len(product.Variants) > 0 {
				if err := tx.Create(&product.Variants).Error; err != nil {
					return err
				}
			}
		}

		product.RecalculateTotalStock()
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category":    product.Category,
			"featured":    product.Featured,
			"total_stock": product.TotalStock,
		}).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product, its variants, and its remote images.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	for _, image := range product.Images {
		h.media.Destroy(c.Context(), image.PublicID)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", product.ID).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}

// UploadImages pushes base64 payloads to the media host and appends the
// resulting references to the product.
func (h *ProductHandler) UploadImages(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	var req validation.ImageUpload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return err
	}

	uploaded, err := h.media.UploadAll(c.Context(), req.Images)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to upload images")
	}

	images := make([]models.ProductImage, 0, len(uploaded))
	for _, u := range uploaded {
		images = append(images, models.ProductImage{
			ProductID: product.ID,
			URL:       u.URL,
			PublicID:  u.PublicID,
		})
	}

	if err := h.db.Create(&images).Error; err != nil {
		return err
	}

	product.Images = append(product.Images, images...)
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteImage removes one image from the product and the media host.
func (h *ProductHandler) DeleteImage(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	imageID, err := uuid.Parse(c.Params("imageId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid image id")
	}

	var image models.ProductImage
	if err := h.db.First(&image, "id = ? AND product_id = ?", imageID, product.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "image not found")
		}
		return err
	}

	h.media.Destroy(c.Context(), image.PublicID)

	if err := h.db.Delete(&image).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Image deleted successfully"})
}

func (h *ProductHandler) loadProduct(c *fiber.Ctx) (*models.Product, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Images").Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return nil, err
	}

	return &product, nil
}

func buildVariants(inputs []validation.VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, v := range inputs {
		variant := models.ProductVariant{
			Size:  v.Size,
			Color: v.Color,
			Stock: v.Stock,
			SKU:   v.SKU,
		}
		if v.ID != "" {
			if id, err := uuid.Parse(v.ID); err == nil {
				variant.ID = id
			}
		}
		variants = append(variants, variant)
	}
	return variants
}
