package validation

import (
	"fmt"
	"strings"
)

// VariantInput is one size/color combination in a product payload.
type VariantInput struct {
	ID    string `json:"id"`
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
	SKU   string `json:"sku"`
}

// ProductCreate is the request body for creating a product.
type ProductCreate struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Featured    bool           `json:"featured"`
	Variants    []VariantInput `json:"variants"`
}

// Validate checks the create payload: name present, description at least ten
// characters, positive price, at least one variant with non-empty size/color
// and non-negative stock.
func (r *ProductCreate) Validate() error {
	var verr Error

	if strings.TrimSpace(r.Name) == "" {
		verr.add("name", "Product name is required")
	}
	if len(strings.TrimSpace(r.Description)) < 10 {
		verr.add("description", "Description must be at least 10 characters")
	}
	if r.Price <= 0 {
		verr.add("price", "Price must be greater than 0")
	}
	if len(r.Variants) == 0 {
		verr.add("variants", "At least one variant is required")
	}
	validateVariants(&verr, r.Variants)

	return verr.orNil()
}

// ProductUpdate is the request body for a partial product update. Nil fields
// are left untouched.
type ProductUpdate struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Category    *string        `json:"category"`
	Featured    *bool          `json:"featured"`
	Variants    []VariantInput `json:"variants"`
}

// Validate applies the same field constraints as ProductCreate to whichever
// fields are present.
func (r *ProductUpdate) Validate() error {
	var verr Error

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		verr.add("name", "Product name is required")
	}
	if r.Description != nil && len(strings.TrimSpace(*r.Description)) < 10 {
		verr.add("description", "Description must be at least 10 characters")
	}
	if r.Price != nil && *r.Price <= 0 {
		verr.add("price", "Price must be greater than 0")
	}
	validateVariants(&verr, r.Variants)

	return verr.orNil()
}

func validateVariants(verr *Error, variants []VariantInput) {
	for i, v := range variants {
		if strings.TrimSpace(v.Size) == "" {
			verr.add(fmt.Sprintf("variants.%d.size", i), "Size is required")
		}
		if strings.TrimSpace(v.Color) == "" {
			verr.add(fmt.Sprintf("variants.%d.color", i), "Color is required")
		}
		if v.Stock < 0 {
			verr.add(fmt.Sprintf("variants.%d.stock", i), "Stock must be a non-negative number")
		}
	}
}

// ImageUpload is the request body for attaching images to a product.
type ImageUpload struct {
	Images []string `json:"images"`
}

// Validate requires at least one image payload.
func (r *ImageUpload) Validate() error {
	var verr Error
	if len(r.Images) == 0 {
		verr.add("images", "At least one image is required")
	}
	return verr.orNil()
}
