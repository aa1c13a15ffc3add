package models

import "github.com/google/uuid"

// Product is a catalog entry. TotalStock is derived from the variants and
// recomputed on every persist, never written directly by handlers.
type Product struct {
	BaseModel
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Category    string           `gorm:"default:Cardigan" json:"category"`
	Featured    bool             `json:"featured"`
	TotalStock  int              `json:"total_stock"`
	Images      []ProductImage   `json:"images,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

// RecalculateTotalStock sums variant stock into TotalStock.
func (p *Product) RecalculateTotalStock() {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	p.TotalStock = total
}

// ProductVariant is a size/color combination carrying its own stock count.
// Stock is only ever decremented by payment reconciliation.
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Stock     int       `json:"stock"`
	SKU       string    `gorm:"index" json:"sku,omitempty"`
}

// ProductImage references an externally hosted image. PublicID is the media
// host's storage handle, needed to delete the remote asset.
type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
}
