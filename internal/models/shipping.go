package models

// ShippingRate is a flat per-state delivery fee. State names are unique
// case-insensitively; the upsert handler enforces that with a LOWER() match.
type ShippingRate struct {
	BaseModel
	State         string  `gorm:"uniqueIndex" json:"state"`
	Rate          float64 `json:"rate"`
	EstimatedDays string  `gorm:"default:'3-5 business days'" json:"estimated_days"`
}
