package models

import "github.com/google/uuid"

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentFailed   = "failed"
)

// Fulfillment statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderStatuses lists valid fulfillment statuses in their natural order.
var OrderStatuses = []string{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// PaymentStatuses lists valid payment statuses.
var PaymentStatuses = []string{PaymentPending, PaymentVerified, PaymentFailed}

// ValidOrderStatus reports whether s is a known fulfillment status.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderStatusRank returns the position of s in the normal fulfillment
// progression, or -1 for cancelled/unknown. Used to log skipped-stage
// transitions as anomalies.
func OrderStatusRank(s string) int {
	switch s {
	case OrderPending:
		return 0
	case OrderProcessing:
		return 1
	case OrderShipped:
		return 2
	case OrderDelivered:
		return 3
	default:
		return -1
	}
}

// CustomerInfo is the contact snapshot stored on an order.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ShippingAddress is the delivery address snapshot stored on an order.
type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Order is a persisted customer order. Line items, subtotal, shipping cost
// and total are frozen at creation time and never recomputed from the live
// catalog.
type Order struct {
	BaseModel
	OrderNumber       string          `gorm:"uniqueIndex" json:"order_number"`
	PaystackReference string          `gorm:"uniqueIndex" json:"paystack_reference"`
	Customer          CustomerInfo    `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	ShippingAddress   ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Items             []OrderItem     `json:"items,omitempty"`
	Subtotal          float64         `json:"subtotal"`
	ShippingCost      float64         `json:"shipping_cost"`
	Total             float64         `json:"total"`
	PaymentStatus     string          `gorm:"default:pending" json:"payment_status"`
	OrderStatus       string          `gorm:"default:pending" json:"order_status"`
	StockIssue        bool            `json:"stock_issue"`
	ReconcileNote     string          `json:"reconcile_note,omitempty"`
}

// OrderItem is a frozen line snapshot: name, size, color and unit price are
// copied from the catalog at order creation and stay decoupled from later
// product edits.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid" json:"product_id"`
	VariantID uuid.UUID `gorm:"type:uuid" json:"variant_id"`
	Name      string    `json:"name"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}
