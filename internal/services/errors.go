package services

import (
	"errors"
	"fmt"
)

// Structural checkout failures, cheapest checks first.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingCustomerInfo  = errors.New("customer information is required")
	ErrMissingShippingState = errors.New("shipping state is required")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrOrderNotFound        = errors.New("order not found")
)

// ProductNotFoundError is returned when a cart line references an unknown product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// VariantNotFoundError is returned when a cart line names a variant the
// product does not have.
type VariantNotFoundError struct {
	ProductName string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant not found for %s", e.ProductName)
}

// InsufficientStockError carries the available quantity so the storefront can
// show it to the customer.
type InsufficientStockError struct {
	ProductName string
	Size        string
	Color       string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s/%s). Available: %d",
		e.ProductName, e.Size, e.Color, e.Available)
}

// ShippingUnavailableError means no rate is configured for the requested state.
// A missing rate is a hard checkout failure, never a fallback to zero.
type ShippingUnavailableError struct {
	State string
}

func (e *ShippingUnavailableError) Error() string {
	return fmt.Sprintf("shipping not available to %s", e.State)
}

// PaymentGatewayError wraps an initialize or verify call that failed or
// timed out.
type PaymentGatewayError struct {
	Op  string
	Err error
}

func (e *PaymentGatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *PaymentGatewayError) Unwrap() error { return e.Err }

// AmountMismatchError guards the webhook path against tampered amounts.
type AmountMismatchError struct {
	Expected int64
	Received int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount mismatch: expected %d, received %d", e.Expected, e.Received)
}
