package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/config"
	"github.com/example/nairacardigans/internal/metrics"
	"github.com/example/nairacardigans/internal/models"
	"github.com/example/nairacardigans/internal/utils"
)

// CheckoutService turns a client-held cart into a priced, persisted, pending
// order and an external payment redirect, and reconciles payments afterwards.
type CheckoutService struct {
	db       *gorm.DB
	cfg      *config.Config
	paystack *PaystackService
	telegram *TelegramService
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(db *gorm.DB, cfg *config.Config, paystack *PaystackService, telegram *TelegramService) *CheckoutService {
	return &CheckoutService{db: db, cfg: cfg, paystack: paystack, telegram: telegram}
}

// CartItem is one client-submitted cart line.
type CartItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items           []CartItem             `json:"items"`
	Customer        models.CustomerInfo    `json:"customer"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

// CreateOrderResult carries the redirect data back to the storefront.
type CreateOrderResult struct {
	OrderNumber      string `json:"orderNumber"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
}

// CreateOrder validates the cart against the live catalog, prices it with the
// state's shipping rate, persists a pending order with frozen line snapshots
// and initializes the gateway transaction. Validation is layered so the
// cheapest checks short-circuit first. Stock is only read here, never
// reserved; the decrement happens at payment confirmation.
//
// A gateway failure after persistence leaves the order in pending/pending for
// manual reconciliation: no stock or payment was committed.
func (s *CheckoutService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.Customer.Name == "" || req.Customer.Email == "" || req.Customer.Phone == "" {
		return nil, ErrMissingCustomerInfo
	}
	if req.ShippingAddress.State == "" {
		return nil, ErrMissingShippingState
	}

	items, subtotal, err := s.validateCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var rate models.ShippingRate
	if err := s.db.WithContext(ctx).
		Where("LOWER(state) = LOWER(?)", req.ShippingAddress.State).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ShippingUnavailableError{State: req.ShippingAddress.State}
		}
		return nil, err
	}

	total := subtotal + rate.Rate
	orderNumber := utils.GenerateOrderNumber()
	reference := utils.PaymentReference(orderNumber)

	order := models.Order{
		OrderNumber:       orderNumber,
		PaystackReference: reference,
		Customer:          req.Customer,
		ShippingAddress:   req.ShippingAddress,
		Items:             items,
		Subtotal:          subtotal,
		ShippingCost:      rate.Rate,
		Total:             total,
		PaymentStatus:     models.PaymentPending,
		OrderStatus:       models.OrderPending,
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	metrics.OrdersCreated.Inc()

	callbackURL := fmt.Sprintf("%s/order-confirmation?reference=%s", s.cfg.ClientURL, reference)
	init, err := s.paystack.Initialize(ctx, req.Customer.Email, Kobo(total), reference, callbackURL, map[string]any{
		"order_number":   orderNumber,
		"customer_name":  req.Customer.Name,
		"customer_phone": req.Customer.Phone,
	})
	if err != nil {
		return nil, err
	}

	return &CreateOrderResult{
		OrderNumber:      orderNumber,
		Reference:        reference,
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
	}, nil
}

// validateCart resolves every cart line against the live catalog and returns
// frozen line snapshots plus the running subtotal. Sequential and not
// transactional: two concurrent checkouts can both pass against the same
// variant; the floor-checked decrement at confirmation is what keeps stock
// non-negative.
func (s *CheckoutService) validateCart(ctx context.Context, lines []CartItem) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(lines))
	var subtotal float64

	for _, line := range lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, 0, &ProductNotFoundError{ProductID: line.ProductID}
		}

		var product models.Product
		if err := s.db.WithContext(ctx).Preload("Variants").
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, &ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, 0, err
		}

		variantID, err := uuid.Parse(line.VariantID)
		if err != nil {
			return nil, 0, &VariantNotFoundError{ProductName: product.Name}
		}

		var variant *models.ProductVariant
		for i := range product.Variants {
			if product.Variants[i].ID == variantID {
				variant = &product.Variants[i]
				break
			}
		}
		if variant == nil {
			return nil, 0, &VariantNotFoundError{ProductName: product.Name}
		}

		if variant.Stock < line.Quantity {
			return nil, 0, &InsufficientStockError{
				ProductName: product.Name,
				Size:        variant.Size,
				Color:       variant.Color,
				Available:   variant.Stock,
				Requested:   line.Quantity,
			}
		}

		subtotal += product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			VariantID: variant.ID,
			Name:      product.Name,
			Size:      variant.Size,
			Color:     variant.Color,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	return items, subtotal, nil
}

// VerifyResultForOrder is what the poll path returns to the storefront.
type VerifyResultForOrder struct {
	Order           *models.Order
	PaymentVerified bool
	ProviderStatus  string
}

// VerifyPayment is the client-driven reconciliation path: locate the order by
// reference, short-circuit if it is already verified, otherwise ask the
// provider and apply the shared paid transition on success. A non-success
// provider report never force-writes a failure.
func (s *CheckoutService) VerifyPayment(ctx context.Context, reference string) (*VerifyResultForOrder, error) {
	order, err := s.FindOrderByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentVerified {
		return &VerifyResultForOrder{Order: order, PaymentVerified: true}, nil
	}

	result, err := s.paystack.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !result.Success() {
		return &VerifyResultForOrder{Order: order, PaymentVerified: false, ProviderStatus: result.Status}, nil
	}

	if err := s.MarkOrderPaid(ctx, order, "poll"); err != nil {
		return nil, err
	}

	// Reload so the caller sees the applied transition, whichever path won it.
	order, err = s.FindOrderByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	return &VerifyResultForOrder{Order: order, PaymentVerified: true}, nil
}

// FindOrderByReference loads an order with its items by gateway reference.
func (s *CheckoutService) FindOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		Where("paystack_reference = ?", reference).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Kobo converts a naira amount to the gateway's minor units.
func Kobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
