package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/metrics"
	"github.com/example/nairacardigans/internal/models"
)

// MarkOrderPaid is the single idempotent paid transition shared by the
// webhook and poll reconciliation paths. The claim is an atomic conditional
// update: only the caller whose UPDATE flips payment_status from pending to
// verified proceeds to decrement stock, so racing paths cannot decrement
// twice. Repeated calls after the claim are no-ops.
//
// order.Items must be loaded. path labels the metrics counter.
func (s *CheckoutService) MarkOrderPaid(ctx context.Context, order *models.Order, path string) error {
	claim := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, models.PaymentPending).
		Updates(map[string]any{
			"payment_status": models.PaymentVerified,
			"order_status":   models.OrderProcessing,
		})
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		log.Printf("[Reconcile] Order %s already settled, skipping", order.OrderNumber)
		return nil
	}

	metrics.PaymentsVerified.WithLabelValues(path).Inc()
	log.Printf("[Reconcile] Payment verified for order %s via %s", order.OrderNumber, path)

	if err := s.decrementStock(ctx, order); err != nil {
		return err
	}

	s.notifyPaid(order)
	return nil
}

// decrementStock applies each line's quantity with a floor check: the UPDATE
// only fires while enough stock remains, so stock never goes negative even
// when checkout oversold. Shortfalls flag the order for manual admin
// reconciliation instead of failing the payment.
func (s *CheckoutService) decrementStock(ctx context.Context, order *models.Order) error {
	var shortfalls []string

	for _, item := range order.Items {
		res := s.db.WithContext(ctx).Model(&models.ProductVariant{}).
			Where("id = ? AND stock >= ?", item.VariantID, item.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("[Reconcile] Stock shortfall on order %s: %s (%s/%s) x%d",
				order.OrderNumber, item.Name, item.Size, item.Color, item.Quantity)
			shortfalls = append(shortfalls, fmt.Sprintf("%s (%s/%s) x%d", item.Name, item.Size, item.Color, item.Quantity))
			continue
		}

		if err := s.recalculateTotalStock(ctx, item); err != nil {
			return err
		}
	}

	if len(shortfalls) > 0 {
		note := "stock unavailable at payment confirmation: " + strings.Join(shortfalls, "; ")
		return s.db.WithContext(ctx).Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{"stock_issue": true, "reconcile_note": note}).Error
	}

	return nil
}

func (s *CheckoutService) recalculateTotalStock(ctx context.Context, item models.OrderItem) error {
	return s.db.WithContext(ctx).Exec(
		`UPDATE products SET total_stock = (SELECT COALESCE(SUM(stock), 0) FROM product_variants WHERE product_id = ?) WHERE id = ?`,
		item.ProductID, item.ProductID,
	).Error
}

func (s *CheckoutService) notifyPaid(order *models.Order) {
	if s.telegram == nil {
		return
	}

	lines := make([]PaidOrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, PaidOrderLine{
			Name:     item.Name,
			Size:     item.Size,
			Color:    item.Color,
			Quantity: item.Quantity,
		})
	}

	err := s.telegram.NotifyOrderPaid(PaidOrderNotification{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.Customer.Name,
		Phone:        order.Customer.Phone,
		State:        order.ShippingAddress.State,
		Total:        order.Total,
		Lines:        lines,
	})
	if err != nil {
		log.Printf("[Reconcile] Telegram notification failed for %s: %v", order.OrderNumber, err)
	}
}
