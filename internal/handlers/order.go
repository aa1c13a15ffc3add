package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/models"
	"github.com/example/nairacardigans/internal/utils"
)

// OrderHandler manages the admin order back-office.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

// sortColumns whitelists the sortable fields exposed to the admin UI.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"total":       "total",
	"orderNumber": "order_number",
}

// ListOrders returns orders with payment/fulfillment filters, free-text
// search over order number and customer contact, pagination and sort.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if v := c.Query("paymentStatus"); v != "" {
		query = query.Where("payment_status = ?", v)
	}
	if v := c.Query("orderStatus"); v != "" {
		query = query.Where("order_status = ?", v)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where(
			"LOWER(order_number) LIKE LOWER(?) OR LOWER(customer_name) LIKE LOWER(?) OR LOWER(customer_email) LIKE LOWER(?) OR customer_phone LIKE ?",
			q, q, q, q)
	}

	column, ok := sortColumns[c.Query("sortBy", "createdAt")]
	if !ok {
		column = "created_at"
	}
	direction := "desc"
	if c.Query("sortOrder") == "asc" {
		direction = "asc"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order(column + " " + direction).
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	pages := total / int64(pg.Limit)
	if total%int64(pg.Limit) != 0 {
		pages++
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"page":  pg.Page,
			"limit": pg.Limit,
			"total": total,
			"pages": pages,
		},
	})
}

// GetOrder returns a single order by ID.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.loadOrder(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// GetOrderByNumber returns a single order by order number.
func (h *OrderHandler) GetOrderByNumber(c *fiber.Ctx) error {
	var order models.Order
	if err := h.db.Preload("Items").
		Where("order_number = ?", c.Params("orderNumber")).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
}

// UpdateStatus sets the fulfillment status. Any-to-any transitions are
// allowed for manual override flexibility, but skipped stages are logged as
// anomalies for audit.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidOrderStatus(req.OrderStatus) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Invalid status. Must be one of: "+strings.Join(models.OrderStatuses, ", "))
	}

	order, err := h.loadOrder(c)
	if err != nil {
		return err
	}

	from, to := models.OrderStatusRank(order.OrderStatus), models.OrderStatusRank(req.OrderStatus)
	if from >= 0 && to >= 0 && to > from+1 {
		log.Printf("[Order] Anomalous transition on %s: %s -> %s skips stages",
			order.OrderNumber, order.OrderStatus, req.OrderStatus)
	}

	if err := h.db.Model(order).Update("order_status", req.OrderStatus).Error; err != nil {
		return err
	}
	order.OrderStatus = req.OrderStatus

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// UpdatePayment overrides the payment status directly, bypassing the
// gateway, for out-of-band reconciliation (e.g. a confirmed bank transfer).
func (h *OrderHandler) UpdatePayment(c *fiber.Ctx) error {
	var req updatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidPaymentStatus(req.PaymentStatus) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Invalid payment status. Must be one of: "+strings.Join(models.PaymentStatuses, ", "))
	}

	order, err := h.loadOrder(c)
	if err != nil {
		return err
	}

	if err := h.db.Model(order).Update("payment_status", req.PaymentStatus).Error; err != nil {
		return err
	}
	order.PaymentStatus = req.PaymentStatus

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// Stats returns counts per fulfillment-status and payment-status bucket.
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	type bucket struct {
		Status string
		Count  int64
	}

	var total int64
	if err := h.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return err
	}

	var orderBuckets []bucket
	if err := h.db.Model(&models.Order{}).
		Select("order_status as status, COUNT(*) as count").
		Group("order_status").
		Scan(&orderBuckets).Error; err != nil {
		return err
	}

	var paymentBuckets []bucket
	if err := h.db.Model(&models.Order{}).
		Select("payment_status as status, COUNT(*) as count").
		Group("payment_status").
		Scan(&paymentBuckets).Error; err != nil {
		return err
	}

	counts := map[string]int64{}
	for _, b := range orderBuckets {
		counts[b.Status] = b.Count
	}
	payments := map[string]int64{}
	for _, b := range paymentBuckets {
		payments[b.Status] = b.Count
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"totalOrders":      total,
			"pendingOrders":    counts[models.OrderPending],
			"processingOrders": counts[models.OrderProcessing],
			"shippedOrders":    counts[models.OrderShipped],
			"deliveredOrders":  counts[models.OrderDelivered],
			"cancelledOrders":  counts[models.OrderCancelled],
			"verifiedPayments": payments[models.PaymentVerified],
			"pendingPayments":  payments[models.PaymentPending],
		},
	})
}

func (h *OrderHandler) loadOrder(c *fiber.Ctx) (*models.Order, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return nil, err
	}

	return &order, nil
}
