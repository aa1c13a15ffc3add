package handlers

import (
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/models"
)

// AnalyticsHandler serves read-only rollups over the order store for the
// admin dashboard. All aggregations count verified orders only.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

type variantStat struct {
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	TotalSold int64   `json:"totalSold"`
	Revenue   float64 `json:"revenue"`
}

type monthlyStat struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// Dashboard returns the main admin rollup: verified order count, revenue,
// top-selling variants, recent orders, the six-month revenue trend and
// low-stock alerts.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	var totalOrders int64
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentVerified).
		Count(&totalOrders).Error; err != nil {
		return err
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentVerified).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var topVariants []variantStat
	if err := h.db.Table("order_items").
		Select("order_items.size, order_items.color, SUM(order_items.quantity) as total_sold, SUM(order_items.quantity * order_items.price) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", models.PaymentVerified).
		Group("order_items.size, order_items.color").
		Order("total_sold desc").
		Limit(5).
		Scan(&topVariants).Error; err != nil {
		return err
	}

	var recentOrders []models.Order
	if err := h.db.Preload("Items").
		Where("payment_status = ?", models.PaymentVerified).
		Order("created_at desc").
		Limit(10).
		Find(&recentOrders).Error; err != nil {
		return err
	}

	monthly, err := h.monthlyRevenue()
	if err != nil {
		return err
	}

	var lowStock []models.Product
	if err := h.db.Preload("Variants").
		Where("total_stock < 10 AND total_stock > 0").
		Order("total_stock asc").
		Limit(10).
		Find(&lowStock).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"totalOrders":      totalOrders,
			"totalRevenue":     totalRevenue,
			"topVariants":      topVariants,
			"recentOrders":     recentOrders,
			"monthlyRevenue":   monthly,
			"lowStockProducts": lowStock,
		},
	})
}

// monthlyRevenue buckets the trailing six months of verified orders by
// calendar month. Grouping happens in Go so the SQL stays portable across
// the production and test drivers.
func (h *AnalyticsHandler) monthlyRevenue() ([]monthlyStat, error) {
	since := time.Now().AddDate(0, -6, 0)

	var rows []struct {
		CreatedAt time.Time
		Total     float64
	}
	if err := h.db.Model(&models.Order{}).
		Select("created_at, total").
		Where("payment_status = ? AND created_at >= ?", models.PaymentVerified, since).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	buckets := map[string]*monthlyStat{}
	for _, row := range rows {
		key := fmt.Sprintf("%04d-%02d", row.CreatedAt.Year(), int(row.CreatedAt.Month()))
		b, ok := buckets[key]
		if !ok {
			b = &monthlyStat{Year: row.CreatedAt.Year(), Month: int(row.CreatedAt.Month())}
			buckets[key] = b
		}
		b.Revenue += row.Total
		b.Orders++
	}

	monthly := make([]monthlyStat, 0, len(buckets))
	for _, b := range buckets {
		monthly = append(monthly, *b)
	}
	sort.Slice(monthly, func(i, j int) bool {
		if monthly[i].Year != monthly[j].Year {
			return monthly[i].Year < monthly[j].Year
		}
		return monthly[i].Month < monthly[j].Month
	})

	return monthly, nil
}

// Sales returns total sales and order count for a query period
// (today, week, month or year).
func (h *AnalyticsHandler) Sales(c *fiber.Ctx) error {
	now := time.Now()
	var since time.Time

	switch c.Query("period", "week") {
	case "today":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "month":
		since = now.AddDate(0, -1, 0)
	case "year":
		since = now.AddDate(-1, 0, 0)
	default:
		since = now.AddDate(0, 0, -7)
	}

	var result struct {
		TotalSales float64 `json:"totalSales"`
		OrderCount int64   `json:"orderCount"`
	}
	if err := h.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) as total_sales, COUNT(*) as order_count").
		Where("payment_status = ? AND created_at >= ?", models.PaymentVerified, since).
		Scan(&result).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}
