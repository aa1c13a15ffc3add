package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/example/nairacardigans/internal/config"
	"github.com/example/nairacardigans/internal/handlers"
	"github.com/example/nairacardigans/internal/middleware"
	"github.com/example/nairacardigans/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	paystackService := services.NewPaystackService(cfg)
	mediaService := services.NewMediaService(cfg)
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	checkoutService := services.NewCheckoutService(db, cfg, paystackService, telegramService)

	authHandler := handlers.NewAuthHandler(db, cfg)
	storeHandler := handlers.NewStoreHandler(db)
	productHandler := handlers.NewProductHandler(db, mediaService)
	shippingHandler := handlers.NewShippingHandler(db)
	checkoutHandler := handlers.NewCheckoutHandler(db, checkoutService)
	webhookHandler := handlers.NewWebhookHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "Server is running"})
	})

	// Auth routes. Register stays public so the first superadmin can be
	// bootstrapped; it gates subsequent registrations itself.
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/check", authHandler.Check)

	authProtected := auth.Group("", middleware.AuthMiddleware(db, cfg))
	authProtected.Get("/me", authHandler.Me)
	authProtected.Post("/logout", authHandler.Logout)
	authProtected.Put("/password", authHandler.ChangePassword)

	// Public storefront routes.
	store := api.Group("/store")
	store.Get("/products", storeHandler.ListProducts)
	store.Get("/products/featured", storeHandler.FeaturedProducts)
	store.Get("/products/:id", storeHandler.GetProduct)

	// Public checkout routes.
	checkout := api.Group("/checkout")
	checkout.Post("/create-order", checkoutHandler.CreateOrder)
	checkout.Get("/verify/:reference", checkoutHandler.VerifyPayment)
	checkout.Get("/shipping-rates", checkoutHandler.ShippingRates)
	checkout.Get("/track/:orderNumber", checkoutHandler.TrackOrder)

	// Gateway webhook, signature-checked against the raw body.
	webhooks := api.Group("/webhooks")
	webhooks.Post("/paystack", middleware.PaystackSignature(cfg.PaystackSecretKey), webhookHandler.HandlePaystack)

	// Protected admin routes.
	protected := api.Group("", middleware.AuthMiddleware(db, cfg))

	products := protected.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", productHandler.DeleteProduct)
	products.Post("/:id/images", productHandler.UploadImages)
	products.Delete("/:id/images/:imageId", productHandler.DeleteImage)

	shipping := protected.Group("/shipping")
	shipping.Get("/", shippingHandler.ListRates)
	shipping.Post("/", shippingHandler.UpsertRate)
	shipping.Get("/:state", shippingHandler.GetRateByState)
	shipping.Put("/:id", shippingHandler.UpdateRate)
	shipping.Delete("/:id", shippingHandler.DeleteRate)

	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/stats/summary", orderHandler.Stats)
	orders.Get("/number/:orderNumber", orderHandler.GetOrderByNumber)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
	orders.Patch("/:id/payment", orderHandler.UpdatePayment)

	analytics := protected.Group("/analytics")
	analytics.Get("/dashboard", analyticsHandler.Dashboard)
	analytics.Get("/sales", analyticsHandler.Sales)
}
