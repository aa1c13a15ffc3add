package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/nairacardigans/internal/config"
	"github.com/example/nairacardigans/internal/database"
	"github.com/example/nairacardigans/internal/routes"
)

func main() {
	cfg := config.Load()
	cfg.CheckIntegrations()

	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:   "Naira Cardigans Backend",
		BodyLimit: 50 * 1024 * 1024, // base64 image uploads
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
