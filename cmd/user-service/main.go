package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/controllers/user"
	"github.com/glowcare/clinic-backend/db"
	"github.com/glowcare/clinic-backend/routes"
)

func main() {
	cfg := config.Load("user-service", "5001")

	conn, err := db.Open(cfg)
	if err != nil {
		cfg.Logger.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.MigrateUsers(conn); err != nil {
		cfg.Logger.Fatalf("failed to run migrations: %v", err)
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	ctl := user.NewController(conn, cfg)
	routes.SetupUserRoutes(app, ctl, cfg.JWTSecret)

	cfg.Logger.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		cfg.Logger.Fatalf("server stopped: %v", err)
	}
}
