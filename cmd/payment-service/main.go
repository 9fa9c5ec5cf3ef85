package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/glowcare/clinic-backend/clients"
	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/controllers/payment"
	"github.com/glowcare/clinic-backend/db"
	"github.com/glowcare/clinic-backend/gateway"
	"github.com/glowcare/clinic-backend/routes"
)

func main() {
	cfg := config.Load("payment-service", "5004")

	conn, err := db.Open(cfg)
	if err != nil {
		cfg.Logger.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.MigrateInvoices(conn); err != nil {
		cfg.Logger.Fatalf("failed to run migrations: %v", err)
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	ctl := payment.NewController(
		conn,
		cfg,
		clients.NewAppointmentClient(cfg.AppointmentServiceURL),
		gateway.Simulated{},
	)
	routes.SetupPaymentRoutes(app, ctl, cfg.JWTSecret)

	cfg.Logger.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		cfg.Logger.Fatalf("server stopped: %v", err)
	}
}
