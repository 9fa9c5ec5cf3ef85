package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/glowcare/clinic-backend/clients"
	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/controllers/appointment"
	"github.com/glowcare/clinic-backend/cron"
	"github.com/glowcare/clinic-backend/db"
	"github.com/glowcare/clinic-backend/routes"
)

func main() {
	cfg := config.Load("appointment-service", "5003")

	conn, err := db.Open(cfg)
	if err != nil {
		cfg.Logger.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.MigrateAppointments(conn); err != nil {
		cfg.Logger.Fatalf("failed to run migrations: %v", err)
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	ctl := appointment.NewController(
		conn,
		cfg,
		clients.NewTreatmentClient(cfg.TreatmentServiceURL),
		clients.NewPaymentClient(cfg.PaymentServiceURL),
	)
	routes.SetupAppointmentRoutes(app, ctl, cfg.JWTSecret)

	if cfg.SMTPHost != "" {
		cron.StartReminderJobs(conn, cfg)
	}

	cfg.Logger.Printf("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		cfg.Logger.Fatalf("server stopped: %v", err)
	}
}
