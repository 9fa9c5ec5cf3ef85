package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/glowcare/clinic-backend/controllers/payment"
	"github.com/glowcare/clinic-backend/middleware"
)

// SetupPaymentRoutes configures the payment ledger routes.
func SetupPaymentRoutes(app *fiber.App, ctl *payment.Controller, jwtSecret string) {
	app.Post("/webhook/appointment-confirmed", middleware.Protected(jwtSecret), ctl.HandleAppointmentConfirmed)

	payments := app.Group("/payments", middleware.Protected(jwtSecret))
	payments.Get("/invoices", ctl.GetInvoices)
	payments.Get("/history", ctl.GetPaymentHistory)
	payments.Post("/:id/process", ctl.ProcessPayment)
}
