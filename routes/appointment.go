package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/glowcare/clinic-backend/controllers/appointment"
	"github.com/glowcare/clinic-backend/middleware"
)

// SetupAppointmentRoutes configures the appointment ledger routes.
func SetupAppointmentRoutes(app *fiber.App, ctl *appointment.Controller, jwtSecret string) {
	appointments := app.Group("/appointments", middleware.Protected(jwtSecret))
	appointments.Get("/", ctl.GetAppointments)
	appointments.Get("/:id", ctl.GetAppointment)
	appointments.Post("/", ctl.CreateAppointment)
	appointments.Put("/:id", ctl.UpdateAppointment)
	appointments.Delete("/:id", ctl.DeleteAppointment)

	admin := app.Group("/admin", middleware.Protected(jwtSecret), middleware.RequireAdmin())
	admin.Get("/appointments", ctl.GetAllAppointments)
}
