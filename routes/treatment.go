package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/glowcare/clinic-backend/controllers/treatment"
	"github.com/glowcare/clinic-backend/middleware"
)

// SetupTreatmentRoutes configures the treatment catalog routes. Reads are
// public; catalog management requires an admin token.
func SetupTreatmentRoutes(app *fiber.App, ctl *treatment.Controller, jwtSecret string) {
	treatments := app.Group("/treatments")
	treatments.Get("/", ctl.GetAllTreatments)
	treatments.Get("/:id", ctl.GetTreatment)

	treatments.Post("/", middleware.Protected(jwtSecret), middleware.RequireAdmin(), ctl.CreateTreatment)
	treatments.Put("/:id", middleware.Protected(jwtSecret), middleware.RequireAdmin(), ctl.UpdateTreatment)
	treatments.Delete("/:id", middleware.Protected(jwtSecret), middleware.RequireAdmin(), ctl.DeleteTreatment)
}
