package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/glowcare/clinic-backend/controllers/user"
	"github.com/glowcare/clinic-backend/middleware"
)

// SetupUserRoutes configures the user directory routes.
func SetupUserRoutes(app *fiber.App, ctl *user.Controller, jwtSecret string) {
	app.Post("/register", ctl.Register)
	app.Post("/login", ctl.Login)
	app.Post("/refresh", ctl.RefreshToken)

	app.Get("/profile", middleware.Protected(jwtSecret), ctl.GetProfile)
	app.Put("/profile/edit", middleware.Protected(jwtSecret), ctl.EditProfile)
	app.Get("/admin_data", middleware.Protected(jwtSecret), middleware.RequireAdmin(), ctl.GetAdminData)
}
