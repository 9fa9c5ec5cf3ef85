package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/glowcare/clinic-backend/middleware"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/utils"
)

// GetProfile returns the authenticated user's own profile.
func (ctl *Controller) GetProfile(c *fiber.Ctx) error {
	username := middleware.UserID(c)

	var user models.User
	if ctl.DB.Where("username = ?", username).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User profile not found",
			Error:   "not_found",
		})
	}

	return c.JSON(fiber.Map{
		"profile": fiber.Map{
			"username":     user.Username,
			"role":         user.Role,
			"address":      user.Address,
			"phone_number": user.PhoneNumber,
		},
	})
}

type editProfileInput struct {
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
}

// EditProfile applies a partial update of address and phone number.
func (ctl *Controller) EditProfile(c *fiber.Ctx) error {
	username := middleware.UserID(c)

	input := new(editProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   "bad_request",
		})
	}

	updates := map[string]interface{}{}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "No fields provided for update",
			Error:   "validation",
		})
	}

	res := ctl.DB.Model(&models.User{}).Where("username = ?", username).Updates(updates)
	if res.Error != nil {
		ctl.Cfg.Logger.Printf("update profile %q: %v", username, res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile",
			Error:   "internal",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found or no changes applied",
			Error:   "not_found",
		})
	}

	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}

// GetAdminData is the admin-only probe endpoint.
func (ctl *Controller) GetAdminData(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "This is sensitive data for admins only"})
}
