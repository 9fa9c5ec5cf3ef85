package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/utils"
)

// Protected verifies the bearer token and loads {user_id, role} into the
// request locals. The three 401 variants (missing, invalid, expired) carry
// distinct messages for observability but are all terminal.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "Token is invalid")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Token is invalid")
			}

			userID, _ := claims["user_id"].(string)
			role, _ := claims["role"].(string)
			if userID == "" {
				return unauthorized(c, "Token is invalid")
			}

			c.Locals("userID", userID)
			c.Locals("role", role)
			return c.Next()
		},
	})
}

// RequireAdmin gates a route on the admin role. The role comes from the
// verified token; downstream services have no user table to consult.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("role") != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Access forbidden: insufficient role",
				Error:   "forbidden",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated username set by Protected.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// IsAdmin reports whether the authenticated user carries the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	return c.Locals("role") == models.RoleAdmin
}

func jwtError(c *fiber.Ctx, err error) error {
	var vErr *jwt.ValidationError

	switch {
	// gofiber/jwt v3 has no exported sentinel for this case; it returns a
	// fresh errors.New("Missing or malformed JWT"), so match on the message
	// like the library's own default ErrorHandler does.
	case err != nil && err.Error() == "Missing or malformed JWT":
		return unauthorized(c, "Token is missing")
	case errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0:
		return unauthorized(c, "Token has expired")
	default:
		return unauthorized(c, "Token is invalid")
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: msg,
		Error:   "unauthorized",
	})
}
