package user

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/utils"
)

const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Controller owns the user directory handlers.
type Controller struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewController(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{DB: db, Cfg: cfg}
}

type registerInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Register creates a new account. Usernames are unique and double as the
// user id in every token and cross-service reference.
func (ctl *Controller) Register(c *fiber.Ctx) error {
	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   "bad_request",
		})
	}

	if input.Username == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Username and password are required",
			Error:   "validation",
		})
	}

	var existing models.User
	if ctl.DB.Where("username = ?", input.Username).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "User already exists",
			Error:   "conflict",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
			Error:   "internal",
		})
	}

	role := input.Role
	if role == "" {
		role = models.RolePatient
	}

	user := models.User{
		Username:    input.Username,
		Password:    string(hashed),
		Role:        role,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
	}
	if err := ctl.DB.Create(&user).Error; err != nil {
		ctl.Cfg.Logger.Printf("create user %q: %v", input.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to register user",
			Error:   "internal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user": fiber.Map{
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a 30-minute access token plus a
// 7-day refresh token.
func (ctl *Controller) Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   "bad_request",
		})
	}

	if input.Username == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Username and password are required",
			Error:   "validation",
		})
	}

	var user models.User
	if ctl.DB.Where("username = ?", input.Username).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
			Error:   "unauthorized",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
			Error:   "unauthorized",
		})
	}

	token, err := ctl.signToken(jwt.MapClaims{
		"user_id": user.Username,
		"role":    user.Role,
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
			Error:   "internal",
		})
	}

	refreshToken, err := ctl.signToken(jwt.MapClaims{
		"user_id": user.Username,
		"exp":     time.Now().Add(refreshTokenTTL).Unix(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate refresh token",
			Error:   "internal",
		})
	}

	return c.JSON(fiber.Map{
		"token":        token,
		"refreshToken": refreshToken,
	})
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// role is re-read from the directory so a role change takes effect at the
// next refresh even though outstanding access tokens run to expiry.
func (ctl *Controller) RefreshToken(c *fiber.Ctx) error {
	input := new(refreshInput)
	if err := c.BodyParser(input); err != nil || input.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Refresh token is required",
			Error:   "validation",
		})
	}

	parsed, err := jwt.Parse(input.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(ctl.Cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid refresh token",
			Error:   "unauthorized",
		})
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid refresh token",
			Error:   "unauthorized",
		})
	}
	username, _ := claims["user_id"].(string)

	var user models.User
	if ctl.DB.Where("username = ?", username).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid refresh token",
			Error:   "unauthorized",
		})
	}

	token, err := ctl.signToken(jwt.MapClaims{
		"user_id": user.Username,
		"role":    user.Role,
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
			Error:   "internal",
		})
	}

	return c.JSON(fiber.Map{"token": token})
}

func (ctl *Controller) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ctl.Cfg.JWTSecret))
}
