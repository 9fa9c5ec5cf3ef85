package treatment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/utils"
)

const cacheTTL = 10 * time.Minute

// Controller owns the treatment catalog handlers. Cache is optional; when
// nil, every read hits the database.
type Controller struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Cache *redis.Client
}

func NewController(db *gorm.DB, cfg *config.Config, cache *redis.Client) *Controller {
	return &Controller{DB: db, Cfg: cfg, Cache: cache}
}

// GetAllTreatments lists the whole catalog.
func (ctl *Controller) GetAllTreatments(c *fiber.Ctx) error {
	var treatments []models.Treatment
	if err := ctl.DB.Order("id").Find(&treatments).Error; err != nil {
		ctl.Cfg.Logger.Printf("list treatments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch treatments",
			Error:   "internal",
		})
	}
	return c.JSON(treatments)
}

// GetTreatment returns one treatment by id, via the cache when configured.
func (ctl *Controller) GetTreatment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid treatment id",
			Error:   "validation",
		})
	}

	if cached := ctl.cacheGet(c.UserContext(), uint(id)); cached != nil {
		return c.JSON(cached)
	}

	var treatment models.Treatment
	if err := ctl.DB.First(&treatment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Treatment not found",
			Error:   "not_found",
		})
	}

	ctl.cacheSet(c.UserContext(), &treatment)
	return c.JSON(treatment)
}

type treatmentInput struct {
	Name             string `json:"name"`
	PractitionerName string `json:"practitioner_name"`
	Price            int64  `json:"price"`
}

// CreateTreatment adds a catalog entry. Admin only.
func (ctl *Controller) CreateTreatment(c *fiber.Ctx) error {
	input := new(treatmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   "bad_request",
		})
	}
	if input.Name == "" || input.PractitionerName == "" || input.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "name, practitioner_name and a positive price are required",
			Error:   "validation",
		})
	}

	treatment := models.Treatment{
		Name:             input.Name,
		PractitionerName: input.PractitionerName,
		Price:            input.Price,
	}
	if err := ctl.DB.Create(&treatment).Error; err != nil {
		ctl.Cfg.Logger.Printf("create treatment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create treatment",
			Error:   "internal",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(treatment)
}

// UpdateTreatment applies a partial update and drops the cached entry.
func (ctl *Controller) UpdateTreatment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid treatment id",
			Error:   "validation",
		})
	}

	var treatment models.Treatment
	if err := ctl.DB.First(&treatment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Treatment not found",
			Error:   "not_found",
		})
	}

	input := new(treatmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   "bad_request",
		})
	}

	if input.Name != "" {
		treatment.Name = input.Name
	}
	if input.PractitionerName != "" {
		treatment.PractitionerName = input.PractitionerName
	}
	if input.Price > 0 {
		treatment.Price = input.Price
	}

	if err := ctl.DB.Save(&treatment).Error; err != nil {
		ctl.Cfg.Logger.Printf("update treatment %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update treatment",
			Error:   "internal",
		})
	}

	ctl.cacheDelete(c.UserContext(), treatment.ID)
	return c.JSON(treatment)
}

// DeleteTreatment removes a catalog entry and drops the cached entry.
func (ctl *Controller) DeleteTreatment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid treatment id",
			Error:   "validation",
		})
	}

	res := ctl.DB.Delete(&models.Treatment{}, id)
	if res.Error != nil {
		ctl.Cfg.Logger.Printf("delete treatment %d: %v", id, res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete treatment",
			Error:   "internal",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Treatment not found",
			Error:   "not_found",
		})
	}

	ctl.cacheDelete(c.UserContext(), uint(id))
	return c.JSON(fiber.Map{"message": "Treatment deleted successfully"})
}

func cacheKey(id uint) string {
	return fmt.Sprintf("treatment:%d", id)
}

func (ctl *Controller) cacheGet(ctx context.Context, id uint) *models.Treatment {
	if ctl.Cache == nil {
		return nil
	}
	data, err := ctl.Cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var t models.Treatment
	if err := json.Unmarshal(data, &t); err != nil {
		return nil
	}
	return &t
}

func (ctl *Controller) cacheSet(ctx context.Context, t *models.Treatment) {
	if ctl.Cache == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := ctl.Cache.Set(ctx, cacheKey(t.ID), data, cacheTTL).Err(); err != nil {
		ctl.Cfg.Logger.Printf("cache set treatment %d: %v", t.ID, err)
	}
}

func (ctl *Controller) cacheDelete(ctx context.Context, id uint) {
	if ctl.Cache == nil {
		return
	}
	if err := ctl.Cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		ctl.Cfg.Logger.Printf("cache delete treatment %d: %v", id, err)
	}
}
