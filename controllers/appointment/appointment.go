package appointment

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/glowcare/clinic-backend/clients"
	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/middleware"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/utils"
)

// Controller owns the appointment ledger handlers. Treatments is consulted
// on every booking; Payments receives the best-effort confirmation webhook.
type Controller struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Treatments *clients.TreatmentClient
	Payments   *clients.PaymentClient
}

func NewController(db *gorm.DB, cfg *config.Config, treatments *clients.TreatmentClient, payments *clients.PaymentClient) *Controller {
	return &Controller{DB: db, Cfg: cfg, Treatments: treatments, Payments: payments}
}

type appointmentResponse struct {
	ID        uint                     `json:"id"`
	UserID    string                   `json:"user_id,omitempty"`
	Treatment *clients.TreatmentDetail `json:"treatment"`
	Date      string                   `json:"appointment_date"`
	Time      string                   `json:"appointment_time"`
	Status    models.AppointmentStatus `json:"status"`
	Notes     string                   `json:"notes"`
	CreatedAt string                   `json:"created_at"`
}

func toResponse(a *models.Appointment, t *clients.TreatmentDetail, includeUser bool) appointmentResponse {
	resp := appointmentResponse{
		ID:        a.ID,
		Treatment: t,
		Date:      a.Date,
		Time:      a.Time,
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if includeUser {
		resp.UserID = a.UserID
	}
	return resp
}

type createInput struct {
	TreatmentID uint   `json:"treatment_id"`
	Date        string `json:"appointment_date"`
	Time        string `json:"appointment_time"`
	Notes       string `json:"notes"`
}

// CreateAppointment books a treatment for the authenticated user. The
// treatment must resolve in the catalog; the appointment is persisted as
// confirmed and the payment ledger is notified afterwards. A failed
// notification is logged and never rolls back the booking.
func (ctl *Controller) CreateAppointment(c *fiber.Ctx) error {
	input := new(createInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   "bad_request",
		})
	}

	if input.TreatmentID == 0 || input.Date == "" || input.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "treatment_id, appointment_date and appointment_time are required",
			Error:   "validation",
		})
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "appointment_date must be formatted YYYY-MM-DD",
			Error:   "validation",
		})
	}
	if _, err := time.Parse("15:04", input.Time); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "appointment_time must be formatted HH:MM",
			Error:   "validation",
		})
	}

	treatment, err := ctl.Treatments.GetTreatment(c.UserContext(), input.TreatmentID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Treatment not found",
				Error:   "not_found",
			})
		}
		ctl.Cfg.Logger.Printf("treatment catalog lookup %d: %v", input.TreatmentID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.ErrorResponse{
			Message: "Treatment catalog is unavailable",
			Error:   "upstream_unavailable",
		})
	}

	appointment := models.Appointment{
		UserID:      middleware.UserID(c),
		TreatmentID: input.TreatmentID,
		Date:        input.Date,
		Time:        input.Time,
		Status:      models.StatusConfirmed,
		Notes:       input.Notes,
	}
	if err := ctl.DB.Create(&appointment).Error; err != nil {
		ctl.Cfg.Logger.Printf("create appointment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create appointment",
			Error:   "internal",
		})
	}

	// At-most-once notification. The appointment stands regardless of the
	// outcome here.
	notice := clients.ConfirmationNotice{
		AppointmentID: appointment.ID,
		UserID:        appointment.UserID,
	}
	if err := ctl.Payments.NotifyAppointmentConfirmed(c.UserContext(), notice, c.Get("Authorization")); err != nil {
		ctl.Cfg.Logger.Printf("confirmation webhook for appointment %d: %v", appointment.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Appointment created successfully",
		"appointment": toResponse(&appointment, treatment, false),
	})
}

// GetAppointments lists the caller's appointments, or every appointment for
// an admin. Rows whose treatment no longer resolves are skipped for regular
// users and listed without treatment detail for admins.
func (ctl *Controller) GetAppointments(c *fiber.Ctx) error {
	admin := middleware.IsAdmin(c)

	query := ctl.DB.Order("id")
	if !admin {
		query = query.Where("user_id = ?", middleware.UserID(c))
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		ctl.Cfg.Logger.Printf("list appointments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   "internal",
		})
	}

	result := make([]appointmentResponse, 0, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		treatment, err := ctl.Treatments.GetTreatment(c.UserContext(), a.TreatmentID)
		if err != nil {
			if !admin {
				continue
			}
			treatment = nil
		}
		result = append(result, toResponse(a, treatment, admin))
	}
	return c.JSON(result)
}

// GetAppointment returns one appointment with its treatment embedded.
// Owner or admin only.
func (ctl *Controller) GetAppointment(c *fiber.Ctx) error {
	appointment, errResp := ctl.findAuthorized(c)
	if errResp != nil {
		return errResp(c)
	}

	treatment, err := ctl.Treatments.GetTreatment(c.UserContext(), appointment.TreatmentID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Treatment not found",
				Error:   "not_found",
			})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.ErrorResponse{
			Message: "Treatment catalog is unavailable",
			Error:   "upstream_unavailable",
		})
	}

	return c.JSON(toResponse(appointment, treatment, middleware.IsAdmin(c)))
}

type updateInput struct {
	Date   string                   `json:"appointment_date"`
	Time   string                   `json:"appointment_time"`
	Status models.AppointmentStatus `json:"status"`
	Notes  *string                  `json:"notes"`
}

// UpdateAppointment reschedules or annotates an appointment. Status changes
// go through the lifecycle check and are admin only.
func (ctl *Controller) UpdateAppointment(c *fiber.Ctx) error {
	appointment, errResp := ctl.findAuthorized(c)
	if errResp != nil {
		return errResp(c)
	}

	input := new(updateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
			Error:   "bad_request",
		})
	}

	if input.Date != "" {
		if _, err := time.Parse("2006-01-02", input.Date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "appointment_date must be formatted YYYY-MM-DD",
				Error:   "validation",
			})
		}
		appointment.Date = input.Date
	}
	if input.Time != "" {
		if _, err := time.Parse("15:04", input.Time); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "appointment_time must be formatted HH:MM",
				Error:   "validation",
			})
		}
		appointment.Time = input.Time
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}

	if input.Status != "" && input.Status != appointment.Status {
		if !middleware.IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Only admins may change appointment status",
				Error:   "forbidden",
			})
		}
		if err := appointment.UpdateStatus(ctl.DB, input.Status); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid status transition",
				Error:   "validation",
			})
		}
	} else if err := ctl.DB.Save(appointment).Error; err != nil {
		ctl.Cfg.Logger.Printf("update appointment %d: %v", appointment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update appointment",
			Error:   "internal",
		})
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment updated successfully",
		"appointment": toResponse(appointment, nil, middleware.IsAdmin(c)),
	})
}

// DeleteAppointment removes an appointment. Owner or admin only.
func (ctl *Controller) DeleteAppointment(c *fiber.Ctx) error {
	appointment, errResp := ctl.findAuthorized(c)
	if errResp != nil {
		return errResp(c)
	}

	if err := ctl.DB.Delete(appointment).Error; err != nil {
		ctl.Cfg.Logger.Printf("delete appointment %d: %v", appointment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete appointment",
			Error:   "internal",
		})
	}
	return c.JSON(fiber.Map{"message": "Appointment deleted successfully"})
}

// GetAllAppointments is the admin view: every row, user ids included,
// treatment detail embedded when it still resolves.
func (ctl *Controller) GetAllAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	if err := ctl.DB.Order("id").Find(&appointments).Error; err != nil {
		ctl.Cfg.Logger.Printf("admin list appointments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   "internal",
		})
	}

	result := make([]appointmentResponse, 0, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		treatment, _ := ctl.Treatments.GetTreatment(c.UserContext(), a.TreatmentID)
		result = append(result, toResponse(a, treatment, true))
	}
	return c.JSON(result)
}

// findAuthorized loads the appointment from the path id and enforces the
// owner-or-admin policy. On failure it returns a responder for the error.
func (ctl *Controller) findAuthorized(c *fiber.Ctx) (*models.Appointment, func(*fiber.Ctx) error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid appointment id",
				Error:   "validation",
			})
		}
	}

	var appointment models.Appointment
	if err := ctl.DB.First(&appointment, id).Error; err != nil {
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Appointment not found",
				Error:   "not_found",
			})
		}
	}

	if appointment.UserID != middleware.UserID(c) && !middleware.IsAdmin(c) {
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Unauthorized access",
				Error:   "forbidden",
			})
		}
	}

	return &appointment, nil
}
