package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glowcare/clinic-backend/clients"
	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/gateway"
	"github.com/glowcare/clinic-backend/middleware"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/utils"
)

// Controller owns the payment ledger handlers.
type Controller struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Appointments *clients.AppointmentClient
	Gateway      gateway.Gateway
}

func NewController(db *gorm.DB, cfg *config.Config, appointments *clients.AppointmentClient, gw gateway.Gateway) *Controller {
	return &Controller{DB: db, Cfg: cfg, Appointments: appointments, Gateway: gw}
}

type webhookInput struct {
	AppointmentID uint   `json:"appointment_id"`
	UserID        string `json:"user_id"`
}

// HandleAppointmentConfirmed is the idempotent webhook receiver. Exactly one
// invoice exists per appointment: the unique index on appointment_id plus an
// insert-if-absent make repeat and concurrent deliveries safe.
func (ctl *Controller) HandleAppointmentConfirmed(c *fiber.Ctx) error {
	input := new(webhookInput)
	if err := c.BodyParser(input); err != nil || input.AppointmentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Appointment ID is required",
			Error:   "validation",
		})
	}

	userID := input.UserID
	if userID == "" {
		userID = middleware.UserID(c)
	}

	var existing models.Invoice
	if ctl.DB.Where("appointment_id = ?", input.AppointmentID).First(&existing).RowsAffected > 0 {
		return c.JSON(fiber.Map{
			"message": "Invoice already exists for this appointment",
			"payment": existing,
		})
	}

	amount := ctl.Cfg.DefaultInvoiceAmount
	detail, err := ctl.Appointments.GetAppointment(c.UserContext(), input.AppointmentID, c.Get("Authorization"))
	switch {
	case err == nil && detail.Treatment != nil:
		amount = detail.Treatment.Price
	case errors.Is(err, clients.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   "not_found",
		})
	default:
		// Explicit fallback policy: an unreachable ledger or a missing
		// treatment detail still yields an invoice, at the default amount.
		ctl.Cfg.Logger.Printf("appointment %d detail unavailable, invoicing default amount %d: %v",
			input.AppointmentID, amount, err)
	}

	invoice := models.Invoice{
		UserID:        userID,
		AppointmentID: input.AppointmentID,
		Amount:        amount,
		Status:        models.InvoicePending,
	}
	res := ctl.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "appointment_id"}},
		DoNothing: true,
	}).Create(&invoice)
	if res.Error != nil {
		ctl.Cfg.Logger.Printf("create invoice for appointment %d: %v", input.AppointmentID, res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create invoice",
			Error:   "internal",
		})
	}
	if res.RowsAffected == 0 {
		// A concurrent delivery won the insert; return its invoice.
		if err := ctl.DB.Where("appointment_id = ?", input.AppointmentID).First(&invoice).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load invoice",
				Error:   "internal",
			})
		}
		return c.JSON(fiber.Map{
			"message": "Invoice already exists for this appointment",
			"payment": invoice,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Invoice created successfully",
		"payment": invoice,
	})
}

type invoiceView struct {
	ID            uint                 `json:"id"`
	AppointmentID uint                 `json:"appointment_id"`
	Treatment     string               `json:"treatment,omitempty"`
	Date          string               `json:"appointment_date,omitempty"`
	Amount        int64                `json:"amount"`
	Status        models.InvoiceStatus `json:"status"`
	PaymentMethod string               `json:"payment_method,omitempty"`
	TransactionID string               `json:"transaction_id,omitempty"`
	CreatedAt     string               `json:"created_at"`
}

// GetInvoices lists the caller's pending invoices, optionally filtered to
// one appointment, with the appointment summary embedded.
func (ctl *Controller) GetInvoices(c *fiber.Ctx) error {
	query := ctl.DB.Where("user_id = ? AND status = ?", middleware.UserID(c), models.InvoicePending)
	if appointmentID := c.QueryInt("appointment_id"); appointmentID > 0 {
		query = query.Where("appointment_id = ?", appointmentID)
	}

	var invoices []models.Invoice
	if err := query.Order("id").Find(&invoices).Error; err != nil {
		ctl.Cfg.Logger.Printf("list invoices: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch invoices",
			Error:   "internal",
		})
	}

	return c.JSON(ctl.buildViews(c, invoices, false))
}

// GetPaymentHistory lists every invoice of the caller, settled or not.
func (ctl *Controller) GetPaymentHistory(c *fiber.Ctx) error {
	var invoices []models.Invoice
	if err := ctl.DB.Where("user_id = ?", middleware.UserID(c)).Order("id").Find(&invoices).Error; err != nil {
		ctl.Cfg.Logger.Printf("payment history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch payment history",
			Error:   "internal",
		})
	}

	return c.JSON(ctl.buildViews(c, invoices, true))
}

func (ctl *Controller) buildViews(c *fiber.Ctx, invoices []models.Invoice, withSettlement bool) []invoiceView {
	views := make([]invoiceView, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		view := invoiceView{
			ID:            inv.ID,
			AppointmentID: inv.AppointmentID,
			Amount:        inv.Amount,
			Status:        inv.Status,
			CreatedAt:     inv.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if withSettlement {
			view.PaymentMethod = inv.PaymentMethod
			view.TransactionID = inv.TransactionID
		}
		if detail, err := ctl.Appointments.GetAppointment(c.UserContext(), inv.AppointmentID, c.Get("Authorization")); err == nil {
			view.Date = detail.Date
			if detail.Treatment != nil {
				view.Treatment = detail.Treatment.Name
			}
		}
		views = append(views, view)
	}
	return views
}

type processInput struct {
	PaymentMethod string `json:"payment_method"`
}

// ProcessPayment settles a pending invoice through the gateway. Only the
// invoice owner may settle; a gateway rejection moves the invoice to failed.
func (ctl *Controller) ProcessPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid invoice id",
			Error:   "validation",
		})
	}

	var invoice models.Invoice
	if err := ctl.DB.First(&invoice, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Invoice not found",
			Error:   "not_found",
		})
	}

	if invoice.UserID != middleware.UserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Unauthorized access",
			Error:   "forbidden",
		})
	}

	if invoice.Status != models.InvoicePending {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Payment already processed",
			Error:   "already_processed",
		})
	}

	input := new(processInput)
	if err := c.BodyParser(input); err != nil || input.PaymentMethod == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Payment method is required",
			Error:   "validation",
		})
	}

	transactionID, err := ctl.Gateway.Charge(invoice.Amount, input.PaymentMethod)
	if err != nil {
		ctl.Cfg.Logger.Printf("gateway rejected invoice %d: %v", invoice.ID, err)
		if err := invoice.MarkFailed(ctl.DB, input.PaymentMethod); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to record payment failure",
				Error:   "internal",
			})
		}
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"message": "Payment was rejected by the gateway",
			"payment": invoice,
		})
	}

	if err := invoice.Settle(ctl.DB, input.PaymentMethod, transactionID); err != nil {
		ctl.Cfg.Logger.Printf("settle invoice %d: %v", invoice.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to process payment",
			Error:   "internal",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Payment processed successfully",
		"payment": invoice,
	})
}
