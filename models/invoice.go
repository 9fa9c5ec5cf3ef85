package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoiceCompleted InvoiceStatus = "completed"
	InvoiceFailed    InvoiceStatus = "failed"
)

// Invoice is a payable record tied to exactly one appointment. The unique
// index on AppointmentID backs the idempotent webhook receiver, so the
// at-most-one-invoice rule holds under concurrent delivery too.
type Invoice struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	UserID        string        `json:"user_id" gorm:"size:100;not null;index"`
	AppointmentID uint          `json:"appointment_id" gorm:"not null;uniqueIndex"`
	Amount        int64         `json:"amount" gorm:"not null"`
	Status        InvoiceStatus `json:"status" gorm:"size:20"`
	PaymentMethod string        `json:"payment_method" gorm:"size:50"`
	TransactionID string        `json:"transaction_id" gorm:"size:100"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = InvoicePending
	}
	return nil
}

// Settle marks a pending invoice completed with the given method and
// transaction id. Only pending invoices can move.
func (i *Invoice) Settle(tx *gorm.DB, method, transactionID string) error {
	if i.Status != InvoicePending {
		return fmt.Errorf("invoice already processed: status %s", i.Status)
	}
	i.Status = InvoiceCompleted
	i.PaymentMethod = method
	i.TransactionID = transactionID
	return tx.Save(i).Error
}

// MarkFailed records a gateway rejection. Only pending invoices can move.
func (i *Invoice) MarkFailed(tx *gorm.DB, method string) error {
	if i.Status != InvoicePending {
		return fmt.Errorf("invoice already processed: status %s", i.Status)
	}
	i.Status = InvoiceFailed
	i.PaymentMethod = method
	return tx.Save(i).Error
}
