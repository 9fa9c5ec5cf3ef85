package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is keyed by the booking user's username and a treatment id
// owned by the treatment catalog. Date/Time are kept as the strings the API
// exchanges ("2006-01-02" / "15:04").
type Appointment struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	UserID      string            `json:"user_id" gorm:"size:100;not null;index"`
	TreatmentID uint              `json:"treatment_id" gorm:"not null"`
	Date        string            `json:"appointment_date" gorm:"size:10;not null"`
	Time        string            `json:"appointment_time" gorm:"size:5;not null"`
	Status      AppointmentStatus `json:"status" gorm:"size:20"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// UpdateStatus enforces the appointment lifecycle before persisting the
// transition.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}

	a.Status = newStatus
	return tx.Save(a).Error
}
