package models

import (
	"time"
)

// Treatment is read-mostly reference data. Price is an integer amount in
// rupiah; no currency formatting is stored anywhere.
type Treatment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"size:100;not null"`
	PractitionerName string    `json:"practitioner_name" gorm:"size:100;not null"`
	Price            int64     `json:"price" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
