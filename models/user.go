package models

import (
	"time"
)

const (
	RolePatient = "pasien"
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Password    string    `json:"password,omitempty"`
	Role        string    `json:"role" gorm:"size:20;default:pasien"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
