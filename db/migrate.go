package db

import (
	"gorm.io/gorm"

	"github.com/glowcare/clinic-backend/models"
)

// Per-service migrations. A binary migrates only the models it owns.

func MigrateUsers(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func MigrateTreatments(db *gorm.DB) error {
	return db.AutoMigrate(&models.Treatment{})
}

func MigrateAppointments(db *gorm.DB) error {
	return db.AutoMigrate(&models.Appointment{})
}

func MigrateInvoices(db *gorm.DB) error {
	return db.AutoMigrate(&models.Invoice{})
}

// SeedTreatments loads the initial catalog once. Subsequent starts are
// no-ops as long as any row exists.
func SeedTreatments(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Treatment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	treatments := []models.Treatment{
		{ID: 1, Name: "Facial Glow Up", PractitionerName: "dr. Ayu Pratiwi", Price: 150000},
		{ID: 2, Name: "Chemical Peeling", PractitionerName: "dr. Rina Kartika", Price: 200000},
		{ID: 3, Name: "Microneedling", PractitionerName: "dr. Budi Santoso", Price: 300000},
		{ID: 4, Name: "Laser Rejuvenation", PractitionerName: "dr. Intan Permata", Price: 500000},
		{ID: 5, Name: "Botox Treatment", PractitionerName: "dr. Ahmad Yusuf", Price: 750000},
		{ID: 6, Name: "Filler Injection", PractitionerName: "dr. Clara Wijaya", Price: 850000},
		{ID: 7, Name: "Acne Treatment", PractitionerName: "dr. Rendy Prakoso", Price: 180000},
		{ID: 8, Name: "Whitening Infusion", PractitionerName: "dr. Sari Utami", Price: 250000},
		{ID: 9, Name: "Anti Aging Therapy", PractitionerName: "dr. Andika Putra", Price: 650000},
		{ID: 10, Name: "Hydra Facial", PractitionerName: "dr. Melinda Harun", Price: 275000},
	}
	return db.Create(&treatments).Error
}
