package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/glowcare/clinic-backend/config"
)

// Open establishes the service's database connection. Each service owns its
// own database; nothing is shared across schemas.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	cfg.Logger.Println("database connection established")
	return db, nil
}
