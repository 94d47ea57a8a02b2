package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/savorista/backend/config"
	"github.com/savorista/backend/internal/models"
)

// NewDatabase opens the Postgres connection and migrates the aggregate
// tables. Migration order follows the insert order so foreign keys always
// point at existing tables.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("[Database] connected to %s/%s", cfg.DBHost, cfg.DBName)
	return db, nil
}

// Migrate creates or updates the five aggregate tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Recipe{},
		&models.Ingredient{},
		&models.Step{},
		&models.Playlist{},
		&models.WinePairing{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
