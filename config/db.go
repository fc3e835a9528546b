package config

import (
	"log"

	"github.com/calmisko/donation-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// SetupDatabase connects to the database and runs migrations. Fatal on
// failure; the service cannot do anything without its store.
func SetupDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to database: %v", err)
	}
	DB = db

	if err := Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	log.Println("✅ Database connected and migrated")
	return db
}

// Migrate creates or updates the donor, transaction, and session tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Donor{},
		&models.Transaction{},
		&models.Session{},
	)
}
