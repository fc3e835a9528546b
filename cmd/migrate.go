package main

import (
	"log"

	"github.com/calmisko/donation-backend/config"
	"github.com/calmisko/donation-backend/services"
)

func main() {
	cfg := config.Load()
	db := config.SetupDatabase(cfg.DatabaseURL) // connects + migrates

	if err := services.NewRegistry(db).EnsureAnonymousDonor(); err != nil {
		log.Fatalf("[FATAL] Failed to seed anonymous donor: %v", err)
	}

	log.Println("✅ Database migration completed successfully")
}
