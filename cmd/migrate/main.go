package main

import (
	"log"

	"hdt-be/internal/config"
	"hdt-be/internal/model"
	"hdt-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Connect to Database
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// Ids are generated by the repositories, no extensions needed.
	log.Printf("Running GORM AutoMigrate on %s...", cfg.Database.Driver)
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	log.Println("Migration completed successfully")
}
