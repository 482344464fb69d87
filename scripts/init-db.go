package main

import (
	"fmt"
	"log"

	"tailor_shop/internal/config"
	"tailor_shop/internal/database"
	"tailor_shop/internal/migrations"
	"tailor_shop/internal/models"
)

// Standalone database reset: drops all tables, recreates the schema and
// seeds the default staff accounts. Destructive, development use only.
func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.User{},
		&models.Order{},
		&models.Payment{},
		&models.Attachment{},
		&models.Notification{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Database initialized.")
}
