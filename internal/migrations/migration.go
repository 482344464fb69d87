package migrations

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"tailor_shop/internal/database"
	"tailor_shop/internal/models"
	"tailor_shop/internal/repository"
	"tailor_shop/internal/services"
)

// RunMigrations migrates the schema and seeds the two default staff
// accounts when the users table is empty.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createDefaultUsers(db); err != nil {
		log.Printf("Warning: Failed to create default users: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createDefaultUsers(db *gorm.DB) error {
	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)

	_, err := userService.GetUserByUsername("manager")
	if err == nil {
		log.Println("Default users already exist")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	log.Println("Creating default users...")

	manager := &models.User{
		Username:    "manager",
		DisplayName: "Shop Manager",
		PhoneNumber: "6289500000001",
		Role:        string(models.RoleManager),
		IsActive:    true,
	}
	if err := userService.CreateUser(manager, "manager123"); err != nil {
		return err
	}

	tailor := &models.User{
		Username:    "tailor",
		DisplayName: "Shop Tailor",
		PhoneNumber: "6289500000002",
		Role:        string(models.RoleTailor),
		IsActive:    true,
	}
	if err := userService.CreateUser(tailor, "tailor123"); err != nil {
		return err
	}

	log.Println("Default users created (manager/manager123, tailor/tailor123)")
	return nil
}
