package database

import (
	"fmt"

	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedPizza is the single record a fresh store starts with
var SeedPizza = models.Pizza{ID: 1, Name: "Pepperoni", Description: "Classic Pepperoni Pizza", Version: 1}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Pizza{}); err != nil {
		return fmt.Errorf("migrate pizzas: %w", err)
	}
	return nil
}

// Seed inserts SeedPizza when the pizzas table is empty
func Seed(db *gorm.DB, log logrus.FieldLogger) error {
	var count int64
	if err := db.Model(&models.Pizza{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count pizzas: %w", err)
	}
	if count > 0 {
		log.WithField("count", count).Info("Database already seeded with initial data")
		return nil
	}

	log.Info("Database is empty, seeding initial data")
	seed := SeedPizza
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("seed pizzas: %w", err)
	}

	// An explicit id does not advance a PostgreSQL serial sequence.
	if db.Dialector.Name() == "postgres" {
		err := db.Exec("SELECT setval(pg_get_serial_sequence('pizzas', 'id'), (SELECT MAX(id) FROM pizzas))").Error
		if err != nil {
			return fmt.Errorf("realign pizzas id sequence: %w", err)
		}
	}

	log.WithField("id", seed.ID).Info("Database seeded successfully")
	return nil
}

// Setup runs Migrate followed by Seed
func Setup(db *gorm.DB, log logrus.FieldLogger) error {
	if err := Migrate(db); err != nil {
		return err
	}
	return Seed(db, log)
}
