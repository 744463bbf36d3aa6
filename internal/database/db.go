package database

import (
	"log"
	"os"
	"time"

	"go-inventory-api/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		log.Fatal("Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Wait for the DB container to come up
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("Connected to MySQL")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database schema:", err)
	}

	log.Println("Database schema synced")
}

// Migrate creates or updates the tables for every entity. Shared with
// the test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Category{},
		&models.Product{},
		&models.Supplier{},
		&models.Stock{},
		&models.Client{},
		&models.Sale{},
		&models.SaleItem{},
	)
}
