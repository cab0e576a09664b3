package database

import (
	"log"
	"os"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Wait for the DB container to be ready
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
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

	log.Println("✅ Successfully connected to MySQL!")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("✅ Database Schema Synced!")
}

// ForUpdate adds a row lock on MySQL. SQLite (tests) has no FOR UPDATE;
// its single-writer model serializes the transaction anyway.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Migrate keeps the schema in sync; also used by tests against SQLite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.Employee{},
		&models.Member{},
		&models.Category{},
		&models.Item{},
		&models.Coupon{},
		&models.SalesOrder{},
		&models.SalesLineItem{},
		&models.CardPayment{},
		&models.CouponUsage{},
		&models.StockLot{},
		&models.StockMovement{},
		&models.CommissionEntry{},
		&models.PointEntry{},
		&models.SalaryRun{},
		&models.SalaryRecord{},
	)
}
