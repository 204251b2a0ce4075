package config

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sherdwhite/book-trader/internal/models"
)

// InitDB opens the MySQL connection and migrates the schema.
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all persisted entities. It is
// shared with the test setup, which runs it against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.UserReputation{},
		&models.EmailDevice{},
		&models.Publisher{},
		&models.Author{},
		&models.Book{},
		&models.Rating{},
		&models.BookCopy{},
		&models.Auction{},
		&models.Bid{},
		&models.WatchList{},
		&models.Trade{},
		&models.TradeItem{},
		&models.TradeMessage{},
		&models.TradeOffer{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
