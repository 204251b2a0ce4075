package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sherdwhite/book-trader/config"
	"github.com/sherdwhite/book-trader/internal/models"
)

// openMigratedDB opens a private in-memory database with the full schema.
func openMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenTestDB()
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// seedBook creates a publisher and a book owned by it.
func seedBook(t *testing.T, db *gorm.DB, title, isbn string) models.Book {
	t.Helper()

	publisher := models.Publisher{Name: "Publisher for " + isbn}
	require.NoError(t, db.Create(&publisher).Error)

	book := models.Book{
		Title:       title,
		ISBN:        isbn,
		PublisherID: publisher.ID,
		Genre:       models.GenreFiction,
		Language:    "en",
	}
	require.NoError(t, db.Create(&book).Error)
	return book
}

// seedUser creates an active account.
func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
