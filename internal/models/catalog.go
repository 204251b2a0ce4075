package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Genre values accepted for a book
const (
	GenreFiction    = "fiction"
	GenreNonFiction = "non_fiction"
	GenreMystery    = "mystery"
	GenreRomance    = "romance"
	GenreSciFi      = "sci_fi"
	GenreFantasy    = "fantasy"
	GenreBiography  = "biography"
	GenreHistory    = "history"
	GenreSelfHelp   = "self_help"
	GenreBusiness   = "business"
	GenreTextbook   = "textbook"
	GenreChildren   = "children"
	GenreYoungAdult = "young_adult"
	GenreOther      = "other"
)

// Genres lists every valid genre value.
var Genres = []string{
	GenreFiction, GenreNonFiction, GenreMystery, GenreRomance, GenreSciFi,
	GenreFantasy, GenreBiography, GenreHistory, GenreSelfHelp, GenreBusiness,
	GenreTextbook, GenreChildren, GenreYoungAdult, GenreOther,
}

// ValidGenre reports whether g is one of the accepted genre values.
func ValidGenre(g string) bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Condition values for a physical copy of a book
const (
	ConditionNew        = "new"
	ConditionLikeNew    = "like_new"
	ConditionVeryGood   = "very_good"
	ConditionGood       = "good"
	ConditionAcceptable = "acceptable"
	ConditionPoor       = "poor"
)

// ValidCondition reports whether c is one of the accepted condition values.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionVeryGood, ConditionGood,
		ConditionAcceptable, ConditionPoor:
		return true
	}
	return false
}

// Book is a catalog entry. AverageRating is derived state: it always holds the
// mean of the book's ratings rounded to one decimal place, or zero when the
// book has no ratings. The catalog store recomputes it inside the same
// transaction as every rating write.
type Book struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	Title           string           `json:"title" gorm:"type:varchar(255);not null"`
	Description     string           `json:"description" gorm:"type:text"`
	ISBN            string           `json:"isbn" gorm:"type:varchar(255);uniqueIndex;not null"`
	PublisherID     uint             `json:"publisher_id" gorm:"index;not null"`
	Publisher       *Publisher       `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	Authors         []Author         `json:"authors,omitempty" gorm:"many2many:book_authors"`
	PublicationDate *time.Time       `json:"publication_date,omitempty"`
	PageCount       *uint            `json:"page_count,omitempty"`
	Language        string           `json:"language" gorm:"type:varchar(10);default:'en'"`
	Genre           string           `json:"genre" gorm:"type:varchar(20);index;default:'other'"`
	AverageRating   decimal.Decimal  `json:"average_rating" gorm:"type:decimal(2,1);default:0.0"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty" gorm:"type:decimal(8,2)"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Publisher of one or more books.
type Publisher struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Website     string    `json:"website" gorm:"type:varchar(255)"`
	FoundedYear *uint     `json:"founded_year,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Author of one or more books.
type Author struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"type:varchar(255);not null"`
	Bio       string     `json:"bio" gorm:"type:text"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	DeathDate *time.Time `json:"death_date,omitempty"`
	Website   string     `json:"website" gorm:"type:varchar(255)"`
	CreatedAt time.Time  `json:"created_at"`
}

// Rating is a single user's 1-5 score for a book, at most one per (user, book)
// pair. Writing through the public interface upserts: a second submission for
// the same pair updates the existing row.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Rating    int       `json:"rating" gorm:"not null;default:3"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_rating_user_book;not null"`
	BookID    uint      `json:"book_id" gorm:"uniqueIndex:idx_rating_user_book;not null"`
	Review    string    `json:"review" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookCopy tracks a specific physical copy of a book and its condition. A user
// owns at most one tracked copy per title.
type BookCopy struct {
	ID                  uint             `json:"id" gorm:"primaryKey"`
	BookID              uint             `json:"book_id" gorm:"uniqueIndex:idx_copy_book_owner;not null"`
	OwnerID             uint             `json:"owner_id" gorm:"uniqueIndex:idx_copy_book_owner;not null"`
	Condition           string           `json:"condition" gorm:"type:varchar(20);not null"`
	ConditionNotes      string           `json:"condition_notes" gorm:"type:text"`
	AcquiredDate        *time.Time       `json:"acquired_date,omitempty"`
	PurchasePrice       *decimal.Decimal `json:"purchase_price,omitempty" gorm:"type:decimal(8,2)"`
	AvailableForTrade   bool             `json:"available_for_trade" gorm:"default:false"`
	AvailableForAuction bool             `json:"available_for_auction" gorm:"default:false"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}
