package helpers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs for catalog resources

type CreateBookRequest struct {
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description"`
	ISBN          string           `json:"isbn" binding:"required"`
	PublisherID   uint             `json:"publisher_id" binding:"required"`
	AuthorIDs     []uint           `json:"author_ids"`
	Genre         string           `json:"genre"`
	Language      string           `json:"language"`
	PageCount     *uint            `json:"page_count"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
}

// UpdateBookRequest carries partial updates; nil fields are left unchanged.
type UpdateBookRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	ISBN          *string          `json:"isbn"`
	PublisherID   *uint            `json:"publisher_id"`
	AuthorIDs     []uint           `json:"author_ids"`
	Genre         *string          `json:"genre"`
	Language      *string          `json:"language"`
	PageCount     *uint            `json:"page_count"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
}

type AuthorRequest struct {
	Name    string `json:"name" binding:"required"`
	Bio     string `json:"bio"`
	Website string `json:"website"`
}

type UpdateAuthorRequest struct {
	Name    *string `json:"name"`
	Bio     *string `json:"bio"`
	Website *string `json:"website"`
}

type PublisherRequest struct {
	Name        string `json:"name" binding:"required"`
	Website     string `json:"website"`
	FoundedYear *uint  `json:"founded_year"`
}

type UpdatePublisherRequest struct {
	Name        *string `json:"name"`
	Website     *string `json:"website"`
	FoundedYear *uint   `json:"founded_year"`
}

// RateBookRequest either creates a rating or updates the caller's existing
// one for the same book.
type RateBookRequest struct {
	UserID uint   `json:"user" binding:"required"`
	BookID uint   `json:"book" binding:"required"`
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// AddCopyRequest shelves a physical copy of a book for its owner.
type AddCopyRequest struct {
	BookID              uint             `json:"book" binding:"required"`
	OwnerID             uint             `json:"owner" binding:"required"`
	Condition           string           `json:"condition" binding:"required"`
	ConditionNotes      string           `json:"condition_notes"`
	AcquiredDate        *time.Time       `json:"acquired_date"`
	PurchasePrice       *decimal.Decimal `json:"purchase_price"`
	AvailableForTrade   bool             `json:"available_for_trade"`
	AvailableForAuction bool             `json:"available_for_auction"`
}

type UpdateCopyRequest struct {
	Condition           *string `json:"condition"`
	ConditionNotes      *string `json:"condition_notes"`
	AvailableForTrade   *bool   `json:"available_for_trade"`
	AvailableForAuction *bool   `json:"available_for_auction"`
}

// RatingResponse mirrors the stored rating plus the book's recomputed average.
type RatingResponse struct {
	ID                uint            `json:"id"`
	UserID            uint            `json:"user"`
	BookID            uint            `json:"book"`
	Rating            int             `json:"rating"`
	Review            string          `json:"review"`
	BookAverageRating decimal.Decimal `json:"book_average_rating"`
}
