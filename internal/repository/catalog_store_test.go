package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// Tests that every rating write recomputes the book's average, that the
// average is rounded to one decimal place, and that deleting the last rating
// resets it to zero.
func TestCatalogStore_RatingAggregation(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)
	book := seedBook(t, db, "The Left Hand of Darkness", "9780441478125")

	first := models.Rating{UserID: 1, BookID: book.ID, Rating: 1}
	require.NoError(t, store.SaveRating(&first))

	got, err := store.GetBook(book.ID)
	require.NoError(t, err)
	require.True(t, got.AverageRating.Equal(dec("1")), "average was %s", got.AverageRating)

	second := models.Rating{UserID: 2, BookID: book.ID, Rating: 5}
	require.NoError(t, store.SaveRating(&second))

	got, err = store.GetBook(book.ID)
	require.NoError(t, err)
	require.True(t, got.AverageRating.Equal(dec("3")), "average was %s", got.AverageRating)

	// Updating an existing rating replaces it in the aggregate.
	first.Rating = 4
	require.NoError(t, store.SaveRating(&first))

	got, err = store.GetBook(book.ID)
	require.NoError(t, err)
	require.True(t, got.AverageRating.Equal(dec("4.5")), "average was %s", got.AverageRating)

	require.NoError(t, store.DeleteRating(first.ID))

	got, err = store.GetBook(book.ID)
	require.NoError(t, err)
	require.True(t, got.AverageRating.Equal(dec("5")), "average was %s", got.AverageRating)

	require.NoError(t, store.DeleteRating(second.ID))

	got, err = store.GetBook(book.ID)
	require.NoError(t, err)
	require.True(t, got.AverageRating.Equal(dec("0")), "average was %s", got.AverageRating)
}

func TestCatalogStore_RatingAverageRounding(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)
	book := seedBook(t, db, "Dune", "9780441013593")

	for i, score := range []int{2, 3, 5} {
		rating := models.Rating{UserID: uint(i + 1), BookID: book.ID, Rating: score}
		require.NoError(t, store.SaveRating(&rating))
	}

	// Mean of 2, 3 and 5 is 3.333...; stored as 3.3.
	got, err := store.GetBook(book.ID)
	require.NoError(t, err)
	require.True(t, got.AverageRating.Equal(dec("3.3")), "average was %s", got.AverageRating)
}

func TestCatalogStore_RatingAverageRoundsHalfToEven(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)

	tests := []struct {
		name   string
		scores []int
		want   string
	}{
		{name: "tie_rounds_down_to_even", scores: []int{3, 3, 3, 4}, want: "3.2"}, // mean 3.25
		{name: "tie_rounds_up_to_even", scores: []int{3, 4, 4, 4}, want: "3.8"},   // mean 3.75
		{name: "exact_tenth_kept", scores: []int{3, 3, 4, 4}, want: "3.5"},        // mean 3.5
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := seedBook(t, db, "Tie Case "+tt.name, fmt.Sprintf("978000000%04d", i))
			for j, score := range tt.scores {
				rating := models.Rating{UserID: uint(j + 1), BookID: book.ID, Rating: score}
				require.NoError(t, store.SaveRating(&rating))
			}
			got, err := store.GetBook(book.ID)
			require.NoError(t, err)
			require.True(t, got.AverageRating.Equal(dec(tt.want)),
				"average was %s, want %s", got.AverageRating, tt.want)
		})
	}
}

func TestCatalogStore_FindRating(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)
	book := seedBook(t, db, "Hyperion", "9780553283686")

	_, err := store.FindRating(7, book.ID)
	require.ErrorIs(t, err, traderrors.ErrNotFound)

	rating := models.Rating{UserID: 7, BookID: book.ID, Rating: 4, Review: "great"}
	require.NoError(t, store.SaveRating(&rating))

	found, err := store.FindRating(7, book.ID)
	require.NoError(t, err)
	require.Equal(t, rating.ID, found.ID)
	require.Equal(t, 4, found.Rating)
	require.Equal(t, "great", found.Review)
}

func TestCatalogStore_CreateBook_DuplicateISBN(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)
	book := seedBook(t, db, "Neuromancer", "9780441569595")

	dup := models.Book{
		Title:       "Neuromancer (reissue)",
		ISBN:        book.ISBN,
		PublisherID: book.PublisherID,
	}
	err := store.CreateBook(&dup)
	require.ErrorIs(t, err, traderrors.ErrDuplicateISBN)
}

func TestCatalogStore_DeleteBook_RemovesRatings(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)
	book := seedBook(t, db, "Solaris", "9780156027601")

	rating := models.Rating{UserID: 1, BookID: book.ID, Rating: 5}
	require.NoError(t, store.SaveRating(&rating))

	require.NoError(t, store.DeleteBook(book.ID))

	_, err := store.GetBook(book.ID)
	require.ErrorIs(t, err, traderrors.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Where("book_id = ?", book.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestCatalogStore_DeleteBook_NotFound(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)

	err := store.DeleteBook(4242)
	require.ErrorIs(t, err, traderrors.ErrNotFound)
}

func TestCatalogStore_ListBooks_OrderedByAverage(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewCatalogStore(db)

	low := seedBook(t, db, "Low", "isbn-low")
	high := seedBook(t, db, "High", "isbn-high")

	require.NoError(t, store.SaveRating(&models.Rating{UserID: 1, BookID: low.ID, Rating: 2}))
	require.NoError(t, store.SaveRating(&models.Rating{UserID: 1, BookID: high.ID, Rating: 5}))

	books, err := store.ListBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)
	require.Equal(t, high.ID, books[0].ID)
	require.Equal(t, low.ID, books[1].ID)
}
