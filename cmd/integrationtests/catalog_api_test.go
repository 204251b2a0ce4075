package integrationtests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// seedCatalog creates a publisher, an author and a book through the API and
// returns their ids.
func seedCatalog(t *testing.T, client *apiClient, isbn string) (bookID, authorID, publisherID uint) {
	t.Helper()

	resp, w := client.Do(http.MethodPost, "/publishers", map[string]any{
		"name": "Publisher " + isbn,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	publisherID = id(t, data(t, resp))

	resp, w = client.Do(http.MethodPost, "/authors", map[string]any{
		"name": "Author " + isbn,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	authorID = id(t, data(t, resp))

	resp, w = client.Do(http.MethodPost, "/books", map[string]any{
		"title":        "Book " + isbn,
		"isbn":         isbn,
		"publisher_id": publisherID,
		"author_ids":   []uint{authorID},
		"genre":        "sci_fi",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookID = id(t, data(t, resp))
	return bookID, authorID, publisherID
}

func TestCatalogAPI_BookLifecycle(t *testing.T) {
	router, _, _ := SetupTestRouter(t)
	client := newAPIClient(t, router)

	bookID, _, _ := seedCatalog(t, client, "9780441569595")

	resp, w := client.Do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	book := data(t, resp)
	require.Equal(t, "Book 9780441569595", book["title"])
	require.Equal(t, "sci_fi", book["genre"])

	// Partial update via PATCH leaves the other fields alone.
	resp, w = client.Do(http.MethodPatch, fmt.Sprintf("/books/%d", bookID), map[string]any{
		"description": "A classic.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	book = data(t, resp)
	require.Equal(t, "A classic.", book["description"])
	require.Equal(t, "Book 9780441569595", book["title"])

	_, w = client.Do(http.MethodDelete, fmt.Sprintf("/books/%d", bookID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	resp, w = client.Do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "record not found", resp["message"])
}

func TestCatalogAPI_DuplicateISBN(t *testing.T) {
	router, _, _ := SetupTestRouter(t)
	client := newAPIClient(t, router)

	_, _, publisherID := seedCatalog(t, client, "9780553283686")

	resp, w := client.Do(http.MethodPost, "/books", map[string]any{
		"title":        "Same ISBN",
		"isbn":         "9780553283686",
		"publisher_id": publisherID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "a book with this ISBN already exists", resp["message"])
}

func TestCatalogAPI_Ratings(t *testing.T) {
	router, _, _ := SetupTestRouter(t)
	client := newAPIClient(t, router)

	bookID, _, _ := seedCatalog(t, client, "9780156027601")

	resp, w := client.Do(http.MethodPost, "/ratings", map[string]any{
		"user":   1,
		"book":   bookID,
		"rating": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rating := data(t, resp)
	require.Equal(t, "1", rating["book_average_rating"])
	firstRatingID := id(t, rating)

	resp, w = client.Do(http.MethodPost, "/ratings", map[string]any{
		"user":   2,
		"book":   bookID,
		"rating": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "3", data(t, resp)["book_average_rating"])

	// The same user rating again updates in place and reads as an update.
	resp, w = client.Do(http.MethodPost, "/ratings", map[string]any{
		"user":   1,
		"book":   bookID,
		"rating": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := data(t, resp)
	require.Equal(t, firstRatingID, id(t, updated))
	require.Equal(t, "5", updated["book_average_rating"])

	// Deleting a rating recomputes the average down.
	_, w = client.Do(http.MethodDelete, fmt.Sprintf("/ratings/%d", firstRatingID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	resp, w = client.Do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "5", data(t, resp)["average_rating"])

	// Out-of-range score is rejected.
	resp, w = client.Do(http.MethodPost, "/ratings", map[string]any{
		"user":   3,
		"book":   bookID,
		"rating": 9,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "validation failed", resp["message"])
}

func TestCatalogAPI_Copies(t *testing.T) {
	router, db, _ := SetupTestRouter(t)
	client := newAPIClient(t, router)

	alice, _ := seedTraders(t, db)
	bookID, _, _ := seedCatalog(t, client, "9780062059888")

	resp, w := client.Do(http.MethodPost, "/copies", map[string]any{
		"book":      bookID,
		"owner":     alice,
		"condition": "good",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	copyID := id(t, data(t, resp))

	// A second copy of the same title for the same owner is rejected.
	resp, w = client.Do(http.MethodPost, "/copies", map[string]any{
		"book":      bookID,
		"owner":     alice,
		"condition": "new",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	resp, w = client.Do(http.MethodPatch, fmt.Sprintf("/copies/%d", copyID), map[string]any{
		"condition":           "like_new",
		"available_for_trade": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "like_new", data(t, resp)["condition"])
	require.Equal(t, true, data(t, resp)["available_for_trade"])

	resp, w = client.Do(http.MethodGet, fmt.Sprintf("/users/%d/copies", alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list(t, resp), 1)

	_, w = client.Do(http.MethodDelete, fmt.Sprintf("/copies/%d", copyID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	resp, w = client.Do(http.MethodGet, fmt.Sprintf("/users/%d/copies", alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, resp["data"])
}
