package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/services/marketplace/helpers"
	"github.com/sherdwhite/book-trader/utils"
)

type CatalogServiceInterface interface {
	ListBooks() ([]models.Book, error)
	GetBook(id uint) (models.Book, error)
	CreateBook(book *models.Book) error
	UpdateBook(book *models.Book) error
	DeleteBook(id uint) error

	ListAuthors() ([]models.Author, error)
	GetAuthor(id uint) (models.Author, error)
	CreateAuthor(author *models.Author) error
	UpdateAuthor(author *models.Author) error
	DeleteAuthor(id uint) error

	ListPublishers() ([]models.Publisher, error)
	GetPublisher(id uint) (models.Publisher, error)
	CreatePublisher(publisher *models.Publisher) error
	UpdatePublisher(publisher *models.Publisher) error
	DeletePublisher(id uint) error

	ListRatings() ([]models.Rating, error)
	GetRating(id uint) (models.Rating, error)
	RateBook(userID, bookID uint, score int, review string) (models.Rating, bool, error)
	DeleteRating(id uint) error

	ListUserCopies(ownerID uint) ([]models.BookCopy, error)
	AddCopy(copy *models.BookCopy) error
	UpdateCopy(id uint, condition, notes *string, forTrade, forAuction *bool) (models.BookCopy, error)
	RemoveCopy(id uint) error
}

type CatalogHandler struct {
	service CatalogServiceInterface
}

func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListBooksHandler handles GET /books
func (h *CatalogHandler) ListBooksHandler(c *gin.Context) {
	books, err := h.service.ListBooks()
	if err != nil {
		helpers.RespondError(c, "ListBooksHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, books, "books retrieved successfully")
}

// GetBookHandler handles GET /books/:id
func (h *CatalogHandler) GetBookHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := h.service.GetBook(id)
	if err != nil {
		helpers.RespondError(c, "GetBookHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, book, "book retrieved successfully")
}

// CreateBookHandler handles POST /books
func (h *CatalogHandler) CreateBookHandler(c *gin.Context) {
	var req helpers.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateBookHandler", err)
		return
	}

	book := models.Book{
		Title:         req.Title,
		Description:   req.Description,
		ISBN:          req.ISBN,
		PublisherID:   req.PublisherID,
		Genre:         req.Genre,
		Language:      req.Language,
		PageCount:     req.PageCount,
		OriginalPrice: req.OriginalPrice,
		Authors:       authorRefs(req.AuthorIDs),
	}
	if err := h.service.CreateBook(&book); err != nil {
		helpers.RespondError(c, "CreateBookHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, book, "book created successfully")
	helpers.LogSuccess("CreateBookHandler", "book created successfully", map[string]any{
		"book_id": book.ID,
		"isbn":    book.ISBN,
	})
}

// UpdateBookHandler handles PUT and PATCH /books/:id. Omitted fields keep
// their stored values, so a PUT with a partial body behaves like a PATCH.
func (h *CatalogHandler) UpdateBookHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateBookHandler", err)
		return
	}

	book, err := h.service.GetBook(id)
	if err != nil {
		helpers.RespondError(c, "UpdateBookHandler", err)
		return
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.PublisherID != nil {
		book.PublisherID = *req.PublisherID
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	if req.PageCount != nil {
		book.PageCount = req.PageCount
	}
	if req.OriginalPrice != nil {
		book.OriginalPrice = req.OriginalPrice
	}
	if req.AuthorIDs != nil {
		book.Authors = authorRefs(req.AuthorIDs)
	}

	if err := h.service.UpdateBook(&book); err != nil {
		helpers.RespondError(c, "UpdateBookHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, book, "book updated successfully")
}

// DeleteBookHandler handles DELETE /books/:id
func (h *CatalogHandler) DeleteBookHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBook(id); err != nil {
		helpers.RespondError(c, "DeleteBookHandler", err)
		return
	}
	utils.NoContent(c)
}

// authorRefs builds the association set from a list of author ids.
func authorRefs(ids []uint) []models.Author {
	if len(ids) == 0 {
		return nil
	}
	authors := make([]models.Author, 0, len(ids))
	for _, id := range ids {
		authors = append(authors, models.Author{ID: id})
	}
	return authors
}

// ListAuthorsHandler handles GET /authors
func (h *CatalogHandler) ListAuthorsHandler(c *gin.Context) {
	authors, err := h.service.ListAuthors()
	if err != nil {
		helpers.RespondError(c, "ListAuthorsHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, authors, "authors retrieved successfully")
}

// GetAuthorHandler handles GET /authors/:id
func (h *CatalogHandler) GetAuthorHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := h.service.GetAuthor(id)
	if err != nil {
		helpers.RespondError(c, "GetAuthorHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, author, "author retrieved successfully")
}

// CreateAuthorHandler handles POST /authors
func (h *CatalogHandler) CreateAuthorHandler(c *gin.Context) {
	var req helpers.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuthorHandler", err)
		return
	}
	author := models.Author{Name: req.Name, Bio: req.Bio, Website: req.Website}
	if err := h.service.CreateAuthor(&author); err != nil {
		helpers.RespondError(c, "CreateAuthorHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, author, "author created successfully")
}

// UpdateAuthorHandler handles PUT and PATCH /authors/:id
func (h *CatalogHandler) UpdateAuthorHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateAuthorHandler", err)
		return
	}

	author, err := h.service.GetAuthor(id)
	if err != nil {
		helpers.RespondError(c, "UpdateAuthorHandler", err)
		return
	}
	if req.Name != nil {
		author.Name = *req.Name
	}
	if req.Bio != nil {
		author.Bio = *req.Bio
	}
	if req.Website != nil {
		author.Website = *req.Website
	}

	if err := h.service.UpdateAuthor(&author); err != nil {
		helpers.RespondError(c, "UpdateAuthorHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, author, "author updated successfully")
}

// DeleteAuthorHandler handles DELETE /authors/:id
func (h *CatalogHandler) DeleteAuthorHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAuthor(id); err != nil {
		helpers.RespondError(c, "DeleteAuthorHandler", err)
		return
	}
	utils.NoContent(c)
}

// ListPublishersHandler handles GET /publishers
func (h *CatalogHandler) ListPublishersHandler(c *gin.Context) {
	publishers, err := h.service.ListPublishers()
	if err != nil {
		helpers.RespondError(c, "ListPublishersHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, publishers, "publishers retrieved successfully")
}

// GetPublisherHandler handles GET /publishers/:id
func (h *CatalogHandler) GetPublisherHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	publisher, err := h.service.GetPublisher(id)
	if err != nil {
		helpers.RespondError(c, "GetPublisherHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, publisher, "publisher retrieved successfully")
}

// CreatePublisherHandler handles POST /publishers
func (h *CatalogHandler) CreatePublisherHandler(c *gin.Context) {
	var req helpers.PublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreatePublisherHandler", err)
		return
	}
	publisher := models.Publisher{Name: req.Name, Website: req.Website, FoundedYear: req.FoundedYear}
	if err := h.service.CreatePublisher(&publisher); err != nil {
		helpers.RespondError(c, "CreatePublisherHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, publisher, "publisher created successfully")
}

// UpdatePublisherHandler handles PUT and PATCH /publishers/:id
func (h *CatalogHandler) UpdatePublisherHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.UpdatePublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdatePublisherHandler", err)
		return
	}

	publisher, err := h.service.GetPublisher(id)
	if err != nil {
		helpers.RespondError(c, "UpdatePublisherHandler", err)
		return
	}
	if req.Name != nil {
		publisher.Name = *req.Name
	}
	if req.Website != nil {
		publisher.Website = *req.Website
	}
	if req.FoundedYear != nil {
		publisher.FoundedYear = req.FoundedYear
	}

	if err := h.service.UpdatePublisher(&publisher); err != nil {
		helpers.RespondError(c, "UpdatePublisherHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, publisher, "publisher updated successfully")
}

// DeletePublisherHandler handles DELETE /publishers/:id
func (h *CatalogHandler) DeletePublisherHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePublisher(id); err != nil {
		helpers.RespondError(c, "DeletePublisherHandler", err)
		return
	}
	utils.NoContent(c)
}

// ListRatingsHandler handles GET /ratings
func (h *CatalogHandler) ListRatingsHandler(c *gin.Context) {
	ratings, err := h.service.ListRatings()
	if err != nil {
		helpers.RespondError(c, "ListRatingsHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, ratings, "ratings retrieved successfully")
}

// GetRatingHandler handles GET /ratings/:id
func (h *CatalogHandler) GetRatingHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	rating, err := h.service.GetRating(id)
	if err != nil {
		helpers.RespondError(c, "GetRatingHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, rating, "rating retrieved successfully")
}

// RateBookHandler handles POST /ratings. A second submission for the same
// (user, book) pair updates the existing rating instead of creating another
// row. The response carries the book's freshly recomputed average.
func (h *CatalogHandler) RateBookHandler(c *gin.Context) {
	var req helpers.RateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RateBookHandler", err)
		return
	}

	rating, created, err := h.service.RateBook(req.UserID, req.BookID, req.Rating, req.Review)
	if err != nil {
		helpers.RespondError(c, "RateBookHandler", err)
		return
	}

	book, err := h.service.GetBook(req.BookID)
	if err != nil {
		helpers.RespondError(c, "RateBookHandler", err)
		return
	}

	resp := helpers.RatingResponse{
		ID:                rating.ID,
		UserID:            rating.UserID,
		BookID:            rating.BookID,
		Rating:            rating.Rating,
		Review:            rating.Review,
		BookAverageRating: book.AverageRating,
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	utils.JSONResponse(c, status, resp, "rating recorded successfully")
	helpers.LogSuccess("RateBookHandler", "rating recorded successfully", map[string]any{
		"rating_id": rating.ID,
		"book_id":   rating.BookID,
		"user_id":   rating.UserID,
		"rating":    rating.Rating,
	})
}

// DeleteRatingHandler handles DELETE /ratings/:id. By the time a subsequent
// GET is served, the book's average reflects the remaining ratings.
func (h *CatalogHandler) DeleteRatingHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRating(id); err != nil {
		helpers.RespondError(c, "DeleteRatingHandler", err)
		return
	}
	utils.NoContent(c)
}

// ListUserCopiesHandler handles GET /users/:id/copies
func (h *CatalogHandler) ListUserCopiesHandler(c *gin.Context) {
	ownerID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	copies, err := h.service.ListUserCopies(ownerID)
	if err != nil {
		helpers.RespondError(c, "ListUserCopiesHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, copies, "copies retrieved successfully")
}

// AddCopyHandler handles POST /copies
func (h *CatalogHandler) AddCopyHandler(c *gin.Context) {
	var req helpers.AddCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddCopyHandler", err)
		return
	}

	copy := models.BookCopy{
		BookID:              req.BookID,
		OwnerID:             req.OwnerID,
		Condition:           req.Condition,
		ConditionNotes:      req.ConditionNotes,
		AcquiredDate:        req.AcquiredDate,
		PurchasePrice:       req.PurchasePrice,
		AvailableForTrade:   req.AvailableForTrade,
		AvailableForAuction: req.AvailableForAuction,
	}
	if err := h.service.AddCopy(&copy); err != nil {
		helpers.RespondError(c, "AddCopyHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, copy, "copy shelved successfully")
	helpers.LogSuccess("AddCopyHandler", "copy shelved successfully", map[string]any{
		"copy_id":  copy.ID,
		"book_id":  copy.BookID,
		"owner_id": copy.OwnerID,
	})
}

// UpdateCopyHandler handles PATCH /copies/:id
func (h *CatalogHandler) UpdateCopyHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.UpdateCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateCopyHandler", err)
		return
	}

	copy, err := h.service.UpdateCopy(id, req.Condition, req.ConditionNotes,
		req.AvailableForTrade, req.AvailableForAuction)
	if err != nil {
		helpers.RespondError(c, "UpdateCopyHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, copy, "copy updated successfully")
}

// RemoveCopyHandler handles DELETE /copies/:id
func (h *CatalogHandler) RemoveCopyHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.RemoveCopy(id); err != nil {
		helpers.RespondError(c, "RemoveCopyHandler", err)
		return
	}
	utils.NoContent(c)
}
