package catalog

import (
	"errors"
	"fmt"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/repository"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// CatalogService defines the business logic for books, authors, publishers
// and ratings.
type CatalogService struct {
	repo repository.CatalogStore
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(repo repository.CatalogStore) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListBooks returns the catalog ordered by average rating, best first.
func (s *CatalogService) ListBooks() ([]models.Book, error) {
	return s.repo.ListBooks()
}

// GetBook returns a single book.
func (s *CatalogService) GetBook(id uint) (models.Book, error) {
	return s.repo.GetBook(id)
}

// CreateBook validates and stores a new book.
func (s *CatalogService) CreateBook(book *models.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	return s.repo.CreateBook(book)
}

// UpdateBook validates and persists changes to an existing book.
func (s *CatalogService) UpdateBook(book *models.Book) error {
	if book.ID == 0 {
		return fmt.Errorf("service: %w - missing book id", traderrors.ErrValidation)
	}
	if err := validateBook(book); err != nil {
		return err
	}
	return s.repo.SaveBook(book)
}

// DeleteBook removes a book and its ratings.
func (s *CatalogService) DeleteBook(id uint) error {
	return s.repo.DeleteBook(id)
}

func validateBook(book *models.Book) error {
	if book.Title == "" {
		return fmt.Errorf("service: %w - title is required", traderrors.ErrValidation)
	}
	if book.ISBN == "" {
		return fmt.Errorf("service: %w - isbn is required", traderrors.ErrValidation)
	}
	if book.PublisherID == 0 {
		return fmt.Errorf("service: %w - publisher is required", traderrors.ErrValidation)
	}
	if book.Genre == "" {
		book.Genre = models.GenreOther
	}
	if !models.ValidGenre(book.Genre) {
		return fmt.Errorf("service: %w - unknown genre %q", traderrors.ErrValidation, book.Genre)
	}
	if book.Language == "" {
		book.Language = "en"
	}
	return nil
}

// ListAuthors returns all authors.
func (s *CatalogService) ListAuthors() ([]models.Author, error) {
	return s.repo.ListAuthors()
}

// GetAuthor returns a single author.
func (s *CatalogService) GetAuthor(id uint) (models.Author, error) {
	return s.repo.GetAuthor(id)
}

// CreateAuthor validates and stores a new author.
func (s *CatalogService) CreateAuthor(author *models.Author) error {
	if author.Name == "" {
		return fmt.Errorf("service: %w - author name is required", traderrors.ErrValidation)
	}
	return s.repo.CreateAuthor(author)
}

// UpdateAuthor persists changes to an existing author.
func (s *CatalogService) UpdateAuthor(author *models.Author) error {
	if author.ID == 0 {
		return fmt.Errorf("service: %w - missing author id", traderrors.ErrValidation)
	}
	if author.Name == "" {
		return fmt.Errorf("service: %w - author name is required", traderrors.ErrValidation)
	}
	return s.repo.SaveAuthor(author)
}

// DeleteAuthor removes an author.
func (s *CatalogService) DeleteAuthor(id uint) error {
	return s.repo.DeleteAuthor(id)
}

// ListPublishers returns all publishers.
func (s *CatalogService) ListPublishers() ([]models.Publisher, error) {
	return s.repo.ListPublishers()
}

// GetPublisher returns a single publisher.
func (s *CatalogService) GetPublisher(id uint) (models.Publisher, error) {
	return s.repo.GetPublisher(id)
}

// CreatePublisher validates and stores a new publisher.
func (s *CatalogService) CreatePublisher(publisher *models.Publisher) error {
	if publisher.Name == "" {
		return fmt.Errorf("service: %w - publisher name is required", traderrors.ErrValidation)
	}
	return s.repo.CreatePublisher(publisher)
}

// UpdatePublisher persists changes to an existing publisher.
func (s *CatalogService) UpdatePublisher(publisher *models.Publisher) error {
	if publisher.ID == 0 {
		return fmt.Errorf("service: %w - missing publisher id", traderrors.ErrValidation)
	}
	if publisher.Name == "" {
		return fmt.Errorf("service: %w - publisher name is required", traderrors.ErrValidation)
	}
	return s.repo.SavePublisher(publisher)
}

// DeletePublisher removes a publisher.
func (s *CatalogService) DeletePublisher(id uint) error {
	return s.repo.DeletePublisher(id)
}

// ListRatings returns all ratings, newest first.
func (s *CatalogService) ListRatings() ([]models.Rating, error) {
	return s.repo.ListRatings()
}

// GetRating returns a single rating.
func (s *CatalogService) GetRating(id uint) (models.Rating, error) {
	return s.repo.GetRating(id)
}

// RateBook records a user's rating for a book. When the user has rated the
// book before, the existing rating is updated instead of inserting a second
// row; the returned flag reports which happened. The book's average is
// recomputed before the call returns.
func (s *CatalogService) RateBook(userID, bookID uint, score int, review string) (models.Rating, bool, error) {
	if userID == 0 || bookID == 0 {
		return models.Rating{}, false, fmt.Errorf("service: %w - missing user or book", traderrors.ErrValidation)
	}
	if score < 1 || score > 5 {
		return models.Rating{}, false, fmt.Errorf("service: %w - rating must be between 1 and 5", traderrors.ErrValidation)
	}
	if _, err := s.repo.GetBook(bookID); err != nil {
		return models.Rating{}, false, err
	}

	created := false
	rating, err := s.repo.FindRating(userID, bookID)
	switch {
	case err == nil:
		rating.Rating = score
		if review != "" {
			rating.Review = review
		}
	case errors.Is(err, traderrors.ErrNotFound):
		rating = models.Rating{UserID: userID, BookID: bookID, Rating: score, Review: review}
		created = true
	default:
		return models.Rating{}, false, err
	}

	if err := s.repo.SaveRating(&rating); err != nil {
		return models.Rating{}, false, err
	}
	return rating, created, nil
}

// DeleteRating removes a rating; the book's average reflects the remaining
// ratings (or zero) before the call returns.
func (s *CatalogService) DeleteRating(id uint) error {
	return s.repo.DeleteRating(id)
}

// ListUserCopies returns the copies a user has shelved.
func (s *CatalogService) ListUserCopies(ownerID uint) ([]models.BookCopy, error) {
	return s.repo.ListCopiesForOwner(ownerID)
}

// AddCopy shelves a physical copy of a book for its owner. A user owns at
// most one tracked copy per title.
func (s *CatalogService) AddCopy(copy *models.BookCopy) error {
	if copy.BookID == 0 || copy.OwnerID == 0 {
		return fmt.Errorf("service: %w - missing book or owner", traderrors.ErrValidation)
	}
	if !models.ValidCondition(copy.Condition) {
		return fmt.Errorf("service: %w - unknown condition %q", traderrors.ErrValidation, copy.Condition)
	}
	if _, err := s.repo.GetBook(copy.BookID); err != nil {
		return err
	}
	return s.repo.CreateCopy(copy)
}

// UpdateCopy changes a copy's condition, notes or availability flags.
func (s *CatalogService) UpdateCopy(id uint, condition, notes *string, forTrade, forAuction *bool) (models.BookCopy, error) {
	copy, err := s.repo.GetCopy(id)
	if err != nil {
		return models.BookCopy{}, err
	}
	if condition != nil {
		if !models.ValidCondition(*condition) {
			return models.BookCopy{}, fmt.Errorf("service: %w - unknown condition %q", traderrors.ErrValidation, *condition)
		}
		copy.Condition = *condition
	}
	if notes != nil {
		copy.ConditionNotes = *notes
	}
	if forTrade != nil {
		copy.AvailableForTrade = *forTrade
	}
	if forAuction != nil {
		copy.AvailableForAuction = *forAuction
	}
	if err := s.repo.SaveCopy(&copy); err != nil {
		return models.BookCopy{}, err
	}
	return copy, nil
}

// RemoveCopy takes a copy off the shelf.
func (s *CatalogService) RemoveCopy(id uint) error {
	return s.repo.DeleteCopy(id)
}
