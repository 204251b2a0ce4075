package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// GormCatalogStore is the gorm-backed implementation of CatalogStore.
type GormCatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore creates a CatalogStore on top of the given connection.
func NewCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

// ListBooks returns all books ordered by average rating, best first.
func (s *GormCatalogStore) ListBooks() ([]models.Book, error) {
	var books []models.Book
	err := s.db.Preload("Publisher").Preload("Authors").
		Order("average_rating DESC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook returns a single book with its publisher and authors.
func (s *GormCatalogStore) GetBook(id uint) (models.Book, error) {
	var book models.Book
	err := s.db.Preload("Publisher").Preload("Authors").First(&book, id).Error
	if err != nil {
		return models.Book{}, fmt.Errorf("get book %d: %w", id, translateNotFound(err))
	}
	return book, nil
}

// CreateBook inserts a new book. A duplicate ISBN is rejected.
func (s *GormCatalogStore) CreateBook(book *models.Book) error {
	if err := s.db.Create(book).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create book: %w", traderrors.ErrDuplicateISBN)
		}
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// SaveBook persists changes to an existing book, including its author set.
func (s *GormCatalogStore) SaveBook(book *models.Book) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Authors", "Publisher").Save(book).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("save book %d: %w", book.ID, traderrors.ErrDuplicateISBN)
			}
			return fmt.Errorf("save book %d: %w", book.ID, err)
		}
		if book.Authors != nil {
			if err := tx.Model(book).Association("Authors").Replace(book.Authors); err != nil {
				return fmt.Errorf("save book %d authors: %w", book.ID, err)
			}
		}
		return nil
	})
}

// DeleteBook removes a book and its ratings.
func (s *GormCatalogStore) DeleteBook(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return fmt.Errorf("delete book %d ratings: %w", id, err)
		}
		res := tx.Delete(&models.Book{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete book %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete book %d: %w", id, traderrors.ErrNotFound)
		}
		return nil
	})
}

// ListAuthors returns all authors ordered by name.
func (s *GormCatalogStore) ListAuthors() ([]models.Author, error) {
	var authors []models.Author
	if err := s.db.Order("name").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// GetAuthor returns a single author.
func (s *GormCatalogStore) GetAuthor(id uint) (models.Author, error) {
	var author models.Author
	if err := s.db.First(&author, id).Error; err != nil {
		return models.Author{}, fmt.Errorf("get author %d: %w", id, translateNotFound(err))
	}
	return author, nil
}

// CreateAuthor inserts a new author.
func (s *GormCatalogStore) CreateAuthor(author *models.Author) error {
	if err := s.db.Create(author).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

// SaveAuthor persists changes to an existing author.
func (s *GormCatalogStore) SaveAuthor(author *models.Author) error {
	if err := s.db.Save(author).Error; err != nil {
		return fmt.Errorf("save author %d: %w", author.ID, err)
	}
	return nil
}

// DeleteAuthor removes an author.
func (s *GormCatalogStore) DeleteAuthor(id uint) error {
	res := s.db.Delete(&models.Author{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete author %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete author %d: %w", id, traderrors.ErrNotFound)
	}
	return nil
}

// ListPublishers returns all publishers ordered by name.
func (s *GormCatalogStore) ListPublishers() ([]models.Publisher, error) {
	var publishers []models.Publisher
	if err := s.db.Order("name").Find(&publishers).Error; err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	return publishers, nil
}

// GetPublisher returns a single publisher.
func (s *GormCatalogStore) GetPublisher(id uint) (models.Publisher, error) {
	var publisher models.Publisher
	if err := s.db.First(&publisher, id).Error; err != nil {
		return models.Publisher{}, fmt.Errorf("get publisher %d: %w", id, translateNotFound(err))
	}
	return publisher, nil
}

// CreatePublisher inserts a new publisher.
func (s *GormCatalogStore) CreatePublisher(publisher *models.Publisher) error {
	if err := s.db.Create(publisher).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create publisher: %w", traderrors.ErrValidation)
		}
		return fmt.Errorf("create publisher: %w", err)
	}
	return nil
}

// SavePublisher persists changes to an existing publisher.
func (s *GormCatalogStore) SavePublisher(publisher *models.Publisher) error {
	if err := s.db.Save(publisher).Error; err != nil {
		return fmt.Errorf("save publisher %d: %w", publisher.ID, err)
	}
	return nil
}

// DeletePublisher removes a publisher.
func (s *GormCatalogStore) DeletePublisher(id uint) error {
	res := s.db.Delete(&models.Publisher{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete publisher %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete publisher %d: %w", id, traderrors.ErrNotFound)
	}
	return nil
}

// ListRatings returns all ratings, newest first.
func (s *GormCatalogStore) ListRatings() ([]models.Rating, error) {
	var ratings []models.Rating
	if err := s.db.Order("created_at DESC").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// GetRating returns a single rating.
func (s *GormCatalogStore) GetRating(id uint) (models.Rating, error) {
	var rating models.Rating
	if err := s.db.First(&rating, id).Error; err != nil {
		return models.Rating{}, fmt.Errorf("get rating %d: %w", id, translateNotFound(err))
	}
	return rating, nil
}

// FindRating looks up the rating for a (user, book) pair.
func (s *GormCatalogStore) FindRating(userID, bookID uint) (models.Rating, error) {
	var rating models.Rating
	err := s.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&rating).Error
	if err != nil {
		return models.Rating{}, fmt.Errorf("find rating for user %d book %d: %w",
			userID, bookID, translateNotFound(err))
	}
	return rating, nil
}

// SaveRating writes a rating (insert or update) and recomputes the owning
// book's average rating within the same transaction.
func (s *GormCatalogStore) SaveRating(rating *models.Rating) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rating).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("save rating: %w", traderrors.ErrDuplicateRating)
			}
			return fmt.Errorf("save rating: %w", err)
		}
		return recalculateAverage(tx, rating.BookID)
	})
}

// DeleteRating removes a rating and recomputes the owning book's average
// rating within the same transaction.
func (s *GormCatalogStore) DeleteRating(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.First(&rating, id).Error; err != nil {
			return fmt.Errorf("delete rating %d: %w", id, translateNotFound(err))
		}
		if err := tx.Delete(&models.Rating{}, id).Error; err != nil {
			return fmt.Errorf("delete rating %d: %w", id, err)
		}
		return recalculateAverage(tx, rating.BookID)
	})
}

// ListCopiesForOwner returns the copies a user has shelved, newest first.
func (s *GormCatalogStore) ListCopiesForOwner(ownerID uint) ([]models.BookCopy, error) {
	var copies []models.BookCopy
	err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&copies).Error
	if err != nil {
		return nil, fmt.Errorf("list copies for owner %d: %w", ownerID, err)
	}
	return copies, nil
}

// GetCopy returns a single tracked copy.
func (s *GormCatalogStore) GetCopy(id uint) (models.BookCopy, error) {
	var copy models.BookCopy
	if err := s.db.First(&copy, id).Error; err != nil {
		return models.BookCopy{}, fmt.Errorf("get copy %d: %w", id, translateNotFound(err))
	}
	return copy, nil
}

// CreateCopy shelves a copy. A user owns at most one tracked copy per title.
func (s *GormCatalogStore) CreateCopy(copy *models.BookCopy) error {
	if err := s.db.Create(copy).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create copy: %w", traderrors.ErrStateConflict)
		}
		return fmt.Errorf("create copy: %w", err)
	}
	return nil
}

// SaveCopy persists changes to an existing copy.
func (s *GormCatalogStore) SaveCopy(copy *models.BookCopy) error {
	if err := s.db.Save(copy).Error; err != nil {
		return fmt.Errorf("save copy %d: %w", copy.ID, err)
	}
	return nil
}

// DeleteCopy removes a tracked copy.
func (s *GormCatalogStore) DeleteCopy(id uint) error {
	res := s.db.Delete(&models.BookCopy{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete copy %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete copy %d: %w", id, traderrors.ErrNotFound)
	}
	return nil
}

// recalculateAverage sets the book's average_rating to the mean of its
// ratings rounded to one decimal place, or zero when none remain. The book
// row is locked on MySQL so concurrent rating writes to the same book
// serialize; sqlite (tests) has no row locks and serializes writers itself.
func recalculateAverage(tx *gorm.DB, bookID uint) error {
	lookup := tx
	if tx.Dialector.Name() == "mysql" {
		lookup = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var book models.Book
	if err := lookup.First(&book, bookID).Error; err != nil {
		return fmt.Errorf("recalculate average for book %d: %w", bookID, translateNotFound(err))
	}

	var avg sql.NullFloat64
	err := tx.Model(&models.Rating{}).
		Where("book_id = ?", bookID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return fmt.Errorf("recalculate average for book %d: %w", bookID, err)
	}

	average := decimal.Zero
	if avg.Valid {
		// Half-even rounding: 3.25 rounds to 3.2, 3.35 to 3.4.
		average = decimal.NewFromFloat(avg.Float64).RoundBank(1)
	}

	err = tx.Model(&models.Book{}).Where("id = ?", bookID).
		Update("average_rating", average).Error
	if err != nil {
		return fmt.Errorf("recalculate average for book %d: %w", bookID, err)
	}
	return nil
}
