package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// CatalogStore persists books, authors, publishers and ratings. Rating writes
// recompute the owning book's average inside the same transaction, so callers
// never observe a rating committed while the book's average is stale.
type CatalogStore interface {
	ListBooks() ([]models.Book, error)
	GetBook(id uint) (models.Book, error)
	CreateBook(book *models.Book) error
	SaveBook(book *models.Book) error
	DeleteBook(id uint) error

	ListAuthors() ([]models.Author, error)
	GetAuthor(id uint) (models.Author, error)
	CreateAuthor(author *models.Author) error
	SaveAuthor(author *models.Author) error
	DeleteAuthor(id uint) error

	ListPublishers() ([]models.Publisher, error)
	GetPublisher(id uint) (models.Publisher, error)
	CreatePublisher(publisher *models.Publisher) error
	SavePublisher(publisher *models.Publisher) error
	DeletePublisher(id uint) error

	ListRatings() ([]models.Rating, error)
	GetRating(id uint) (models.Rating, error)
	FindRating(userID, bookID uint) (models.Rating, error)
	SaveRating(rating *models.Rating) error
	DeleteRating(id uint) error

	ListCopiesForOwner(ownerID uint) ([]models.BookCopy, error)
	GetCopy(id uint) (models.BookCopy, error)
	CreateCopy(copy *models.BookCopy) error
	SaveCopy(copy *models.BookCopy) error
	DeleteCopy(id uint) error
}

// AuctionStore persists auctions, bids and watch list entries.
type AuctionStore interface {
	ListAuctions() ([]models.Auction, error)
	GetAuction(id uint) (models.Auction, error)
	CreateAuction(auction *models.Auction) error
	SaveAuction(auction *models.Auction) error

	RecordBid(bid *models.Bid) error
	ListBids(auctionID uint) ([]models.Bid, error)
	HighestBid(auctionID uint) (models.Bid, error)

	AddWatch(watch *models.WatchList) error
	RemoveWatch(userID, auctionID uint) error
	ListWatched(userID uint) ([]models.WatchList, error)
}

// TradeStore persists trades, their items, messages and offer versions.
type TradeStore interface {
	CreateTrade(trade *models.Trade) error
	GetTrade(id uint) (models.Trade, error)
	ListTradesForUser(userID uint) ([]models.Trade, error)
	SaveTrade(trade *models.Trade) error

	AddItem(item *models.TradeItem) error
	ListItems(tradeID uint) ([]models.TradeItem, error)

	AddMessage(message *models.TradeMessage) error
	ListMessages(tradeID uint) ([]models.TradeMessage, error)

	AddOffer(offer *models.TradeOffer) error
	ListOffers(tradeID uint) ([]models.TradeOffer, error)
}

// IdentityStore persists users, profiles, reputation events and email
// verification devices.
type IdentityStore interface {
	CreateUser(user *models.User) error
	GetUser(id uint) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	ListUsers() ([]models.User, error)
	SaveUser(user *models.User) error
	DeleteUser(id uint) error

	GetOrCreateDevice(userID uint, name, email string) (models.EmailDevice, error)
	SaveDevice(device *models.EmailDevice) error

	GetProfile(userID uint) (models.UserProfile, error)
	SaveProfile(profile *models.UserProfile) error

	AppendReputation(event *models.UserReputation) error
	ListReputation(userID uint) ([]models.UserReputation, error)
}

// translateNotFound maps gorm's record-not-found to the domain sentinel.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return traderrors.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether the error is a unique index violation,
// covering the MySQL and sqlite message formats.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
