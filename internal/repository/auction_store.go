package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// GormAuctionStore is the gorm-backed implementation of AuctionStore.
type GormAuctionStore struct {
	db *gorm.DB
}

// NewAuctionStore creates an AuctionStore on top of the given connection.
func NewAuctionStore(db *gorm.DB) *GormAuctionStore {
	return &GormAuctionStore{db: db}
}

// ListAuctions returns all auctions, newest first.
func (s *GormAuctionStore) ListAuctions() ([]models.Auction, error) {
	var auctions []models.Auction
	if err := s.db.Order("created_at DESC").Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, nil
}

// GetAuction returns a single auction.
func (s *GormAuctionStore) GetAuction(id uint) (models.Auction, error) {
	var auction models.Auction
	if err := s.db.First(&auction, id).Error; err != nil {
		return models.Auction{}, fmt.Errorf("get auction %d: %w", id, translateNotFound(err))
	}
	return auction, nil
}

// CreateAuction inserts a new auction listing.
func (s *GormAuctionStore) CreateAuction(auction *models.Auction) error {
	if err := s.db.Create(auction).Error; err != nil {
		return fmt.Errorf("create auction: %w", err)
	}
	return nil
}

// SaveAuction persists changes to an existing auction.
func (s *GormAuctionStore) SaveAuction(auction *models.Auction) error {
	if err := s.db.Save(auction).Error; err != nil {
		return fmt.Errorf("save auction %d: %w", auction.ID, err)
	}
	return nil
}

// RecordBid records a bid against an existing auction.
func (s *GormAuctionStore) RecordBid(bid *models.Bid) error {
	var count int64
	if err := s.db.Model(&models.Auction{}).Where("id = ?", bid.AuctionID).Count(&count).Error; err != nil {
		return fmt.Errorf("record bid for auction %d: %w", bid.AuctionID, err)
	}
	if count == 0 {
		return fmt.Errorf("record bid for auction %d: %w", bid.AuctionID, traderrors.ErrNotFound)
	}
	if err := s.db.Create(bid).Error; err != nil {
		return fmt.Errorf("record bid for auction %d: %w", bid.AuctionID, err)
	}
	return nil
}

// ListBids returns all bids for an auction ordered by amount, highest first.
func (s *GormAuctionStore) ListBids(auctionID uint) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.Where("auction_id = ?", auctionID).
		Order("amount DESC").Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

// HighestBid returns the winning bid for an auction, or ErrNoBids when no bid
// has been placed.
func (s *GormAuctionStore) HighestBid(auctionID uint) (models.Bid, error) {
	var bid models.Bid
	err := s.db.Where("auction_id = ?", auctionID).
		Order("amount DESC").First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Bid{}, fmt.Errorf("highest bid for auction %d: %w", auctionID, traderrors.ErrNoBids)
		}
		return models.Bid{}, fmt.Errorf("highest bid for auction %d: %w", auctionID, err)
	}
	return bid, nil
}

// AddWatch adds an auction to a user's watch list. Watching the same auction
// twice fails with ErrAlreadyWatching; the composite unique index enforces it.
func (s *GormAuctionStore) AddWatch(watch *models.WatchList) error {
	if err := s.db.Create(watch).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("watch auction %d for user %d: %w",
				watch.AuctionID, watch.UserID, traderrors.ErrAlreadyWatching)
		}
		return fmt.Errorf("watch auction %d for user %d: %w", watch.AuctionID, watch.UserID, err)
	}
	return nil
}

// RemoveWatch removes an auction from a user's watch list.
func (s *GormAuctionStore) RemoveWatch(userID, auctionID uint) error {
	res := s.db.Where("user_id = ? AND auction_id = ?", userID, auctionID).
		Delete(&models.WatchList{})
	if res.Error != nil {
		return fmt.Errorf("unwatch auction %d for user %d: %w", auctionID, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("unwatch auction %d for user %d: %w", auctionID, userID, traderrors.ErrNotFound)
	}
	return nil
}

// ListWatched returns a user's watch list entries, newest first.
func (s *GormAuctionStore) ListWatched(userID uint) ([]models.WatchList, error) {
	var watches []models.WatchList
	err := s.db.Where("user_id = ?", userID).Order("added_at DESC").Find(&watches).Error
	if err != nil {
		return nil, fmt.Errorf("list watched auctions for user %d: %w", userID, err)
	}
	return watches, nil
}
