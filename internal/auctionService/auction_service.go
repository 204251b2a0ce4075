package auction

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/repository"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// AuctionService defines the business logic for auction listings, bidding and
// watch lists.
type AuctionService struct {
	repo repository.AuctionStore
	now  func() time.Time
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionStore) *AuctionService {
	return &AuctionService{repo: repo, now: time.Now}
}

// CreateAuction validates and stores a new listing. New listings start in
// draft unless a valid status is supplied.
func (s *AuctionService) CreateAuction(auction *models.Auction) error {
	if auction.Title == "" || auction.BookID == 0 || auction.SellerID == 0 {
		return fmt.Errorf("service: %w - missing title, book or seller", traderrors.ErrValidation)
	}
	if !models.ValidCondition(auction.Condition) {
		return fmt.Errorf("service: %w - unknown condition %q", traderrors.ErrValidation, auction.Condition)
	}
	if auction.StartingPrice.LessThan(models.MinBidAmount) {
		return fmt.Errorf("service: %w - starting price must be at least 0.01", traderrors.ErrValidation)
	}
	if !auction.EndTime.After(auction.StartTime) {
		return fmt.Errorf("service: %w - end time must be after start time", traderrors.ErrValidation)
	}
	if auction.Status == "" {
		auction.Status = models.AuctionDraft
	}
	if !models.ValidAuctionStatus(auction.Status) {
		return fmt.Errorf("service: %w - unknown status %q", traderrors.ErrValidation, auction.Status)
	}
	if auction.ShipsToCountries == "" {
		auction.ShipsToCountries = "US"
	}
	return s.repo.CreateAuction(auction)
}

// GetAuction returns a single auction listing.
func (s *AuctionService) GetAuction(id uint) (models.Auction, error) {
	return s.repo.GetAuction(id)
}

// ListAuctions returns all auction listings, newest first.
func (s *AuctionService) ListAuctions() ([]models.Auction, error) {
	return s.repo.ListAuctions()
}

// ChangeStatus moves an auction through its lifecycle. Transitions are
// externally driven; there is no timer sweep closing auctions.
func (s *AuctionService) ChangeStatus(id uint, to string) (models.Auction, error) {
	if !models.ValidAuctionStatus(to) {
		return models.Auction{}, fmt.Errorf("service: %w - unknown status %q", traderrors.ErrValidation, to)
	}
	auction, err := s.repo.GetAuction(id)
	if err != nil {
		return models.Auction{}, err
	}
	if !auction.CanTransition(to) {
		return models.Auction{}, fmt.Errorf("service: %w - cannot move auction from %s to %s",
			traderrors.ErrStateConflict, auction.Status, to)
	}
	auction.Status = to
	if err := s.repo.SaveAuction(&auction); err != nil {
		return models.Auction{}, err
	}
	return auction, nil
}

// PlaceBid validates and records a bid on an active auction. The amount must
// be at least 0.01 and exceed the current price.
func (s *AuctionService) PlaceBid(auctionID, bidderID uint, amount decimal.Decimal, isAutoBid bool, maxBid *decimal.Decimal) (models.Bid, error) {
	if auctionID == 0 || bidderID == 0 {
		return models.Bid{}, fmt.Errorf("service: %w - missing auction or bidder", traderrors.ErrInvalidBid)
	}
	if amount.LessThan(models.MinBidAmount) {
		return models.Bid{}, fmt.Errorf("service: %w - amount must be at least 0.01", traderrors.ErrInvalidBid)
	}

	auction, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return models.Bid{}, err
	}
	if !auction.IsActive(s.now()) {
		return models.Bid{}, fmt.Errorf("service: %w - auction %d is not open for bidding",
			traderrors.ErrStateConflict, auctionID)
	}

	current, err := s.CurrentPrice(auctionID)
	if err != nil {
		return models.Bid{}, err
	}
	if amount.LessThanOrEqual(current) {
		return models.Bid{}, fmt.Errorf("service: %w - current price is %s", traderrors.ErrBidTooLow, current)
	}

	bid := models.Bid{
		AuctionID:    auctionID,
		BidderID:     bidderID,
		Amount:       amount,
		IsAutoBid:    isAutoBid,
		MaxBidAmount: maxBid,
	}
	if err := s.repo.RecordBid(&bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on auction %d by user %d: %w",
			auctionID, bidderID, err)
	}
	return bid, nil
}

// ListBids returns all bids for an auction ordered by amount, highest first.
func (s *AuctionService) ListBids(auctionID uint) ([]models.Bid, error) {
	if auctionID == 0 {
		return nil, fmt.Errorf("service: %w - missing auction id", traderrors.ErrInvalidBid)
	}
	return s.repo.ListBids(auctionID)
}

// CurrentPrice returns the highest bid amount, or the starting price when no
// bid has been placed.
func (s *AuctionService) CurrentPrice(auctionID uint) (decimal.Decimal, error) {
	bid, err := s.repo.HighestBid(auctionID)
	if err == nil {
		return bid.Amount, nil
	}
	if isNoBids(err) {
		auction, gerr := s.repo.GetAuction(auctionID)
		if gerr != nil {
			return decimal.Zero, gerr
		}
		return auction.StartingPrice, nil
	}
	return decimal.Zero, err
}

func isNoBids(err error) bool {
	return errors.Is(err, traderrors.ErrNoBids)
}

// Watch adds an auction to the user's watch list. Watching the same auction
// twice fails; it is not silently absorbed.
func (s *AuctionService) Watch(userID, auctionID uint) (models.WatchList, error) {
	if userID == 0 || auctionID == 0 {
		return models.WatchList{}, fmt.Errorf("service: %w - missing user or auction", traderrors.ErrValidation)
	}
	if _, err := s.repo.GetAuction(auctionID); err != nil {
		return models.WatchList{}, err
	}
	watch := models.WatchList{UserID: userID, AuctionID: auctionID}
	if err := s.repo.AddWatch(&watch); err != nil {
		return models.WatchList{}, err
	}
	return watch, nil
}

// Unwatch removes an auction from the user's watch list.
func (s *AuctionService) Unwatch(userID, auctionID uint) error {
	return s.repo.RemoveWatch(userID, auctionID)
}

// ListWatched returns the auctions a user is watching, newest first.
func (s *AuctionService) ListWatched(userID uint) ([]models.WatchList, error) {
	return s.repo.ListWatched(userID)
}
