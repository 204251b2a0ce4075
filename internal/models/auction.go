package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction status values
const (
	AuctionDraft     = "draft"
	AuctionActive    = "active"
	AuctionEnded     = "ended"
	AuctionSold      = "sold"
	AuctionCancelled = "cancelled"
)

// ValidAuctionStatus reports whether s is one of the accepted status values.
func ValidAuctionStatus(s string) bool {
	switch s {
	case AuctionDraft, AuctionActive, AuctionEnded, AuctionSold, AuctionCancelled:
		return true
	}
	return false
}

// auctionTransitions lists the allowed target statuses per current status.
// All transitions are externally driven; there is no timer-based sweep, the
// active time window is evaluated on read via IsActive.
var auctionTransitions = map[string][]string{
	AuctionDraft:  {AuctionActive, AuctionCancelled},
	AuctionActive: {AuctionEnded, AuctionSold, AuctionCancelled},
	AuctionEnded:  {AuctionSold},
}

// Auction is a single-book auction listing.
type Auction struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	Title            string           `json:"title" gorm:"type:varchar(255);not null"`
	Description      string           `json:"description" gorm:"type:text"`
	BookID           uint             `json:"book_id" gorm:"index;not null"`
	SellerID         uint             `json:"seller_id" gorm:"index;not null"`
	Condition        string           `json:"condition" gorm:"type:varchar(20);not null"`
	ConditionNotes   string           `json:"condition_notes" gorm:"type:text"`
	StartingPrice    decimal.Decimal  `json:"starting_price" gorm:"type:decimal(10,2);not null"`
	ReservePrice     *decimal.Decimal `json:"reserve_price,omitempty" gorm:"type:decimal(10,2)"`
	BuyNowPrice      *decimal.Decimal `json:"buy_now_price,omitempty" gorm:"type:decimal(10,2)"`
	StartTime        time.Time        `json:"start_time"`
	EndTime          time.Time        `json:"end_time"`
	Status           string           `json:"status" gorm:"type:varchar(20);default:'draft'"`
	ShippingCost     decimal.Decimal  `json:"shipping_cost" gorm:"type:decimal(8,2);default:0.00"`
	ShipsToCountries string           `json:"ships_to_countries" gorm:"type:text;default:'US'"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// CanTransition reports whether the auction may move from its current status
// to the target status.
func (a *Auction) CanTransition(to string) bool {
	for _, allowed := range auctionTransitions[a.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsActive reports whether the auction is open for bidding at the given time:
// status is active and the time window contains now.
func (a *Auction) IsActive(now time.Time) bool {
	return a.Status == AuctionActive && !now.Before(a.StartTime) && !now.After(a.EndTime)
}

// TimeRemaining returns the time left until the auction closes, or nil when
// the auction is not active or the window has already elapsed.
func (a *Auction) TimeRemaining(now time.Time) *time.Duration {
	if a.Status != AuctionActive || !a.EndTime.After(now) {
		return nil
	}
	d := a.EndTime.Sub(now)
	return &d
}

// MinBidAmount is the smallest amount any bid may carry.
var MinBidAmount = decimal.NewFromFloat(0.01)

// Bid placed on an auction. IsAutoBid and MaxBidAmount are recorded for proxy
// bidding but no automatic bidding runs on them.
type Bid struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	AuctionID    uint             `json:"auction_id" gorm:"index:idx_bid_auction_amount;not null"`
	BidderID     uint             `json:"bidder_id" gorm:"index;not null"`
	Amount       decimal.Decimal  `json:"amount" gorm:"type:decimal(10,2);index:idx_bid_auction_amount;not null"`
	Timestamp    time.Time        `json:"timestamp" gorm:"autoCreateTime"`
	IsAutoBid    bool             `json:"is_auto_bid" gorm:"default:false"`
	MaxBidAmount *decimal.Decimal `json:"max_bid_amount,omitempty" gorm:"type:decimal(10,2)"`
}

// WatchList marks an auction a user follows. A user may watch a given auction
// at most once; the composite unique index rejects the second attempt.
type WatchList struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_watch_user_auction;not null"`
	AuctionID uint      `json:"auction_id" gorm:"uniqueIndex:idx_watch_user_auction;not null"`
	AddedAt   time.Time `json:"added_at" gorm:"autoCreateTime"`
}
