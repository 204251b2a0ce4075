package helpers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs for auctions

type CreateAuctionRequest struct {
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	BookID         uint             `json:"book_id" binding:"required"`
	SellerID       uint             `json:"seller_id" binding:"required"`
	Condition      string           `json:"condition" binding:"required"`
	ConditionNotes string           `json:"condition_notes"`
	StartingPrice  decimal.Decimal  `json:"starting_price" binding:"required"`
	ReservePrice   *decimal.Decimal `json:"reserve_price"`
	BuyNowPrice    *decimal.Decimal `json:"buy_now_price"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        time.Time        `json:"end_time" binding:"required"`
	ShippingCost   *decimal.Decimal `json:"shipping_cost"`
	ShipsTo        string           `json:"ships_to_countries"`
}

type ChangeAuctionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PlaceBidRequest struct {
	BidderID     uint             `json:"bidder_id" binding:"required"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	IsAutoBid    bool             `json:"is_auto_bid"`
	MaxBidAmount *decimal.Decimal `json:"max_bid_amount"`
}

type BidResponse struct {
	ID           uint             `json:"id"`
	AuctionID    uint             `json:"auction_id"`
	BidderID     uint             `json:"bidder_id"`
	Amount       decimal.Decimal  `json:"amount"`
	IsAutoBid    bool             `json:"is_auto_bid"`
	MaxBidAmount *decimal.Decimal `json:"max_bid_amount,omitempty"`
	Timestamp    string           `json:"timestamp"`
}

type WatchRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// AuctionResponse is an auction plus its read-time derived pricing and
// liveness fields.
type AuctionResponse struct {
	ID               uint             `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	BookID           uint             `json:"book_id"`
	SellerID         uint             `json:"seller_id"`
	Condition        string           `json:"condition"`
	ConditionNotes   string           `json:"condition_notes"`
	StartingPrice    decimal.Decimal  `json:"starting_price"`
	ReservePrice     *decimal.Decimal `json:"reserve_price,omitempty"`
	BuyNowPrice      *decimal.Decimal `json:"buy_now_price,omitempty"`
	StartTime        time.Time        `json:"start_time"`
	EndTime          time.Time        `json:"end_time"`
	Status           string           `json:"status"`
	ShippingCost     decimal.Decimal  `json:"shipping_cost"`
	ShipsToCountries string           `json:"ships_to_countries"`
	CurrentPrice     decimal.Decimal  `json:"current_price"`
	IsActive         bool             `json:"is_active"`
	TimeRemaining    *string          `json:"time_remaining,omitempty"`
}
