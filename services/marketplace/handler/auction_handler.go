package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/services/marketplace/helpers"
	"github.com/sherdwhite/book-trader/utils"
)

type AuctionServiceInterface interface {
	CreateAuction(auction *models.Auction) error
	GetAuction(id uint) (models.Auction, error)
	ListAuctions() ([]models.Auction, error)
	ChangeStatus(id uint, to string) (models.Auction, error)
	PlaceBid(auctionID, bidderID uint, amount decimal.Decimal, isAutoBid bool, maxBid *decimal.Decimal) (models.Bid, error)
	ListBids(auctionID uint) ([]models.Bid, error)
	CurrentPrice(auctionID uint) (decimal.Decimal, error)
	Watch(userID, auctionID uint) (models.WatchList, error)
	Unwatch(userID, auctionID uint) error
	ListWatched(userID uint) ([]models.WatchList, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
	now     func() time.Time
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service, now: time.Now}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	auction := models.Auction{
		Title:            req.Title,
		Description:      req.Description,
		BookID:           req.BookID,
		SellerID:         req.SellerID,
		Condition:        req.Condition,
		ConditionNotes:   req.ConditionNotes,
		StartingPrice:    req.StartingPrice,
		ReservePrice:     req.ReservePrice,
		BuyNowPrice:      req.BuyNowPrice,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		ShipsToCountries: req.ShipsTo,
	}
	if req.ShippingCost != nil {
		auction.ShippingCost = *req.ShippingCost
	}
	if err := h.service.CreateAuction(&auction); err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, h.auctionResponse(auction), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.ID,
		"book_id":    auction.BookID,
		"seller_id":  auction.SellerID,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.ListAuctions()
	if err != nil {
		helpers.RespondError(c, "ListAuctionsHandler", err)
		return
	}
	resp := make([]helpers.AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, h.auctionResponse(a))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	auction, err := h.service.GetAuction(id)
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.auctionResponse(auction), "auction retrieved successfully")
}

// ChangeAuctionStatusHandler handles POST /auctions/:id/status
func (h *AuctionHandler) ChangeAuctionStatusHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.ChangeAuctionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ChangeAuctionStatusHandler", err)
		return
	}

	auction, err := h.service.ChangeStatus(id, req.Status)
	if err != nil {
		helpers.RespondError(c, "ChangeAuctionStatusHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.auctionResponse(auction), "auction status updated successfully")
	helpers.LogSuccess("ChangeAuctionStatusHandler", "auction status updated successfully", map[string]any{
		"auction_id": auction.ID,
		"status":     auction.Status,
	})
}

// PlaceBidHandler handles POST /auctions/:id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(id, req.BidderID, req.Amount, req.IsAutoBid, req.MaxBidAmount)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id": bid.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// ListBidsHandler handles GET /auctions/:id/bids
func (h *AuctionHandler) ListBidsHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	bids, err := h.service.ListBids(id)
	if err != nil {
		helpers.RespondError(c, "ListBidsHandler", err)
		return
	}
	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, bidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
}

// WatchAuctionHandler handles POST /auctions/:id/watch
func (h *AuctionHandler) WatchAuctionHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.WatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "WatchAuctionHandler", err)
		return
	}

	watch, err := h.service.Watch(req.UserID, id)
	if err != nil {
		helpers.RespondError(c, "WatchAuctionHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, watch, "auction added to watch list")
}

// UnwatchAuctionHandler handles DELETE /auctions/:id/watch
func (h *AuctionHandler) UnwatchAuctionHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.WatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UnwatchAuctionHandler", err)
		return
	}

	if err := h.service.Unwatch(req.UserID, id); err != nil {
		helpers.RespondError(c, "UnwatchAuctionHandler", err)
		return
	}
	utils.NoContent(c)
}

// ListWatchedHandler handles GET /users/:id/watchlist
func (h *AuctionHandler) ListWatchedHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	watched, err := h.service.ListWatched(id)
	if err != nil {
		helpers.RespondError(c, "ListWatchedHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, watched, "watch list retrieved successfully")
}

// auctionResponse derives current price, liveness and time remaining at read
// time. A failed price lookup falls back to the starting price rather than
// failing the whole read.
func (h *AuctionHandler) auctionResponse(a models.Auction) helpers.AuctionResponse {
	now := h.now()
	current, err := h.service.CurrentPrice(a.ID)
	if err != nil {
		current = a.StartingPrice
	}

	resp := helpers.AuctionResponse{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		BookID:           a.BookID,
		SellerID:         a.SellerID,
		Condition:        a.Condition,
		ConditionNotes:   a.ConditionNotes,
		StartingPrice:    a.StartingPrice,
		ReservePrice:     a.ReservePrice,
		BuyNowPrice:      a.BuyNowPrice,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		Status:           a.Status,
		ShippingCost:     a.ShippingCost,
		ShipsToCountries: a.ShipsToCountries,
		CurrentPrice:     current,
		IsActive:         a.IsActive(now),
	}
	if remaining := a.TimeRemaining(now); remaining != nil {
		s := remaining.String()
		resp.TimeRemaining = &s
	}
	return resp
}

func bidResponse(b models.Bid) helpers.BidResponse {
	return helpers.BidResponse{
		ID:           b.ID,
		AuctionID:    b.AuctionID,
		BidderID:     b.BidderID,
		Amount:       b.Amount,
		IsAutoBid:    b.IsAutoBid,
		MaxBidAmount: b.MaxBidAmount,
		Timestamp:    b.Timestamp.Format(time.RFC3339),
	}
}
