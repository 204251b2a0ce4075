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

type TradeServiceInterface interface {
	Propose(trade *models.Trade) error
	Get(id uint) (models.Trade, error)
	ListForUser(userID uint) ([]models.Trade, error)
	CounterOffer(tradeID, byID uint, description string, cashDifference decimal.Decimal) (models.Trade, error)
	Accept(tradeID, byID uint) (models.Trade, error)
	Start(tradeID, byID uint) (models.Trade, error)
	Complete(tradeID, byID uint) (models.Trade, error)
	Cancel(tradeID, byID uint) (models.Trade, error)
	Dispute(tradeID, byID uint) (models.Trade, error)
	AddItem(item *models.TradeItem) error
	ListItems(tradeID uint) ([]models.TradeItem, error)
	AddMessage(tradeID, senderID uint, text string) (models.TradeMessage, error)
	ListMessages(tradeID uint) ([]models.TradeMessage, error)
	ListOffers(tradeID uint) ([]models.TradeOffer, error)
}

type TradeHandler struct {
	service TradeServiceInterface
	now     func() time.Time
}

func NewTradeHandler(service TradeServiceInterface) *TradeHandler {
	return &TradeHandler{service: service, now: time.Now}
}

// ProposeTradeHandler handles POST /trades
func (h *TradeHandler) ProposeTradeHandler(c *gin.Context) {
	var req helpers.ProposeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ProposeTradeHandler", err)
		return
	}

	trade := models.Trade{
		InitiatorID:           req.InitiatorID,
		ResponderID:           req.ResponderID,
		Title:                 req.Title,
		Description:           req.Description,
		InitiatorPaysShipping: true,
		ResponderPaysShipping: true,
		ExpiresAt:             req.ExpiresAt,
	}
	if req.InitiatorPaysShipping != nil {
		trade.InitiatorPaysShipping = *req.InitiatorPaysShipping
	}
	if req.ResponderPaysShipping != nil {
		trade.ResponderPaysShipping = *req.ResponderPaysShipping
	}
	if req.CashDifference != nil {
		trade.CashDifference = *req.CashDifference
	}

	if err := h.service.Propose(&trade); err != nil {
		helpers.RespondError(c, "ProposeTradeHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, h.tradeResponse(trade), "trade proposed successfully")
	helpers.LogSuccess("ProposeTradeHandler", "trade proposed successfully", map[string]any{
		"trade_id":     trade.ID,
		"initiator_id": trade.InitiatorID,
		"responder_id": trade.ResponderID,
	})
}

// GetTradeHandler handles GET /trades/:id
func (h *TradeHandler) GetTradeHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	trade, err := h.service.Get(id)
	if err != nil {
		helpers.RespondError(c, "GetTradeHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.tradeResponse(trade), "trade retrieved successfully")
}

// ListUserTradesHandler handles GET /users/:id/trades
func (h *TradeHandler) ListUserTradesHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	trades, err := h.service.ListForUser(id)
	if err != nil {
		helpers.RespondError(c, "ListUserTradesHandler", err)
		return
	}
	resp := make([]helpers.TradeResponse, 0, len(trades))
	for _, t := range trades {
		resp = append(resp, h.tradeResponse(t))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "trades retrieved successfully")
}

// CounterOfferHandler handles POST /trades/:id/counter
func (h *TradeHandler) CounterOfferHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.CounterOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CounterOfferHandler", err)
		return
	}

	cash := decimal.Zero
	if req.CashDifference != nil {
		cash = *req.CashDifference
	}
	trade, err := h.service.CounterOffer(id, req.UserID, req.Description, cash)
	if err != nil {
		helpers.RespondError(c, "CounterOfferHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.tradeResponse(trade), "counter offer recorded successfully")
}

// AcceptTradeHandler handles POST /trades/:id/accept
func (h *TradeHandler) AcceptTradeHandler(c *gin.Context) {
	h.lifecycle(c, "AcceptTradeHandler", h.service.Accept, "trade accepted successfully")
}

// StartTradeHandler handles POST /trades/:id/start
func (h *TradeHandler) StartTradeHandler(c *gin.Context) {
	h.lifecycle(c, "StartTradeHandler", h.service.Start, "trade started successfully")
}

// CompleteTradeHandler handles POST /trades/:id/complete
func (h *TradeHandler) CompleteTradeHandler(c *gin.Context) {
	h.lifecycle(c, "CompleteTradeHandler", h.service.Complete, "trade completed successfully")
}

// CancelTradeHandler handles POST /trades/:id/cancel
func (h *TradeHandler) CancelTradeHandler(c *gin.Context) {
	h.lifecycle(c, "CancelTradeHandler", h.service.Cancel, "trade cancelled successfully")
}

// DisputeTradeHandler handles POST /trades/:id/dispute
func (h *TradeHandler) DisputeTradeHandler(c *gin.Context) {
	h.lifecycle(c, "DisputeTradeHandler", h.service.Dispute, "trade disputed successfully")
}

// lifecycle binds the acting user and applies one of the trade transitions.
func (h *TradeHandler) lifecycle(c *gin.Context, op string, apply func(tradeID, byID uint) (models.Trade, error), message string) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.TradeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, op, err)
		return
	}

	trade, err := apply(id, req.UserID)
	if err != nil {
		helpers.RespondError(c, op, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, h.tradeResponse(trade), message)
	helpers.LogSuccess(op, message, map[string]any{
		"trade_id": trade.ID,
		"user_id":  req.UserID,
		"status":   trade.Status,
	})
}

// AddTradeItemHandler handles POST /trades/:id/items
func (h *TradeHandler) AddTradeItemHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.AddTradeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddTradeItemHandler", err)
		return
	}

	item := models.TradeItem{
		TradeID:        id,
		BookID:         req.BookID,
		OwnerID:        req.OwnerID,
		Condition:      req.Condition,
		ConditionNotes: req.ConditionNotes,
		EstimatedValue: req.EstimatedValue,
	}
	if err := h.service.AddItem(&item); err != nil {
		helpers.RespondError(c, "AddTradeItemHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, item, "trade item added successfully")
}

// ListTradeItemsHandler handles GET /trades/:id/items
func (h *TradeHandler) ListTradeItemsHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListItems(id)
	if err != nil {
		helpers.RespondError(c, "ListTradeItemsHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, items, "trade items retrieved successfully")
}

// AddTradeMessageHandler handles POST /trades/:id/messages
func (h *TradeHandler) AddTradeMessageHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req helpers.AddTradeMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddTradeMessageHandler", err)
		return
	}

	message, err := h.service.AddMessage(id, req.SenderID, req.Message)
	if err != nil {
		helpers.RespondError(c, "AddTradeMessageHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, message, "trade message sent successfully")
}

// ListTradeMessagesHandler handles GET /trades/:id/messages
func (h *TradeHandler) ListTradeMessagesHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	messages, err := h.service.ListMessages(id)
	if err != nil {
		helpers.RespondError(c, "ListTradeMessagesHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, messages, "trade messages retrieved successfully")
}

// ListTradeOffersHandler handles GET /trades/:id/offers
func (h *TradeHandler) ListTradeOffersHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	offers, err := h.service.ListOffers(id)
	if err != nil {
		helpers.RespondError(c, "ListTradeOffersHandler", err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, offers, "trade offers retrieved successfully")
}

func (h *TradeHandler) tradeResponse(t models.Trade) helpers.TradeResponse {
	now := h.now()
	return helpers.TradeResponse{
		ID:                    t.ID,
		InitiatorID:           t.InitiatorID,
		ResponderID:           t.ResponderID,
		Title:                 t.Title,
		Description:           t.Description,
		Status:                t.Status,
		InitiatorPaysShipping: t.InitiatorPaysShipping,
		ResponderPaysShipping: t.ResponderPaysShipping,
		CashDifference:        t.CashDifference,
		ProposedAt:            t.ProposedAt,
		AcceptedAt:            t.AcceptedAt,
		CompletedAt:           t.CompletedAt,
		ExpiresAt:             t.ExpiresAt,
		IsExpired:             t.IsExpired(now),
		CanBeAccepted:         t.CanBeAccepted(now),
	}
}
