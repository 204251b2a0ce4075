package helpers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs for trades

type ProposeTradeRequest struct {
	InitiatorID           uint             `json:"initiator_id" binding:"required"`
	ResponderID           uint             `json:"responder_id" binding:"required"`
	Title                 string           `json:"title" binding:"required"`
	Description           string           `json:"description"`
	InitiatorPaysShipping *bool            `json:"initiator_pays_shipping"`
	ResponderPaysShipping *bool            `json:"responder_pays_shipping"`
	CashDifference        *decimal.Decimal `json:"cash_difference"`
	ExpiresAt             *time.Time       `json:"expires_at"`
}

type CounterOfferRequest struct {
	UserID         uint             `json:"user_id" binding:"required"`
	Description    string           `json:"description" binding:"required"`
	CashDifference *decimal.Decimal `json:"cash_difference"`
}

// TradeActionRequest identifies who drives a lifecycle transition.
type TradeActionRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type AddTradeItemRequest struct {
	BookID         uint             `json:"book_id" binding:"required"`
	OwnerID        uint             `json:"owner_id" binding:"required"`
	Condition      string           `json:"condition" binding:"required"`
	ConditionNotes string           `json:"condition_notes"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
}

type AddTradeMessageRequest struct {
	SenderID uint   `json:"sender_id" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// TradeResponse is a trade plus its read-time derived predicates.
type TradeResponse struct {
	ID                    uint            `json:"id"`
	InitiatorID           uint            `json:"initiator_id"`
	ResponderID           uint            `json:"responder_id"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	Status                string          `json:"status"`
	InitiatorPaysShipping bool            `json:"initiator_pays_shipping"`
	ResponderPaysShipping bool            `json:"responder_pays_shipping"`
	CashDifference        decimal.Decimal `json:"cash_difference"`
	ProposedAt            time.Time       `json:"proposed_at"`
	AcceptedAt            *time.Time      `json:"accepted_at,omitempty"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
	ExpiresAt             *time.Time      `json:"expires_at,omitempty"`
	IsExpired             bool            `json:"is_expired"`
	CanBeAccepted         bool            `json:"can_be_accepted"`
}
