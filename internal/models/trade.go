package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade status values
const (
	TradeProposed       = "proposed"
	TradeCounterOffered = "counter_offered"
	TradeAccepted       = "accepted"
	TradeInProgress     = "in_progress"
	TradeCompleted      = "completed"
	TradeCancelled      = "cancelled"
	TradeDisputed       = "disputed"
)

// tradeTransitions lists the allowed target statuses per current status.
// Any pre-completion state may be cancelled or disputed.
var tradeTransitions = map[string][]string{
	TradeProposed:       {TradeCounterOffered, TradeAccepted, TradeCancelled, TradeDisputed},
	TradeCounterOffered: {TradeCounterOffered, TradeAccepted, TradeCancelled, TradeDisputed},
	TradeAccepted:       {TradeInProgress, TradeCancelled, TradeDisputed},
	TradeInProgress:     {TradeCompleted, TradeCancelled, TradeDisputed},
}

// Trade is a peer-to-peer book exchange between an initiator and a responder.
// A positive cash difference means the initiator pays the responder.
type Trade struct {
	ID                    uint            `json:"id" gorm:"primaryKey"`
	InitiatorID           uint            `json:"initiator_id" gorm:"index;not null"`
	ResponderID           uint            `json:"responder_id" gorm:"index;not null"`
	Title                 string          `json:"title" gorm:"type:varchar(255);not null"`
	Description           string          `json:"description" gorm:"type:text"`
	Status                string          `json:"status" gorm:"type:varchar(20);default:'proposed'"`
	InitiatorPaysShipping bool            `json:"initiator_pays_shipping" gorm:"default:true"`
	ResponderPaysShipping bool            `json:"responder_pays_shipping" gorm:"default:true"`
	CashDifference        decimal.Decimal `json:"cash_difference" gorm:"type:decimal(8,2);default:0.00"`
	ProposedAt            time.Time       `json:"proposed_at" gorm:"autoCreateTime"`
	AcceptedAt            *time.Time      `json:"accepted_at,omitempty"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
	ExpiresAt             *time.Time      `json:"expires_at,omitempty"`
}

// CanTransition reports whether the trade may move from its current status to
// the target status.
func (t *Trade) CanTransition(to string) bool {
	for _, allowed := range tradeTransitions[t.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsExpired reports whether the trade's initial acceptance window has lapsed.
// Expiry only applies while the trade is still in the proposed state: once it
// has moved on, a past expires_at no longer reports true.
func (t *Trade) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt) && t.Status == TradeProposed
}

// CanBeAccepted reports whether the trade is open for acceptance at the given
// time.
func (t *Trade) CanBeAccepted(now time.Time) bool {
	return (t.Status == TradeProposed || t.Status == TradeCounterOffered) && !t.IsExpired(now)
}

// TradeItem is one owner's copy of a book offered in a trade. The same
// (trade, book, owner) triple cannot be listed twice.
type TradeItem struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	TradeID        uint             `json:"trade_id" gorm:"uniqueIndex:idx_item_trade_book_owner;not null"`
	BookID         uint             `json:"book_id" gorm:"uniqueIndex:idx_item_trade_book_owner;not null"`
	OwnerID        uint             `json:"owner_id" gorm:"uniqueIndex:idx_item_trade_book_owner;not null"`
	Condition      string           `json:"condition" gorm:"type:varchar(20);not null"`
	ConditionNotes string           `json:"condition_notes" gorm:"type:text"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty" gorm:"type:decimal(8,2)"`
}

// TradeMessage is a negotiation message. Listings are chronological, oldest
// first, unlike offers which list newest first.
type TradeMessage struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TradeID         uint      `json:"trade_id" gorm:"index;not null"`
	SenderID        uint      `json:"sender_id" gorm:"not null"`
	Message         string    `json:"message" gorm:"type:text;not null"`
	Timestamp       time.Time `json:"timestamp" gorm:"autoCreateTime"`
	IsSystemMessage bool      `json:"is_system_message" gorm:"default:false"`
}

// TradeOffer is a versioned snapshot of the terms on the table. At most one
// offer per trade is active; recording a new version deactivates the rest.
type TradeOffer struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	TradeID        uint            `json:"trade_id" gorm:"index;not null"`
	OfferedByID    uint            `json:"offered_by_id" gorm:"not null"`
	Description    string          `json:"description" gorm:"type:text;not null"`
	CashDifference decimal.Decimal `json:"cash_difference" gorm:"type:decimal(8,2);default:0.00"`
	CreatedAt      time.Time       `json:"created_at"`
	IsActive       bool            `json:"is_active" gorm:"default:true"`
}
