package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// GormTradeStore is the gorm-backed implementation of TradeStore.
type GormTradeStore struct {
	db *gorm.DB
}

// NewTradeStore creates a TradeStore on top of the given connection.
func NewTradeStore(db *gorm.DB) *GormTradeStore {
	return &GormTradeStore{db: db}
}

// CreateTrade inserts a new trade proposal.
func (s *GormTradeStore) CreateTrade(trade *models.Trade) error {
	if err := s.db.Create(trade).Error; err != nil {
		return fmt.Errorf("create trade: %w", err)
	}
	return nil
}

// GetTrade returns a single trade.
func (s *GormTradeStore) GetTrade(id uint) (models.Trade, error) {
	var trade models.Trade
	if err := s.db.First(&trade, id).Error; err != nil {
		return models.Trade{}, fmt.Errorf("get trade %d: %w", id, translateNotFound(err))
	}
	return trade, nil
}

// ListTradesForUser returns every trade a user participates in, newest first.
func (s *GormTradeStore) ListTradesForUser(userID uint) ([]models.Trade, error) {
	var trades []models.Trade
	err := s.db.Where("initiator_id = ? OR responder_id = ?", userID, userID).
		Order("proposed_at DESC").Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("list trades for user %d: %w", userID, err)
	}
	return trades, nil
}

// SaveTrade persists changes to an existing trade.
func (s *GormTradeStore) SaveTrade(trade *models.Trade) error {
	if err := s.db.Save(trade).Error; err != nil {
		return fmt.Errorf("save trade %d: %w", trade.ID, err)
	}
	return nil
}

// AddItem adds a book copy to a trade. Double-listing the same
// (trade, book, owner) triple fails with ErrDuplicateTradeItem.
func (s *GormTradeStore) AddItem(item *models.TradeItem) error {
	if err := s.db.Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add item to trade %d: %w", item.TradeID, traderrors.ErrDuplicateTradeItem)
		}
		return fmt.Errorf("add item to trade %d: %w", item.TradeID, err)
	}
	return nil
}

// ListItems returns the items offered in a trade.
func (s *GormTradeStore) ListItems(tradeID uint) ([]models.TradeItem, error) {
	var items []models.TradeItem
	if err := s.db.Where("trade_id = ?", tradeID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items for trade %d: %w", tradeID, err)
	}
	return items, nil
}

// AddMessage appends a message to a trade's conversation.
func (s *GormTradeStore) AddMessage(message *models.TradeMessage) error {
	if err := s.db.Create(message).Error; err != nil {
		return fmt.Errorf("add message to trade %d: %w", message.TradeID, err)
	}
	return nil
}

// ListMessages returns a trade's messages in chronological order, oldest
// first. Offers order the other way; the two must not be conflated.
func (s *GormTradeStore) ListMessages(tradeID uint) ([]models.TradeMessage, error) {
	var messages []models.TradeMessage
	err := s.db.Where("trade_id = ?", tradeID).
		Order("timestamp ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages for trade %d: %w", tradeID, err)
	}
	return messages, nil
}

// AddOffer records a new offer version and deactivates all previous versions
// for the trade within the same transaction.
func (s *GormTradeStore) AddOffer(offer *models.TradeOffer) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.TradeOffer{}).
			Where("trade_id = ? AND is_active = ?", offer.TradeID, true).
			Update("is_active", false).Error
		if err != nil {
			return fmt.Errorf("deactivate offers for trade %d: %w", offer.TradeID, err)
		}
		offer.IsActive = true
		if err := tx.Create(offer).Error; err != nil {
			return fmt.Errorf("add offer to trade %d: %w", offer.TradeID, err)
		}
		return nil
	})
}

// ListOffers returns a trade's offer versions, newest first.
func (s *GormTradeStore) ListOffers(tradeID uint) ([]models.TradeOffer, error) {
	var offers []models.TradeOffer
	err := s.db.Where("trade_id = ?", tradeID).
		Order("created_at DESC, id DESC").Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("list offers for trade %d: %w", tradeID, err)
	}
	return offers, nil
}
