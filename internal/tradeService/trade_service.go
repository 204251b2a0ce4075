package trade

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/repository"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// tradeCompletePoints is credited to both parties when a trade completes.
var tradeCompletePoints = decimal.NewFromFloat(0.5)

// TradeService defines the business logic for peer-to-peer trade negotiation.
type TradeService struct {
	repo     repository.TradeStore
	identity repository.IdentityStore
	now      func() time.Time
}

// NewTradeService creates a new TradeService instance
func NewTradeService(repo repository.TradeStore, identity repository.IdentityStore) *TradeService {
	return &TradeService{repo: repo, identity: identity, now: time.Now}
}

// Propose validates and stores a new trade proposal and records the opening
// offer version.
func (s *TradeService) Propose(trade *models.Trade) error {
	if trade.InitiatorID == 0 || trade.ResponderID == 0 {
		return fmt.Errorf("service: %w - missing initiator or responder", traderrors.ErrValidation)
	}
	if trade.InitiatorID == trade.ResponderID {
		return fmt.Errorf("service: %w - cannot trade with yourself", traderrors.ErrValidation)
	}
	if trade.Title == "" {
		return fmt.Errorf("service: %w - title is required", traderrors.ErrValidation)
	}
	trade.Status = models.TradeProposed
	if err := s.repo.CreateTrade(trade); err != nil {
		return err
	}

	offer := models.TradeOffer{
		TradeID:        trade.ID,
		OfferedByID:    trade.InitiatorID,
		Description:    trade.Description,
		CashDifference: trade.CashDifference,
	}
	if offer.Description == "" {
		offer.Description = trade.Title
	}
	if err := s.repo.AddOffer(&offer); err != nil {
		return err
	}
	return s.systemMessage(trade.ID, trade.InitiatorID, "Trade proposed")
}

// Get returns a single trade.
func (s *TradeService) Get(id uint) (models.Trade, error) {
	return s.repo.GetTrade(id)
}

// ListForUser returns every trade a user participates in, newest first.
func (s *TradeService) ListForUser(userID uint) ([]models.Trade, error) {
	return s.repo.ListTradesForUser(userID)
}

// CounterOffer records a new offer version and moves the trade to
// counter_offered. Countering a counter-offer is allowed; negotiation may go
// back and forth.
func (s *TradeService) CounterOffer(tradeID, byID uint, description string, cashDifference decimal.Decimal) (models.Trade, error) {
	if description == "" {
		return models.Trade{}, fmt.Errorf("service: %w - offer description is required", traderrors.ErrValidation)
	}
	trade, err := s.repo.GetTrade(tradeID)
	if err != nil {
		return models.Trade{}, err
	}
	if byID != trade.InitiatorID && byID != trade.ResponderID {
		return models.Trade{}, fmt.Errorf("service: %w - user %d is not part of trade %d",
			traderrors.ErrValidation, byID, tradeID)
	}
	if trade.IsExpired(s.now()) {
		return models.Trade{}, fmt.Errorf("service: %w", traderrors.ErrTradeExpired)
	}
	if !trade.CanTransition(models.TradeCounterOffered) {
		return models.Trade{}, fmt.Errorf("service: %w - cannot counter a %s trade",
			traderrors.ErrStateConflict, trade.Status)
	}

	offer := models.TradeOffer{
		TradeID:        tradeID,
		OfferedByID:    byID,
		Description:    description,
		CashDifference: cashDifference,
	}
	if err := s.repo.AddOffer(&offer); err != nil {
		return models.Trade{}, err
	}

	trade.Status = models.TradeCounterOffered
	trade.CashDifference = cashDifference
	if err := s.repo.SaveTrade(&trade); err != nil {
		return models.Trade{}, err
	}
	if err := s.systemMessage(tradeID, byID, "Counter-offer made"); err != nil {
		return models.Trade{}, err
	}
	return trade, nil
}

// Accept moves a trade to accepted. Only trades that are still open for
// acceptance qualify; a proposed trade past its expiry cannot be accepted.
func (s *TradeService) Accept(tradeID, byID uint) (models.Trade, error) {
	trade, err := s.repo.GetTrade(tradeID)
	if err != nil {
		return models.Trade{}, err
	}
	now := s.now()
	if trade.IsExpired(now) {
		return models.Trade{}, fmt.Errorf("service: %w", traderrors.ErrTradeExpired)
	}
	if !trade.CanBeAccepted(now) {
		return models.Trade{}, fmt.Errorf("service: %w - cannot accept a %s trade",
			traderrors.ErrStateConflict, trade.Status)
	}

	trade.Status = models.TradeAccepted
	trade.AcceptedAt = &now
	if err := s.repo.SaveTrade(&trade); err != nil {
		return models.Trade{}, err
	}
	if err := s.systemMessage(tradeID, byID, "Trade accepted"); err != nil {
		return models.Trade{}, err
	}
	return trade, nil
}

// Start moves an accepted trade to in_progress.
func (s *TradeService) Start(tradeID, byID uint) (models.Trade, error) {
	return s.transition(tradeID, byID, models.TradeInProgress, "Trade started")
}

// Complete moves an in-progress trade to completed and credits both parties
// with a trade completion reputation event.
func (s *TradeService) Complete(tradeID, byID uint) (models.Trade, error) {
	trade, err := s.repo.GetTrade(tradeID)
	if err != nil {
		return models.Trade{}, err
	}
	if !trade.CanTransition(models.TradeCompleted) {
		return models.Trade{}, fmt.Errorf("service: %w - cannot complete a %s trade",
			traderrors.ErrStateConflict, trade.Status)
	}

	now := s.now()
	trade.Status = models.TradeCompleted
	trade.CompletedAt = &now
	if err := s.repo.SaveTrade(&trade); err != nil {
		return models.Trade{}, err
	}

	for _, userID := range []uint{trade.InitiatorID, trade.ResponderID} {
		event := models.UserReputation{
			UserID:         userID,
			ReputationType: models.ReputationTradeComplete,
			Points:         tradeCompletePoints,
			Description:    fmt.Sprintf("Completed trade %d", trade.ID),
			RelatedTradeID: &trade.ID,
		}
		if err := s.identity.AppendReputation(&event); err != nil {
			return models.Trade{}, err
		}
	}

	if err := s.systemMessage(tradeID, byID, "Trade completed"); err != nil {
		return models.Trade{}, err
	}
	return trade, nil
}

// Cancel moves any pre-completion trade to cancelled.
func (s *TradeService) Cancel(tradeID, byID uint) (models.Trade, error) {
	return s.transition(tradeID, byID, models.TradeCancelled, "Trade cancelled")
}

// Dispute moves any pre-completion trade to disputed.
func (s *TradeService) Dispute(tradeID, byID uint) (models.Trade, error) {
	return s.transition(tradeID, byID, models.TradeDisputed, "Trade disputed")
}

// transition applies a status change after checking the state machine, then
// records a system message describing it.
func (s *TradeService) transition(tradeID, byID uint, to, note string) (models.Trade, error) {
	trade, err := s.repo.GetTrade(tradeID)
	if err != nil {
		return models.Trade{}, err
	}
	if !trade.CanTransition(to) {
		return models.Trade{}, fmt.Errorf("service: %w - cannot move trade from %s to %s",
			traderrors.ErrStateConflict, trade.Status, to)
	}
	trade.Status = to
	if err := s.repo.SaveTrade(&trade); err != nil {
		return models.Trade{}, err
	}
	if err := s.systemMessage(tradeID, byID, note); err != nil {
		return models.Trade{}, err
	}
	return trade, nil
}

// AddItem offers one owner's copy of a book in a trade. Items may only be
// added while the trade is still under negotiation.
func (s *TradeService) AddItem(item *models.TradeItem) error {
	if item.TradeID == 0 || item.BookID == 0 || item.OwnerID == 0 {
		return fmt.Errorf("service: %w - missing trade, book or owner", traderrors.ErrValidation)
	}
	if !models.ValidCondition(item.Condition) {
		return fmt.Errorf("service: %w - unknown condition %q", traderrors.ErrValidation, item.Condition)
	}
	trade, err := s.repo.GetTrade(item.TradeID)
	if err != nil {
		return err
	}
	if trade.Status != models.TradeProposed && trade.Status != models.TradeCounterOffered {
		return fmt.Errorf("service: %w - cannot add items to a %s trade",
			traderrors.ErrStateConflict, trade.Status)
	}
	return s.repo.AddItem(item)
}

// ListItems returns the items offered in a trade.
func (s *TradeService) ListItems(tradeID uint) ([]models.TradeItem, error) {
	return s.repo.ListItems(tradeID)
}

// AddMessage appends a user message to the trade conversation.
func (s *TradeService) AddMessage(tradeID, senderID uint, text string) (models.TradeMessage, error) {
	if text == "" {
		return models.TradeMessage{}, fmt.Errorf("service: %w - message text is required", traderrors.ErrValidation)
	}
	if _, err := s.repo.GetTrade(tradeID); err != nil {
		return models.TradeMessage{}, err
	}
	message := models.TradeMessage{TradeID: tradeID, SenderID: senderID, Message: text}
	if err := s.repo.AddMessage(&message); err != nil {
		return models.TradeMessage{}, err
	}
	return message, nil
}

// ListMessages returns the conversation in chronological order, oldest first.
func (s *TradeService) ListMessages(tradeID uint) ([]models.TradeMessage, error) {
	return s.repo.ListMessages(tradeID)
}

// ListOffers returns the offer versions, newest first.
func (s *TradeService) ListOffers(tradeID uint) ([]models.TradeOffer, error) {
	return s.repo.ListOffers(tradeID)
}

// systemMessage records an automated message describing a lifecycle event.
func (s *TradeService) systemMessage(tradeID, senderID uint, text string) error {
	message := models.TradeMessage{
		TradeID:         tradeID,
		SenderID:        senderID,
		Message:         text,
		IsSystemMessage: true,
	}
	return s.repo.AddMessage(&message)
}
