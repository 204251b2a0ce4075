package trade

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sherdwhite/book-trader/config"
	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/repository"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestService wires a TradeService over an in-memory database together
// with the ids of two seeded accounts.
func newTestService(t *testing.T) (*TradeService, uint, uint) {
	t.Helper()

	db, err := repository.OpenTestDB()
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	users := make([]uint, 0, 2)
	for _, name := range []string{"alice", "bob"} {
		user := models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", IsActive: true}
		require.NoError(t, db.Create(&user).Error)
		users = append(users, user.ID)
	}

	service := NewTradeService(repository.NewTradeStore(db), repository.NewIdentityStore(db))
	return service, users[0], users[1]
}

func proposeTrade(t *testing.T, service *TradeService, initiator, responder uint) models.Trade {
	t.Helper()

	trade := models.Trade{
		InitiatorID: initiator,
		ResponderID: responder,
		Title:       "Paperbacks for hardcovers",
		Description: "Two paperbacks for your hardcover",
	}
	require.NoError(t, service.Propose(&trade))
	return trade
}

func TestTradeService_Propose(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	require.Equal(t, models.TradeProposed, trade.Status)

	// Proposing records the opening offer version and a system message.
	offers, err := service.ListOffers(trade.ID)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.True(t, offers[0].IsActive)
	require.Equal(t, alice, offers[0].OfferedByID)

	messages, err := service.ListMessages(trade.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.True(t, messages[0].IsSystemMessage)
}

func TestTradeService_Propose_Invalid(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)

	tests := []struct {
		name  string
		trade models.Trade
	}{
		{name: "missing_responder", trade: models.Trade{InitiatorID: alice, Title: "t"}},
		{name: "self_trade", trade: models.Trade{InitiatorID: alice, ResponderID: alice, Title: "t"}},
		{name: "missing_title", trade: models.Trade{InitiatorID: alice, ResponderID: bob}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trade := tc.trade
			err := service.Propose(&trade)
			require.ErrorIs(t, err, traderrors.ErrValidation)
		})
	}
}

func TestTradeService_CounterOffer(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	updated, err := service.CounterOffer(trade.ID, bob, "Add one more paperback", dec("5.00"))
	require.NoError(t, err)
	require.Equal(t, models.TradeCounterOffered, updated.Status)
	require.True(t, updated.CashDifference.Equal(dec("5.00")))

	// Countering a counter-offer is allowed; negotiation goes back and forth.
	updated, err = service.CounterOffer(trade.ID, alice, "Make it two", dec("0.00"))
	require.NoError(t, err)
	require.Equal(t, models.TradeCounterOffered, updated.Status)

	offers, err := service.ListOffers(trade.ID)
	require.NoError(t, err)
	require.Len(t, offers, 3)
	require.Equal(t, "Make it two", offers[0].Description)
	require.True(t, offers[0].IsActive)
	require.False(t, offers[1].IsActive)
	require.False(t, offers[2].IsActive)
}

func TestTradeService_CounterOffer_Outsider(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	_, err := service.CounterOffer(trade.ID, 999, "not my trade", dec("0"))
	require.ErrorIs(t, err, traderrors.ErrValidation)
}

func TestTradeService_Lifecycle(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	accepted, err := service.Accept(trade.ID, bob)
	require.NoError(t, err)
	require.Equal(t, models.TradeAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	started, err := service.Start(trade.ID, alice)
	require.NoError(t, err)
	require.Equal(t, models.TradeInProgress, started.Status)

	completed, err := service.Complete(trade.ID, alice)
	require.NoError(t, err)
	require.Equal(t, models.TradeCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Completed trades are terminal.
	_, err = service.Cancel(trade.ID, alice)
	require.ErrorIs(t, err, traderrors.ErrStateConflict)
	_, err = service.Dispute(trade.ID, bob)
	require.ErrorIs(t, err, traderrors.ErrStateConflict)
}

// Completing a trade credits both parties with a trade_complete event.
func TestTradeService_Complete_Reputation(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	_, err := service.Accept(trade.ID, bob)
	require.NoError(t, err)
	_, err = service.Start(trade.ID, alice)
	require.NoError(t, err)
	_, err = service.Complete(trade.ID, alice)
	require.NoError(t, err)

	for _, userID := range []uint{alice, bob} {
		history, err := service.identity.ListReputation(userID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, models.ReputationTradeComplete, history[0].ReputationType)
		require.True(t, history[0].Points.Equal(dec("0.5")))
	}
}

func TestTradeService_Accept_SkippingStatesRejected(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	// proposed cannot jump straight to in_progress or completed.
	_, err := service.Start(trade.ID, alice)
	require.ErrorIs(t, err, traderrors.ErrStateConflict)
	_, err = service.Complete(trade.ID, alice)
	require.ErrorIs(t, err, traderrors.ErrStateConflict)
}

// Expiry only bites while a trade sits in proposed. The same past deadline on
// an accepted trade is inert.
func TestTradeService_Expiry(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)

	past := time.Now().UTC().Add(-time.Hour)
	trade := models.Trade{
		InitiatorID: alice,
		ResponderID: bob,
		Title:       "Slow trade",
		ExpiresAt:   &past,
	}
	require.NoError(t, service.Propose(&trade))

	_, err := service.Accept(trade.ID, bob)
	require.ErrorIs(t, err, traderrors.ErrTradeExpired)

	_, err = service.CounterOffer(trade.ID, bob, "too late", dec("0"))
	require.ErrorIs(t, err, traderrors.ErrTradeExpired)

	// An accepted trade with the same past deadline is not expired.
	fresh := proposeTrade(t, service, alice, bob)
	accepted, err := service.Accept(fresh.ID, bob)
	require.NoError(t, err)

	accepted.ExpiresAt = &past
	require.NoError(t, service.repo.SaveTrade(&accepted))

	got, err := service.Get(fresh.ID)
	require.NoError(t, err)
	require.False(t, got.IsExpired(time.Now().UTC()))

	started, err := service.Start(fresh.ID, alice)
	require.NoError(t, err)
	require.Equal(t, models.TradeInProgress, started.Status)
}

func TestTradeService_AddItem(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	item := models.TradeItem{
		TradeID:   trade.ID,
		BookID:    1,
		OwnerID:   alice,
		Condition: models.ConditionVeryGood,
	}
	require.NoError(t, service.AddItem(&item))

	dup := models.TradeItem{TradeID: trade.ID, BookID: 1, OwnerID: alice, Condition: models.ConditionGood}
	require.ErrorIs(t, service.AddItem(&dup), traderrors.ErrDuplicateTradeItem)

	bad := models.TradeItem{TradeID: trade.ID, BookID: 2, OwnerID: alice, Condition: "mint"}
	require.ErrorIs(t, service.AddItem(&bad), traderrors.ErrValidation)

	// Once accepted, the item set is frozen.
	_, err := service.Accept(trade.ID, bob)
	require.NoError(t, err)

	late := models.TradeItem{TradeID: trade.ID, BookID: 3, OwnerID: bob, Condition: models.ConditionGood}
	require.ErrorIs(t, service.AddItem(&late), traderrors.ErrStateConflict)
}

func TestTradeService_Messages(t *testing.T) {
	t.Parallel()

	service, alice, bob := newTestService(t)
	trade := proposeTrade(t, service, alice, bob)

	_, err := service.AddMessage(trade.ID, bob, "Does the hardcover have its dust jacket?")
	require.NoError(t, err)

	_, err = service.AddMessage(trade.ID, bob, "")
	require.ErrorIs(t, err, traderrors.ErrValidation)

	_, err = service.AddMessage(999, bob, "hello")
	require.ErrorIs(t, err, traderrors.ErrNotFound)

	messages, err := service.ListMessages(trade.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2) // proposal system message plus the question
	require.False(t, messages[1].IsSystemMessage)
}
