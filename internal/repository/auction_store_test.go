package repository

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/stretchr/testify/require"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
)

// seedAuction creates an active auction for a fresh book.
func seedAuction(t *testing.T, db *gorm.DB, isbn string) models.Auction {
	t.Helper()

	book := seedBook(t, db, "Auctioned "+isbn, isbn)
	seller := seedUser(t, db, "seller-"+isbn)

	now := time.Now().UTC()
	auction := models.Auction{
		Title:         "Auction " + isbn,
		BookID:        book.ID,
		SellerID:      seller.ID,
		Condition:     models.ConditionGood,
		StartingPrice: dec("10.00"),
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(time.Hour),
		Status:        models.AuctionActive,
	}
	require.NoError(t, db.Create(&auction).Error)
	return auction
}

func TestAuctionStore_HighestBid(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewAuctionStore(db)
	auction := seedAuction(t, db, "9780765382030")

	_, err := store.HighestBid(auction.ID)
	require.ErrorIs(t, err, traderrors.ErrNoBids)

	for _, amount := range []string{"15.00", "20.00", "18.50"} {
		bid := models.Bid{AuctionID: auction.ID, BidderID: 2, Amount: dec(amount)}
		require.NoError(t, store.RecordBid(&bid))
	}

	highest, err := store.HighestBid(auction.ID)
	require.NoError(t, err)
	require.True(t, highest.Amount.Equal(dec("20.00")), "highest bid was %s", highest.Amount)

	bids, err := store.ListBids(auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	require.True(t, bids[0].Amount.Equal(dec("20.00")))
	require.True(t, bids[1].Amount.Equal(dec("18.50")))
	require.True(t, bids[2].Amount.Equal(dec("15.00")))
}

func TestAuctionStore_RecordBid_UnknownAuction(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewAuctionStore(db)

	bid := models.Bid{AuctionID: 999, BidderID: 1, Amount: dec("5.00")}
	err := store.RecordBid(&bid)
	require.ErrorIs(t, err, traderrors.ErrNotFound)
}

func TestAuctionStore_WatchList(t *testing.T) {
	t.Parallel()

	db := openMigratedDB(t)
	store := NewAuctionStore(db)
	auction := seedAuction(t, db, "9780553573404")
	watcher := seedUser(t, db, "watcher")

	watch := models.WatchList{UserID: watcher.ID, AuctionID: auction.ID}
	require.NoError(t, store.AddWatch(&watch))

	dup := models.WatchList{UserID: watcher.ID, AuctionID: auction.ID}
	err := store.AddWatch(&dup)
	require.ErrorIs(t, err, traderrors.ErrAlreadyWatching)

	watched, err := store.ListWatched(watcher.ID)
	require.NoError(t, err)
	require.Len(t, watched, 1)
	require.Equal(t, auction.ID, watched[0].AuctionID)

	require.NoError(t, store.RemoveWatch(watcher.ID, auction.ID))

	err = store.RemoveWatch(watcher.ID, auction.ID)
	require.ErrorIs(t, err, traderrors.ErrNotFound)
}
