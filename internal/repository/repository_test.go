package repository

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"car-auction/internal/auctionerrors"
	model "car-auction/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Helper to create a new Auction
func newAuction(auctionID string, price int64, endsIn time.Duration) model.Auction {
	now := time.Now().UTC()
	return model.Auction{
		AuctionID:     auctionID,
		Car:           model.CarDetails{Make: "Honda", Model: "Civic", Year: 2010, Description: "test car"},
		StartingPrice: decimal.NewFromInt(price),
		CurrentPrice:  decimal.NewFromInt(price),
		StartTime:     now,
		EndTime:       now.Add(endsIn),
		IsActive:      true,
	}
}

// Helper to create a new Bid
func newBid(bidID, auctionID, bidderID string, amount int64, bidTime time.Time) model.Bid {
	return model.Bid{
		BidID:     bidID,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    decimal.NewFromInt(amount),
		BidTime:   bidTime,
	}
}

// Test CreateAuction
func TestMemoryStore_CreateAuction(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	tests := []struct {
		name      string
		auction   model.Auction
		wantError bool
	}{
		{name: "valid_auction", auction: newAuction("auction1", 100, time.Hour), wantError: false},
		{name: "duplicate_id", auction: newAuction("auction1", 200, time.Hour), wantError: true},
		{name: "empty_id", auction: newAuction("", 100, time.Hour), wantError: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := store.CreateAuction(tc.auction)
			if tc.wantError {
				require.Error(t, err)
				require.True(t, errors.Is(err, auctionerrors.ErrInvalidAuction))
			} else {
				require.NoError(t, err)
				stored, err := store.GetAuction(tc.auction.AuctionID)
				require.NoError(t, err)
				require.Equal(t, int64(1), stored.Version)
				require.True(t, stored.CurrentPrice.Equal(tc.auction.StartingPrice))
			}
		})
	}
}

// Test GetAuction
func TestMemoryStore_GetAuction(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", 100, time.Hour)))

	t.Run("existing_auction", func(t *testing.T) {
		auction, err := store.GetAuction("auction1")
		require.NoError(t, err)
		require.Equal(t, "auction1", auction.AuctionID)
		require.True(t, auction.IsActive)
	})

	t.Run("missing_auction", func(t *testing.T) {
		_, err := store.GetAuction("auctionX")
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})
}

// Test SaveAuction version discipline
func TestMemoryStore_SaveAuction(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", 100, time.Hour)))

	t.Run("save_with_current_version", func(t *testing.T) {
		auction, err := store.GetAuction("auction1")
		require.NoError(t, err)

		auction.CurrentPrice = decimal.NewFromInt(150)
		require.NoError(t, store.SaveAuction(auction))

		stored, err := store.GetAuction("auction1")
		require.NoError(t, err)
		require.True(t, stored.CurrentPrice.Equal(decimal.NewFromInt(150)))
		require.Equal(t, auction.Version+1, stored.Version)
	})

	t.Run("save_with_stale_version", func(t *testing.T) {
		stale, err := store.GetAuction("auction1")
		require.NoError(t, err)

		// Another writer lands first
		fresh := stale
		fresh.CurrentPrice = decimal.NewFromInt(200)
		require.NoError(t, store.SaveAuction(fresh))

		stale.CurrentPrice = decimal.NewFromInt(175)
		err = store.SaveAuction(stale)
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrConflict))

		// The stale write must not have landed
		stored, err := store.GetAuction("auction1")
		require.NoError(t, err)
		require.True(t, stored.CurrentPrice.Equal(decimal.NewFromInt(200)))
	})

	t.Run("save_missing_auction", func(t *testing.T) {
		err := store.SaveAuction(newAuction("auctionX", 100, time.Hour))
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})

	// Concurrent writers racing from the same snapshot: exactly one wins
	t.Run("concurrent_saves_single_winner", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.CreateAuction(newAuction("race", 100, time.Hour)))

		snapshot, err := store.GetAuction("race")
		require.NoError(t, err)

		var wg sync.WaitGroup
		var wins, conflicts int64
		writers := 50

		for i := 0; i < writers; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()
				attempt := snapshot
				attempt.CurrentPrice = decimal.NewFromInt(int64(200 + i))
				switch err := store.SaveAuction(attempt); {
				case err == nil:
					atomic.AddInt64(&wins, 1)
				case errors.Is(err, auctionerrors.ErrConflict):
					atomic.AddInt64(&conflicts, 1)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int64(1), wins)
		require.Equal(t, int64(writers-1), conflicts)
	})
}

// Test SaveAuctionWithBid atomicity
func TestMemoryStore_SaveAuctionWithBid(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", 100, time.Hour)))

	t.Run("persists_auction_and_bid_together", func(t *testing.T) {
		auction, err := store.GetAuction("auction1")
		require.NoError(t, err)

		auction.CurrentPrice = decimal.NewFromInt(150)
		bid := newBid("bid1", "auction1", "bidder1", 150, time.Now().UTC())
		require.NoError(t, store.SaveAuctionWithBid(auction, bid))

		stored, err := store.GetAuction("auction1")
		require.NoError(t, err)
		require.True(t, stored.CurrentPrice.Equal(decimal.NewFromInt(150)))
		require.Equal(t, auction.Version+1, stored.Version)

		bids, err := store.ListBidsForAuction("auction1")
		require.NoError(t, err)
		require.Equal(t, []model.Bid{bid}, bids)
	})

	t.Run("stale_version_records_nothing", func(t *testing.T) {
		stale, err := store.GetAuction("auction1")
		require.NoError(t, err)

		// Another writer lands first
		fresh := stale
		fresh.CurrentPrice = decimal.NewFromInt(200)
		require.NoError(t, store.SaveAuctionWithBid(fresh, newBid("bid2", "auction1", "bidder2", 200, time.Now().UTC())))

		stale.CurrentPrice = decimal.NewFromInt(175)
		err = store.SaveAuctionWithBid(stale, newBid("bid3", "auction1", "bidder3", 175, time.Now().UTC()))
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrConflict))

		// Neither the price nor the losing bid may have landed
		stored, err := store.GetAuction("auction1")
		require.NoError(t, err)
		require.True(t, stored.CurrentPrice.Equal(decimal.NewFromInt(200)))

		bids, err := store.ListBidsForAuction("auction1")
		require.NoError(t, err)
		require.Len(t, bids, 2)
		for _, b := range bids {
			require.NotEqual(t, "bid3", b.BidID)
		}
	})

	t.Run("missing_auction", func(t *testing.T) {
		err := store.SaveAuctionWithBid(newAuction("auctionX", 100, time.Hour),
			newBid("bidX", "auctionX", "bidder1", 150, time.Now().UTC()))
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})
}

// Test CreateBid and ListBidsForAuction
func TestMemoryStore_Bids(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", 100, time.Hour)))
	require.NoError(t, store.CreateAuction(newAuction("auction2", 100, time.Hour)))

	now := time.Now().UTC()
	bid1 := newBid("bid1", "auction1", "bidder1", 150, now)
	bid2 := newBid("bid2", "auction1", "bidder2", 200, now.Add(time.Second))

	t.Run("record_and_list_in_order", func(t *testing.T) {
		require.NoError(t, store.CreateBid(bid1))
		require.NoError(t, store.CreateBid(bid2))

		bids, err := store.ListBidsForAuction("auction1")
		require.NoError(t, err)
		require.Equal(t, []model.Bid{bid1, bid2}, bids)
	})

	t.Run("bid_for_missing_auction", func(t *testing.T) {
		err := store.CreateBid(newBid("bidX", "auctionX", "bidder1", 150, now))
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})

	t.Run("auction_without_bids_lists_empty", func(t *testing.T) {
		bids, err := store.ListBidsForAuction("auction2")
		require.NoError(t, err)
		require.Empty(t, bids)
	})

	t.Run("list_for_missing_auction", func(t *testing.T) {
		_, err := store.ListBidsForAuction("auctionX")
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})

	t.Run("listed_bids_are_a_copy", func(t *testing.T) {
		bids, err := store.ListBidsForAuction("auction1")
		require.NoError(t, err)
		bids[0].BidderID = "mutated"

		again, err := store.ListBidsForAuction("auction1")
		require.NoError(t, err)
		require.Equal(t, "bidder1", again[0].BidderID)
	})

	// concurrency test
	t.Run("concurrent_bids", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		require.NoError(t, store.CreateAuction(newAuction("auction1", 100, time.Hour)))

		var wg sync.WaitGroup
		concurrentCount := 50

		for i := 0; i < concurrentCount; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()
				b := newBid(fmt.Sprintf("bid-%d", i), "auction1", fmt.Sprintf("bidder-%d", i), int64(100+i), time.Now().UTC())
				require.NoError(t, store.CreateBid(b))
			}()
		}

		wg.Wait()

		bids, err := store.ListBidsForAuction("auction1")
		require.NoError(t, err)
		require.Len(t, bids, concurrentCount)
	})
}

// Test ListActiveAuctions and ListAllAuctions
func TestMemoryStore_ListAuctions(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	active1 := newAuction("active1", 100, time.Hour)
	active2 := newAuction("active2", 100, 2*time.Hour)
	closed := newAuction("closed1", 100, time.Hour)
	closed.IsActive = false

	require.NoError(t, store.CreateAuction(active2))
	require.NoError(t, store.CreateAuction(active1))
	require.NoError(t, store.CreateAuction(closed))

	t.Run("active_filters_by_flag_only", func(t *testing.T) {
		auctions, err := store.ListActiveAuctions()
		require.NoError(t, err)
		require.Len(t, auctions, 2)
		// Ordered by end time, soonest first
		require.Equal(t, "active1", auctions[0].AuctionID)
		require.Equal(t, "active2", auctions[1].AuctionID)
	})

	t.Run("all_includes_closed", func(t *testing.T) {
		auctions, err := store.ListAllAuctions()
		require.NoError(t, err)
		require.Len(t, auctions, 3)
	})

	t.Run("empty_store_lists_empty", func(t *testing.T) {
		empty := NewMemoryStore()
		auctions, err := empty.ListActiveAuctions()
		require.NoError(t, err)
		require.Empty(t, auctions)
	})
}

// Test CountBidsSince
func TestMemoryStore_CountBidsSince(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", 100, time.Hour)))

	cutoff := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateBid(newBid("bid1", "auction1", "bidder1", 150, cutoff.Add(-time.Second))))
	require.NoError(t, store.CreateBid(newBid("bid2", "auction1", "bidder2", 200, cutoff)))
	require.NoError(t, store.CreateBid(newBid("bid3", "auction1", "bidder3", 250, cutoff.Add(time.Hour))))

	count, err := store.CountBidsSince(cutoff)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

// Test DeleteAuction cascade
func TestMemoryStore_DeleteAuction(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	require.NoError(t, store.CreateAuction(newAuction("auction1", 100, time.Hour)))
	require.NoError(t, store.CreateBid(newBid("bid1", "auction1", "bidder1", 150, time.Now().UTC())))

	require.NoError(t, store.DeleteAuction("auction1"))

	_, err := store.GetAuction("auction1")
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))

	_, err = store.ListBidsForAuction("auction1")
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))

	t.Run("delete_missing_auction", func(t *testing.T) {
		err := store.DeleteAuction("auctionX")
		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})
}
