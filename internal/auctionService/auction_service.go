package auction

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"car-auction/internal/auctionerrors"
	"car-auction/internal/clock"
	model "car-auction/internal/models"
	"car-auction/internal/notify"
	"car-auction/internal/repository"
	"car-auction/utils"

	"github.com/shopspring/decimal"
)

// maxBidAttempts bounds the reload-and-revalidate loop when a save loses an
// optimistic-concurrency race against another writer.
const maxBidAttempts = 3

// endingSoonWindow is the dashboard look-ahead for auctions about to close
const endingSoonWindow = 4 * time.Hour

// AuctionService defines the business logic for the auction lifecycle:
// creation, bidding, closure, and the read-side queries.
type AuctionService struct {
	store repository.AuctionStore
	clock clock.Clock
	sink  notify.NotificationSink
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(store repository.AuctionStore, clk clock.Clock, sink notify.NotificationSink) *AuctionService {
	return &AuctionService{
		store: store,
		clock: clk,
		sink:  sink,
	}
}

// CreateAuction validates and persists a new auction. The auction starts
// active with its current price at the starting price.
func (s *AuctionService) CreateAuction(car model.CarDetails, startingPrice decimal.Decimal, startTime, endTime time.Time) (model.Auction, error) {
	if !startingPrice.IsPositive() {
		return model.Auction{}, fmt.Errorf("service: %w - starting price must be positive", auctionerrors.ErrInvalidAuction)
	}
	if !endTime.After(startTime) {
		return model.Auction{}, fmt.Errorf("service: %w - end time must be after start time", auctionerrors.ErrInvalidAuction)
	}

	auction := model.Auction{
		AuctionID:     utils.GenerateID(),
		Car:           car,
		StartingPrice: startingPrice,
		CurrentPrice:  startingPrice,
		StartTime:     startTime.UTC(),
		EndTime:       endTime.UTC(),
		IsActive:      true,
	}

	if err := s.store.CreateAuction(auction); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction: %w", err)
	}

	return auction, nil
}

// PlaceBid validates and records a bid against an auction. Validation order is
// part of the contract: a bid against an expired-but-unclosed auction closes it
// before the rejection is returned, so later readers see a consistent state.
// A save that loses the race against a concurrent writer is revalidated from a
// fresh read, up to maxBidAttempts times.
func (s *AuctionService) PlaceBid(auctionID, bidderID string, amount decimal.Decimal) (model.Bid, error) {
	for attempt := 0; attempt < maxBidAttempts; attempt++ {
		auction, err := s.store.GetAuction(auctionID)
		if err != nil {
			return model.Bid{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}

		now := s.clock.Now()
		if !now.Before(auction.EndTime) {
			s.closeObserved(auction)
			return model.Bid{}, fmt.Errorf("service: %w - auction %s ended at %s",
				auctionerrors.ErrAuctionEnded, auctionID, auction.EndTime.Format(time.RFC3339))
		}
		if !auction.IsActive {
			return model.Bid{}, fmt.Errorf("service: %w - auction %s", auctionerrors.ErrAuctionInactive, auctionID)
		}
		if !amount.GreaterThan(auction.CurrentPrice) {
			return model.Bid{}, fmt.Errorf("service: %w - current price is %s",
				auctionerrors.ErrBidTooLow, auction.CurrentPrice.String())
		}
		if !amount.IsPositive() {
			return model.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
		}
		if bidderID == "" {
			return model.Bid{}, fmt.Errorf("service: %w - missing bidder ID", auctionerrors.ErrInvalidBid)
		}

		auction.CurrentPrice = amount
		bid := model.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			BidTime:   now,
		}

		// The raised price and the bid that explains it land as one write;
		// a rejected bid leaves no trace in the store.
		if err := s.store.SaveAuctionWithBid(auction, bid); err != nil {
			if errors.Is(err, auctionerrors.ErrConflict) {
				continue // lost the race, reload and revalidate
			}
			return model.Bid{}, fmt.Errorf("service: failed to record bid for auction %s: %w", auctionID, err)
		}

		s.sink.PublishBidPlaced(bid.AuctionID, bid.Amount, bid.BidderID, bid.BidTime)
		return bid, nil
	}

	return model.Bid{}, fmt.Errorf("service: bid on auction %s lost %d consecutive races: %w",
		auctionID, maxBidAttempts, auctionerrors.ErrConflict)
}

// EndAuction closes an auction regardless of its end time. Closing an
// already-closed auction is a no-op.
func (s *AuctionService) EndAuction(auctionID string) error {
	for attempt := 0; attempt < maxBidAttempts; attempt++ {
		auction, err := s.store.GetAuction(auctionID)
		if err != nil {
			return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}
		if !auction.IsActive {
			return nil
		}

		auction.IsActive = false
		if err := s.store.SaveAuction(auction); err != nil {
			if errors.Is(err, auctionerrors.ErrConflict) {
				continue
			}
			return fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
		}

		s.sink.PublishAuctionClosed(auctionID)
		return nil
	}

	return fmt.Errorf("service: close of auction %s lost %d consecutive races: %w",
		auctionID, maxBidAttempts, auctionerrors.ErrConflict)
}

// closeObserved applies the close-on-observation rule to an auction seen past
// its end time. Whoever observes the expiry first performs the transition;
// failures are logged and left for the next observer or sweep.
func (s *AuctionService) closeObserved(auction model.Auction) {
	if !auction.IsActive {
		return
	}
	if err := s.EndAuction(auction.AuctionID); err != nil {
		utils.Warn("failed to close expired auction", map[string]any{
			"auction_id": auction.AuctionID,
			"error":      err.Error(),
		})
	}
}

// SweepExpired closes every active auction whose end time has passed. A
// failure on one auction does not abort the sweep for the rest. Returns the
// number of auctions closed.
func (s *AuctionService) SweepExpired() (int, error) {
	auctions, err := s.store.ListActiveAuctions()
	if err != nil {
		return 0, fmt.Errorf("service: failed to list active auctions: %w", err)
	}

	closed := 0
	for _, auction := range auctions {
		if s.clock.Now().Before(auction.EndTime) {
			continue
		}
		if err := s.EndAuction(auction.AuctionID); err != nil {
			utils.Warn("sweep: failed to close expired auction", map[string]any{
				"auction_id": auction.AuctionID,
				"error":      err.Error(),
			})
			continue
		}
		closed++
	}
	return closed, nil
}

// GetAuction returns a single auction by ID
func (s *AuctionService) GetAuction(auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// GetActiveAuctions returns auctions that are open for bidding right now.
// The end-time filter is applied here rather than trusted from the stored
// flag, since the background sweep may not have run yet.
func (s *AuctionService) GetActiveAuctions() ([]model.Auction, error) {
	auctions, err := s.store.ListActiveAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: failed to get active auctions: %w", err)
	}

	now := s.clock.Now()
	open := make([]model.Auction, 0, len(auctions))
	for _, a := range auctions {
		if a.EndTime.After(now) {
			open = append(open, a)
		}
	}
	return open, nil
}

// GetPastAuctions returns auctions no longer open for bidding, whether closed
// explicitly or past their end time.
func (s *AuctionService) GetPastAuctions() ([]model.Auction, error) {
	auctions, err := s.store.ListAllAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: failed to get past auctions: %w", err)
	}

	now := s.clock.Now()
	past := make([]model.Auction, 0)
	for _, a := range auctions {
		if !a.IsActive || !a.EndTime.After(now) {
			past = append(past, a)
		}
	}
	return past, nil
}

// GetAuctionDetail returns an auction with its bid history (newest first) and
// the current winning bid, if any bids exist.
func (s *AuctionService) GetAuctionDetail(auctionID string) (model.AuctionDetail, error) {
	auction, err := s.GetAuction(auctionID)
	if err != nil {
		return model.AuctionDetail{}, err
	}

	bids, err := s.store.ListBidsForAuction(auctionID)
	if err != nil {
		return model.AuctionDetail{}, fmt.Errorf("service: failed to list bids for auction %s: %w", auctionID, err)
	}

	sort.Slice(bids, func(i, j int) bool {
		return bids[i].BidTime.After(bids[j].BidTime)
	})

	detail := model.AuctionDetail{
		Auction:    auction,
		BidHistory: bids,
	}
	if winner := winningBid(bids); winner != nil {
		detail.WinningBid = winner
	}
	return detail, nil
}

// GetWinningBid returns the highest bid for an auction. Ties on amount go to
// the earliest bid, though strict price ordering makes ties unreachable for
// bids accepted through PlaceBid.
func (s *AuctionService) GetWinningBid(auctionID string) (model.Bid, error) {
	if auctionID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	bids, err := s.store.ListBidsForAuction(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to list bids for auction %s: %w", auctionID, err)
	}

	winner := winningBid(bids)
	if winner == nil {
		return model.Bid{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	return *winner, nil
}

// GetDashboardStats aggregates auction activity. All figures are zero-valued
// when no auctions or bids exist.
func (s *AuctionService) GetDashboardStats() (model.DashboardStats, error) {
	auctions, err := s.store.ListAllAuctions()
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("service: failed to list auctions: %w", err)
	}

	now := s.clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := model.DashboardStats{
		TotalActiveValue: decimal.Zero,
		HighestActiveBid: decimal.Zero,
	}
	for _, a := range auctions {
		open := a.IsActive && a.EndTime.After(now)
		if open {
			stats.ActiveAuctions++
			stats.TotalActiveValue = stats.TotalActiveValue.Add(a.CurrentPrice)
			if a.CurrentPrice.GreaterThan(stats.HighestActiveBid) {
				stats.HighestActiveBid = a.CurrentPrice
			}
			if !a.EndTime.After(now.Add(endingSoonWindow)) {
				stats.EndingSoon++
			}
			continue
		}
		if !a.EndTime.Before(startOfDay) && !a.EndTime.After(now) {
			stats.CompletedToday++
		}
	}

	bidsToday, err := s.store.CountBidsSince(startOfDay)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("service: failed to count bids: %w", err)
	}
	stats.BidsToday = bidsToday

	return stats, nil
}

// winningBid scans a bid list for the highest amount, earliest time on ties
func winningBid(bids []model.Bid) *model.Bid {
	if len(bids) == 0 {
		return nil
	}
	winner := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winner.Amount) ||
			(b.Amount.Equal(winner.Amount) && b.BidTime.Before(winner.BidTime)) {
			winner = b
		}
	}
	return &winner
}
