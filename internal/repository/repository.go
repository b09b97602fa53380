package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"car-auction/internal/auctionerrors"
	model "car-auction/internal/models"
)

// AuctionStore defines the auction and bid storage contract for the engine.
// Writes to a single auction are serialized through optimistic versioning:
// SaveAuction rejects a record whose Version no longer matches the stored one.
type AuctionStore interface {
	CreateAuction(auction model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	SaveAuction(auction model.Auction) error
	SaveAuctionWithBid(auction model.Auction, bid model.Bid) error
	DeleteAuction(auctionID string) error
	CreateBid(bid model.Bid) error
	ListBidsForAuction(auctionID string) ([]model.Bid, error)
	ListActiveAuctions() ([]model.Auction, error)
	ListAllAuctions() ([]model.Auction, error)
	CountBidsSince(since time.Time) (int, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]model.Auction // key: auctionID
	bids     map[string][]model.Bid   // key: auctionID -> bids in acceptance order
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]model.Auction),
		bids:     make(map[string][]model.Bid),
	}
}

// CreateAuction inserts a new auction record with its initial version
func (s *MemoryStore) CreateAuction(auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if auction.AuctionID == "" {
		return fmt.Errorf("create auction: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}
	if _, ok := s.auctions[auction.AuctionID]; ok {
		return fmt.Errorf("create auction %s: %w - duplicate ID", auction.AuctionID, auctionerrors.ErrInvalidAuction)
	}

	auction.Version = 1
	s.auctions[auction.AuctionID] = auction
	return nil
}

// GetAuction returns the auction with the given ID, including its current version
func (s *MemoryStore) GetAuction(auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// SaveAuction persists an updated auction. The caller's Version must match the
// stored version; a mismatch means another writer won the race and the caller
// must reload and revalidate.
func (s *MemoryStore) SaveAuction(auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(auction)
}

// SaveAuctionWithBid persists an updated auction together with the bid that
// produced the update, as a single atomic write. The version discipline of
// SaveAuction applies; when the save is rejected the bid is not recorded.
func (s *MemoryStore) SaveAuctionWithBid(auction model.Auction, bid model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(auction); err != nil {
		return err
	}
	s.bids[auction.AuctionID] = append(s.bids[auction.AuctionID], bid)
	return nil
}

// saveLocked applies a version-checked auction update. Callers hold s.mu.
func (s *MemoryStore) saveLocked(auction model.Auction) error {
	current, ok := s.auctions[auction.AuctionID]
	if !ok {
		return fmt.Errorf("save auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if current.Version != auction.Version {
		return fmt.Errorf("save auction %s: version %d is stale: %w",
			auction.AuctionID, auction.Version, auctionerrors.ErrConflict)
	}

	auction.Version++
	s.auctions[auction.AuctionID] = auction
	return nil
}

// DeleteAuction removes an auction and cascades removal of its bids
func (s *MemoryStore) DeleteAuction(auctionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return fmt.Errorf("delete auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	delete(s.auctions, auctionID)
	delete(s.bids, auctionID)
	return nil
}

// CreateBid appends a bid to its auction's history. Bids are immutable once recorded.
func (s *MemoryStore) CreateBid(bid model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[bid.AuctionID]; !ok {
		return fmt.Errorf("create bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	s.bids[bid.AuctionID] = append(s.bids[bid.AuctionID], bid)
	return nil
}

// ListBidsForAuction returns all bids recorded against an auction
func (s *MemoryStore) ListBidsForAuction(auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return append([]model.Bid(nil), s.bids[auctionID]...), nil
}

// ListActiveAuctions returns all auctions still flagged active. The flag alone
// is what the store knows; expiry filtering is the caller's concern.
func (s *MemoryStore) ListActiveAuctions() ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]model.Auction, 0)
	for _, a := range s.auctions {
		if a.IsActive {
			active = append(active, a)
		}
	}
	sortByEndTime(active)
	return active, nil
}

// ListAllAuctions returns every auction, active or not
func (s *MemoryStore) ListAllAuctions() ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		all = append(all, a)
	}
	sortByEndTime(all)
	return all, nil
}

// CountBidsSince counts bids placed at or after the given instant
func (s *MemoryStore) CountBidsSince(since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, bids := range s.bids {
		for _, b := range bids {
			if !b.BidTime.Before(since) {
				count++
			}
		}
	}
	return count, nil
}

// sortByEndTime orders auctions by end time, soonest first, for stable listings
func sortByEndTime(auctions []model.Auction) {
	sort.Slice(auctions, func(i, j int) bool {
		if auctions[i].EndTime.Equal(auctions[j].EndTime) {
			return auctions[i].AuctionID < auctions[j].AuctionID
		}
		return auctions[i].EndTime.Before(auctions[j].EndTime)
	})
}
