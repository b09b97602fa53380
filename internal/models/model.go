package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarDetails describes the vehicle being sold in an auction
type CarDetails struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Description string `json:"description"`
}

// Auction represents a time-boxed sale of one car with a rising current price
type Auction struct {
	AuctionID     string          `json:"auction_id"`
	Car           CarDetails      `json:"car"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	IsActive      bool            `json:"is_active"`

	// Version is the optimistic-concurrency token managed by the store.
	// A save carrying a stale version is rejected.
	Version int64 `json:"-"`
}

// Bid represents a bidder's offer against an auction
type Bid struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	BidTime   time.Time       `json:"bid_time"`
}

// AuctionDetail bundles an auction with its bid history and current winner
type AuctionDetail struct {
	Auction    Auction `json:"auction"`
	BidHistory []Bid   `json:"bid_history"`
	WinningBid *Bid    `json:"winning_bid,omitempty"`
}

// DashboardStats aggregates auction activity for the dashboard view
type DashboardStats struct {
	ActiveAuctions   int             `json:"active_auctions"`
	EndingSoon       int             `json:"ending_soon"`
	BidsToday        int             `json:"bids_today"`
	CompletedToday   int             `json:"completed_today"`
	TotalActiveValue decimal.Decimal `json:"total_active_value"`
	HighestActiveBid decimal.Decimal `json:"highest_active_bid"`
}
