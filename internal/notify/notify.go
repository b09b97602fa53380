package notify

import (
	"time"

	"car-auction/utils"

	"github.com/shopspring/decimal"
)

// NotificationSink receives auction events for fan-out to subscribed clients.
// Both calls are fire-and-forget: the engine never consumes a result, and a
// failing sink must not affect the outcome of the bid or close that produced
// the event.
type NotificationSink interface {
	PublishBidPlaced(auctionID string, amount decimal.Decimal, bidderID string, bidTime time.Time)
	PublishAuctionClosed(auctionID string)
}

// LogSink is a NotificationSink that writes events to the structured log.
// It stands in for a real push transport, which lives outside this core.
type LogSink struct{}

// NewLogSink creates a new log-backed sink
func NewLogSink() *LogSink {
	return &LogSink{}
}

// PublishBidPlaced logs an accepted bid event
func (s *LogSink) PublishBidPlaced(auctionID string, amount decimal.Decimal, bidderID string, bidTime time.Time) {
	utils.Info("bid placed", map[string]any{
		"event":      "bid_placed",
		"auction_id": auctionID,
		"amount":     amount.String(),
		"bidder_id":  bidderID,
		"bid_time":   bidTime.Format(time.RFC3339),
	})
}

// PublishAuctionClosed logs an auction closed event
func (s *LogSink) PublishAuctionClosed(auctionID string) {
	utils.Info("auction closed", map[string]any{
		"event":      "auction_closed",
		"auction_id": auctionID,
	})
}
