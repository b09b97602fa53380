package closer

import (
	"sync"
	"time"

	"car-auction/utils"
)

// Sweeper closes expired auctions and reports how many were closed
type Sweeper interface {
	SweepExpired() (int, error)
}

// DefaultInterval is how often the closer checks for expired auctions
const DefaultInterval = time.Minute

// AuctionCloser periodically sweeps active auctions and closes those past
// their end time. Sweeps are idempotent, so a sweep that fails or is cut off
// by shutdown leaves nothing to repair: the next sweep or the next bid against
// an expired auction performs the same transition.
type AuctionCloser struct {
	sweeper  Sweeper
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

// NewAuctionCloser creates a closer sweeping at the given interval. A
// non-positive interval falls back to DefaultInterval.
func NewAuctionCloser(sweeper Sweeper, interval time.Duration) *AuctionCloser {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &AuctionCloser{
		sweeper:  sweeper,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. An immediate sweep runs before
// the first tick so expired auctions are not left open for a full interval
// after startup. Start is safe to call once; further calls are no-ops.
func (c *AuctionCloser) Start() {
	c.startOnce.Do(func() {
		go c.run()
	})
}

// Stop signals the loop to exit and blocks until any in-flight sweep has
// finished. Safe to call multiple times.
func (c *AuctionCloser) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
	<-c.stopped
}

func (c *AuctionCloser) run() {
	defer close(c.stopped)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sweep()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *AuctionCloser) sweep() {
	closed, err := c.sweeper.SweepExpired()
	if err != nil {
		utils.Error("auction sweep failed", map[string]any{"error": err.Error()})
		return
	}
	if closed > 0 {
		utils.Info("auction sweep closed expired auctions", map[string]any{"closed": closed})
	}
}
