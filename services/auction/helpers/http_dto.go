package helpers

import (
	"github.com/shopspring/decimal"

	model "car-auction/internal/models"
)

// Request/Response DTOs
type CreateAuctionRequest struct {
	Make          string          `json:"make" binding:"required"`
	Model         string          `json:"model" binding:"required"`
	Year          int             `json:"year" binding:"required"`
	Description   string          `json:"description"`
	StartingPrice decimal.Decimal `json:"starting_price" binding:"required"`
	StartTime     string          `json:"start_time" binding:"required"`
	EndTime       string          `json:"end_time" binding:"required"`
}

type PlaceBidRequest struct {
	AuctionID string          `json:"auction_id" binding:"required"`
	BidderID  string          `json:"bidder_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

type BidResponse struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	BidTime   string          `json:"bid_time"`
}

type AuctionResponse struct {
	AuctionID     string           `json:"auction_id"`
	Car           model.CarDetails `json:"car"`
	StartingPrice decimal.Decimal  `json:"starting_price"`
	CurrentPrice  decimal.Decimal  `json:"current_price"`
	StartTime     string           `json:"start_time"`
	EndTime       string           `json:"end_time"`
	IsActive      bool             `json:"is_active"`
}
