package handler

import (
	"fmt"
	"net/http"
	"time"

	model "car-auction/internal/models"
	"car-auction/services/auction/helpers"
	"car-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AuctionServiceInterface interface {
	CreateAuction(car model.CarDetails, startingPrice decimal.Decimal, startTime, endTime time.Time) (model.Auction, error)
	PlaceBid(auctionID, bidderID string, amount decimal.Decimal) (model.Bid, error)
	GetAuction(auctionID string) (model.Auction, error)
	GetActiveAuctions() ([]model.Auction, error)
	GetPastAuctions() ([]model.Auction, error)
	GetAuctionDetail(auctionID string) (model.AuctionDetail, error)
	GetWinningBid(auctionID string) (model.Bid, error)
	GetDashboardStats() (model.DashboardStats, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", fmt.Errorf("invalid start_time: %w", err))
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", fmt.Errorf("invalid end_time: %w", err))
		return
	}

	car := model.CarDetails{
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Description: req.Description,
	}

	auction, err := h.service.CreateAuction(car, req.StartingPrice, startTime, endTime)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"handler": "CreateAuctionHandler",
			"make":    req.Make,
			"model":   req.Model,
			"error":   err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(auction), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id":     auction.AuctionID,
		"starting_price": auction.StartingPrice.String(),
		"end_time":       auction.EndTime.Format(time.RFC3339),
	})
}

// PlaceBidHandler handles POST /auctions/bid
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(req.AuctionID, req.BidderID, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": req.AuctionID,
			"bidder_id":  req.BidderID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "auction retrieved successfully")
}

// GetActiveAuctionsHandler handles GET /auctions/active
func (h *AuctionHandler) GetActiveAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.GetActiveAuctions()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetActiveAuctionsHandler: error retrieving auctions", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponses(auctions), "active auctions retrieved successfully")
	helpers.LogSuccess("GetActiveAuctionsHandler", "active auctions retrieved successfully", map[string]any{
		"count": len(auctions),
	})
}

// GetPastAuctionsHandler handles GET /auctions/past
func (h *AuctionHandler) GetPastAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.GetPastAuctions()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetPastAuctionsHandler: error retrieving auctions", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponses(auctions), "past auctions retrieved successfully")
}

// GetAuctionDetailHandler handles GET /auctions/:auction_id/detail
func (h *AuctionHandler) GetAuctionDetailHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	detail, err := h.service.GetAuctionDetail(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionDetailHandler: error retrieving detail", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	history := make([]helpers.BidResponse, 0, len(detail.BidHistory))
	for _, b := range detail.BidHistory {
		history = append(history, helpers.ToBidResponse(b))
	}
	resp := gin.H{
		"auction":     helpers.ToAuctionResponse(detail.Auction),
		"bid_history": history,
	}
	if detail.WinningBid != nil {
		resp["winning_bid"] = helpers.ToBidResponse(*detail.WinningBid)
	}

	utils.JSONResponse(c, http.StatusOK, resp, "auction detail retrieved successfully")
	helpers.LogSuccess("GetAuctionDetailHandler", "auction detail retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"bid_count":  len(detail.BidHistory),
	})
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning
func (h *AuctionHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetWinningBid(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWinningBidHandler: winning bid error", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// GetDashboardStatsHandler handles GET /dashboard/stats
func (h *AuctionHandler) GetDashboardStatsHandler(c *gin.Context) {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetDashboardStatsHandler: error computing stats", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, stats, "dashboard stats retrieved successfully")
}
