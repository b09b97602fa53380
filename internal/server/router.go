package server

import (
	handler "car-auction/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService handler.AuctionServiceInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.POST("/bid", auctionHandler.PlaceBidHandler)
		auctions.GET("/active", auctionHandler.GetActiveAuctionsHandler)
		auctions.GET("/past", auctionHandler.GetPastAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/detail", auctionHandler.GetAuctionDetailHandler)
		auctions.GET("/:auction_id/winning", auctionHandler.GetWinningBidHandler)
	}

	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/stats", auctionHandler.GetDashboardStatsHandler)
	}

	return router
}
