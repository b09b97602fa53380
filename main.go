package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	auction "car-auction/internal/auctionService"
	"car-auction/internal/clock"
	"car-auction/internal/closer"
	model "car-auction/internal/models"
	"car-auction/internal/notify"
	"car-auction/internal/repository"
	"car-auction/internal/server"
	"car-auction/utils"

	"github.com/shopspring/decimal"
)

func main() {

	store := repository.NewMemoryStore()
	clk := clock.System()
	sink := notify.NewLogSink()

	auctionSvc := auction.NewAuctionService(store, clk, sink)

	prepopulateAuctions(auctionSvc)

	auctionCloser := closer.NewAuctionCloser(auctionSvc, closer.DefaultInterval)
	auctionCloser.Start()
	defer auctionCloser.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		utils.Info("shutting down", nil)
		auctionCloser.Stop()
		os.Exit(0)
	}()

	router := server.SetupRouter(auctionSvc)

	port := getPort()
	fmt.Printf("Starting auction server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// prepopulateAuctions adds sample car auctions to the in-memory store
func prepopulateAuctions(svc *auction.AuctionService) {
	now := time.Now().UTC()
	seeds := []struct {
		car           model.CarDetails
		startingPrice decimal.Decimal
		duration      time.Duration
	}{
		{model.CarDetails{Make: "Toyota", Model: "Supra", Year: 1998, Description: "Twin-turbo, stock"}, decimal.NewFromInt(25000), 24 * time.Hour},
		{model.CarDetails{Make: "BMW", Model: "M3", Year: 2005, Description: "E46, manual"}, decimal.NewFromInt(18000), 48 * time.Hour},
		{model.CarDetails{Make: "Mazda", Model: "MX-5", Year: 2016, Description: "One owner"}, decimal.NewFromInt(12500), 2 * time.Hour},
	}

	for _, s := range seeds {
		if _, err := svc.CreateAuction(s.car, s.startingPrice, now, now.Add(s.duration)); err != nil {
			utils.Warn("failed to seed auction", map[string]any{"error": err.Error()})
		}
	}
}

// getPort returns the server port from env or defaults to ":8080"
func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}
