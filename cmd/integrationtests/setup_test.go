package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "car-auction/internal/auctionService"
	"car-auction/internal/clock"
	model "car-auction/internal/models"
	"car-auction/internal/notify"
	"car-auction/internal/repository"
	"car-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var testStart = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// SetupTestEnv initializes the router against an in-memory store and a fixed
// clock so tests can advance time deterministically.
func SetupTestEnv() (*gin.Engine, *auction.AuctionService, *clock.Fixed) {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	clk := clock.NewFixed(testStart)
	service := auction.NewAuctionService(store, clk, notify.NewLogSink())
	router := server.SetupRouter(service)
	return router, service, clk
}

// SeedAuction creates an auction through the service and returns its ID.
func SeedAuction(t *testing.T, svc *auction.AuctionService, car model.CarDetails, price int64, duration time.Duration) string {
	t.Helper()
	created, err := svc.CreateAuction(car, decimal.NewFromInt(price), testStart, testStart.Add(duration))
	if err != nil {
		t.Fatalf("failed to seed auction: %v", err)
	}
	return created.AuctionID
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}
