package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound    = errors.New("auction not found")
	ErrNoBids             = errors.New("no bids found for auction")
	ErrConflict           = errors.New("auction was modified concurrently")
	ErrStorageUnavailable = errors.New("auction store unavailable")
)

// business logic errors
var (
	ErrInvalidBid      = errors.New("invalid bid")
	ErrInvalidAuction  = errors.New("invalid auction")
	ErrBidTooLow       = errors.New("bid amount too low")
	ErrAuctionEnded    = errors.New("auction has ended")
	ErrAuctionInactive = errors.New("auction is not active")
)
