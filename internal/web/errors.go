package web

import "errors"

var (
	// bid pre-validation
	ErrAuctionNotLoaded = errors.New("auction not loaded")
	ErrAuctionEnded     = errors.New("auction has ended")
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrBidNotPositive   = errors.New("bid amount must be positive")
	ErrBidTooLow        = errors.New("bid must be greater than the current highest bid")

	// session gating
	ErrUserNotResolved = errors.New("user account is not resolved yet")

	// auction forms
	ErrEndTimeFormat      = errors.New("invalid end time, use the yyyy-MM-ddTHH:mm format")
	ErrStatusTransition   = errors.New("status change not allowed")
	ErrNotEditable        = errors.New("only active auctions can be edited")
	ErrDeleteNotCancelled = errors.New("only cancelled auctions can be deleted")
	ErrDeleteUnconfirmed  = errors.New("deletion must be confirmed")
	ErrProductMissing     = errors.New("select a product or enter a new one")
)
