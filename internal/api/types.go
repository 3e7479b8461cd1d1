package api

import (
	"fmt"
	"strings"
	"time"
)

// AuctionStatus mirrors the backend auction lifecycle. The client never
// drives transitions itself, it only reflects the current value and gates
// edit affordances to the legal ACTIVE -> {FINISHED, CANCELLED} moves.
type AuctionStatus string

const (
	StatusActive    AuctionStatus = "ACTIVE"
	StatusFinished  AuctionStatus = "FINISHED"
	StatusCancelled AuctionStatus = "CANCELLED"
)

// Timestamp decodes backend timestamps, which arrive either as RFC 3339 or
// as a zone-less local date-time depending on the serializer.
type Timestamp struct {
	time.Time
}

const localLayout = "2006-01-02T15:04:05"

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(localLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Auction struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	StartingPrice float64       `json:"startingPrice"`
	CreatedBy     *User         `json:"createdBy"`
	Status        AuctionStatus `json:"status"`
	Product       Product       `json:"product"`
	StartTime     Timestamp     `json:"startTime"`
	EndTime       Timestamp     `json:"endTime"`
}

// AuctionBid is the read projection the backend serves for display,
// the auction plus its current leading bid value.
type AuctionBid struct {
	Auction
	HighestBidAmount float64 `json:"highestBidAmount"`
}

// Bid is a leaf record of an auction's bid history, immutable once placed.
type Bid struct {
	User      string    `json:"user"`
	Amount    float64   `json:"amount"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Page is the backend's pagination envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

type CreateAuctionRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ProductID     int64   `json:"productId"`
	CreatorID     int64   `json:"creatorId"`
	StartingPrice float64 `json:"startingPrice"`
	EndTime       string  `json:"endTime"`
}

type UpdateAuctionRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	EndTime     string        `json:"endTime"`
	Status      AuctionStatus `json:"status"`
}

type CreateUserRequest struct {
	Auth0ID string `json:"auth0Id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type PlaceBidRequest struct {
	UserID    int64   `json:"userId"`
	AuctionID int64   `json:"auctionId"`
	Amount    float64 `json:"amount"`
}
