package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercadolance/lanceweb/pkg/logger"
)

// Client is the typed REST client for the auction backend. Authenticated
// calls take the caller's bearer token per request; an empty token sends
// no Authorization header.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// ActiveAuctions lists auctions currently open for bidding. The token is
// optional, the listing is public.
func (c *Client) ActiveAuctions(ctx context.Context, token string) ([]AuctionBid, error) {
	var auctions []AuctionBid
	q := url.Values{"status": {string(StatusActive)}}
	if err := c.do(ctx, http.MethodGet, "/auctions/status", token, q, nil, &auctions); err != nil {
		return nil, fmt.Errorf("list active auctions: %w", err)
	}
	return auctions, nil
}

// Auction fetches the AuctionBid projection for a single auction.
func (c *Client) Auction(ctx context.Context, id int64) (AuctionBid, error) {
	var auction AuctionBid
	if err := c.do(ctx, http.MethodGet, "/auctions/"+strconv.FormatInt(id, 10), "", nil, nil, &auction); err != nil {
		return AuctionBid{}, fmt.Errorf("fetch auction %d: %w", id, err)
	}
	return auction, nil
}

// SearchAuctions pages through the auctions created by one user.
func (c *Client) SearchAuctions(ctx context.Context, token string, creatorID int64, page, size int) (Page[Auction], error) {
	var result Page[Auction]
	q := url.Values{
		"creatorId": {strconv.FormatInt(creatorID, 10)},
		"page":      {strconv.Itoa(page)},
		"size":      {strconv.Itoa(size)},
	}
	if err := c.do(ctx, http.MethodGet, "/auctions/search", token, q, nil, &result); err != nil {
		return Page[Auction]{}, fmt.Errorf("search auctions for creator %d: %w", creatorID, err)
	}
	return result, nil
}

// CreateAuction registers a new auction and returns its id.
func (c *Client) CreateAuction(ctx context.Context, token string, req CreateAuctionRequest) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/auctions", token, nil, req, &created); err != nil {
		return 0, fmt.Errorf("create auction: %w", err)
	}
	return created.ID, nil
}

func (c *Client) UpdateAuction(ctx context.Context, token string, id int64, req UpdateAuctionRequest) error {
	if err := c.do(ctx, http.MethodPut, "/auctions/"+strconv.FormatInt(id, 10), token, nil, req, nil); err != nil {
		return fmt.Errorf("update auction %d: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteAuction(ctx context.Context, token string, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/auctions/"+strconv.FormatInt(id, 10), token, nil, nil, nil); err != nil {
		return fmt.Errorf("delete auction %d: %w", id, err)
	}
	return nil
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, token, name string) (Product, error) {
	var product Product
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/products", token, nil, body, &product); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// UserByAuth0 resolves the local user record for an external identity
// subject. Callers detect the bootstrap case with IsNotFound.
func (c *Client) UserByAuth0(ctx context.Context, token, subject string) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/auth0/"+url.PathEscape(subject), token, nil, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, req CreateUserRequest) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/users", token, nil, req, &user); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (c *Client) PlaceBid(ctx context.Context, token string, req PlaceBidRequest) error {
	if err := c.do(ctx, http.MethodPost, "/bids", token, nil, req, nil); err != nil {
		return fmt.Errorf("place bid on auction %d: %w", req.AuctionID, err)
	}
	return nil
}

// BidHistory lists the most recent bids of one auction.
func (c *Client) BidHistory(ctx context.Context, auctionID int64, size int, sort string) ([]Bid, error) {
	var result Page[Bid]
	q := url.Values{
		"auctionId": {strconv.FormatInt(auctionID, 10)},
		"size":      {strconv.Itoa(size)},
		"sort":      {sort},
	}
	if err := c.do(ctx, http.MethodGet, "/bids/search", "", q, nil, &result); err != nil {
		return nil, fmt.Errorf("fetch bid history for auction %d: %w", auctionID, err)
	}
	return result.Content, nil
}

// do issues one request against the backend. Non-2xx responses come back
// as *Error; there are no retries.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		c.log.Warnw("[API] failed to read error body", "status", resp.StatusCode, "error", err)
		return apiErr
	}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
