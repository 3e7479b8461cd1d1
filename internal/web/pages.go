package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mercadolance/lanceweb/internal/api"
	"github.com/mercadolance/lanceweb/internal/auth"
)

type homePage struct {
	Session  *auth.Session
	Auctions []api.AuctionBid
	Error    string
}

// Home lists the auctions currently open for bidding. Works with and
// without a session; a fetch failure leaves the page up with an inline
// message.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	var token string
	if sess.Authenticated() {
		token = sess.Token
	}

	page := homePage{Session: sess}
	auctions, err := h.api.ActiveAuctions(r.Context(), token)
	if err != nil {
		h.log.Warnw("[WEB] active auctions fetch failed", "error", err)
		page.Error = "could not load auctions, try again later"
	} else {
		page.Auctions = auctions
	}
	h.render(w, http.StatusOK, "home.html", page)
}

type auctionPage struct {
	Session *auth.Session
	Auction *api.AuctionBid
	Highest float64
	Bids    []api.Bid
	Error   string
	Placed  bool
}

// AuctionDetail shows one auction with its bid history and bid form.
func (h *Handler) AuctionDetail(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := parseAuctionID(chi.URLParam(r, "auctionID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	page := h.buildAuctionPage(r, auctionID)
	page.Placed = r.URL.Query().Get("placed") == "1"
	h.render(w, http.StatusOK, "auction.html", page)
}

// buildAuctionPage assembles the detail view state: auction projection,
// recent bid history, and the displayed highest bid merged with any value
// already applied through the live feed.
func (h *Handler) buildAuctionPage(r *http.Request, auctionID int64) auctionPage {
	page := auctionPage{Session: SessionFrom(r.Context())}

	auction, err := h.api.Auction(r.Context(), auctionID)
	if err != nil {
		h.log.Warnw("[WEB] auction fetch failed", "auction", auctionID, "error", err)
		page.Error = "could not load auction details"
		return page
	}
	page.Auction = &auction

	page.Highest = auction.HighestBidAmount
	if applied, ok := h.feed.Peek(auctionID); ok && applied > page.Highest {
		page.Highest = applied
	}

	bids, err := h.api.BidHistory(r.Context(), auctionID, 10, "createdAt,desc")
	if err != nil {
		// History is decoration; the page stays up without it.
		h.log.Warnw("[WEB] bid history fetch failed", "auction", auctionID, "error", err)
	} else {
		page.Bids = bids
	}
	return page
}
