package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mercadolance/lanceweb/internal/api"
)

// validateBid enforces the client-side pre-checks before any backend
// call, in order: auction loaded, end time not passed, auction ACTIVE,
// positive amount, amount strictly above the current highest bid.
func validateBid(auction *api.AuctionBid, current, amount float64, now time.Time) error {
	if auction == nil {
		return ErrAuctionNotLoaded
	}
	if !auction.EndTime.IsZero() && !now.Before(auction.EndTime.Time) {
		return ErrAuctionEnded
	}
	if auction.Status != api.StatusActive {
		return ErrAuctionNotActive
	}
	if amount <= 0 {
		return ErrBidNotPositive
	}
	if amount <= current {
		return ErrBidTooLow
	}
	return nil
}

// SubmitBid places a bid. On success the submitted amount is applied
// optimistically to the auction's state container, so the display moves
// before any refetch, then the browser is redirected back to the detail
// page with a cleared form.
func (h *Handler) SubmitBid(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := parseAuctionID(chi.URLParam(r, "auctionID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	sess := SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderBidError(w, r, auctionID, "invalid form submission")
		return
	}
	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil {
		h.renderBidError(w, r, auctionID, ErrBidNotPositive.Error())
		return
	}

	page := h.buildAuctionPage(r, auctionID)
	current := page.Highest

	if err := validateBid(page.Auction, current, amount, time.Now()); err != nil {
		page.Error = err.Error()
		h.render(w, http.StatusOK, "auction.html", page)
		return
	}
	if !sess.Resolved() {
		page.Error = ErrUserNotResolved.Error()
		h.render(w, http.StatusOK, "auction.html", page)
		return
	}

	err = h.api.PlaceBid(r.Context(), sess.Token, api.PlaceBidRequest{
		UserID:    sess.UserID,
		AuctionID: auctionID,
		Amount:    amount,
	})
	if err != nil {
		page.Error = api.UserMessage(err, "failed to place bid, try again")
		h.render(w, http.StatusOK, "auction.html", page)
		return
	}

	h.feed.Apply(auctionID, amount)
	http.Redirect(w, r, "/auction/"+strconv.FormatInt(auctionID, 10)+"?placed=1", http.StatusSeeOther)
}

func (h *Handler) renderBidError(w http.ResponseWriter, r *http.Request, auctionID int64, msg string) {
	page := h.buildAuctionPage(r, auctionID)
	page.Error = msg
	h.render(w, http.StatusOK, "auction.html", page)
}
