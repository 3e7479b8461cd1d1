package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// LiveBids relays one auction's bid updates to the browser, re-emitting
// hub events in the same event-stream format the backend uses, so the
// page-side EventSource contract stays identical. Each relay shares the
// hub's single upstream connection for the auction.
func (h *Handler) LiveBids(w http.ResponseWriter, r *http.Request) {
	auctionID, ok := parseAuctionID(chi.URLParam(r, "auctionID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.feed.Subscribe(auctionID)
	defer sub.Close()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-sub.C:
			if !open {
				// Upstream stream died; terminate the relay too.
				return
			}
			fmt.Fprintf(w, "event: bid-update\ndata: %s\n\n", strconv.FormatFloat(ev.Amount, 'f', -1, 64))
			flusher.Flush()
		}
	}
}
