package feed

import (
	"bufio"
	"context"
	"net/http"
	"strconv"
	"strings"
)

const bidUpdateEvent = "bid-update"

// run owns one upstream server-sent-events connection. It lives until
// the context is cancelled (last unsubscribe, shutdown) or the transport
// fails; either way the stream is torn down and never reopened.
func (h *Hub) run(ctx context.Context, st *stream) {
	defer h.teardown(st)

	target := h.baseURL + "/bids/bid-updates/" + strconv.FormatInt(st.auctionID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		h.log.Errorw("[FEED] bad stream request", "auction", st.auctionID, "error", err)
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := h.http.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			h.log.Warnw("[FEED] stream connect failed", "auction", st.auctionID, "error", err)
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.log.Warnw("[FEED] stream rejected", "auction", st.auctionID, "status", resp.StatusCode)
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			h.dispatch(st.auctionID, event, data)
			event, data = "", ""
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data != "" {
				data += "\n"
			}
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	// Flush a final frame the server may have sent without a trailing
	// blank line before closing.
	h.dispatch(st.auctionID, event, data)

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		h.log.Warnw("[FEED] stream transport error", "auction", st.auctionID, "error", err)
	}
}

// dispatch applies one received frame. The payload is the new highest
// bid as plain text.
func (h *Hub) dispatch(auctionID int64, event, data string) {
	if event != bidUpdateEvent || data == "" {
		return
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(data), 64)
	if err != nil {
		h.log.Warnw("[FEED] unparsable bid update", "auction", auctionID, "payload", data)
		return
	}
	h.Apply(auctionID, amount)
}
