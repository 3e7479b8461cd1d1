package feed

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/mercadolance/lanceweb/pkg/logger"
)

// Event is one highest-bid advance for an auction.
type Event struct {
	AuctionID int64
	Amount    float64
}

// Subscription is one consumer of an auction's bid updates. The channel
// closes when the consumer unsubscribes or the upstream stream dies.
type Subscription struct {
	C <-chan Event

	hub       *Hub
	auctionID int64
	ch        chan Event
	closed    bool
	once      sync.Once
}

// Close releases the subscription. The last subscriber of an auction
// tears its upstream stream down.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.unsubscribe(s) })
}

// Hub multiplexes upstream bid-update streams: at most one open
// connection per auction id, shared by every subscriber and torn down
// when the reference count reaches zero. There is no reconnect; a
// transport error terminates the stream and closes all subscribers.
type Hub struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger

	mu      sync.Mutex
	streams map[int64]*stream
	states  map[int64]*AuctionState
	closed  bool
}

type stream struct {
	auctionID int64
	subs      map[*Subscription]struct{}
	cancel    context.CancelFunc
}

func NewHub(baseURL string, log *logger.Logger) *Hub {
	return &Hub{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
		streams: make(map[int64]*stream),
		states:  make(map[int64]*AuctionState),
	}
}

// Subscribe registers interest in one auction. The first subscriber
// opens the upstream stream.
func (h *Hub) Subscribe(auctionID int64) *Subscription {
	sub := &Subscription{hub: h, auctionID: auctionID, ch: make(chan Event, 8)}
	sub.C = sub.ch

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.closed = true
		close(sub.ch)
		return sub
	}

	st, ok := h.streams[auctionID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		st = &stream{
			auctionID: auctionID,
			subs:      make(map[*Subscription]struct{}),
			cancel:    cancel,
		}
		h.streams[auctionID] = st
		go h.run(ctx, st)
	}
	st.subs[sub] = struct{}{}
	return sub
}

// Apply runs amount through the auction's monotonic state and, when it
// advances the highest bid, fans the event out to subscribers. Optimistic
// bids and upstream events share this path.
func (h *Hub) Apply(auctionID int64, amount float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.states[auctionID]
	if !ok {
		state = &AuctionState{}
		h.states[auctionID] = state
	}
	if !state.Apply(amount) {
		return false
	}

	if st, ok := h.streams[auctionID]; ok {
		ev := Event{AuctionID: auctionID, Amount: amount}
		for sub := range st.subs {
			// Non-blocking: a slow consumer drops this event and
			// catches up on the next advance.
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
	return true
}

// Peek returns the applied highest bid for an auction, if any.
func (h *Hub) Peek(auctionID int64) (float64, bool) {
	h.mu.Lock()
	state, ok := h.states[auctionID]
	h.mu.Unlock()
	if !ok {
		return 0, false
	}
	return state.Current()
}

// Close tears every stream down. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, st := range h.streams {
		st.cancel()
		for sub := range st.subs {
			h.closeSubLocked(sub)
		}
		delete(h.streams, id)
		delete(h.states, id)
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeSubLocked(sub)

	st, ok := h.streams[sub.auctionID]
	if !ok {
		return
	}
	delete(st.subs, sub)
	if len(st.subs) == 0 {
		st.cancel()
		delete(h.streams, sub.auctionID)
		delete(h.states, sub.auctionID)
	}
}

// teardown removes a dead stream and closes its subscribers. Called from
// the stream goroutine on transport error or upstream close.
func (h *Hub) teardown(st *stream) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streams[st.auctionID] == st {
		delete(h.streams, st.auctionID)
		delete(h.states, st.auctionID)
	}
	st.cancel()
	for sub := range st.subs {
		h.closeSubLocked(sub)
		delete(st.subs, sub)
	}
}

func (h *Hub) closeSubLocked(sub *Subscription) {
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}

// openStreams reports the number of live upstream connections.
func (h *Hub) openStreams() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams)
}
