package feed

import "sync"

// AuctionState is the single authoritative highest-bid container for one
// auction. Optimistic local bids and upstream feed events both pass
// through Apply, which enforces monotonic ordering: a value that does not
// strictly advance the highest bid is ignored, so a stale fetch or a late
// feed event can never roll the display backwards.
type AuctionState struct {
	mu      sync.Mutex
	amount  float64
	applied bool
}

// Apply records amount when it is the first value seen or strictly
// greater than the applied one. Returns whether it took effect.
func (s *AuctionState) Apply(amount float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied && amount <= s.amount {
		return false
	}
	s.amount = amount
	s.applied = true
	return true
}

// Current returns the applied highest bid, if any value was applied yet.
func (s *AuctionState) Current() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amount, s.applied
}
