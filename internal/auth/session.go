package auth

import "time"

// Session is the explicit per-browser session object. It is passed by
// reference through the request context instead of living in a global.
type Session struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether the session carries a usable access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && time.Now().Before(s.ExpiresAt)
}

// Resolved reports whether the local user record behind the external
// identity is known. Bid and create actions are gated on this.
func (s *Session) Resolved() bool {
	return s.Authenticated() && s.UserID != 0
}
