package web

import (
	"context"
	"net/http"

	"github.com/mercadolance/lanceweb/pkg/config"
)

// WithSession loads the session behind the cookie, if any, into the
// request context. Anonymous requests pass through untouched.
func (h *Handler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(config.SessionCookieName); err == nil {
			if sess, ok := h.sessions.Lookup(r.Context(), cookie.Value); ok {
				ctx := context.WithValue(r.Context(), config.SessionKey, &sess)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession is the access guard: unauthenticated browsers are sent
// back to the home page.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
