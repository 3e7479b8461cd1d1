package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mercadolance/lanceweb/pkg/config"
)

// Login starts the redirect flow at the identity provider.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     config.StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Only same-site paths are accepted as a post-login destination.
	if returnTo := r.URL.Query().Get("return_to"); strings.HasPrefix(returnTo, "/") && !strings.HasPrefix(returnTo, "//") {
		http.SetCookie(w, &http.Cookie{
			Name:     config.ReturnToCookieName,
			Value:    returnTo,
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	http.Redirect(w, r, h.sessions.LoginURL(state), http.StatusFound)
}

// Callback finishes the redirect flow: verifies the state nonce,
// establishes the session and sends the browser to its saved destination.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(config.StateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid login state", http.StatusBadRequest)
		return
	}
	clearCookie(w, config.StateCookieName)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	sess, ttl, err := h.sessions.Establish(r.Context(), code)
	if err != nil {
		h.log.Errorw("[WEB] login failed", "error", err)
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	returnTo := "/"
	if cookie, err := r.Cookie(config.ReturnToCookieName); err == nil && strings.HasPrefix(cookie.Value, "/") {
		returnTo = cookie.Value
		clearCookie(w, config.ReturnToCookieName)
	}
	http.Redirect(w, r, returnTo, http.StatusFound)
}

// Logout tears the session down and forwards to the provider's logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(config.SessionCookieName); err == nil {
		h.sessions.Destroy(r.Context(), cookie.Value)
	}
	clearCookie(w, config.SessionCookieName)
	http.Redirect(w, r, h.sessions.LogoutURL(h.cfg.PublicURL), http.StatusFound)
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
