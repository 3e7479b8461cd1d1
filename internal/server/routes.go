package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mercadolance/lanceweb/internal/web"
)

func (s *Server) routes(h *web.Handler) *chi.Mux {
	mux := chi.NewMux()

	// global middlewares
	mux.Use(middleware.Recoverer)
	mux.Use(s.LoggerMiddleware())
	mux.Use(h.WithSession)

	mux.Get("/health", healthCheck)

	// public pages
	mux.Get("/", h.Home)
	mux.Get("/login", h.Login)
	mux.Get("/callback", h.Callback)
	mux.Get("/logout", h.Logout)
	mux.Get("/auction/{auctionID}/live", h.LiveBids)

	// guarded pages
	mux.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Get("/auction/{auctionID}", h.AuctionDetail)
		r.Post("/auction/{auctionID}/bids", h.SubmitBid)

		r.Get("/create-auction", h.CreateAuctionForm)
		r.Post("/create-auction", h.CreateAuction)

		r.Get("/my-auctions", h.MyAuctions)
		r.Post("/my-auctions/{auctionID}", h.UpdateAuction)
		r.Post("/my-auctions/{auctionID}/delete", h.DeleteAuction)
	})

	return mux
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"message": "ok",
		"time":    time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(resp)
}
