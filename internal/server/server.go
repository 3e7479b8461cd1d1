package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mercadolance/lanceweb/internal/api"
	"github.com/mercadolance/lanceweb/internal/auth"
	"github.com/mercadolance/lanceweb/internal/feed"
	"github.com/mercadolance/lanceweb/internal/web"
	"github.com/mercadolance/lanceweb/pkg/config"
	"github.com/mercadolance/lanceweb/pkg/logger"
)

type Server struct {
	HTTPServer *http.Server
	Logger     *logger.Logger
	Feed       *feed.Hub
	Sessions   auth.Store
}

func New() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := auth.NewRedisStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewClient(cfg.APIBaseURL, log)
	authenticator := auth.NewAuthenticator(cfg)
	sessions := auth.NewManager(store, authenticator, apiClient, log)
	hub := feed.NewHub(cfg.APIBaseURL, log)

	handler, err := web.New(cfg, apiClient, sessions, hub, log)
	if err != nil {
		return nil, err
	}

	serv := &Server{
		Logger:   log,
		Feed:     hub,
		Sessions: store,
	}
	serv.HTTPServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      serv.routes(handler),
		ReadTimeout:  30 * time.Second,
		// Long-lived event-stream relays must outlive a normal write
		// timeout; per-request deadlines come from the client instead.
		WriteTimeout: 0,
	}
	return serv, nil
}

func (s *Server) Run() error {
	s.Logger.Infow("[SERVER] running", "address", s.HTTPServer.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run Server in the background
	go func() {
		if err := s.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Errorw("[SERVER] failed to serve", "error", err)
		}
	}()

	// Listen for the interrupt signal
	<-ctx.Done()
	s.Logger.Info("[SERVER] shutdown signal received")

	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Drop upstream streams first so open relays terminate.
	s.Feed.Close()

	if err := s.HTTPServer.Shutdown(shutCtx); err != nil {
		s.Logger.Errorw("[SERVER] shutdown failed", "error", err)
		return err
	}

	if err := s.Sessions.Close(); err != nil {
		s.Logger.Errorw("[SESSIONS] close failed", "error", err)
		return err
	}

	s.Logger.Info("[SERVER] shutdown complete.")
	return nil
}
