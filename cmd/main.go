package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mercadolance/lanceweb/internal/server"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found or error loading it", "error", err)
	}

	slog.Info("Initializing auction web client...")

	serv, err := server.New()
	if err != nil {
		slog.Error("server failed to initialize", "error", err)
		os.Exit(1)
	}
	if err := serv.Run(); err != nil {
		slog.Error("server failed to run", "error", err)
		os.Exit(1)
	}
}
