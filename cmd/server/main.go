package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mmynk/billtab/internal/auth"
	"github.com/mmynk/billtab/internal/config"
	"github.com/mmynk/billtab/internal/ledger"
	"github.com/mmynk/billtab/internal/middleware"
	"github.com/mmynk/billtab/internal/server"
	"github.com/mmynk/billtab/internal/storage/sqlite"
	"github.com/mmynk/billtab/pkg/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	// Initialize SQLite storage; seeds the bootstrap admin.
	store, err := sqlite.New(cfg.DBPath, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath, "admin", cfg.AdminUsername)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	srv := server.New(ledger.New(store, cfg.AdminUsername), tokens, cfg.StaticPath)

	handler := middleware.Logging(middleware.CORS(srv.Router()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
