// Package main is the entry point for the POB board service: it syncs
// trips, sites, and passengers from the persistence API into the local
// store, keeps them fresh on a fixed interval, and serves the derived
// occupancy calendar.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wellsheli/pobboard/internal/auth"
	"github.com/wellsheli/pobboard/internal/board"
	"github.com/wellsheli/pobboard/internal/calendar"
	"github.com/wellsheli/pobboard/internal/client"
	"github.com/wellsheli/pobboard/internal/config"
	"github.com/wellsheli/pobboard/internal/handler"
	"github.com/wellsheli/pobboard/internal/store"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.LoadBoard()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Remote API client ------------------------------------------------
	// The board mints its own service token; the API validates it with
	// the same shared secret.
	token, err := auth.IssueServiceToken(cfg.AuthSecret, "pob-board", 30*24*time.Hour)
	if err != nil {
		slog.Error("failed to issue service token", "error", err)
		os.Exit(1)
	}
	remote := client.New(cfg.APIBaseURL, token)

	// --- State + coordinator ---------------------------------------------
	st := store.New()
	coord := board.NewCoordinator(st, remote, logger)
	refresher := board.NewRefresher(coord, cfg.RefreshInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial sync. A failure is not fatal — the API may come up later,
	// and the scheduled refresh will pick it up.
	if err := refresher.TryRefresh(ctx); err != nil {
		slog.Warn("initial sync failed", "error", err)
	} else {
		slog.Info("initial sync complete",
			"trips", len(st.Trips()),
			"sites", len(st.Sites()),
			"refresh_interval", cfg.RefreshInterval.String(),
		)
	}
	go refresher.Run(ctx)

	// --- Router -----------------------------------------------------------
	b := handler.NewBoard(st, coord, refresher, calendar.NewBuilder())
	router := b.Router(logger, cfg.CORSOrigins)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("board server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	cancel() // stops the refresher

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
