package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-snap/app/api"
	"github.com/lysyi3m/rss-snap/app/cfg"
	"github.com/lysyi3m/rss-snap/app/feed"
	"github.com/lysyi3m/rss-snap/app/snapshot"
	"github.com/lysyi3m/rss-snap/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		// Help was shown
		return nil
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting RSS Snap", "version", appCfg.Version, "feed", appCfg.FeedURL, "output", appCfg.Output)

	store := snapshot.NewStore(appCfg.Output)
	runner := tasks.NewRunner(
		tasks.SnapshotSettings{
			FeedURL:   appCfg.FeedURL,
			UserAgent: appCfg.UserAgent,
			Timeout:   appCfg.FetchTimeout,
			Discover:  appCfg.Discover,
		},
		&http.Client{Timeout: appCfg.FetchTimeout + 5*time.Second},
		feed.NewParser(),
		feed.NewNormalizer(nil, nil),
		store,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !appCfg.Serve {
		_, err := runner.Run(ctx)
		return err
	}

	return serve(ctx, appCfg, store, runner)
}

func serve(ctx context.Context, appCfg *cfg.Cfg, store *snapshot.Store, runner *tasks.Runner) error {
	if _, err := store.Read(); errors.Is(err, snapshot.ErrNotFound) {
		slog.Info("No snapshot on disk, taking the initial one")
		if _, err := runner.Run(ctx); err != nil {
			slog.Warn("Initial snapshot failed, serving without one", "error", err)
		}
	}

	handler := api.NewHandler(store, runner, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("RSS Snap shutdown complete")
	return nil
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
