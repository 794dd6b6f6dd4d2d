// financas-export is a one-shot job: hydrate the snapshot from the remote
// ledger and write one year of entries to a Google spreadsheet.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financas/internal/auth"
	"financas/internal/config"
	"financas/internal/export"
	"financas/internal/export/google"
	applog "financas/internal/log"
	"financas/internal/remote"
	"financas/internal/store"
	"financas/internal/synccache"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentExport})
	applog.SetDefault(logger)

	year := flag.Int("year", time.Now().Year(), "calendar year to export")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.APIToken == "" {
		logger.Error("API_TOKEN is required for export")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := auth.NewSession()
	if err := session.SetToken(cfg.APIToken); err != nil {
		logger.Error("Rejected configured API token", "error", err)
		os.Exit(1)
	}

	st := store.New(nil)
	remoteSvc := remote.NewService(remote.NewClient(cfg.APIBaseURL, session), st)
	cache := synccache.New(remoteSvc, st, session, synccache.Config{DedupeWindow: cfg.DedupeWindow})

	if err := cache.Reload(ctx); err != nil {
		logger.Error("Failed to hydrate from remote ledger", "error", err)
		os.Exit(1)
	}

	writer, err := google.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	count, err := export.New(st, writer).ExportYear(ctx, *year)
	if err != nil {
		logger.Error("Export failed", "error", err, "year", *year)
		os.Exit(1)
	}

	logger.Info("Export complete", "year", *year, "count", count)
}
