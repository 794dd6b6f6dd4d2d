package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financas/internal/amqp"
	"financas/internal/auth"
	"financas/internal/config"
	applog "financas/internal/log"
	"financas/internal/remote"
	"financas/internal/services"
	"financas/internal/storage"
	"financas/internal/store"
	"financas/internal/synccache"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting financas")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	session := auth.NewSession()
	if cfg.APIToken != "" {
		if err := session.SetToken(cfg.APIToken); err != nil {
			logger.Warn("Rejected configured API token", "error", err)
		}
	} else {
		session.SetUnauthenticated()
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize preferences database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	st := store.New(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if prefs, err := repo.Load(ctx); err != nil {
		logger.Warn("Failed to load persisted preferences", "error", err)
	} else {
		st.HydratePreferences(prefs)
	}

	ledgerClient := remote.NewClient(cfg.APIBaseURL, session)
	remoteSvc := remote.NewService(ledgerClient, st)

	cache := synccache.New(remoteSvc, st, session, synccache.Config{
		DedupeWindow:      cfg.DedupeWindow,
		RevalidateOnFocus: cfg.RevalidateOnFocus,
	})

	// Change-event bus is optional; without it this instance still works,
	// it just won't hear about writes from other devices.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		eventsClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Event bus unavailable, continuing without publishing", "error", err)
		} else {
			defer eventsClient.Close()
			publisher = eventsClient
			logger.Info("Event bus connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	ledger := services.New(st, remoteSvc, cache, session, publisher, cfg.RoundingPolicy())

	// Initial hydration. A partial failure is not fatal: errored resources
	// retry on the next reload tick.
	if err := cache.Reload(ctx); err != nil {
		logger.Warn("Initial load incomplete", "error", err)
	}

	// Events missed while the bus was down are recovered by a full reload
	// on reconnect.
	reconnected := make(chan struct{}, 1)
	go cache.WatchReconnect(ctx, reconnected)
	if cfg.AMQPURL != "" {
		go consumeEvents(ctx, cfg, ledger, reconnected, logger)
	}

	ticker := time.NewTicker(cfg.ReloadInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := cache.Reload(ctx); err != nil {
					logger.Warn("Periodic reload failed", "error", err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	cancel()
	logger.Info("financas stopped")
}

// consumeEvents keeps a consumer connection alive, redialing on failure.
// Each recovery signals the reconnect watcher.
func consumeEvents(ctx context.Context, cfg *config.Config, ledger *services.LedgerService, reconnected chan<- struct{}, logger *applog.Logger) {
	wasDown := false
	for {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			wasDown = true
			logger.Warn("Event bus unreachable, retrying", "error", err)
		} else {
			if wasDown {
				wasDown = false
				select {
				case reconnected <- struct{}{}:
				default:
				}
			}
			err = client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
				return ledger.HandleLedgerEvent(ctx, msg)
			})
			client.Close()
			if ctx.Err() != nil {
				return
			}
			wasDown = true
			logger.Warn("Event consumption interrupted, reconnecting", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}
