package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/assets"
	"github.com/DeadLyze/deadlyze-app/internal/budget"
	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/database"
	"github.com/DeadLyze/deadlyze-app/internal/enrichment"
	"github.com/DeadLyze/deadlyze-app/internal/history"
	server "github.com/DeadLyze/deadlyze-app/internal/http"
	"github.com/DeadLyze/deadlyze-app/internal/identity"
	"github.com/DeadLyze/deadlyze-app/internal/livematch"
	"github.com/DeadLyze/deadlyze-app/internal/matchcache"
	"github.com/DeadLyze/deadlyze-app/internal/metrics"
	"github.com/DeadLyze/deadlyze-app/internal/party"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/DeadLyze/deadlyze-app/internal/storage"
	"github.com/charmbracelet/log"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	store := storage.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	livematchClient := livematch.NewClient(cfg.PlayerDataAPI.BaseURL)
	assetsClient := assets.NewClient(cfg.AssetsAPI.BaseURL, cfg.AssetsAPI.FetchDelay)
	playerdataClient := playerdata.NewClient(cfg.PlayerDataAPI.BaseURL)

	requestBudget := budget.New(store, cfg.Budget.MaxRequests, cfg.Budget.RestoreInterval)
	matchCache := matchcache.New(cfg.Cache.TTL)
	metadataCache := matchcache.NewMetadata(cfg.Cache)
	partyDetector := party.New(playerdataClient, cfg.Party.Window, cfg.Party.MateStatsDelay)
	identityProvider := identity.New(store)
	historyService := history.New(store)

	orchestrator := enrichment.New(
		&cfg,
		livematchClient,
		assetsClient,
		playerdataClient,
		partyDetector,
		matchCache,
		metadataCache,
		requestBudget,
		identityProvider,
		historyService,
		metricsSvc,
	)

	s := server.NewServer(
		orchestrator,
		matchCache,
		metadataCache,
		requestBudget,
		historyService,
		identityProvider,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	metricsSvc.SetBudgetAvailable(requestBudget.Available())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    "127.0.0.1:" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
