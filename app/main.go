package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelring/reelring/app/api"
	"github.com/reelring/reelring/app/catalog"
	"github.com/reelring/reelring/app/cfg"
	"github.com/reelring/reelring/app/database"
	"github.com/reelring/reelring/app/feed"
	"github.com/reelring/reelring/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting ReelRing server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	// Repositories
	postRepo := database.NewPostRepository(db)
	membershipRepo := database.NewMembershipRepository(db)
	engagementRepo := database.NewEngagementRepository(db)
	enrichmentRepo := database.NewEnrichmentRepository(db)

	// External catalog client, breaker-wrapped
	catalogClient := catalog.NewBreakerClient(catalog.NewHTTPClient(
		appCfg.CatalogBaseURL, appCfg.CatalogAPIKey, appCfg.UserAgent,
		time.Duration(appCfg.CatalogTimeout)*time.Second))

	// Feed engine
	resolver := feed.NewResolver(enrichmentRepo, catalogClient,
		time.Duration(appCfg.EnrichmentStaleDays)*24*time.Hour, appCfg.EnrichmentFanout)
	aggregator := feed.NewAggregator(engagementRepo)
	orchestrator := feed.NewOrchestrator(postRepo, membershipRepo, aggregator, resolver,
		appCfg.Region, time.Duration(appCfg.EngagementWindowDays)*24*time.Hour)

	// Background maintenance
	scheduler := tasks.NewScheduler(enrichmentRepo, resolver)
	scheduler.Start()

	// HTTP server
	handler := api.NewHandler(orchestrator, resolver, postRepo, membershipRepo, appCfg.Region)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
