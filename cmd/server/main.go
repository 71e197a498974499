package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"agenticv-server/internal/analysis"
	"agenticv-server/internal/api/routes"
	"agenticv-server/internal/config"
	"agenticv-server/internal/jd"
	"agenticv-server/internal/logging"
	"agenticv-server/internal/storage"
	"agenticv-server/pkg/utils"
)

func main() {
	// Load configuration
	configPath := utils.GetStringOrDefault(os.Getenv("CONFIG_PATH"), "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logging.Initialize(cfg.Logging.Level, cfg.Logging.Adapters); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting AgenticV gap analysis server")

	// Initialize CV storage
	store, err := storage.NewStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	// Initialize job description drafts and fetcher
	drafts := jd.NewRedisDraftStore(cfg)
	jdService := jd.NewService(cfg, drafts, jd.NewFetcher(cfg))

	// Initialize analysis pipeline
	tracker := analysis.NewTracker(0)
	pipeline := analysis.NewPipeline(cfg, tracker)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, store, drafts, jdService, pipeline)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		tracker.Stop()

		if err := drafts.Close(); err != nil {
			logger.Error("Error closing draft store", map[string]interface{}{"error": err.Error()})
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
		_ = logger.Close()
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
}
