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
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"agenticv-server/internal/api/handlers"
	"agenticv-server/internal/api/middleware"
	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/utils"
)

// The relay is a small standalone process for local development: browsers
// cannot call the analysis webhook cross-origin, so the app posts to the
// relay and the relay forwards server-side where CORS does not apply.
func main() {
	configPath := utils.GetStringOrDefault(os.Getenv("CONFIG_PATH"), "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Initialize(cfg.Logging.Level, cfg.Logging.Adapters); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting AgenticV analysis relay")

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.CORS.Origin))

	e.POST("/relay", handlers.RelayHandler(cfg))
	e.GET("/health", handlers.HealthHandler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down relay...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down relay", map[string]interface{}{"error": err.Error()})
		}
		_ = logger.Close()
	}()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.RelayPort)
	logger.Info("Relay starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Relay failed to start", map[string]interface{}{"error": err.Error()})
	}
}
