package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"agenticv-server/internal/analysis"
	"agenticv-server/internal/api/handlers"
	"agenticv-server/internal/api/middleware"
	"agenticv-server/internal/config"
	"agenticv-server/internal/jd"
	"agenticv-server/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	store storage.Store,
	drafts *jd.RedisDraftStore,
	jdService *jd.Service,
	pipeline *analysis.Pipeline,
) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.CORS.Origin))
	e.Use(middleware.RequestValidation())
	e.Use(echomiddleware.TimeoutWithConfig(echomiddleware.TimeoutConfig{
		Timeout: cfg.Webhook.Timeout + 10*time.Second,
	}))

	// Outbound-calling endpoints get a per-IP rate limit
	limiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / 60.0),
			Burst:     cfg.RateLimit.Burst,
			ExpiresIn: 10 * time.Minute,
		}),
	})

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(cfg, store, drafts))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(store))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		cv := v1.Group("/cv")
		{
			cv.POST("", handlers.UploadCVHandler(cfg, store))
			cv.GET("", handlers.ListCVHandler(store))
			cv.DELETE("/*", handlers.DeleteCVHandler(store))
		}

		jdGroup := v1.Group("/jd")
		{
			jdGroup.GET("/sample", handlers.SampleJDHandler(jdService))
			jdGroup.POST("/fetch", handlers.FetchJDHandler(jdService), limiter)
			jdGroup.PUT("/:session_id", handlers.SaveDraftHandler(jdService))
			jdGroup.GET("/:session_id", handlers.GetDraftHandler(jdService))
		}

		v1.POST("/analyze", handlers.AnalyzeHandler(pipeline), limiter)
		v1.GET("/analyze/:session_id", handlers.AnalysisStateHandler(pipeline))
	}

	// Local development relay
	e.POST("/relay", handlers.RelayHandler(cfg))

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "AgenticV Gap Analysis",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
