package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig returns CORS middleware configuration for the SPA origin
func CORSConfig(origin string) echo.MiddlewareFunc {
	origins := []string{"*"}
	if origin != "" {
		origins = []string{origin}
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}
