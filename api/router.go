package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig collects the handlers wired into the HTTP surface.
type RouterConfig struct {
	Auth       *AuthHandler
	Flights    *FlightHandler
	Bookings   *BookingHandler
	Middleware *AuthMiddleware
	SwaggerDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	cfg.Auth.Register(apiGroup.Group("/auth"), cfg.Middleware)
	cfg.Flights.Register(apiGroup.Group("/flights"), cfg.Middleware)
	cfg.Bookings.Register(apiGroup.Group("/bookings"), cfg.Middleware)

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/api.swagger.json"),
		)))
	}

	return router
}
