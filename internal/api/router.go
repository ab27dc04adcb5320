// Package api exposes the simulation engine over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/power-market-sim/power-market-sim/internal/api/handlers"
	"github.com/power-market-sim/power-market-sim/internal/api/middleware"
)

// NewRouter builds the gin engine with every route registered.
func NewRouter(limits handlers.Limits) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	simulationHandler := handlers.NewSimulationHandler(limits)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulationHandler.Simulate)
		api.POST("/sweep", simulationHandler.Sweep)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}

// NewHandler wraps the router in CORS handling for browser clients.
func NewHandler(allowedOrigins []string, limits handlers.Limits) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(NewRouter(limits))
}
