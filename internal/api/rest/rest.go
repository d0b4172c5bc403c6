package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/sendblocks/custom-indexer-example/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/healthz", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Ledger record endpoints (public read access)
		v1.GET("/tokens/:token_id", handler.GetToken)
		v1.GET("/tokens", handler.ListTokens)

		// Replay endpoint (requires authentication)
		v1.POST("/replay", middleware.Auth(authCfg), handler.ReplayTrigger)
	}
}
