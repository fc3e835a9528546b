package routes

import (
	"github.com/calmisko/donation-backend/controllers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, api *controllers.API) {
	// ----------------------
	// Discord auth routes
	// ----------------------
	r.GET("/discord/callback", api.DiscordCallback)     // OAuth code exchange
	r.GET("/discord/authorised", api.DiscordAuthorised) // Check + refresh identity
	r.GET("/discord/profile", api.DiscordProfile)       // Cached identity

	// ----------------------
	// Payment gateway webhook
	// ----------------------
	r.POST("/paypal/donation", api.PaypalWebhook)

	// ----------------------
	// Reporting routes
	// ----------------------
	apiGroup := r.Group("/api")
	apiGroup.GET("/donations", api.Donations)               // Month aggregates
	apiGroup.GET("/donations/feed", api.Feed.HandleWebSocket) // Live feed
}
