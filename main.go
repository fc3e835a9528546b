package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/calmisko/donation-backend/config"
	"github.com/calmisko/donation-backend/controllers"
	"github.com/calmisko/donation-backend/routes"
	"github.com/calmisko/donation-backend/services"
	"github.com/calmisko/donation-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(api *controllers.API) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"}, // your frontend origin
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, api)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	return r
}

func main() {
	cfg := config.Load()

	db := config.SetupDatabase(cfg.DatabaseURL)

	registry := services.NewRegistry(db)
	if err := registry.EnsureAnonymousDonor(); err != nil {
		log.Fatalf("[FATAL] Failed to seed anonymous donor: %v", err)
	}

	feed := services.NewFeed()
	ledger := services.NewLedger(db, feed)

	api := &controllers.API{
		Registry: registry,
		Ledger:   ledger,
		Ingestor: services.NewIngestor(ledger, cfg.Payout),
		Sessions: services.NewSessionStore(db, cfg.SessionTTL),
		Discord: services.NewDiscordClient(services.DiscordConfig{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURI:  cfg.DiscordRedirectURI,
			CDN:          cfg.DiscordCDN,
		}),
		Feed:            feed,
		Target:          cfg.Target,
		LeaderboardSize: cfg.LeaderboardSize,
	}

	gin.SetMode(gin.ReleaseMode)
	router := setupRouter(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Infof("Donation backend listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
