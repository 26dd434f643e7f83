package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"chaletprop-server/config"
	"chaletprop-server/database"
	"chaletprop-server/jobs"
	"chaletprop-server/middleware"
	"chaletprop-server/routes"
	"chaletprop-server/services"
	"chaletprop-server/utils"
	ws "chaletprop-server/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.Load()

	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Realtime hub
	hub := ws.NewHub()
	go hub.Run()

	// Shared services
	geocoder := utils.NewGeocoder(
		config.AppConfig.Geocoding.NominatimURL,
		config.AppConfig.Geocoding.CountryCode,
	)
	emailRelay := services.NewEmailRelay(
		config.AppConfig.Email.ResendAPIKey,
		config.AppConfig.Email.FromAddress,
		config.AppConfig.Email.AppURL,
	)
	notifier := services.NewNotifier(database.DB, hub, emailRelay)
	proximity := services.NewProximityNotifier(database.DB, notifier)
	requestService := services.NewRequestService(database.DB, notifier, proximity)
	settlement := services.NewSettlementService(config.AppConfig.Settlement.WebhookURL)
	checklistService := services.NewChecklistService(database.DB, notifier, settlement)

	// Background jobs
	geocodeJob := jobs.NewGeocodeJob(geocoder)
	geocodeJob.Start()
	defer geocodeJob.Stop()

	jwtService := services.NewJWTService()
	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("⚠️ Refresh token cleanup failed: %v", err)
			}
		}
	}()

	gin.SetMode(config.AppConfig.Server.GinMode)
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"connections": hub.ConnectedUsers(),
		})
	})

	// WebSocket endpoint: browsers cannot set headers on the upgrade
	// request, so the token rides a query parameter.
	router.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		claims, err := utils.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "A valid token query parameter is required",
			})
			return
		}
		ws.ServeWebSocket(hub, c.Writer, c.Request, claims.UserID)
	})

	apiV1 := router.Group("/api/v1")
	{
		routes.RegisterAuthRoutes(apiV1)
		routes.RegisterChaletRoutes(apiV1, geocoder)
		routes.RegisterProRoutes(apiV1, geocoder)
		routes.RegisterRequestRoutes(apiV1, requestService)
		routes.RegisterOfferRoutes(apiV1, requestService)
		routes.RegisterChecklistRoutes(apiV1, checklistService)
		routes.RegisterNotificationRoutes(apiV1)
		routes.RegisterMessageRoutes(apiV1, notifier)
	}

	port := config.AppConfig.Server.Port
	log.Printf("🚀 ChaletProp server listening on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
