package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"massage-service-server/config"
	"massage-service-server/database"
	"massage-service-server/jobs"
	"massage-service-server/middleware"
	"massage-service-server/routes"
	"massage-service-server/services"
	ws "massage-service-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Optional dev seed
	if os.Getenv("SEED_DATA") == "true" {
		runSeedData()
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())
	middleware.StartRateLimiterCleanup()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8081"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Audit logging
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Massage Service Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Connection registry and notification dispatch
	registry := ws.NewRegistry()
	dispatcher := services.NewDispatcher(
		services.NewGormNotificationStore(database.DB),
		registry,
		services.NewExpoPushClient(),
	)

	bookingService := services.NewBookingService(database.DB, dispatcher)
	orderService := services.NewOrderService(database.DB, dispatcher)

	// Therapist WebSocket endpoint
	therapistHandler := ws.NewTherapistHandler(registry)
	router.GET("/api/v1/notifications/ws", therapistHandler.HandleConnection)

	// API v1 routes
	routes.Setup(bookingService, orderService, registry)
	apiV1 := router.Group("/api/v1")
	{
		routes.RegisterBookingRoutes(apiV1)
		routes.RegisterTherapistOrderRoutes(apiV1)
		routes.RegisterNotificationRoutes(apiV1)
	}

	// Background jobs
	slotJob := jobs.NewSlotMaintenanceJob()
	slotJob.Start()
	defer slotJob.Stop()

	// Start server
	port := config.AppConfig.Server.Port
	log.Printf("🚀 Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
