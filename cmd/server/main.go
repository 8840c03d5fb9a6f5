package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/config"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/handlers"
	"github.com/skyvoyage/flight-booking-backend/internal/middleware"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
	"github.com/skyvoyage/flight-booking-backend/internal/upstream"
	"github.com/skyvoyage/flight-booking-backend/pkg/jwt"
	"github.com/skyvoyage/flight-booking-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SkyVoyage Flight Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// The reconciliation audit trail is optional: without a DATABASE_URL
	// seat misses are still logged, just not persisted.
	var auditor services.ReconciliationAuditor
	if cfg.Database.URL != "" {
		logger.Info("Connecting to database...")
		db, err := database.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logger.Info("Database connection established")
		auditor = database.NewReconciliationAuditRepository(db, logger)
	} else {
		logger.Info("DATABASE_URL not set, reconciliation audit trail disabled")
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	bookingAPI := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger)
	seatService := services.NewSeatService()
	pricingService := services.NewPricingService()
	passengerValidator := validator.NewPassengerValidator()
	sessionService := services.NewSessionService(seatService, pricingService, passengerValidator, logger)
	reconcileService := services.NewReconcileService(auditor, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	airportHandler := handlers.NewAirportHandler(bookingAPI, logger)
	sessionHandler := handlers.NewSessionHandler(sessionService, logger)
	bookingHandler := handlers.NewBookingHandler(sessionService, reconcileService, bookingAPI, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Airport directory (public, cached)
		v1.GET("/airports", airportHandler.ListAirports)

		// Booking sessions. A session is anonymous by default; a valid
		// bearer token attaches the user id to the session.
		sessions := v1.Group("/sessions")
		sessions.Use(middleware.OptionalAuthMiddleware(jwtService))
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.DELETE("/:id", sessionHandler.CancelSession)

			sessions.POST("/:id/search", bookingHandler.Search)
			sessions.POST("/:id/flight", bookingHandler.SelectFlight)
			sessions.POST("/:id/class", bookingHandler.SelectClass)
			sessions.GET("/:id/seats", bookingHandler.SeatGrid)
			sessions.POST("/:id/seats", bookingHandler.SelectSeats)
			sessions.GET("/:id/passengers", bookingHandler.PassengerSlots)
			sessions.PUT("/:id/passengers", bookingHandler.SubmitPassengers)
			sessions.POST("/:id/promo", bookingHandler.ApplyPromo)
			sessions.GET("/:id/pricing", bookingHandler.GetPricing)
		}

		// Payment requires an authenticated user
		payment := v1.Group("/sessions")
		payment.Use(middleware.AuthMiddleware(jwtService))
		{
			payment.POST("/:id/payment", bookingHandler.SubmitPayment)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userID, exists := c.Get(middleware.ContextUserID); exists {
			fields["user_id"] = userID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
