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
	"github.com/stayclub/loyalty-backend/internal/config"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stayclub/loyalty-backend/internal/handlers"
	"github.com/stayclub/loyalty-backend/internal/middleware"
	"github.com/stayclub/loyalty-backend/internal/services"
	"github.com/stayclub/loyalty-backend/pkg/jwt"
	"github.com/stayclub/loyalty-backend/pkg/validator"
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

	logger.Info("Starting StayClub Loyalty Dashboard Backend")
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

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	emailValidator := validator.NewEmailValidator()
	rateLimitService := services.NewRateLimitService(db, cfg.RateLimit)
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog)

	customerRepository := database.NewCustomerRepository(db)
	stayRepository := database.NewStayRepository(db)
	consentRepository := database.NewConsentRepository(db)
	loyaltyTierRepository := database.NewLoyaltyTierRepository(db)
	hotelRepository := database.NewHotelRepository(db)

	consentService := services.NewConsentService(consentRepository)
	stayService := services.NewStayService(stayRepository)
	customerService := services.NewCustomerService(customerRepository, loyaltyTierRepository, consentService)
	logger.Info("Services initialized")

	// Periodically drop login attempt records that fell out of every window
	cleanupTicker := time.NewTicker(time.Hour)
	defer cleanupTicker.Stop()
	go func() {
		for range cleanupTicker.C {
			removed, err := rateLimitService.CleanupExpiredRateLimits()
			if err != nil {
				logger.WithError(err).Warn("Failed to clean up expired login rate limits")
				continue
			}
			if removed > 0 {
				logger.WithField("removed", removed).Debug("Cleaned up expired login rate limits")
			}
		}
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(
		jwtService,
		emailValidator,
		customerService,
		rateLimitService,
		auditService,
		logger,
	)
	customerHandler := handlers.NewCustomerHandler(customerService, loyaltyTierRepository)
	stayHandler := handlers.NewStayHandler(stayService)
	consentHandler := handlers.NewConsentHandler(consentService, auditService, logger)
	hotelHandler := handlers.NewHotelHandler(hotelRepository)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

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
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		// Customer routes (protected)
		customers := v1.Group("/customers")
		customers.Use(middleware.AuthMiddleware(jwtService))
		{
			customers.GET("/me", customerHandler.GetProfile)
		}

		// Loyalty tier ladder (protected)
		tiers := v1.Group("/loyalty-tiers")
		tiers.Use(middleware.AuthMiddleware(jwtService))
		{
			tiers.GET("", customerHandler.ListLoyaltyTiers)
		}

		// Stay routes (protected)
		stays := v1.Group("/stays")
		stays.Use(middleware.AuthMiddleware(jwtService))
		{
			stays.GET("", stayHandler.ListStays)
			stays.GET("/calendar", stayHandler.GetCalendar)
		}

		// Hotel directory (protected)
		hotels := v1.Group("/hotels")
		hotels.Use(middleware.AuthMiddleware(jwtService))
		{
			hotels.GET("", hotelHandler.ListHotels)
			hotels.GET("/:id", hotelHandler.GetHotel)
		}

		// Consent routes (protected)
		consents := v1.Group("/consents")
		consents.Use(middleware.AuthMiddleware(jwtService))
		{
			consents.GET("", consentHandler.GetConsents)
			consents.POST("", consentHandler.SubmitConsents)
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

		if customerCtx, exists := middleware.GetCustomerContext(c); exists {
			fields["customer_id"] = customerCtx.CustomerID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
