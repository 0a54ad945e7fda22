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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/config"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/handlers"
	"github.com/tripgo/booking-backend/internal/middleware"
	"github.com/tripgo/booking-backend/internal/services"
	"github.com/tripgo/booking-backend/pkg/jwt"
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

	logger.Info("Starting TripGo Booking Backend")
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

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	bookingRepo := database.NewBookingRepository(db)
	txRepo := database.NewPaymentTransactionRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	promoRepo := database.NewPromotionRepository(db)
	userRepo := database.NewUserRepository(db)
	invoiceRepo := database.NewInvoiceRepository(db)
	auditRepo := database.NewWebhookAuditRepository(db, logger)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	mailer := services.NewMailerService(cfg.SMTP, logger)
	if mailer.Enabled() {
		logger.Info("Invoice mail delivery enabled")
	} else {
		logger.Info("SMTP not configured, invoice mail delivery disabled")
	}

	seatService := services.NewSeatService(scheduleRepo, logger)
	bookingStatusService := services.NewBookingStatusService(bookingRepo, txRepo, seatService, logger)
	settlementService := services.NewSettlementService(txRepo, bookingRepo, invoiceRepo, userRepo, mailer, logger)
	promoService := services.NewPromotionService(promoRepo, logger)
	adminAuthService := services.NewAdminAuthService(userRepo, jwtService, logger)
	verifier := services.NewSignatureVerifier(cfg.Payment.ServerKey)
	if verifier.Enabled() {
		logger.Info("Payment notification signature verification enabled")
	} else {
		logger.Warn("PAYMENT_SERVER_KEY not set, notification signatures are not verified")
	}

	// Initialize and start cron service
	cronService := services.NewCronService(txRepo, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Initialize handlers
	bookingStatusHandler := handlers.NewBookingStatusHandler(bookingStatusService, logger)
	paymentStatusHandler := handlers.NewPaymentStatusHandler(settlementService, verifier, auditRepo, logger)
	promotionHandler := handlers.NewPromotionHandler(promoService, logger)
	ticketHandler := handlers.NewTicketHandler(bookingRepo, logger)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthService, logger)
	adminPromotionHandler := handlers.NewAdminPromotionHandler(promoRepo, logger)
	adminPaymentHandler := handlers.NewAdminPaymentHandler(auditRepo, logger)

	// Initialize Gin router
	router := gin.New()
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

	// Health check and metrics
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("/update-status", bookingStatusHandler.UpdateStatus)
			bookings.PATCH("/update-status", bookingStatusHandler.UpdateStatus)
			bookings.GET("/update-status", bookingStatusHandler.GetStatus)
			bookings.GET("/:code/ticket", ticketHandler.GetTicket)
		}

		payment := api.Group("/payment")
		{
			payment.GET("/status/:orderId", paymentStatusHandler.GetStatus)
			payment.POST("/status/:orderId", paymentStatusHandler.UpdateStatus)
		}

		promotions := api.Group("/promotions")
		{
			promotions.GET("", promotionHandler.ListEligible)
			promotions.POST("", promotionHandler.Validate)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminAuthHandler.Login)
			admin.POST("/refresh", adminAuthHandler.RefreshToken)

			protected := admin.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService, logger))
			protected.Use(middleware.RequireRole("admin"))
			{
				protected.GET("/promotions", adminPromotionHandler.List)
				protected.POST("/promotions", adminPromotionHandler.Create)
				protected.PUT("/promotions/:id", adminPromotionHandler.Update)
				protected.DELETE("/promotions/:id", adminPromotionHandler.Deactivate)

				protected.GET("/payments/:orderId/audit", adminPaymentHandler.ListAudits)

				protected.GET("/cron/status", func(c *gin.Context) {
					c.JSON(http.StatusOK, cronService.GetJobStatus())
				})
				protected.POST("/cron/expire-pending", func(c *gin.Context) {
					cronService.RunExpiryNow()
					c.JSON(http.StatusOK, gin.H{"message": "Pending-expiry sweep triggered"})
				})
			}
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

	cronService.Stop()

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

		entry := logger.WithFields(fields)

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
