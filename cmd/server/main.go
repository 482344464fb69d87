package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"tailor_shop/internal/config"
	"tailor_shop/internal/database"
	"tailor_shop/internal/handlers"
	"tailor_shop/internal/middleware"
	"tailor_shop/internal/migrations"
	"tailor_shop/internal/redis"
	"tailor_shop/internal/repository"
	"tailor_shop/internal/services"
	"tailor_shop/pkg/whatsapp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize WhatsApp client
	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	whatsappService := services.NewWhatsAppService(whatsappClient)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	orderService := services.NewOrderService(orderRepo, paymentRepo, attachmentRepo, notificationService, whatsappService)

	// Initialize handlers
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Second
	authHandler := handlers.NewAuthHandler(userService, redisClient, sessionTTL)
	orderHandler := handlers.NewOrderHandler(orderService, whatsappService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Setup routes
	router := gin.Default()

	router.POST("/api/auth/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(redisClient, userService))
	{
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/orders", orderHandler.ListOrders)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.POST("/orders/:id/status", orderHandler.TransitionStatus)
		api.POST("/orders/:id/payments", orderHandler.RecordPayment)
		api.GET("/orders/:id/payments", orderHandler.ListPayments)
		api.POST("/orders/:id/attachments", orderHandler.AddAttachment)
		api.GET("/orders/:id/attachments", orderHandler.ListAttachments)
		api.GET("/orders/:id/whatsapp-link", orderHandler.WhatsAppLink)

		api.GET("/notifications", notificationHandler.ListNotifications)
		api.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
