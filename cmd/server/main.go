package main

import (
	"context"
	"log"

	"pizza_store/internal/catalog"
	"pizza_store/internal/config"
	"pizza_store/internal/database"
	"pizza_store/internal/handlers"
	"pizza_store/internal/jsonstore"
	"pizza_store/internal/migrations"
	"pizza_store/internal/models"
	"pizza_store/internal/redis"
	"pizza_store/internal/repository"
	"pizza_store/internal/services"
	"pizza_store/internal/session"
	"pizza_store/internal/views"
	pizzalog "pizza_store/pkg/logger"
	"pizza_store/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	logger, err := pizzalog.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	if cfg.AppEnv == "production" || cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Initialize repositories
	var (
		orderRepo repository.OrderRepository
		userRepo  repository.UserRepository
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.Initialize(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := migrations.RunMigrations(db, logger); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		orderRepo = repository.NewPostgresOrderRepository(db)
		userRepo = repository.NewPostgresUserRepository(db)
	default:
		orderRepo = repository.NewOrderRepository(jsonstore.New[models.Order](cfg.OrdersFile, logger))
		userRepo = repository.NewUserRepository(jsonstore.New[models.User](cfg.UsersFile, logger))
	}

	// Initialize session store
	var sessionStore session.Store
	switch cfg.SessionBackend {
	case config.SessionRedis:
		redisClient, err := redis.Initialize(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		sessionStore = redisClient
	default:
		sessionStore = session.NewMemoryStore()
	}

	var notifier services.NotificationService
	if cfg.NotificationsEnabled() {
		client := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		notifier = services.NewWhatsAppNotificationService(client, cfg.StoreOwnerPhone)
	}

	// Initialize services
	orderService := services.NewOrderService(orderRepo, catalog.Default(), notifier, logger)
	userService := services.NewUserService(userRepo, services.OwnerCredentials{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	}, logger)

	renderer, err := views.NewRenderer(logger)
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	// Initialize handlers
	storeHandler := handlers.NewStoreHandler(orderService, renderer, logger)
	authHandler := handlers.NewAuthHandler(userService, orderService, renderer, logger)

	// Setup routes
	router := gin.New()
	router.Use(gin.Recovery(), pizzalog.GinMiddleware(logger))
	router.GET("/_healthz", handlers.Healthz)

	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL(), logger)
	router.Use(sessions.Middleware())
	handlers.RegisterRoutes(router, storeHandler, authHandler)

	// Start server
	logger.Info("server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("session_backend", cfg.SessionBackend),
	)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
