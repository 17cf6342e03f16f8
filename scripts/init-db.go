package main

import (
	"context"
	"log"

	"pizza_store/internal/config"
	"pizza_store/internal/database"
	"pizza_store/internal/jsonstore"
	"pizza_store/internal/migrations"
	"pizza_store/internal/models"
	pizzalog "pizza_store/pkg/logger"

	"go.uber.org/zap"
)

// Creates the Postgres schema and copies orders.json and users.json into it.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	logger, err := pizzalog.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	db, err := database.Initialize(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := migrations.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	orders := jsonstore.New[models.Order](cfg.OrdersFile, logger).Load()
	users := jsonstore.New[models.User](cfg.UsersFile, logger).Load()

	result, err := migrations.ImportRecords(context.Background(), db, orders, users, logger)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	logger.Info("database initialized",
		zap.String("orders_file", cfg.OrdersFile),
		zap.String("users_file", cfg.UsersFile),
		zap.Int("orders", result.Orders),
		zap.Int("users", result.Users),
	)
}
