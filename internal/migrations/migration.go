package migrations

import (
	"context"
	"errors"
	"fmt"

	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunMigrations creates the order and user tables.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(&models.Order{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// ImportResult counts what ImportRecords copied and skipped.
type ImportResult struct {
	Orders       int
	Users        int
	SkippedUsers int
}

// ImportRecords copies JSON-backed records into Postgres. Orders keep their
// ids; users that already exist are skipped.
func ImportRecords(ctx context.Context, db *gorm.DB, orders []models.Order, users []models.User, log *zap.Logger) (ImportResult, error) {
	var result ImportResult
	userRepo := repository.NewPostgresUserRepository(db)

	for i := range users {
		err := userRepo.Create(ctx, &users[i])
		if errors.Is(err, repository.ErrDuplicateUser) {
			log.Warn("user already exists, skipping", zap.String("username", users[i].Username))
			result.SkippedUsers++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to import user %s: %w", users[i].Username, err)
		}
		result.Users++
	}

	if len(orders) > 0 {
		if err := db.WithContext(ctx).Save(&orders).Error; err != nil {
			return result, fmt.Errorf("failed to import orders: %w", err)
		}
		result.Orders = len(orders)
	}

	log.Info("import completed",
		zap.Int("orders", result.Orders),
		zap.Int("users", result.Users),
		zap.Int("skipped_users", result.SkippedUsers),
	)
	return result, nil
}
