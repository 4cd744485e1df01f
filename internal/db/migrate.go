package db

import (
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
)

func models() []interface{} {
	return []interface{}{
		&model.KVEntry{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	tables := models()
	if err := DB.AutoMigrate(tables...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(tables),
	})
	return nil
}
