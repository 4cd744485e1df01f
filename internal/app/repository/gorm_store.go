package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store persisted in the kv_entries table.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Read(ctx context.Context, key string) (string, error) {
	logger.Debug("Reading kv entry from database", map[string]interface{}{
		"key": key,
	})

	var entry model.KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		logger.Error("Failed to read kv entry from database", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}
	return entry.Value, nil
}

func (s *gormStore) Write(ctx context.Context, key, value string) error {
	entry := model.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		logger.Error("Failed to write kv entry to database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.KVEntry{}).Error; err != nil {
		logger.Error("Failed to delete kv entry from database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
