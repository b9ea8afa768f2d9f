package orm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iyhunko/product-inventory/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite connection pool: %w", err)
	}
	// every new connection to ":memory:" would see an empty database
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).AutoMigrate(&productRecord{}, &userRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	slog.Info("SQLite database ready", slog.String("path", path))

	return db, nil
}

func create(ctx context.Context, db *gorm.DB, record any) error {
	if resource, ok := record.(repository.Resource); ok {
		resource.InitMeta()
	}
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		slog.Error("error creating resource", slog.Any("err", err))
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &repository.UniqueConstraintError{Detail: err.Error()}
		}
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func find(ctx context.Context, db *gorm.DB, record any, id int64) error {
	err := db.WithContext(ctx).First(record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("record %d: %w", id, repository.ErrNotFound)
		}
		slog.Error("error finding a resource", slog.Any("err", err))
		return fmt.Errorf("failed to find resource: %w", err)
	}
	return nil
}
