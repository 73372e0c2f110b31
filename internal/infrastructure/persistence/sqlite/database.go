// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/snacktrack/assessor/internal/infrastructure/config"
	gormModels "github.com/snacktrack/assessor/internal/infrastructure/persistence/gorm"
)

// SetupDatabase opens the SQLite database and migrates the schema. An empty
// path opens a private in-memory database.
//
// SQLite allows a single writer, so the pool is capped at one connection;
// this also keeps an in-memory database alive and shared for the pool's
// lifetime.
func SetupDatabase(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.Path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormModels.NewLogger(log, cfg.LogLevel, cfg.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("SQLite database ready", zap.String("path", dsn))
	return db, nil
}
