// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/snacktrack/assessor/internal/infrastructure/config"
	gormModels "github.com/snacktrack/assessor/internal/infrastructure/persistence/gorm"
)

// ConnectionManager owns the primary connection pool and any read replicas
type ConnectionManager struct {
	cfg    config.DatabaseConfig
	logger *zap.Logger
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewConnectionManager connects to the primary, applies the pool limits and
// registers read replicas. Reads are balanced across replicas; writes and
// transactions stay on the primary.
func NewConnectionManager(cfg config.DatabaseConfig, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{cfg: cfg, logger: log.Named("postgres")}

	db, err := gorm.Open(postgres.Open(cfg.DSN(cfg.Host)), &gorm.Config{
		Logger:                 gormModels.NewLogger(log, cfg.LogLevel, cfg.SlowQueryThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.sqlDB = sqlDB

	if err := cm.registerReplicas(); err != nil {
		cm.logger.Warn("Read replicas unavailable, serving reads from primary", zap.Error(err))
	}

	cm.logger.Info("Database connection manager initialized",
		zap.String("host", cfg.Host),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Int("replicas", len(cfg.ReadReplicas)),
	)
	return cm, nil
}

func (cm *ConnectionManager) registerReplicas() error {
	if len(cm.cfg.ReadReplicas) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(cm.cfg.ReadReplicas))
	for i, host := range cm.cfg.ReadReplicas {
		replicas[i] = postgres.Open(cm.cfg.DSN(host))
	}

	resolver := dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RoundRobinPolicy(),
	}).
		SetMaxOpenConns(cm.cfg.MaxOpenConns).
		SetMaxIdleConns(cm.cfg.MaxIdleConns).
		SetConnMaxLifetime(cm.cfg.ConnMaxLifetime).
		SetConnMaxIdleTime(cm.cfg.ConnMaxIdleTime)

	if err := cm.db.Use(resolver); err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}
	return nil
}

// DB returns the GORM handle
func (cm *ConnectionManager) DB() *gorm.DB {
	return cm.db
}

// SQLDB returns the primary pool, used by migrations and pool metrics
func (cm *ConnectionManager) SQLDB() *sql.DB {
	return cm.sqlDB
}

// HealthCheck pings the primary
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes the primary pool
func (cm *ConnectionManager) Close() error {
	return cm.sqlDB.Close()
}
