//go:build integration

package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/snacktrack/assessor/internal/infrastructure/persistence/migrations"
)

// PostgresConfig holds test database configuration
type PostgresConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     nat.Port
}

// DefaultPostgresConfig returns the default test database configuration
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Image:    "postgres:15-alpine",
		Database: "snacktrack_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432/tcp",
	}
}

// TestPostgres is a migrated Postgres instance running in a container
type TestPostgres struct {
	Container testcontainers.Container
	SQL       *sql.DB
	Gorm      *gorm.DB
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgres starts a Postgres container, applies the embedded migrations
// and registers cleanup with t
func StartPostgres(t *testing.T) *TestPostgres {
	return StartPostgresWithConfig(t, DefaultPostgresConfig())
}

// StartPostgresWithConfig starts Postgres with custom configuration
func StartPostgresWithConfig(t *testing.T, cfg PostgresConfig) *TestPostgres {
	ctx := context.Background()

	dsnFor := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{string(cfg.Port)},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForSQL(cfg.Port, "pgx", func(host string, port nat.Port) string {
					return dsnFor(host, port)
				}),
			),
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,noexec,nosuid,size=512m",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, cfg.Port)
	require.NoError(t, err)
	dsn := dsnFor(host, port)

	sqlDB, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, sqlDB.PingContext(ctx), "Failed to ping test database")

	migrator, err := migrations.New(sqlDB, cfg.Database, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, migrator.Up(), "Failed to apply migrations")
	require.NoError(t, migrator.Close())

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create GORM connection")

	poolConfig, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err, "Failed to parse pgx config")
	poolConfig.MaxConns = 5
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err, "Failed to create pgx pool")

	tp := &TestPostgres{
		Container: container,
		SQL:       sqlDB,
		Gorm:      gormDB,
		Pool:      pool,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		pool.Close()
		if gormSQL, err := gormDB.DB(); err == nil {
			_ = gormSQL.Close()
		}
		_ = sqlDB.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})
	return tp
}

// IndexExists reports whether the named index is present, read through pgx
func (tp *TestPostgres) IndexExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := tp.Pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = $1)", name,
	).Scan(&exists)
	return exists, err
}
