// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/snacktrack/assessor/internal/infrastructure/config"
	"github.com/snacktrack/assessor/internal/infrastructure/persistence/sqlite"
)

// NewSQLiteDB opens a migrated in-memory SQLite database that is closed
// when the test ends
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase(config.DatabaseConfig{LogLevel: "silent"}, zaptest.NewLogger(t))
	require.NoError(t, err, "Failed to open test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// TruncateAll removes every row while preserving the schema
func TruncateAll(t testing.TB, db *gorm.DB) {
	t.Helper()

	for _, table := range []string{"assessments", "products", "users"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error, "Failed to truncate %s", table)
	}
}
