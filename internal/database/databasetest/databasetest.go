// Package databasetest поднимает чистое хранилище для тестов:
// отдельный файл SQLite во временном каталоге с применёнными миграциями.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/school-payroll-api/internal/config"
	"github.com/school-payroll-api/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open создаёт новую базу для теста и закрывает её по завершении
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "payroll.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
