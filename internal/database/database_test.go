package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/school-payroll-api/internal/config"
	"github.com/school-payroll-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpen_MigratesSchema(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "payroll.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, table := range []string{"employees", "salary_structures", "salary_slips", "payments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "payroll.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var buf bytes.Buffer
	session := db.Session(&gorm.Session{Logger: newGormLogger(&buf)})

	var emp domain.Employee
	err = session.Where("employee_id = ?", "missing").First(&emp).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	// Настоящие ошибки SQL по-прежнему пишутся
	err = session.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}
