// Package database открывает хранилище расчёта зарплаты и применяет миграции.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/school-payroll-api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Open подключается к хранилищу, выбранному в конфигурации, и накатывает миграции
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		db      *gorm.DB
		dialect string
		err     error
	)

	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, err = gorm.Open(sqlite.Open(cfg.SQLiteDSN()), gormConfig())
		dialect = "sqlite3"
	case config.DriverPostgres:
		db, err = connectPostgres(cfg.DSN)
		dialect = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// SQLite пишет в один файл: одно соединение сериализует транзакции
	if dialect == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Close закрывает пул соединений
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate применяет встроенные миграции goose
func Migrate(db *sql.DB, dialect string) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         newGormLogger(os.Stdout),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// newGormLogger пишет предупреждения и ошибки SQL.
// Промах по ключу - обычный ответ репозитория, а не ошибка.
func newGormLogger(w io.Writer) gormlogger.Interface {
	return gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func connectPostgres(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for range 30 {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			sqlDB, _ := db.DB()
			if err = sqlDB.Ping(); err == nil {
				return db, nil
			}
		}
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after 30 attempts: %w", err)
}
