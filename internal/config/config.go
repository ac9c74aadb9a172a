package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config содержит настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Payslip  PayslipConfig
	LogLevel slog.Level
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port string
}

// DatabaseConfig - настройки хранилища.
// По умолчанию это локальный файл SQLite, единственная обязательная настройка.
type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
}

// PayslipConfig - куда складывать PDF расчётных листов
type PayslipConfig struct {
	Dir string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLiteDSN возвращает строку подключения к файлу с включёнными внешними ключами
func (c *DatabaseConfig) SQLiteDSN() string {
	return "file:" + c.Path + "?_foreign_keys=on&_busy_timeout=5000"
}

// Load загружает конфигурацию из .env и переменных окружения
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:   getEnv("DB_PATH", "payroll.db"),
			DSN:    getEnv("DB_DSN", ""),
		},
		Payslip: PayslipConfig{
			Dir: getEnv("PAYSLIP_DIR", "storage/payslips"),
		},
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
