package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/school-payroll-api/internal/config"
	"github.com/school-payroll-api/internal/database"
	"github.com/school-payroll-api/internal/handler"
	"github.com/school-payroll-api/internal/report"
	"github.com/school-payroll-api/internal/repository"
	"github.com/school-payroll-api/internal/service"
)

func main() {
	// Загрузка конфигурации
	cfg := config.Load()

	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Подключение к БД и миграции
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", slog.String("driver", cfg.Database.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Инициализация репозиториев
	tx := repository.NewTransactor(db)
	empRepo := repository.NewEmployeeRepository(db)
	structureRepo := repository.NewSalaryStructureRepository(db)
	slipRepo := repository.NewSlipRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Инициализация сервисов
	empService := service.NewEmployeeService(empRepo, structureRepo)
	slipService := service.NewSlipService(tx, empRepo, structureRepo, slipRepo, paymentRepo, logger)
	paymentService := service.NewPaymentService(tx, empRepo, slipRepo, paymentRepo, logger)

	// Инициализация хендлеров
	empHandler := handler.NewEmployeeHandler(empService, logger)
	slipHandler := handler.NewSlipHandler(empService, slipService, paymentService, report.NewRenderer(cfg.Payslip.Dir), logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	// Настройка роутера
	router := handler.NewRouter(empHandler, slipHandler, paymentHandler, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting",
		slog.String("port", cfg.Server.Port),
		slog.String("db_driver", cfg.Database.Driver),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
