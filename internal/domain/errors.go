package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Классы ошибок ядра расчёта зарплаты
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrAlreadyPaid  = errors.New("salary slip already paid")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrStorage      = errors.New("storage failure")
)

// Конкретные бизнес-ошибки
var (
	ErrEmployeeNotFound        = fmt.Errorf("employee %w", ErrNotFound)
	ErrSalaryStructureNotFound = fmt.Errorf("salary structure %w", ErrNotFound)
	ErrSlipNotFound            = fmt.Errorf("salary slip %w", ErrNotFound)
	ErrPaymentNotFound         = fmt.Errorf("payment %w", ErrNotFound)
	ErrDuplicateEmployee       = fmt.Errorf("employee id already exists: %w", ErrDuplicateKey)
	ErrDuplicateTransaction    = fmt.Errorf("transaction id already exists: %w", ErrDuplicateKey)
	ErrSlipSuperseded          = fmt.Errorf("salary slip was superseded by a newer slip: %w", ErrValidation)
	ErrNegativeNetSalary       = fmt.Errorf("deductions exceed gross salary: %w", ErrValidation)
)

// FieldError описывает одно нарушенное поле
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError перечисляет все поля, не прошедшие проверку
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError собирает ошибку валидации из пар поле/сообщение
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// MissingFields строит ошибку для отсутствующих обязательных полей
func MissingFields(names ...string) *ValidationError {
	fields := make([]FieldError, 0, len(names))
	for _, name := range names {
		fields = append(fields, FieldError{Field: name, Message: "is required"})
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is позволяет проверять errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldNames возвращает имена полей в порядке обнаружения
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// StorageError оборачивает сбой слоя хранения
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
