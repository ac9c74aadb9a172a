package domain

import (
	"fmt"
	"time"
)

// PayPeriodLayout - формат токена периода: год и месяц
const PayPeriodLayout = "2006-01"

// ParsePayPeriod проверяет токен периода вида YYYY-MM
func ParsePayPeriod(s string) (time.Time, error) {
	t, err := time.Parse(PayPeriodLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError(FieldError{
			Field:   "pay_period",
			Message: fmt.Sprintf("must be a month in %s format", "YYYY-MM"),
		})
	}
	return t, nil
}

// FormatPayPeriod возвращает читаемое название периода, например "March 2026"
func FormatPayPeriod(s string) string {
	t, err := time.Parse(PayPeriodLayout, s)
	if err != nil {
		return s
	}
	return t.Format("January 2006")
}
