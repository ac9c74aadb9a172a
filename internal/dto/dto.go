package dto

import (
	"time"

	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/payroll"
	"github.com/shopspring/decimal"
)

// EmployeeRequest - запрос на создание или замену сотрудника
type EmployeeRequest struct {
	EmployeeID  string  `json:"employee_id" validate:"required,max=50"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Designation string  `json:"designation" validate:"max=200"`
	Department  string  `json:"department" validate:"max=200"`
	JoiningDate *string `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
	BankAccount string  `json:"bank_account" validate:"max=50"`
	PFNumber    string  `json:"pf_number" validate:"max=50"`
}

// SalaryStructureRequest - структура оклада; границы проверяет payroll.Validate
type SalaryStructureRequest struct {
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	DAPercent       decimal.Decimal `json:"da_percent"`
	HRAPercent      decimal.Decimal `json:"hra_percent"`
	Conveyance      decimal.Decimal `json:"conveyance"`
	Medical         decimal.Decimal `json:"medical"`
	OtherAllowances decimal.Decimal `json:"other_allowances"`
	PFDeduction     decimal.Decimal `json:"pf_deduction"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
}

// GenerateSlipRequest - запрос на генерацию листа за период
type GenerateSlipRequest struct {
	PayPeriod string `json:"pay_period" validate:"required,datetime=2006-01"`
}

// RecordPaymentRequest - запрос на проведение выплаты
type RecordPaymentRequest struct {
	PaymentMethod  string         `json:"payment_method" validate:"required"`
	PaymentDetails map[string]any `json:"payment_details"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	EmployeeID  string    `json:"employee_id"`
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	Department  string    `json:"department"`
	JoiningDate *string   `json:"joining_date,omitempty"`
	BankAccount string    `json:"bank_account"`
	PFNumber    string    `json:"pf_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SalaryStructureResponse - действующая структура оклада
type SalaryStructureResponse struct {
	EmployeeID string `json:"employee_id"`
	SalaryStructureRequest
	UpdatedAt time.Time `json:"updated_at"`
}

// CalculationResponse - предварительный расчёт без сохранения
type CalculationResponse struct {
	Earnings        []payroll.Line  `json:"earnings"`
	Deductions      []payroll.Line  `json:"deductions"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

// SlipResponse - сохранённый расчётный лист
type SlipResponse struct {
	SlipID       string          `json:"slip_id"`
	EmployeeID   string          `json:"employee_id"`
	PayPeriod    string          `json:"pay_period"`
	PeriodLabel  string          `json:"period_label"`
	DAPercent    decimal.Decimal `json:"da_percent"`
	HRAPercent   decimal.Decimal `json:"hra_percent"`
	SupersededBy *string         `json:"superseded_by,omitempty"`
	GeneratedAt  time.Time       `json:"generated_at"`
	CalculationResponse
}

// SlipHistoryItem - строка истории листов со статусом выплаты
type SlipHistoryItem struct {
	SlipResponse
	PaymentStatus string  `json:"payment_status"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// PaymentResponse - проведённая выплата
type PaymentResponse struct {
	PaymentID      string          `json:"payment_id"`
	SlipID         string          `json:"slip_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	TransactionID  string          `json:"transaction_id"`
	PaymentDetails map[string]any  `json:"payment_details"`
	Status         string          `json:"status"`
	PaidAt         time.Time       `json:"paid_at"`
}

// ReceiptResponse - подтверждение выплаты
type ReceiptResponse struct {
	TransactionID string           `json:"transaction_id"`
	PaymentID     string           `json:"payment_id"`
	SlipID        string           `json:"slip_id"`
	Amount        decimal.Decimal  `json:"amount"`
	PaymentMethod string           `json:"payment_method"`
	PayPeriod     string           `json:"pay_period"`
	Employee      EmployeeResponse `json:"employee"`
	PaidAt        time.Time        `json:"paid_at"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// ToStructure переводит запрос в доменную структуру оклада
func (r SalaryStructureRequest) ToStructure(employeeID string) domain.SalaryStructure {
	return domain.SalaryStructure{
		EmployeeID:      employeeID,
		BasicSalary:     r.BasicSalary,
		DAPercent:       r.DAPercent,
		HRAPercent:      r.HRAPercent,
		Conveyance:      r.Conveyance,
		Medical:         r.Medical,
		OtherAllowances: r.OtherAllowances,
		PFDeduction:     r.PFDeduction,
		ProfessionalTax: r.ProfessionalTax,
		IncomeTax:       r.IncomeTax,
		OtherDeductions: r.OtherDeductions,
	}
}
