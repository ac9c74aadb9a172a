package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Employee представляет сотрудника школы
type Employee struct {
	EmployeeID  string     `json:"employee_id" gorm:"primaryKey;type:varchar(50)" validate:"required,max=50"`
	Name        string     `json:"name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Designation string     `json:"designation" gorm:"type:varchar(200)" validate:"max=200"`
	Department  string     `json:"department" gorm:"type:varchar(200)" validate:"max=200"`
	JoiningDate *time.Time `json:"joining_date" gorm:"type:date"`
	BankAccount string     `json:"bank_account" gorm:"type:varchar(50)" validate:"max=50"`
	PFNumber    string     `json:"pf_number" gorm:"column:pf_number;type:varchar(50)" validate:"max=50"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// SalaryStructure - настройка, по которой считается расчётный лист
type SalaryStructure struct {
	EmployeeID      string          `json:"employee_id" gorm:"primaryKey;type:varchar(50)"`
	BasicSalary     decimal.Decimal `json:"basic_salary" gorm:"type:numeric(12,2);not null" validate:"gte=0"`
	DAPercent       decimal.Decimal `json:"da_percent" gorm:"column:da_percent;type:numeric(5,2);not null" validate:"gte=0,lte=100"`
	HRAPercent      decimal.Decimal `json:"hra_percent" gorm:"column:hra_percent;type:numeric(5,2);not null" validate:"gte=0,lte=100"`
	Conveyance      decimal.Decimal `json:"conveyance" gorm:"type:numeric(12,2);not null" validate:"gte=0"`
	Medical         decimal.Decimal `json:"medical" gorm:"type:numeric(12,2);not null" validate:"gte=0"`
	OtherAllowances decimal.Decimal `json:"other_allowances" gorm:"type:numeric(12,2);not null" validate:"gte=0"`
	PFDeduction     decimal.Decimal `json:"pf_deduction" gorm:"column:pf_deduction;type:numeric(12,2);not null" validate:"gte=0"`
	ProfessionalTax decimal.Decimal `json:"professional_tax" gorm:"type:numeric(12,2);not null" validate:"gte=0"`
	IncomeTax       decimal.Decimal `json:"income_tax" gorm:"type:numeric(12,2);not null" validate:"gte=0"`
	OtherDeductions decimal.Decimal `json:"other_deductions" gorm:"type:numeric(12,2);not null" validate:"gte=0"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName задаёт имя таблицы для GORM
func (SalaryStructure) TableName() string {
	return "salary_structures"
}

// SalarySlip - неизменяемый снимок расчёта за один период
type SalarySlip struct {
	SlipID     string `json:"slip_id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID string `json:"employee_id" gorm:"type:varchar(50);not null;index"`
	PayPeriod  string `json:"pay_period" gorm:"type:varchar(7);not null"`

	// Начисления
	BasicSalary     decimal.Decimal `json:"basic_salary" gorm:"type:numeric(12,2);not null"`
	DAPercent       decimal.Decimal `json:"da_percent" gorm:"column:da_percent;type:numeric(5,2);not null"`
	HRAPercent      decimal.Decimal `json:"hra_percent" gorm:"column:hra_percent;type:numeric(5,2);not null"`
	DAAmount        decimal.Decimal `json:"da_amount" gorm:"column:da_amount;type:numeric(12,2);not null"`
	HRAAmount       decimal.Decimal `json:"hra_amount" gorm:"column:hra_amount;type:numeric(12,2);not null"`
	Conveyance      decimal.Decimal `json:"conveyance" gorm:"type:numeric(12,2);not null"`
	Medical         decimal.Decimal `json:"medical" gorm:"type:numeric(12,2);not null"`
	OtherAllowances decimal.Decimal `json:"other_allowances" gorm:"type:numeric(12,2);not null"`

	// Удержания
	PFDeduction     decimal.Decimal `json:"pf_deduction" gorm:"column:pf_deduction;type:numeric(12,2);not null"`
	ProfessionalTax decimal.Decimal `json:"professional_tax" gorm:"type:numeric(12,2);not null"`
	IncomeTax       decimal.Decimal `json:"income_tax" gorm:"type:numeric(12,2);not null"`
	OtherDeductions decimal.Decimal `json:"other_deductions" gorm:"type:numeric(12,2);not null"`

	GrossSalary     decimal.Decimal `json:"gross_salary" gorm:"type:numeric(12,2);not null"`
	TotalDeductions decimal.Decimal `json:"total_deductions" gorm:"type:numeric(12,2);not null"`
	NetSalary       decimal.Decimal `json:"net_salary" gorm:"type:numeric(12,2);not null"`

	SupersededBy *string   `json:"superseded_by,omitempty" gorm:"type:varchar(36)"`
	GeneratedAt  time.Time `json:"generated_at" gorm:"not null"`
}

// TableName задаёт имя таблицы для GORM
func (SalarySlip) TableName() string {
	return "salary_slips"
}

// IsSuperseded сообщает, заменён ли лист более новым
func (s *SalarySlip) IsSuperseded() bool {
	return s.SupersededBy != nil && *s.SupersededBy != ""
}

// PaymentMethod - закрытый набор способов выплаты
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodCheque       PaymentMethod = "Cheque"
	PaymentMethodCard         PaymentMethod = "Card"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodGooglePay    PaymentMethod = "Google Pay"
	PaymentMethodPhonePay     PaymentMethod = "Phone Pay"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
)

// PaymentStatus - статус выплаты, переходы только Pending -> Completed
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
)

// Payment - транзакция выплаты по расчётному листу
type Payment struct {
	PaymentID      string            `json:"payment_id" gorm:"primaryKey;type:varchar(36)"`
	SlipID         string            `json:"slip_id" gorm:"type:varchar(36);not null"`
	Amount         decimal.Decimal   `json:"amount" gorm:"type:numeric(12,2);not null"`
	PaymentMethod  PaymentMethod     `json:"payment_method" gorm:"type:varchar(20);not null"`
	TransactionID  string            `json:"transaction_id" gorm:"type:varchar(40);not null;uniqueIndex"`
	PaymentDetails datatypes.JSONMap `json:"payment_details" gorm:"type:text"`
	Status         PaymentStatus     `json:"status" gorm:"type:varchar(10);not null"`
	PaidAt         time.Time         `json:"paid_at" gorm:"not null"`
}

// TableName задаёт имя таблицы для GORM
func (Payment) TableName() string {
	return "payments"
}

// SlipView - строка истории: лист вместе со статусом выплаты
type SlipView struct {
	SalarySlip
	PaymentStatus *string `json:"payment_status,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// IsPaid сообщает, есть ли у листа завершённая выплата
func (v *SlipView) IsPaid() bool {
	return v.PaymentStatus != nil && PaymentStatus(*v.PaymentStatus) == PaymentStatusCompleted
}

// Receipt - подтверждение успешной выплаты для вызывающей стороны
type Receipt struct {
	TransactionID string          `json:"transaction_id"`
	PaymentID     string          `json:"payment_id"`
	SlipID        string          `json:"slip_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Employee      Employee        `json:"employee"`
	PayPeriod     string          `json:"pay_period"`
	PaidAt        time.Time       `json:"paid_at"`
}
