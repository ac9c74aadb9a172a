// Package payroll содержит чистые вычисления: разложение структуры оклада
// на начисления и удержания и подсчёт итогов.
package payroll

import (
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/validation"
	"github.com/shopspring/decimal"
)

// MoneyPlaces - точность всех денежных значений
const MoneyPlaces = 2

var (
	hundred   = decimal.NewFromInt(100)
	validator = validation.New()
)

// Коды строк расчётного листа
const (
	LineBasic           = "basic"
	LineDA              = "da"
	LineHRA             = "hra"
	LineConveyance      = "conveyance"
	LineMedical         = "medical"
	LineOtherAllowances = "other_allowances"
	LinePF              = "pf"
	LineProfessionalTax = "professional_tax"
	LineIncomeTax       = "income_tax"
	LineOtherDeductions = "other_deductions"
)

// Line - одна строка начислений или удержаний
type Line struct {
	Code   string          `json:"code"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Earnings - детализация начислений
type Earnings struct {
	Basic           decimal.Decimal `json:"basic"`
	DA              decimal.Decimal `json:"da"`
	HRA             decimal.Decimal `json:"hra"`
	Conveyance      decimal.Decimal `json:"conveyance"`
	Medical         decimal.Decimal `json:"medical"`
	OtherAllowances decimal.Decimal `json:"other_allowances"`
}

// Lines возвращает начисления в порядке вывода в листе
func (e Earnings) Lines() []Line {
	return []Line{
		{Code: LineBasic, Label: "Basic Salary", Amount: e.Basic},
		{Code: LineDA, Label: "Dearness Allowance", Amount: e.DA},
		{Code: LineHRA, Label: "House Rent Allowance", Amount: e.HRA},
		{Code: LineConveyance, Label: "Conveyance", Amount: e.Conveyance},
		{Code: LineMedical, Label: "Medical", Amount: e.Medical},
		{Code: LineOtherAllowances, Label: "Other Allowances", Amount: e.OtherAllowances},
	}
}

// Deductions - детализация удержаний
type Deductions struct {
	PF              decimal.Decimal `json:"pf"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	Other           decimal.Decimal `json:"other_deductions"`
}

// Lines возвращает удержания в порядке вывода в листе
func (d Deductions) Lines() []Line {
	return []Line{
		{Code: LinePF, Label: "Provident Fund", Amount: d.PF},
		{Code: LineProfessionalTax, Label: "Professional Tax", Amount: d.ProfessionalTax},
		{Code: LineIncomeTax, Label: "Income Tax", Amount: d.IncomeTax},
		{Code: LineOtherDeductions, Label: "Other Deductions", Amount: d.Other},
	}
}

// Breakdown - полностью разложенный расчёт за период
type Breakdown struct {
	DAPercent  decimal.Decimal `json:"da_percent"`
	HRAPercent decimal.Decimal `json:"hra_percent"`
	Earnings   Earnings        `json:"earnings"`
	Deductions Deductions      `json:"deductions"`
}

// Resolve раскладывает структуру оклада на строки начислений и удержаний.
// Процентные надбавки округляются до копеек один раз, здесь.
func Resolve(s domain.SalaryStructure) (Breakdown, error) {
	if err := Validate(s); err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		DAPercent:  s.DAPercent,
		HRAPercent: s.HRAPercent,
		Earnings: Earnings{
			Basic:           s.BasicSalary,
			DA:              percentOf(s.BasicSalary, s.DAPercent),
			HRA:             percentOf(s.BasicSalary, s.HRAPercent),
			Conveyance:      s.Conveyance,
			Medical:         s.Medical,
			OtherAllowances: s.OtherAllowances,
		},
		Deductions: Deductions{
			PF:              s.PFDeduction,
			ProfessionalTax: s.ProfessionalTax,
			IncomeTax:       s.IncomeTax,
			Other:           s.OtherDeductions,
		},
	}, nil
}

// Validate проверяет границы структуры оклада
func Validate(s domain.SalaryStructure) error {
	if err := validation.Struct(validator, s); err != nil {
		return err
	}

	// Денежные значения хранятся с фиксированной точностью
	var fields []domain.FieldError
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"basic_salary", s.BasicSalary},
		{"da_percent", s.DAPercent},
		{"hra_percent", s.HRAPercent},
		{"conveyance", s.Conveyance},
		{"medical", s.Medical},
		{"other_allowances", s.OtherAllowances},
		{"pf_deduction", s.PFDeduction},
		{"professional_tax", s.ProfessionalTax},
		{"income_tax", s.IncomeTax},
		{"other_deductions", s.OtherDeductions},
	} {
		if !f.value.Equal(f.value.Round(MoneyPlaces)) {
			fields = append(fields, domain.FieldError{
				Field:   f.name,
				Message: "must have at most 2 decimal places",
			})
		}
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred).Round(MoneyPlaces)
}

// ValidateBreakdown проверяет строки, пришедшие не из Resolve.
// Надбавки DA и HRA должны совпадать с процентом от оклада, округлённым до копеек.
func ValidateBreakdown(b Breakdown) error {
	var fields []domain.FieldError
	lines := append(b.Earnings.Lines(), b.Deductions.Lines()...)
	for _, l := range lines {
		switch {
		case l.Amount.IsNegative():
			fields = append(fields, domain.FieldError{Field: l.Code, Message: "must be greater than or equal to 0"})
		case !l.Amount.Equal(l.Amount.Round(MoneyPlaces)):
			fields = append(fields, domain.FieldError{Field: l.Code, Message: "must have at most 2 decimal places"})
		}
	}

	for _, p := range []struct {
		name    string
		code    string
		percent decimal.Decimal
		amount  decimal.Decimal
	}{
		{"da_percent", LineDA, b.DAPercent, b.Earnings.DA},
		{"hra_percent", LineHRA, b.HRAPercent, b.Earnings.HRA},
	} {
		switch {
		case p.percent.IsNegative() || p.percent.GreaterThan(hundred):
			fields = append(fields, domain.FieldError{Field: p.name, Message: "must be between 0 and 100"})
		case !p.amount.Equal(percentOf(b.Earnings.Basic, p.percent)):
			fields = append(fields, domain.FieldError{Field: p.code, Message: "does not match " + p.name + " of basic salary"})
		}
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// FromSlip восстанавливает разложение из сохранённого листа для вывода
func FromSlip(s domain.SalarySlip) Breakdown {
	return Breakdown{
		DAPercent:  s.DAPercent,
		HRAPercent: s.HRAPercent,
		Earnings: Earnings{
			Basic:           s.BasicSalary,
			DA:              s.DAAmount,
			HRA:             s.HRAAmount,
			Conveyance:      s.Conveyance,
			Medical:         s.Medical,
			OtherAllowances: s.OtherAllowances,
		},
		Deductions: Deductions{
			PF:              s.PFDeduction,
			ProfessionalTax: s.ProfessionalTax,
			IncomeTax:       s.IncomeTax,
			Other:           s.OtherDeductions,
		},
	}
}
