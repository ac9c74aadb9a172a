package payroll

import "github.com/shopspring/decimal"

// Totals - итоговые суммы расчётного листа
type Totals struct {
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

// Calculate суммирует строки в итоги. Чистая сумма может быть отрицательной:
// решение о допустимости принимает вызывающая сторона.
func Calculate(earnings, deductions []Line) Totals {
	gross := sum(earnings)
	total := sum(deductions)

	return Totals{
		GrossSalary:     gross,
		TotalDeductions: total,
		NetSalary:       gross.Sub(total),
	}
}

// CalculateBreakdown - Calculate для уже разложенной структуры
func CalculateBreakdown(b Breakdown) Totals {
	return Calculate(b.Earnings.Lines(), b.Deductions.Lines())
}

// Equal сообщает, совпадают ли итоги до копейки
func (t Totals) Equal(other Totals) bool {
	return t.GrossSalary.Equal(other.GrossSalary) &&
		t.TotalDeductions.Equal(other.TotalDeductions) &&
		t.NetSalary.Equal(other.NetSalary)
}

func sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
