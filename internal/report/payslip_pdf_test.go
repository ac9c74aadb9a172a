package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/school-payroll-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayslip() Payslip {
	d := decimal.RequireFromString
	superseded := "b7c1f9e0-0000-4000-8000-000000000002"

	return Payslip{
		Slip: domain.SalarySlip{
			SlipID:          "b7c1f9e0-0000-4000-8000-000000000001",
			EmployeeID:      "EMP001",
			PayPeriod:       "2026-03",
			BasicSalary:     d("45000"),
			DAPercent:       d("15"),
			HRAPercent:      d("20"),
			DAAmount:        d("6750"),
			HRAAmount:       d("9000"),
			Conveyance:      d("3000"),
			Medical:         d("2500"),
			OtherAllowances: d("2000"),
			PFDeduction:     d("5400"),
			ProfessionalTax: d("200"),
			IncomeTax:       d("4000"),
			OtherDeductions: d("500"),
			GrossSalary:     d("68250"),
			TotalDeductions: d("10100"),
			NetSalary:       d("58150"),
			SupersededBy:    &superseded,
			GeneratedAt:     time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC),
		},
		Employee: domain.Employee{
			EmployeeID:  "EMP001",
			Name:        "Asha Rao",
			Designation: "Senior Teacher",
			Department:  "Science",
		},
	}
}

func TestRender_WritesPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(t.TempDir()).Render(&buf, samplePayslip()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestRender_WithPayment(t *testing.T) {
	p := samplePayslip()
	p.Slip.SupersededBy = nil
	p.Payment = &domain.Payment{
		PaymentID:     "p-1",
		SlipID:        p.Slip.SlipID,
		Amount:        p.Slip.NetSalary,
		PaymentMethod: domain.PaymentMethodUPI,
		TransactionID: "TXN20260331100000-000001",
		Status:        domain.PaymentStatusCompleted,
		PaidAt:        time.Date(2026, 3, 31, 11, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(t.TempDir()).Render(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSave_CreatesFileNamedBySlip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "payslips")
	p := samplePayslip()

	path, err := NewRenderer(dir).Save(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, p.Slip.SlipID+".pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"58150", "58150.00"},
		{"6750.5", "6750.50"},
		{"0", "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, money(decimal.RequireFromString(tt.in)))
	}
}
