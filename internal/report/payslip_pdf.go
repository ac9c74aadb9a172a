// Package report отрисовывает сохранённый расчётный лист в PDF.
// Все суммы берутся из листа как есть, здесь ничего не пересчитывается.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/school-payroll-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Payslip - данные для одного документа
type Payslip struct {
	Slip     domain.SalarySlip
	Employee domain.Employee
	Payment  *domain.Payment
}

// Renderer пишет PDF в поток или в каталог листов
type Renderer struct {
	dir string
}

// NewRenderer создаёт рендерер с каталогом для сохранения файлов
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render пишет документ в w
func (r *Renderer) Render(w io.Writer, p Payslip) error {
	pdf := build(p)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render payslip: %w", err)
	}
	return nil
}

// Save сохраняет документ в каталог и возвращает путь к файлу
func (r *Renderer) Save(p Payslip) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create payslip dir: %w", err)
	}
	filePath := filepath.Join(r.dir, p.Slip.SlipID+".pdf")

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("save payslip: %w", err)
	}
	if err := r.Render(f, p); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("save payslip: %w", err)
	}
	return filePath, nil
}

func build(p Payslip) *gofpdf.Fpdf {
	s := p.Slip
	emp := p.Employee

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Salary Slip "+s.PayPeriod, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Salary Slip", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, domain.FormatPayPeriod(s.PayPeriod), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	info := [][2]string{
		{"Employee ID", emp.EmployeeID},
		{"Name", emp.Name},
		{"Designation", emp.Designation},
		{"Department", emp.Department},
		{"Bank Account", emp.BankAccount},
		{"PF Number", emp.PFNumber},
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	earnings := [][2]string{
		{"Basic Salary", money(s.BasicSalary)},
		{fmt.Sprintf("DA (%s%%)", s.DAPercent.String()), money(s.DAAmount)},
		{fmt.Sprintf("HRA (%s%%)", s.HRAPercent.String()), money(s.HRAAmount)},
		{"Conveyance", money(s.Conveyance)},
		{"Medical", money(s.Medical)},
		{"Other Allowances", money(s.OtherAllowances)},
	}
	deductions := [][2]string{
		{"Provident Fund", money(s.PFDeduction)},
		{"Professional Tax", money(s.ProfessionalTax)},
		{"Income Tax", money(s.IncomeTax)},
		{"Other Deductions", money(s.OtherDeductions)},
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 7, "Earnings", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(60, 7, "Deductions", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i := range max(len(earnings), len(deductions)) {
		var e, d [2]string
		if i < len(earnings) {
			e = earnings[i]
		}
		if i < len(deductions) {
			d = deductions[i]
		}
		pdf.CellFormat(60, 7, e[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, e[1], "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 7, d[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, d[1], "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Gross Salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, money(s.GrossSalary), "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 7, "Total Deductions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, money(s.TotalDeductions), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Net Salary: "+money(s.NetSalary), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if p.Payment != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Paid via %s, transaction %s on %s",
			p.Payment.PaymentMethod, p.Payment.TransactionID, p.Payment.PaidAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 6, "Payment status: Pending", "", 1, "L", false, 0, "")
	}
	if s.IsSuperseded() {
		pdf.CellFormat(0, 6, "Superseded by slip "+*s.SupersededBy, "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Slip %s generated %s UTC", s.SlipID, s.GeneratedAt.UTC().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")

	return pdf
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
