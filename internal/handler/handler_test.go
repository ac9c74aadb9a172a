package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/school-payroll-api/internal/database/databasetest"
	"github.com/school-payroll-api/internal/dto"
	"github.com/school-payroll-api/internal/handler"
	"github.com/school-payroll-api/internal/report"
	"github.com/school-payroll-api/internal/repository"
	"github.com/school-payroll-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server     *httptest.Server
	payslipDir string
}

func setupTestServer(t *testing.T) *testServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	db := databasetest.Open(t)
	payslipDir := filepath.Join(t.TempDir(), "payslips")

	tx := repository.NewTransactor(db)
	empRepo := repository.NewEmployeeRepository(db)
	structureRepo := repository.NewSalaryStructureRepository(db)
	slipRepo := repository.NewSlipRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	empService := service.NewEmployeeService(empRepo, structureRepo)
	slipService := service.NewSlipService(tx, empRepo, structureRepo, slipRepo, paymentRepo, logger)
	paymentService := service.NewPaymentService(tx, empRepo, slipRepo, paymentRepo, logger)

	router := handler.NewRouter(
		handler.NewEmployeeHandler(empService, logger),
		handler.NewSlipHandler(empService, slipService, paymentService, report.NewRenderer(payslipDir), logger),
		handler.NewPaymentHandler(paymentService, logger),
		logger,
	)

	ts := &testServer{
		server:     httptest.NewServer(router.Setup()),
		payslipDir: payslipDir,
	}
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) url(path string) string {
	return ts.server.URL + path
}

func sendJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(method, url, bytes.NewBuffer(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	return sendJSON(t, http.MethodPost, url, body)
}

func putJSON(t *testing.T, url string, body any) *http.Response {
	return sendJSON(t, http.MethodPut, url, body)
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func fieldNames(e dto.ErrorResponse) []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

var sampleStructure = map[string]any{
	"basic_salary":     45000,
	"da_percent":       15,
	"hra_percent":      20,
	"conveyance":       3000,
	"medical":          2500,
	"other_allowances": 2000,
	"pf_deduction":     5400,
	"professional_tax": 200,
	"income_tax":       3500,
	"other_deductions": 1000,
}

// seedEmployee заводит сотрудника T001 со структурой оклада
func seedEmployee(t *testing.T, ts *testServer) {
	t.Helper()
	resp := postJSON(t, ts.url("/employees"), map[string]any{
		"employee_id":  "T001",
		"name":         "Asha Rao",
		"designation":  "Senior Teacher",
		"department":   "Science",
		"joining_date": "2019-06-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = putJSON(t, ts.url("/employees/T001/salary-structure"), sampleStructure)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func generateSlip(t *testing.T, ts *testServer, period string) dto.SlipResponse {
	t.Helper()
	resp := postJSON(t, ts.url("/employees/T001/slips"), map[string]any{"pay_period": period})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.SlipResponse](t, resp)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := get(t, ts.url("/health"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateEmployee_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.url("/employees"), map[string]any{
		"employee_id":  "T001",
		"name":         "Asha Rao",
		"joining_date": "2019-06-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	emp := decode[dto.EmployeeResponse](t, resp)
	assert.Equal(t, "T001", emp.EmployeeID)
	require.NotNil(t, emp.JoiningDate)
	assert.Equal(t, "2019-06-01", *emp.JoiningDate)
}

func TestCreateEmployee_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.url("/employees"), map[string]any{"joining_date": "01/06/2019"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.ElementsMatch(t, []string{"employee_id", "name", "joining_date"}, fieldNames(body))
}

func TestCreateEmployee_InvalidJSON(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.url("/employees"), "application/json", bytes.NewBufferString("{invalid"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateEmployee_Duplicate(t *testing.T) {
	ts := setupTestServer(t)

	body := map[string]any{"employee_id": "T001", "name": "Asha Rao"}
	require.Equal(t, http.StatusCreated, postJSON(t, ts.url("/employees"), body).StatusCode)
	assert.Equal(t, http.StatusConflict, postJSON(t, ts.url("/employees"), body).StatusCode)
}

func TestUpsertEmployee_PathIDWins(t *testing.T) {
	ts := setupTestServer(t)

	resp := putJSON(t, ts.url("/employees/T002"), map[string]any{"employee_id": "other", "name": "Ravi Kumar"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "T002", decode[dto.EmployeeResponse](t, resp).EmployeeID)

	resp = putJSON(t, ts.url("/employees/T002"), map[string]any{"name": "Ravi K."})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, ts.url("/employees"))
	list := decode[[]dto.EmployeeResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Ravi K.", list[0].Name)
}

func TestGetEmployee_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := get(t, ts.url("/employees/T404"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSalaryStructure_OutOfRange(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)

	bad := map[string]any{"basic_salary": -1, "da_percent": 101, "hra_percent": 20}
	resp := putJSON(t, ts.url("/employees/T001/salary-structure"), bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.ElementsMatch(t, []string{"basic_salary", "da_percent"}, fieldNames(body))

	resp = get(t, ts.url("/employees/T001/salary-structure"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assertMoney(t, "45000", decode[dto.SalaryStructureResponse](t, resp).BasicSalary)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)

	resp := postJSON(t, ts.url("/salary/preview"), sampleStructure)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	calc := decode[dto.CalculationResponse](t, resp)
	assert.Len(t, calc.Earnings, 6)
	assert.Len(t, calc.Deductions, 4)
	assertMoney(t, "68250", calc.GrossSalary)
	assertMoney(t, "10100", calc.TotalDeductions)
	assertMoney(t, "58150", calc.NetSalary)

	history := decode[[]dto.SlipHistoryItem](t, get(t, ts.url("/employees/T001/slips")))
	assert.Empty(t, history)
}

func TestGenerateSlip_InvalidPeriod(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)

	resp := postJSON(t, ts.url("/employees/T001/slips"), map[string]any{"pay_period": "2026-3"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"pay_period"}, fieldNames(decode[dto.ErrorResponse](t, resp)))
}

func TestGenerateSlip_UnknownEmployee(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.url("/employees/T404/slips"), map[string]any{"pay_period": "2026-03"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecordPayment_MissingChequeFields(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)
	slip := generateSlip(t, ts, "2026-03")

	resp := postJSON(t, ts.url("/slips/"+slip.SlipID+"/payments"), map[string]any{
		"payment_method":  "Cheque",
		"payment_details": map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"cheque_number", "bank_name", "branch"}, fieldNames(decode[dto.ErrorResponse](t, resp)))

	assert.Equal(t, http.StatusNotFound, get(t, ts.url("/slips/"+slip.SlipID+"/payment")).StatusCode)
}

func TestRecordPayment_UnknownSlip(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.url("/slips/missing/payments"), map[string]any{
		"payment_method":  "UPI",
		"payment_details": map[string]any{"upi_id": "asha@upi"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSupersede_PaidSlipConflict(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)
	slip := generateSlip(t, ts, "2026-03")

	resp := postJSON(t, ts.url("/slips/"+slip.SlipID+"/payments"), map[string]any{
		"payment_method":  "Google Pay",
		"payment_details": map[string]any{"phone_number": "9876543210"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, ts.url("/slips/"+slip.SlipID+"/supersede"), map[string]any{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSupersede_ThenPayOldSlipConflict(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)
	old := generateSlip(t, ts, "2026-03")

	resp := postJSON(t, ts.url("/slips/"+old.SlipID+"/supersede"), map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	replacement := decode[dto.SlipResponse](t, resp)
	assert.NotEqual(t, old.SlipID, replacement.SlipID)

	resp = get(t, ts.url("/slips/"+old.SlipID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decode[dto.SlipResponse](t, resp)
	require.NotNil(t, stored.SupersededBy)
	assert.Equal(t, replacement.SlipID, *stored.SupersededBy)

	resp = postJSON(t, ts.url("/slips/"+old.SlipID+"/payments"), map[string]any{
		"payment_method":  "UPI",
		"payment_details": map[string]any{"upi_id": "asha@upi"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSlipPDF(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)
	slip := generateSlip(t, ts, "2026-03")

	resp := get(t, ts.url("/slips/"+slip.SlipID+"/pdf"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = os.Stat(filepath.Join(ts.payslipDir, slip.SlipID+".pdf"))
	assert.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(t, ts.url("/slips/missing/pdf")).StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.url("/employees/T001"), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestFullWorkflow(t *testing.T) {
	ts := setupTestServer(t)
	seedEmployee(t, ts)

	march := generateSlip(t, ts, "2026-03")
	assert.Equal(t, "March 2026", march.PeriodLabel)
	assertMoney(t, "58150", march.NetSalary)
	april := generateSlip(t, ts, "2026-04")

	// Оплата: сумма берётся из листа, а не из реквизитов
	resp := postJSON(t, ts.url("/slips/"+march.SlipID+"/payments"), map[string]any{
		"payment_method": "Cash",
		"payment_details": map[string]any{
			"amount":        10,
			"receiver_name": "Asha Rao",
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	receipt := decode[dto.ReceiptResponse](t, resp)
	assertMoney(t, "58150", receipt.Amount)
	assert.Equal(t, "Asha Rao", receipt.Employee.Name)
	assert.NotEmpty(t, receipt.TransactionID)

	// Повторная оплата того же листа
	resp = postJSON(t, ts.url("/slips/"+march.SlipID+"/payments"), map[string]any{
		"payment_method":  "UPI",
		"payment_details": map[string]any{"upi_id": "asha@upi"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = get(t, ts.url("/slips/"+march.SlipID+"/payment"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payment := decode[dto.PaymentResponse](t, resp)
	assert.Equal(t, "Completed", payment.Status)
	assert.Equal(t, receipt.TransactionID, payment.TransactionID)

	resp = get(t, ts.url("/employees/T001/slips"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]dto.SlipHistoryItem](t, resp)
	require.Len(t, history, 2)
	assert.Equal(t, april.SlipID, history[0].SlipID)
	assert.Equal(t, "Pending", history[0].PaymentStatus)
	assert.Equal(t, march.SlipID, history[1].SlipID)
	assert.Equal(t, "Completed", history[1].PaymentStatus)
	require.NotNil(t, history[1].TransactionID)
	assert.Equal(t, receipt.TransactionID, *history[1].TransactionID)

	resp = get(t, ts.url("/employees/T001/slips?limit=1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.SlipHistoryItem](t, resp), 1)

	assert.Equal(t, http.StatusBadRequest, get(t, ts.url("/employees/T001/slips?limit=0")).StatusCode)
}
