package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/dto"
	"github.com/school-payroll-api/internal/payroll"
	"github.com/school-payroll-api/internal/report"
	"github.com/school-payroll-api/internal/service"
)

type SlipHandler struct {
	base
	empService     service.EmployeeService
	slipService    service.SlipService
	paymentService service.PaymentService
	renderer       *report.Renderer
}

func NewSlipHandler(
	empService service.EmployeeService,
	slipService service.SlipService,
	paymentService service.PaymentService,
	renderer *report.Renderer,
	logger *slog.Logger,
) *SlipHandler {
	return &SlipHandler{
		base:           newBase(logger),
		empService:     empService,
		slipService:    slipService,
		paymentService: paymentService,
		renderer:       renderer,
	}
}

// Preview считает лист по присланной структуре, ничего не сохраняя
func (h *SlipHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.SalaryStructureRequest
	if !h.decode(w, r, &req) {
		return
	}

	b, totals, err := h.slipService.Preview(req.ToStructure(""))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toCalculationResponse(b, totals))
}

func (h *SlipHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateSlipRequest
	if !h.decode(w, r, &req) {
		return
	}

	slip, err := h.slipService.GenerateForEmployee(r.Context(), chi.URLParam(r, "id"), req.PayPeriod)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toSlipResponse(slip))
}

// History - GET /employees/{id}/slips[?limit=N], новые листы первыми
func (h *SlipHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			h.respondError(w, http.StatusBadRequest, "invalid limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	history, err := h.slipService.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	items := make([]dto.SlipHistoryItem, 0)
	for view, err := range history {
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		items = append(items, toHistoryItem(view))
		if limit > 0 && len(items) == limit {
			break
		}
	}

	h.respondJSON(w, http.StatusOK, items)
}

func (h *SlipHandler) Get(w http.ResponseWriter, r *http.Request) {
	slip, err := h.slipService.GetByID(r.Context(), chi.URLParam(r, "slipID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSlipResponse(slip))
}

func (h *SlipHandler) Supersede(w http.ResponseWriter, r *http.Request) {
	slip, err := h.slipService.Supersede(r.Context(), chi.URLParam(r, "slipID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toSlipResponse(slip))
}

// PDF сохраняет документ в каталог листов и отдаёт его
func (h *SlipHandler) PDF(w http.ResponseWriter, r *http.Request) {
	slip, err := h.slipService.GetByID(r.Context(), chi.URLParam(r, "slipID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	emp, err := h.empService.Get(r.Context(), slip.EmployeeID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	payment, err := h.paymentService.GetBySlip(r.Context(), slip.SlipID)
	if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
		h.handleServiceError(w, err)
		return
	}

	path, err := h.renderer.Save(report.Payslip{Slip: *slip, Employee: *emp, Payment: payment})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

func toCalculationResponse(b payroll.Breakdown, totals payroll.Totals) dto.CalculationResponse {
	return dto.CalculationResponse{
		Earnings:        b.Earnings.Lines(),
		Deductions:      b.Deductions.Lines(),
		GrossSalary:     totals.GrossSalary,
		TotalDeductions: totals.TotalDeductions,
		NetSalary:       totals.NetSalary,
	}
}

// toSlipResponse выводит только сохранённые значения, итоги не пересчитываются
func toSlipResponse(s *domain.SalarySlip) dto.SlipResponse {
	b := payroll.FromSlip(*s)
	return dto.SlipResponse{
		SlipID:       s.SlipID,
		EmployeeID:   s.EmployeeID,
		PayPeriod:    s.PayPeriod,
		PeriodLabel:  domain.FormatPayPeriod(s.PayPeriod),
		DAPercent:    s.DAPercent,
		HRAPercent:   s.HRAPercent,
		SupersededBy: s.SupersededBy,
		GeneratedAt:  s.GeneratedAt,
		CalculationResponse: dto.CalculationResponse{
			Earnings:        b.Earnings.Lines(),
			Deductions:      b.Deductions.Lines(),
			GrossSalary:     s.GrossSalary,
			TotalDeductions: s.TotalDeductions,
			NetSalary:       s.NetSalary,
		},
	}
}

func toHistoryItem(v domain.SlipView) dto.SlipHistoryItem {
	item := dto.SlipHistoryItem{
		SlipResponse:  toSlipResponse(&v.SalarySlip),
		PaymentStatus: string(domain.PaymentStatusPending),
		TransactionID: v.TransactionID,
	}
	if v.IsPaid() {
		item.PaymentStatus = string(domain.PaymentStatusCompleted)
	}
	return item
}
