package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/dto"
	"github.com/school-payroll-api/internal/service"
)

type EmployeeHandler struct {
	base
	empService service.EmployeeService
}

func NewEmployeeHandler(empService service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		base:       newBase(logger),
		empService: empService,
	}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.empService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = toEmployeeResponse(&employees[i])
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.EmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Create(r.Context(), toEmployee(req))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.empService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

// Upsert - PUT /employees/{id}, id берётся из пути
func (h *EmployeeHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.EmployeeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")
	if !h.check(w, &req) {
		return
	}

	emp, err := h.empService.Upsert(r.Context(), toEmployee(req))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	structure, err := h.empService.GetStructure(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toStructureResponse(structure))
}

func (h *EmployeeHandler) SaveStructure(w http.ResponseWriter, r *http.Request) {
	var req dto.SalaryStructureRequest
	if !h.decode(w, r, &req) {
		return
	}

	structure, err := h.empService.SaveStructure(r.Context(), req.ToStructure(chi.URLParam(r, "id")))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toStructureResponse(structure))
}

// toEmployee: дата приёма уже проверена тегом datetime
func toEmployee(req dto.EmployeeRequest) domain.Employee {
	emp := domain.Employee{
		EmployeeID:  req.EmployeeID,
		Name:        req.Name,
		Designation: req.Designation,
		Department:  req.Department,
		BankAccount: req.BankAccount,
		PFNumber:    req.PFNumber,
	}
	if req.JoiningDate != nil {
		if joined, err := time.Parse(time.DateOnly, *req.JoiningDate); err == nil {
			emp.JoiningDate = &joined
		}
	}
	return emp
}

func toEmployeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		EmployeeID:  emp.EmployeeID,
		Name:        emp.Name,
		Designation: emp.Designation,
		Department:  emp.Department,
		BankAccount: emp.BankAccount,
		PFNumber:    emp.PFNumber,
		CreatedAt:   emp.CreatedAt,
		UpdatedAt:   emp.UpdatedAt,
	}

	if emp.JoiningDate != nil {
		joined := emp.JoiningDate.Format(time.DateOnly)
		resp.JoiningDate = &joined
	}

	return resp
}

func toStructureResponse(s *domain.SalaryStructure) dto.SalaryStructureResponse {
	return dto.SalaryStructureResponse{
		EmployeeID: s.EmployeeID,
		SalaryStructureRequest: dto.SalaryStructureRequest{
			BasicSalary:     s.BasicSalary,
			DAPercent:       s.DAPercent,
			HRAPercent:      s.HRAPercent,
			Conveyance:      s.Conveyance,
			Medical:         s.Medical,
			OtherAllowances: s.OtherAllowances,
			PFDeduction:     s.PFDeduction,
			ProfessionalTax: s.ProfessionalTax,
			IncomeTax:       s.IncomeTax,
			OtherDeductions: s.OtherDeductions,
		},
		UpdatedAt: s.UpdatedAt,
	}
}
