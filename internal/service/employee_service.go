package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/payroll"
	"github.com/school-payroll-api/internal/repository"
	"github.com/school-payroll-api/internal/validation"
)

// EmployeeService - справочник сотрудников и их структур оклада
type EmployeeService interface {
	Create(ctx context.Context, emp domain.Employee) (*domain.Employee, error)
	Upsert(ctx context.Context, emp domain.Employee) (*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	SaveStructure(ctx context.Context, s domain.SalaryStructure) (*domain.SalaryStructure, error)
	GetStructure(ctx context.Context, employeeID string) (*domain.SalaryStructure, error)
}

type employeeService struct {
	empRepo       repository.EmployeeRepository
	structureRepo repository.SalaryStructureRepository
	validator     *validator.Validate
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, structureRepo repository.SalaryStructureRepository) EmployeeService {
	return &employeeService{
		empRepo:       empRepo,
		structureRepo: structureRepo,
		validator:     validation.New(),
	}
}

// Create добавляет нового сотрудника; занятый employee_id - ошибка
func (s *employeeService) Create(ctx context.Context, emp domain.Employee) (*domain.Employee, error) {
	emp = normalizeEmployee(emp)
	if err := validation.Struct(s.validator, emp); err != nil {
		return nil, err
	}

	if err := s.empRepo.Create(ctx, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// Upsert вставляет или заменяет сотрудника; повторная запись не ошибка
func (s *employeeService) Upsert(ctx context.Context, emp domain.Employee) (*domain.Employee, error) {
	emp = normalizeEmployee(emp)
	if err := validation.Struct(s.validator, emp); err != nil {
		return nil, err
	}

	if err := s.empRepo.Upsert(ctx, &emp); err != nil {
		return nil, err
	}

	// Перечитываем, чтобы вернуть сохранённый created_at
	return s.empRepo.GetByID(ctx, emp.EmployeeID)
}

// Get возвращает сотрудника или domain.ErrEmployeeNotFound без побочных эффектов
func (s *employeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.empRepo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *employeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.empRepo.List(ctx)
}

// SaveStructure заменяет действующую структуру оклада сотрудника
func (s *employeeService) SaveStructure(ctx context.Context, structure domain.SalaryStructure) (*domain.SalaryStructure, error) {
	if err := payroll.Validate(structure); err != nil {
		return nil, err
	}

	// Проверяем существование сотрудника
	if _, err := s.empRepo.GetByID(ctx, structure.EmployeeID); err != nil {
		return nil, err
	}

	if err := s.structureRepo.Upsert(ctx, &structure); err != nil {
		return nil, err
	}
	return &structure, nil
}

func (s *employeeService) GetStructure(ctx context.Context, employeeID string) (*domain.SalaryStructure, error) {
	if _, err := s.empRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.structureRepo.GetByEmployeeID(ctx, employeeID)
}

func normalizeEmployee(emp domain.Employee) domain.Employee {
	emp.EmployeeID = strings.TrimSpace(emp.EmployeeID)
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Designation = strings.TrimSpace(emp.Designation)
	emp.Department = strings.TrimSpace(emp.Department)
	emp.BankAccount = strings.TrimSpace(emp.BankAccount)
	emp.PFNumber = strings.TrimSpace(emp.PFNumber)
	return emp
}
