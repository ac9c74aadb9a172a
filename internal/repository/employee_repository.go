package repository

import (
	"context"

	"github.com/school-payroll-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	Upsert(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	err := conn(ctx, r.db).Create(emp).Error
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateEmployee
		}
		return domain.StorageError("create employee", err)
	}
	return nil
}

// Upsert вставляет сотрудника или полностью заменяет запись с тем же employee_id
func (r *employeeRepository) Upsert(ctx context.Context, emp *domain.Employee) error {
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "designation", "department", "joining_date",
			"bank_account", "pf_number", "updated_at",
		}),
	}).Create(emp).Error
	if err != nil {
		return domain.StorageError("upsert employee", err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	var emp domain.Employee
	err := conn(ctx, r.db).Where("employee_id = ?", id).First(&emp).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, domain.StorageError("get employee", err)
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := conn(ctx, r.db).Order("employee_id ASC").Find(&employees).Error
	if err != nil {
		return nil, domain.StorageError("list employees", err)
	}
	return employees, nil
}
