package repository

import (
	"context"

	"github.com/school-payroll-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalaryStructureRepository хранит действующую структуру оклада сотрудника
type SalaryStructureRepository interface {
	Upsert(ctx context.Context, s *domain.SalaryStructure) error
	GetByEmployeeID(ctx context.Context, employeeID string) (*domain.SalaryStructure, error)
}

type salaryStructureRepository struct {
	db *gorm.DB
}

// NewSalaryStructureRepository создаёт новый экземпляр репозитория
func NewSalaryStructureRepository(db *gorm.DB) SalaryStructureRepository {
	return &salaryStructureRepository{db: db}
}

// Upsert заменяет структуру: это настройка, а не история
func (r *salaryStructureRepository) Upsert(ctx context.Context, s *domain.SalaryStructure) error {
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err != nil {
		return domain.StorageError("upsert salary structure", err)
	}
	return nil
}

func (r *salaryStructureRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.SalaryStructure, error) {
	var s domain.SalaryStructure
	err := conn(ctx, r.db).Where("employee_id = ?", employeeID).First(&s).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrSalaryStructureNotFound
		}
		return nil, domain.StorageError("get salary structure", err)
	}
	return &s, nil
}
