package repository

import (
	"context"
	"iter"
	"time"

	"github.com/school-payroll-api/internal/domain"
	"gorm.io/gorm"
)

// historyPageSize - сколько строк истории читается за один запрос
const historyPageSize = 50

// SlipRepository - журнал расчётных листов, только добавление
type SlipRepository interface {
	Create(ctx context.Context, slip *domain.SalarySlip) error
	GetByID(ctx context.Context, slipID string) (*domain.SalarySlip, error)
	MarkSuperseded(ctx context.Context, slipID, supersededBy string) error
	History(ctx context.Context, employeeID string) iter.Seq2[domain.SlipView, error]
}

type slipRepository struct {
	db       *gorm.DB
	pageSize int
}

// NewSlipRepository создаёт новый экземпляр репозитория
func NewSlipRepository(db *gorm.DB) SlipRepository {
	return &slipRepository{db: db, pageSize: historyPageSize}
}

func (r *slipRepository) Create(ctx context.Context, slip *domain.SalarySlip) error {
	if err := conn(ctx, r.db).Create(slip).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateKey
		}
		return domain.StorageError("create salary slip", err)
	}
	return nil
}

func (r *slipRepository) GetByID(ctx context.Context, slipID string) (*domain.SalarySlip, error) {
	var slip domain.SalarySlip
	err := conn(ctx, r.db).Where("slip_id = ?", slipID).First(&slip).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrSlipNotFound
		}
		return nil, domain.StorageError("get salary slip", err)
	}
	return &slip, nil
}

// MarkSuperseded - единственное изменение листа после создания.
// Расчётные поля не трогаются.
func (r *slipRepository) MarkSuperseded(ctx context.Context, slipID, supersededBy string) error {
	result := conn(ctx, r.db).
		Model(&domain.SalarySlip{}).
		Where("slip_id = ? AND superseded_by IS NULL", slipID).
		UpdateColumn("superseded_by", supersededBy)
	if result.Error != nil {
		return domain.StorageError("supersede salary slip", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSlipSuperseded
	}
	return nil
}

// History лениво отдаёт листы сотрудника, новые первыми, вместе со статусом выплаты.
// Каждый range выполняет запросы заново, страницами, поэтому последовательность
// можно перезапускать, а соединение не удерживается между страницами.
func (r *slipRepository) History(ctx context.Context, employeeID string) iter.Seq2[domain.SlipView, error] {
	return func(yield func(domain.SlipView, error) bool) {
		var (
			afterTime time.Time
			afterID   string
			first     = true
		)

		for {
			page, err := r.historyPage(ctx, employeeID, first, afterTime, afterID)
			if err != nil {
				yield(domain.SlipView{}, err)
				return
			}

			for _, view := range page {
				if !yield(view, nil) {
					return
				}
			}

			if len(page) < r.pageSize {
				return
			}

			last := page[len(page)-1]
			afterTime, afterID, first = last.GeneratedAt, last.SlipID, false
		}
	}
}

func (r *slipRepository) historyPage(ctx context.Context, employeeID string, first bool, afterTime time.Time, afterID string) ([]domain.SlipView, error) {
	query := conn(ctx, r.db).
		Table("salary_slips AS s").
		Select("s.*, p.status AS payment_status, p.transaction_id AS transaction_id").
		Joins("LEFT JOIN payments p ON p.slip_id = s.slip_id AND p.status = ?", domain.PaymentStatusCompleted).
		Where("s.employee_id = ?", employeeID)

	if !first {
		query = query.Where(
			"(s.generated_at < ? OR (s.generated_at = ? AND s.slip_id < ?))",
			afterTime, afterTime, afterID,
		)
	}

	var views []domain.SlipView
	err := query.
		Order("s.generated_at DESC").
		Order("s.slip_id DESC").
		Limit(r.pageSize).
		Scan(&views).Error
	if err != nil {
		return nil, domain.StorageError("list salary slips", err)
	}
	return views, nil
}
