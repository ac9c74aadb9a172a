package repository

import (
	"context"

	"github.com/school-payroll-api/internal/domain"
	"gorm.io/gorm"
)

// PaymentRepository хранит выплаты по расчётным листам
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetCompletedBySlipID(ctx context.Context, slipID string) (*domain.Payment, error)
	CountBySlipID(ctx context.Context, slipID string) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository создаёт новый экземпляр репозитория
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create вставляет выплату. Нарушение уникальности (второй Completed по листу
// или повтор transaction_id) возвращается как domain.ErrDuplicateKey.
func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if err := conn(ctx, r.db).Create(p).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateKey
		}
		return domain.StorageError("create payment", err)
	}
	return nil
}

func (r *paymentRepository) GetCompletedBySlipID(ctx context.Context, slipID string) (*domain.Payment, error) {
	var p domain.Payment
	err := conn(ctx, r.db).
		Where("slip_id = ? AND status = ?", slipID, domain.PaymentStatusCompleted).
		First(&p).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, domain.StorageError("get payment", err)
	}
	return &p, nil
}

func (r *paymentRepository) CountBySlipID(ctx context.Context, slipID string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Payment{}).Where("slip_id = ?", slipID).Count(&count).Error
	if err != nil {
		return 0, domain.StorageError("count payments", err)
	}
	return count, nil
}
