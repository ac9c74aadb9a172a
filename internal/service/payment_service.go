package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/payroll"
	"github.com/school-payroll-api/internal/repository"
	"gorm.io/datatypes"
)

// requiredDetails - обязательные поля реквизитов для каждого способа выплаты
var requiredDetails = map[domain.PaymentMethod][]string{
	domain.PaymentMethodCash:         {"amount", "receiver_name"},
	domain.PaymentMethodCheque:       {"cheque_number", "bank_name", "branch"},
	domain.PaymentMethodCard:         {"card_number", "card_holder_name", "expiry_date"},
	domain.PaymentMethodUPI:          {"upi_id"},
	domain.PaymentMethodGooglePay:    {"phone_number"},
	domain.PaymentMethodPhonePay:     {"phone_number"},
	domain.PaymentMethodBankTransfer: {"account_number", "ifsc_code", "bank_name"},
}

// RequiredDetails возвращает обязательные поля способа выплаты
func RequiredDetails(method domain.PaymentMethod) ([]string, bool) {
	fields, ok := requiredDetails[method]
	return fields, ok
}

// PaymentService - единственный путь, которым лист становится оплаченным
type PaymentService interface {
	Record(ctx context.Context, slipID string, method domain.PaymentMethod, details map[string]any) (*domain.Receipt, error)
	GetBySlip(ctx context.Context, slipID string) (*domain.Payment, error)
}

type paymentService struct {
	tx          repository.Transactor
	empRepo     repository.EmployeeRepository
	slipRepo    repository.SlipRepository
	paymentRepo repository.PaymentRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewPaymentService создаёт новый экземпляр сервиса
func NewPaymentService(
	tx repository.Transactor,
	empRepo repository.EmployeeRepository,
	slipRepo repository.SlipRepository,
	paymentRepo repository.PaymentRepository,
	logger *slog.Logger,
) PaymentService {
	return &paymentService{
		tx:          tx,
		empRepo:     empRepo,
		slipRepo:    slipRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Record проводит выплату по листу. Сумма всегда берётся из net_salary листа,
// суммы из реквизитов источником истины не считаются.
func (s *paymentService) Record(ctx context.Context, slipID string, method domain.PaymentMethod, details map[string]any) (*domain.Receipt, error) {
	var receipt *domain.Receipt

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		slip, err := s.slipRepo.GetByID(ctx, slipID)
		if err != nil {
			return err
		}
		if slip.IsSuperseded() {
			return domain.ErrSlipSuperseded
		}

		_, err = s.paymentRepo.GetCompletedBySlipID(ctx, slipID)
		switch {
		case err == nil:
			return domain.ErrAlreadyPaid
		case !errors.Is(err, domain.ErrPaymentNotFound):
			return err
		}

		if err := validateDetails(method, details); err != nil {
			return err
		}

		emp, err := s.empRepo.GetByID(ctx, slip.EmployeeID)
		if err != nil {
			return err
		}

		now := s.now().UTC().Truncate(time.Microsecond)
		payment := &domain.Payment{
			PaymentID:      uuid.NewString(),
			SlipID:         slip.SlipID,
			Amount:         slip.NetSalary,
			PaymentMethod:  method,
			TransactionID:  newTransactionID(now),
			PaymentDetails: sanitizeDetails(method, details),
			Status:         domain.PaymentStatusCompleted,
			PaidAt:         now,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		receipt = &domain.Receipt{
			TransactionID: payment.TransactionID,
			PaymentID:     payment.PaymentID,
			SlipID:        slip.SlipID,
			Amount:        payment.Amount,
			PaymentMethod: method,
			Employee:      *emp,
			PayPeriod:     slip.PayPeriod,
			PaidAt:        payment.PaidAt,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, s.resolveConflict(ctx, slipID)
		}
		return nil, err
	}

	s.logger.Info("payment recorded",
		slog.String("transaction_id", receipt.TransactionID),
		slog.String("slip_id", receipt.SlipID),
		slog.String("employee_id", receipt.Employee.EmployeeID),
		slog.String("payment_method", string(method)),
		slog.String("amount", receipt.Amount.StringFixed(payroll.MoneyPlaces)),
	)
	return receipt, nil
}

// GetBySlip возвращает завершённую выплату по листу или domain.ErrPaymentNotFound
func (s *paymentService) GetBySlip(ctx context.Context, slipID string) (*domain.Payment, error) {
	if _, err := s.slipRepo.GetByID(ctx, slipID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetCompletedBySlipID(ctx, slipID)
}

// resolveConflict различает две причины нарушения уникальности после отката:
// лист успели оплатить параллельно или совпал transaction_id.
func (s *paymentService) resolveConflict(ctx context.Context, slipID string) error {
	_, err := s.paymentRepo.GetCompletedBySlipID(ctx, slipID)
	switch {
	case err == nil:
		return domain.ErrAlreadyPaid
	case errors.Is(err, domain.ErrPaymentNotFound):
		return domain.ErrDuplicateTransaction
	default:
		return err
	}
}

func validateDetails(method domain.PaymentMethod, details map[string]any) error {
	required, ok := requiredDetails[method]
	if !ok {
		return domain.NewValidationError(domain.FieldError{
			Field:   "payment_method",
			Message: fmt.Sprintf("unsupported payment method %q", method),
		})
	}

	var missing []string
	for _, field := range required {
		if isBlank(details[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return domain.MissingFields(missing...)
	}

	// Номер карты маскируется как строка, числа из JSON сюда не допускаются
	if method == domain.PaymentMethodCard {
		if _, ok := details["card_number"].(string); !ok {
			return domain.NewValidationError(domain.FieldError{
				Field:   "card_number",
				Message: "must be a string of digits",
			})
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

// sanitizeDetails копирует реквизиты; номер карты хранится только последними цифрами
func sanitizeDetails(method domain.PaymentMethod, details map[string]any) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(details))
	maps.Copy(out, details)

	if method == domain.PaymentMethodCard {
		if number, ok := details["card_number"].(string); ok {
			out["card_number"] = maskCardNumber(number)
		}
	}
	return out
}

func maskCardNumber(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

var transactionSeq atomic.Uint64

// newTransactionID строит идентификатор из времени и счётчика процесса
func newTransactionID(now time.Time) string {
	seq := transactionSeq.Add(1)
	return fmt.Sprintf("TXN%s-%06d", now.UTC().Format("20060102150405"), seq)
}
