package service

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/payroll"
	"github.com/school-payroll-api/internal/repository"
)

// SlipService - журнал расчётных листов.
// Политика: журнал только пополняется. Повторная генерация за тот же период
// создаёт ещё один лист; явная замена делается через Supersede.
type SlipService interface {
	Preview(structure domain.SalaryStructure) (payroll.Breakdown, payroll.Totals, error)
	Generate(ctx context.Context, employeeID, payPeriod string, b payroll.Breakdown, totals payroll.Totals) (string, error)
	GenerateForEmployee(ctx context.Context, employeeID, payPeriod string) (*domain.SalarySlip, error)
	GetByID(ctx context.Context, slipID string) (*domain.SalarySlip, error)
	History(ctx context.Context, employeeID string) (iter.Seq2[domain.SlipView, error], error)
	Supersede(ctx context.Context, slipID string) (*domain.SalarySlip, error)
}

type slipService struct {
	tx            repository.Transactor
	empRepo       repository.EmployeeRepository
	structureRepo repository.SalaryStructureRepository
	slipRepo      repository.SlipRepository
	paymentRepo   repository.PaymentRepository
	logger        *slog.Logger
	now           func() time.Time
}

// NewSlipService создаёт новый экземпляр сервиса
func NewSlipService(
	tx repository.Transactor,
	empRepo repository.EmployeeRepository,
	structureRepo repository.SalaryStructureRepository,
	slipRepo repository.SlipRepository,
	paymentRepo repository.PaymentRepository,
	logger *slog.Logger,
) SlipService {
	return &slipService{
		tx:            tx,
		empRepo:       empRepo,
		structureRepo: structureRepo,
		slipRepo:      slipRepo,
		paymentRepo:   paymentRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// Preview считает лист по структуре, ничего не сохраняя
func (s *slipService) Preview(structure domain.SalaryStructure) (payroll.Breakdown, payroll.Totals, error) {
	b, err := payroll.Resolve(structure)
	if err != nil {
		return payroll.Breakdown{}, payroll.Totals{}, err
	}
	return b, payroll.CalculateBreakdown(b), nil
}

// Generate записывает готовый расчёт как новый лист и возвращает его id
func (s *slipService) Generate(ctx context.Context, employeeID, payPeriod string, b payroll.Breakdown, totals payroll.Totals) (string, error) {
	var slip *domain.SalarySlip
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		slip, err = s.insert(ctx, employeeID, payPeriod, b, totals)
		return err
	})
	if err != nil {
		return "", err
	}
	return slip.SlipID, nil
}

// GenerateForEmployee: структура -> разложение -> итоги -> запись, одной транзакцией
func (s *slipService) GenerateForEmployee(ctx context.Context, employeeID, payPeriod string) (*domain.SalarySlip, error) {
	var slip *domain.SalarySlip
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		slip, err = s.generateFromStructure(ctx, employeeID, payPeriod)
		return err
	})
	if err != nil {
		return nil, err
	}
	return slip, nil
}

func (s *slipService) GetByID(ctx context.Context, slipID string) (*domain.SalarySlip, error) {
	return s.slipRepo.GetByID(ctx, slipID)
}

// History возвращает ленивую последовательность листов, новые первыми
func (s *slipService) History(ctx context.Context, employeeID string) (iter.Seq2[domain.SlipView, error], error) {
	if _, err := s.empRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.slipRepo.History(ctx, employeeID), nil
}

// Supersede пересчитывает лист по текущей структуре и помечает старый заменённым.
// Оплаченный лист заменить нельзя.
func (s *slipService) Supersede(ctx context.Context, slipID string) (*domain.SalarySlip, error) {
	var replacement *domain.SalarySlip
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		old, err := s.slipRepo.GetByID(ctx, slipID)
		if err != nil {
			return err
		}
		if old.IsSuperseded() {
			return domain.ErrSlipSuperseded
		}

		_, err = s.paymentRepo.GetCompletedBySlipID(ctx, slipID)
		switch {
		case err == nil:
			return domain.ErrAlreadyPaid
		case !errors.Is(err, domain.ErrPaymentNotFound):
			return err
		}

		replacement, err = s.generateFromStructure(ctx, old.EmployeeID, old.PayPeriod)
		if err != nil {
			return err
		}
		return s.slipRepo.MarkSuperseded(ctx, old.SlipID, replacement.SlipID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("salary slip superseded",
		slog.String("slip_id", slipID),
		slog.String("superseded_by", replacement.SlipID),
	)
	return replacement, nil
}

func (s *slipService) generateFromStructure(ctx context.Context, employeeID, payPeriod string) (*domain.SalarySlip, error) {
	if _, err := s.empRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	structure, err := s.structureRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	b, totals, err := s.Preview(*structure)
	if err != nil {
		return nil, err
	}

	return s.insert(ctx, employeeID, payPeriod, b, totals)
}

func (s *slipService) insert(ctx context.Context, employeeID, payPeriod string, b payroll.Breakdown, totals payroll.Totals) (*domain.SalarySlip, error) {
	if _, err := domain.ParsePayPeriod(payPeriod); err != nil {
		return nil, err
	}

	if err := payroll.ValidateBreakdown(b); err != nil {
		return nil, err
	}

	// Итоги выводятся только калькулятором: расхождение означает испорченный ввод
	if !payroll.CalculateBreakdown(b).Equal(totals) {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "totals",
			Message: "do not match the itemized earnings and deductions",
		})
	}
	if totals.NetSalary.IsNegative() {
		return nil, domain.ErrNegativeNetSalary
	}

	if _, err := s.empRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	slip := newSlip(employeeID, payPeriod, b, totals, s.now())
	if err := s.slipRepo.Create(ctx, slip); err != nil {
		return nil, err
	}

	s.logger.Info("salary slip generated",
		slog.String("slip_id", slip.SlipID),
		slog.String("employee_id", employeeID),
		slog.String("pay_period", payPeriod),
		slog.String("net_salary", slip.NetSalary.StringFixed(payroll.MoneyPlaces)),
	)
	return slip, nil
}

func newSlip(employeeID, payPeriod string, b payroll.Breakdown, totals payroll.Totals, now time.Time) *domain.SalarySlip {
	return &domain.SalarySlip{
		SlipID:          uuid.NewString(),
		EmployeeID:      employeeID,
		PayPeriod:       payPeriod,
		BasicSalary:     b.Earnings.Basic,
		DAPercent:       b.DAPercent,
		HRAPercent:      b.HRAPercent,
		DAAmount:        b.Earnings.DA,
		HRAAmount:       b.Earnings.HRA,
		Conveyance:      b.Earnings.Conveyance,
		Medical:         b.Earnings.Medical,
		OtherAllowances: b.Earnings.OtherAllowances,
		PFDeduction:     b.Deductions.PF,
		ProfessionalTax: b.Deductions.ProfessionalTax,
		IncomeTax:       b.Deductions.IncomeTax,
		OtherDeductions: b.Deductions.Other,
		GrossSalary:     totals.GrossSalary,
		TotalDeductions: totals.TotalDeductions,
		NetSalary:       totals.NetSalary,
		GeneratedAt:     now.UTC().Truncate(time.Microsecond),
	}
}
