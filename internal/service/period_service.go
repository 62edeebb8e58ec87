package service

import (
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/dvoss/paygrid/paygrid-backend/internal/schedule"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReconciliationThresholds classify a completed period's variance percent
type ReconciliationThresholds struct {
	PerfectPct decimal.Decimal
	MinorPct   decimal.Decimal
}

// DefaultThresholds returns the standard variance classification bounds
func DefaultThresholds() ReconciliationThresholds {
	return ReconciliationThresholds{
		PerfectPct: decimal.NewFromInt(1),
		MinorPct:   decimal.NewFromInt(5),
	}
}

// PeriodService handles pay period business logic
type PeriodService struct {
	periodRepo domain.PayPeriodRepository
	incomeRepo domain.IncomeProfileRepository
	allocRepo  domain.AllocationRepository
	thresholds ReconciliationThresholds
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(
	periodRepo domain.PayPeriodRepository,
	incomeRepo domain.IncomeProfileRepository,
	allocRepo domain.AllocationRepository,
	thresholds ReconciliationThresholds,
) *PeriodService {
	return &PeriodService{
		periodRepo: periodRepo,
		incomeRepo: incomeRepo,
		allocRepo:  allocRepo,
		thresholds: thresholds,
	}
}

// CreateNextPeriod creates the income profile's first pay period (seeded from
// its start date) or the period following the latest one. The new period is
// ACTIVE, so creation fails while another ACTIVE period exists.
func (s *PeriodService) CreateNextPeriod(userID uuid.UUID, incomeID int32) (*domain.PayPeriod, error) {
	income, err := s.incomeRepo.GetByID(userID, incomeID)
	if err != nil {
		return nil, err
	}

	active, err := s.periodRepo.CountActiveExcluding(incomeID, 0)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, domain.ErrActivePeriodExists
	}

	var span schedule.Span
	latest, err := s.periodRepo.GetLatest(incomeID)
	switch {
	case err == nil:
		span, err = schedule.NextSpan(income.Cadence, latest.EndDate)
	case err == domain.ErrPeriodNotFound:
		span, err = schedule.FirstSpan(income.Cadence, income.StartDate)
	default:
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return s.periodRepo.Create(&domain.PayPeriod{
		IncomeID:     incomeID,
		StartDate:    span.Start,
		EndDate:      span.End,
		ExpectedNet:  income.NetAmount,
		DaysInPeriod: span.DaysInPeriod,
		Status:       domain.PeriodStatusActive,
	})
}

// GetPeriod retrieves a pay period, verifying the income profile belongs to
// the user
func (s *PeriodService) GetPeriod(userID uuid.UUID, periodID int32) (*domain.PayPeriod, error) {
	period, err := s.periodRepo.GetByID(periodID)
	if err != nil {
		return nil, err
	}
	if _, err := s.incomeRepo.GetByID(userID, period.IncomeID); err != nil {
		return nil, err
	}
	return period, nil
}

// GetPeriods retrieves all pay periods for an income profile
func (s *PeriodService) GetPeriods(userID uuid.UUID, incomeID int32) ([]*domain.PayPeriod, error) {
	if _, err := s.incomeRepo.GetByID(userID, incomeID); err != nil {
		return nil, err
	}
	return s.periodRepo.ListByIncome(incomeID)
}

// GetCurrentPeriod retrieves the period containing the given date
func (s *PeriodService) GetCurrentPeriod(userID uuid.UUID, incomeID int32, asOf time.Time) (*domain.PayPeriod, error) {
	periods, err := s.GetPeriods(userID, incomeID)
	if err != nil {
		return nil, err
	}
	for _, period := range periods {
		if period.Contains(asOf) {
			return period, nil
		}
	}
	return nil, domain.ErrPeriodNotFound
}

// Reactivate transitions a COMPLETED period back to ACTIVE. It fails when
// another ACTIVE period already exists for the same income profile; the
// persistence layer re-validates the invariant at commit time.
func (s *PeriodService) Reactivate(userID uuid.UUID, periodID int32) (*domain.PayPeriod, error) {
	period, err := s.GetPeriod(userID, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status != domain.PeriodStatusCompleted {
		return nil, domain.ErrPeriodNotCompleted
	}

	active, err := s.periodRepo.CountActiveExcluding(period.IncomeID, periodID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, domain.ErrActivePeriodExists
	}

	if err := s.periodRepo.UpdateStatus(periodID, domain.PeriodStatusActive); err != nil {
		return nil, err
	}
	period.Status = domain.PeriodStatusActive
	log.Info().Int32("period_id", periodID).Msg("Pay period reactivated")
	return period, nil
}

// Reconcile builds the derived actual-vs-expected view for a period. Only
// COMPLETED periods are classified by variance; everything else is
// INCOMPLETE.
func (s *PeriodService) Reconcile(userID uuid.UUID, periodID int32) (*domain.ReconciliationReport, error) {
	period, err := s.GetPeriod(userID, periodID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.allocRepo.ListByPeriod(periodID)
	if err != nil {
		return nil, err
	}

	actual := decimal.Zero
	for _, alloc := range allocations {
		if alloc.ActualAmount != nil {
			actual = actual.Add(*alloc.ActualAmount)
		} else {
			actual = actual.Add(alloc.ExpectedAmount)
		}
	}

	report := &domain.ReconciliationReport{
		PeriodID:    periodID,
		ExpectedNet: period.ExpectedNet,
		ActualNet:   actual,
		NetVariance: actual.Sub(period.ExpectedNet),
	}

	if period.Status != domain.PeriodStatusCompleted {
		report.Status = domain.ReconciliationIncomplete
		return report, nil
	}

	report.VariancePct, report.Status = s.classify(report.ExpectedNet, report.NetVariance)
	return report, nil
}

func (s *PeriodService) classify(expected, variance decimal.Decimal) (decimal.Decimal, domain.ReconciliationStatus) {
	if expected.IsZero() {
		if variance.IsZero() {
			return decimal.Zero, domain.ReconciliationPerfect
		}
		return decimal.Zero, domain.ReconciliationMajor
	}

	pct := variance.Div(expected).Mul(decimal.NewFromInt(100))
	switch {
	case pct.Abs().LessThanOrEqual(s.thresholds.PerfectPct):
		return pct, domain.ReconciliationPerfect
	case pct.Abs().LessThanOrEqual(s.thresholds.MinorPct):
		return pct, domain.ReconciliationMinor
	default:
		return pct, domain.ReconciliationMajor
	}
}
