package service

import (
	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/dvoss/paygrid/paygrid-backend/internal/engine"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AllocationService orchestrates allocation generation and the paid/unpaid
// lifecycle
type AllocationService struct {
	allocRepo  domain.AllocationRepository
	periodRepo domain.PayPeriodRepository
	ruleRepo   domain.BudgetRuleRepository
	incomeRepo domain.IncomeProfileRepository
	calcConfig engine.Config
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	allocRepo domain.AllocationRepository,
	periodRepo domain.PayPeriodRepository,
	ruleRepo domain.BudgetRuleRepository,
	incomeRepo domain.IncomeProfileRepository,
	calcConfig engine.Config,
) *AllocationService {
	return &AllocationService{
		allocRepo:  allocRepo,
		periodRepo: periodRepo,
		ruleRepo:   ruleRepo,
		incomeRepo: incomeRepo,
		calcConfig: calcConfig,
	}
}

// GenerateForPeriod runs the calculation engine for the period's rule set and
// replaces all of the period's allocations with the fresh batch. The batch is
// partial-success: per-rule errors land in the result's calculation_errors
// without aborting generation.
func (s *AllocationService) GenerateForPeriod(userID uuid.UUID, periodID int32) (*engine.BatchResult, error) {
	period, income, err := s.getOwnedPeriod(userID, periodID)
	if err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListByUser(userID, true)
	if err != nil {
		return nil, err
	}

	result := engine.Generate(rules, income, period.ID, s.calcConfig)

	persisted, err := s.allocRepo.ReplaceForPeriod(period.ID, result.Allocations)
	if err != nil {
		return nil, err
	}
	result.Allocations = persisted

	if len(result.UnresolvedRules) > 0 {
		log.Warn().
			Int32("period_id", period.ID).
			Ints32("rule_ids", result.UnresolvedRules).
			Msg("Dependency resolution degraded to best-effort ordering")
	}
	return result, nil
}

// GetAllocations retrieves all allocations for a period
func (s *AllocationService) GetAllocations(userID uuid.UUID, periodID int32) ([]*domain.Allocation, error) {
	if _, _, err := s.getOwnedPeriod(userID, periodID); err != nil {
		return nil, err
	}
	return s.allocRepo.ListByPeriod(periodID)
}

// MarkPaid transitions an allocation to PAID. When actual is given it is
// stored as the realized amount; otherwise any previously stored actual is
// kept. Marking paid attempts to auto-complete the owning period.
func (s *AllocationService) MarkPaid(userID uuid.UUID, allocationID int32, actual *decimal.Decimal) (*domain.Allocation, error) {
	alloc, err := s.getOwnedAllocation(userID, allocationID)
	if err != nil {
		return nil, err
	}

	if actual == nil {
		actual = alloc.ActualAmount
	}
	updated, err := s.allocRepo.UpdateStatus(allocationID, domain.AllocationStatusPaid, actual)
	if err != nil {
		return nil, err
	}

	if _, err := s.TryAutoComplete(alloc.PeriodID); err != nil {
		log.Error().Err(err).Int32("period_id", alloc.PeriodID).Msg("Auto-complete check failed")
	}
	return updated, nil
}

// MarkUnpaid transitions an allocation back to UNPAID and clears its actual
// amount. If the owning period is COMPLETED it is reactivated, which requires
// that no other ACTIVE period exists for the income profile; violating that
// invariant is a hard error and nothing is mutated.
func (s *AllocationService) MarkUnpaid(userID uuid.UUID, allocationID int32) (*domain.Allocation, error) {
	alloc, err := s.getOwnedAllocation(userID, allocationID)
	if err != nil {
		return nil, err
	}

	period, err := s.periodRepo.GetByID(alloc.PeriodID)
	if err != nil {
		return nil, err
	}
	if period.Status == domain.PeriodStatusCompleted {
		active, err := s.periodRepo.CountActiveExcluding(period.IncomeID, period.ID)
		if err != nil {
			return nil, err
		}
		if active > 0 {
			return nil, domain.ErrActivePeriodExists
		}
	}

	updated, err := s.allocRepo.UpdateStatus(allocationID, domain.AllocationStatusUnpaid, nil)
	if err != nil {
		return nil, err
	}

	if period.Status == domain.PeriodStatusCompleted {
		if err := s.periodRepo.UpdateStatus(period.ID, domain.PeriodStatusActive); err != nil {
			return nil, err
		}
		log.Info().Int32("period_id", period.ID).Msg("Pay period reactivated after unmarking allocation")
	}
	return updated, nil
}

// TryAutoComplete transitions an ACTIVE period to COMPLETED when it has at
// least one allocation and every allocation is PAID. Periods with no
// allocations never auto-complete. Returns whether the period is now
// completed.
func (s *AllocationService) TryAutoComplete(periodID int32) (bool, error) {
	period, err := s.periodRepo.GetByID(periodID)
	if err != nil {
		return false, err
	}
	if period.Status == domain.PeriodStatusCompleted {
		return true, nil
	}

	allocations, err := s.allocRepo.ListByPeriod(periodID)
	if err != nil {
		return false, err
	}
	if len(allocations) == 0 {
		return false, nil
	}
	for _, alloc := range allocations {
		if alloc.Status != domain.AllocationStatusPaid {
			return false, nil
		}
	}

	if err := s.periodRepo.UpdateStatus(periodID, domain.PeriodStatusCompleted); err != nil {
		return false, err
	}
	log.Info().Int32("period_id", periodID).Msg("Pay period auto-completed")
	return true, nil
}

func (s *AllocationService) getOwnedPeriod(userID uuid.UUID, periodID int32) (*domain.PayPeriod, *domain.IncomeProfile, error) {
	period, err := s.periodRepo.GetByID(periodID)
	if err != nil {
		return nil, nil, err
	}
	income, err := s.incomeRepo.GetByID(userID, period.IncomeID)
	if err != nil {
		return nil, nil, err
	}
	return period, income, nil
}

func (s *AllocationService) getOwnedAllocation(userID uuid.UUID, allocationID int32) (*domain.Allocation, error) {
	alloc, err := s.allocRepo.GetByID(allocationID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.getOwnedPeriod(userID, alloc.PeriodID); err != nil {
		return nil, err
	}
	return alloc, nil
}
