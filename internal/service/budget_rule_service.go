package service

import (
	"strings"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BudgetRuleService handles budget rule business logic
type BudgetRuleService struct {
	ruleRepo domain.BudgetRuleRepository
}

// NewBudgetRuleService creates a new BudgetRuleService
func NewBudgetRuleService(ruleRepo domain.BudgetRuleRepository) *BudgetRuleService {
	return &BudgetRuleService{ruleRepo: ruleRepo}
}

// CreateRule creates a new budget rule
func (s *BudgetRuleService) CreateRule(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	if err := s.validateRule(rule); err != nil {
		return nil, err
	}
	created, err := s.ruleRepo.Create(rule)
	if err != nil {
		return nil, err
	}
	s.warnOnDanglingDeps(created)
	return created, nil
}

// GetRule retrieves a budget rule by ID within a user's scope
func (s *BudgetRuleService) GetRule(userID uuid.UUID, id int32) (*domain.BudgetRule, error) {
	return s.ruleRepo.GetByID(userID, id)
}

// GetRules retrieves the user's budget rules
func (s *BudgetRuleService) GetRules(userID uuid.UUID, activeOnly bool) ([]*domain.BudgetRule, error) {
	return s.ruleRepo.ListByUser(userID, activeOnly)
}

// UpdateRule updates an existing budget rule
func (s *BudgetRuleService) UpdateRule(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	if err := s.validateRule(rule); err != nil {
		return nil, err
	}
	if _, err := s.ruleRepo.GetByID(rule.UserID, rule.ID); err != nil {
		return nil, err
	}
	updated, err := s.ruleRepo.Update(rule)
	if err != nil {
		return nil, err
	}
	s.warnOnDanglingDeps(updated)
	return updated, nil
}

// DeleteRule deletes a budget rule
func (s *BudgetRuleService) DeleteRule(userID uuid.UUID, id int32) error {
	if _, err := s.ruleRepo.GetByID(userID, id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(userID, id)
}

func (s *BudgetRuleService) validateRule(rule *domain.BudgetRule) error {
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return domain.ErrNameRequired
	}
	if len(rule.Name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if !rule.Cadence.Valid() {
		return domain.ErrUnsupportedCadence
	}
	if rule.Value.IsNegative() {
		return domain.ErrInvalidRuleValue
	}
	// A rule must not depend on itself; everything else about the dependency
	// graph is tolerated and degrades at calculation time
	if rule.ID != 0 && rule.DependsOnRule(rule.ID) {
		return domain.ErrInvalidInput
	}
	return nil
}

// warnOnDanglingDeps logs dependencies that point at missing or inactive
// rules. These are tolerated, not rejected: the resolver degrades to
// best-effort ordering and the evaluator counts them as zero.
func (s *BudgetRuleService) warnOnDanglingDeps(rule *domain.BudgetRule) {
	if len(rule.DependsOn) == 0 {
		return
	}
	active, err := s.ruleRepo.ListByUser(rule.UserID, true)
	if err != nil {
		return
	}
	known := make(map[int32]bool, len(active))
	for _, r := range active {
		known[r.ID] = true
	}
	for _, dep := range rule.DependsOn {
		if !known[dep] {
			log.Warn().
				Int32("rule_id", rule.ID).
				Int32("dependency_id", dep).
				Msg("Budget rule depends on a missing or inactive rule")
		}
	}
}
