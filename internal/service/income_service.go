package service

import (
	"strings"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/google/uuid"
)

// IncomeService handles income profile business logic
type IncomeService struct {
	incomeRepo domain.IncomeProfileRepository
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(incomeRepo domain.IncomeProfileRepository) *IncomeService {
	return &IncomeService{incomeRepo: incomeRepo}
}

// CreateIncome creates a new income profile
func (s *IncomeService) CreateIncome(income *domain.IncomeProfile) (*domain.IncomeProfile, error) {
	if err := validateIncome(income); err != nil {
		return nil, err
	}
	income.IsActive = true
	return s.incomeRepo.Create(income)
}

// GetIncome retrieves an income profile by ID within a user's scope
func (s *IncomeService) GetIncome(userID uuid.UUID, id int32) (*domain.IncomeProfile, error) {
	return s.incomeRepo.GetByID(userID, id)
}

// GetIncomes retrieves all income profiles for a user
func (s *IncomeService) GetIncomes(userID uuid.UUID, activeOnly bool) ([]*domain.IncomeProfile, error) {
	return s.incomeRepo.ListByUser(userID, activeOnly)
}

// UpdateIncome updates an existing income profile
func (s *IncomeService) UpdateIncome(income *domain.IncomeProfile) (*domain.IncomeProfile, error) {
	if err := validateIncome(income); err != nil {
		return nil, err
	}
	if _, err := s.incomeRepo.GetByID(income.UserID, income.ID); err != nil {
		return nil, err
	}
	return s.incomeRepo.Update(income)
}

// DeleteIncome deletes an income profile
func (s *IncomeService) DeleteIncome(userID uuid.UUID, id int32) error {
	if _, err := s.incomeRepo.GetByID(userID, id); err != nil {
		return err
	}
	return s.incomeRepo.Delete(userID, id)
}

func validateIncome(income *domain.IncomeProfile) error {
	income.Name = strings.TrimSpace(income.Name)
	if income.Name == "" {
		return domain.ErrNameRequired
	}
	if len(income.Name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if !income.Cadence.Valid() {
		return domain.ErrUnsupportedCadence
	}
	if income.GrossAmount.IsNegative() || income.NetAmount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if income.EndDate != nil && income.EndDate.Before(income.StartDate) {
		return domain.ErrInvalidInput
	}
	return nil
}
