package testutil

import (
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 subject
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 subject
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    name,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockIncomeProfileRepository is a mock implementation of
// domain.IncomeProfileRepository
type MockIncomeProfileRepository struct {
	Incomes map[int32]*domain.IncomeProfile
	NextID  int32
}

// NewMockIncomeProfileRepository creates a new MockIncomeProfileRepository
func NewMockIncomeProfileRepository() *MockIncomeProfileRepository {
	return &MockIncomeProfileRepository{
		Incomes: make(map[int32]*domain.IncomeProfile),
		NextID:  1,
	}
}

// Create creates a new income profile
func (m *MockIncomeProfileRepository) Create(income *domain.IncomeProfile) (*domain.IncomeProfile, error) {
	income.ID = m.NextID
	income.CreatedAt = time.Now()
	income.UpdatedAt = time.Now()
	m.NextID++
	m.Incomes[income.ID] = income
	return income, nil
}

// GetByID retrieves an income profile by ID within a user's scope
func (m *MockIncomeProfileRepository) GetByID(userID uuid.UUID, id int32) (*domain.IncomeProfile, error) {
	if income, ok := m.Incomes[id]; ok && income.UserID == userID {
		return income, nil
	}
	return nil, domain.ErrIncomeNotFound
}

// ListByUser retrieves income profiles for a user
func (m *MockIncomeProfileRepository) ListByUser(userID uuid.UUID, activeOnly bool) ([]*domain.IncomeProfile, error) {
	var incomes []*domain.IncomeProfile
	for _, income := range m.Incomes {
		if income.UserID != userID {
			continue
		}
		if activeOnly && !income.IsActive {
			continue
		}
		incomes = append(incomes, income)
	}
	return incomes, nil
}

// Update updates an existing income profile
func (m *MockIncomeProfileRepository) Update(income *domain.IncomeProfile) (*domain.IncomeProfile, error) {
	existing, ok := m.Incomes[income.ID]
	if !ok || existing.UserID != income.UserID {
		return nil, domain.ErrIncomeNotFound
	}
	income.UpdatedAt = time.Now()
	m.Incomes[income.ID] = income
	return income, nil
}

// Delete deletes an income profile
func (m *MockIncomeProfileRepository) Delete(userID uuid.UUID, id int32) error {
	if income, ok := m.Incomes[id]; ok && income.UserID == userID {
		delete(m.Incomes, id)
		return nil
	}
	return domain.ErrIncomeNotFound
}

// AddIncome adds an income profile to the mock repository (helper for tests)
func (m *MockIncomeProfileRepository) AddIncome(income *domain.IncomeProfile) {
	if income.ID >= m.NextID {
		m.NextID = income.ID + 1
	}
	m.Incomes[income.ID] = income
}

// MockBudgetRuleRepository is a mock implementation of
// domain.BudgetRuleRepository
type MockBudgetRuleRepository struct {
	Rules  map[int32]*domain.BudgetRule
	NextID int32
}

// NewMockBudgetRuleRepository creates a new MockBudgetRuleRepository
func NewMockBudgetRuleRepository() *MockBudgetRuleRepository {
	return &MockBudgetRuleRepository{
		Rules:  make(map[int32]*domain.BudgetRule),
		NextID: 1,
	}
}

// Create creates a new budget rule
func (m *MockBudgetRuleRepository) Create(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	rule.ID = m.NextID
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	m.NextID++
	m.Rules[rule.ID] = rule
	return rule, nil
}

// GetByID retrieves a budget rule by ID within a user's scope
func (m *MockBudgetRuleRepository) GetByID(userID uuid.UUID, id int32) (*domain.BudgetRule, error) {
	if rule, ok := m.Rules[id]; ok && rule.UserID == userID {
		return rule, nil
	}
	return nil, domain.ErrRuleNotFound
}

// ListByUser retrieves budget rules for a user, ordered by priority
func (m *MockBudgetRuleRepository) ListByUser(userID uuid.UUID, activeOnly bool) ([]*domain.BudgetRule, error) {
	var rules []*domain.BudgetRule
	for id := int32(1); id < m.NextID; id++ {
		rule, ok := m.Rules[id]
		if !ok || rule.UserID != userID {
			continue
		}
		if activeOnly && !rule.IsActive {
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Update updates an existing budget rule
func (m *MockBudgetRuleRepository) Update(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	existing, ok := m.Rules[rule.ID]
	if !ok || existing.UserID != rule.UserID {
		return nil, domain.ErrRuleNotFound
	}
	rule.UpdatedAt = time.Now()
	m.Rules[rule.ID] = rule
	return rule, nil
}

// Delete deletes a budget rule
func (m *MockBudgetRuleRepository) Delete(userID uuid.UUID, id int32) error {
	if rule, ok := m.Rules[id]; ok && rule.UserID == userID {
		delete(m.Rules, id)
		return nil
	}
	return domain.ErrRuleNotFound
}

// AddRule adds a budget rule to the mock repository (helper for tests)
func (m *MockBudgetRuleRepository) AddRule(rule *domain.BudgetRule) {
	if rule.ID >= m.NextID {
		m.NextID = rule.ID + 1
	}
	m.Rules[rule.ID] = rule
}

// MockPayPeriodRepository is a mock implementation of
// domain.PayPeriodRepository
type MockPayPeriodRepository struct {
	Periods        map[int32]*domain.PayPeriod
	NextID         int32
	UpdateStatusFn func(id int32, status domain.PeriodStatus) error
}

// NewMockPayPeriodRepository creates a new MockPayPeriodRepository
func NewMockPayPeriodRepository() *MockPayPeriodRepository {
	return &MockPayPeriodRepository{
		Periods: make(map[int32]*domain.PayPeriod),
		NextID:  1,
	}
}

// Create creates a new pay period
func (m *MockPayPeriodRepository) Create(period *domain.PayPeriod) (*domain.PayPeriod, error) {
	period.ID = m.NextID
	period.CreatedAt = time.Now()
	period.UpdatedAt = time.Now()
	m.NextID++
	m.Periods[period.ID] = period
	return period, nil
}

// GetByID retrieves a pay period by ID
func (m *MockPayPeriodRepository) GetByID(id int32) (*domain.PayPeriod, error) {
	if period, ok := m.Periods[id]; ok {
		return period, nil
	}
	return nil, domain.ErrPeriodNotFound
}

// GetLatest retrieves the most recent pay period for an income profile
func (m *MockPayPeriodRepository) GetLatest(incomeID int32) (*domain.PayPeriod, error) {
	var latest *domain.PayPeriod
	for _, period := range m.Periods {
		if period.IncomeID != incomeID {
			continue
		}
		if latest == nil || period.EndDate.After(latest.EndDate) {
			latest = period
		}
	}
	if latest == nil {
		return nil, domain.ErrPeriodNotFound
	}
	return latest, nil
}

// ListByIncome retrieves all pay periods for an income profile
func (m *MockPayPeriodRepository) ListByIncome(incomeID int32) ([]*domain.PayPeriod, error) {
	var periods []*domain.PayPeriod
	for id := int32(1); id < m.NextID; id++ {
		if period, ok := m.Periods[id]; ok && period.IncomeID == incomeID {
			periods = append(periods, period)
		}
	}
	return periods, nil
}

// CountActiveExcluding counts ACTIVE periods other than excludeID
func (m *MockPayPeriodRepository) CountActiveExcluding(incomeID int32, excludeID int32) (int, error) {
	count := 0
	for _, period := range m.Periods {
		if period.IncomeID == incomeID && period.ID != excludeID && period.Status == domain.PeriodStatusActive {
			count++
		}
	}
	return count, nil
}

// UpdateStatus sets a pay period's status
func (m *MockPayPeriodRepository) UpdateStatus(id int32, status domain.PeriodStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(id, status)
	}
	period, ok := m.Periods[id]
	if !ok {
		return domain.ErrPeriodNotFound
	}
	period.Status = status
	period.UpdatedAt = time.Now()
	return nil
}

// AddPeriod adds a pay period to the mock repository (helper for tests)
func (m *MockPayPeriodRepository) AddPeriod(period *domain.PayPeriod) {
	if period.ID >= m.NextID {
		m.NextID = period.ID + 1
	}
	m.Periods[period.ID] = period
}

// MockAllocationRepository is a mock implementation of
// domain.AllocationRepository
type MockAllocationRepository struct {
	Allocations map[int32]*domain.Allocation
	NextID      int32
}

// NewMockAllocationRepository creates a new MockAllocationRepository
func NewMockAllocationRepository() *MockAllocationRepository {
	return &MockAllocationRepository{
		Allocations: make(map[int32]*domain.Allocation),
		NextID:      1,
	}
}

// GetByID retrieves an allocation by ID
func (m *MockAllocationRepository) GetByID(id int32) (*domain.Allocation, error) {
	if alloc, ok := m.Allocations[id]; ok {
		return alloc, nil
	}
	return nil, domain.ErrAllocationNotFound
}

// ListByPeriod retrieves all allocations for a pay period
func (m *MockAllocationRepository) ListByPeriod(periodID int32) ([]*domain.Allocation, error) {
	var allocations []*domain.Allocation
	for id := int32(1); id < m.NextID; id++ {
		if alloc, ok := m.Allocations[id]; ok && alloc.PeriodID == periodID {
			allocations = append(allocations, alloc)
		}
	}
	return allocations, nil
}

// ReplaceForPeriod deletes all allocations for the period and inserts the
// given set
func (m *MockAllocationRepository) ReplaceForPeriod(periodID int32, allocations []*domain.Allocation) ([]*domain.Allocation, error) {
	for id, alloc := range m.Allocations {
		if alloc.PeriodID == periodID {
			delete(m.Allocations, id)
		}
	}
	inserted := make([]*domain.Allocation, 0, len(allocations))
	for _, alloc := range allocations {
		stored := *alloc
		stored.ID = m.NextID
		stored.PeriodID = periodID
		stored.CreatedAt = time.Now()
		stored.UpdatedAt = time.Now()
		m.NextID++
		m.Allocations[stored.ID] = &stored
		inserted = append(inserted, &stored)
	}
	return inserted, nil
}

// UpdateStatus sets an allocation's status and actual amount together
func (m *MockAllocationRepository) UpdateStatus(id int32, status domain.AllocationStatus, actual *decimal.Decimal) (*domain.Allocation, error) {
	alloc, ok := m.Allocations[id]
	if !ok {
		return nil, domain.ErrAllocationNotFound
	}
	alloc.Status = status
	alloc.ActualAmount = actual
	alloc.UpdatedAt = time.Now()
	return alloc, nil
}

// AddAllocation adds an allocation to the mock repository (helper for tests)
func (m *MockAllocationRepository) AddAllocation(alloc *domain.Allocation) {
	if alloc.ID >= m.NextID {
		m.NextID = alloc.ID + 1
	}
	m.Allocations[alloc.ID] = alloc
}
