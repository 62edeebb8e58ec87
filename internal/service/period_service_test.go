package service

import (
	"testing"
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/dvoss/paygrid/paygrid-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPeriodService() (*PeriodService, *testutil.MockPayPeriodRepository, *testutil.MockIncomeProfileRepository, *testutil.MockAllocationRepository) {
	periodRepo := testutil.NewMockPayPeriodRepository()
	incomeRepo := testutil.NewMockIncomeProfileRepository()
	allocRepo := testutil.NewMockAllocationRepository()
	svc := NewPeriodService(periodRepo, incomeRepo, allocRepo, DefaultThresholds())
	return svc, periodRepo, incomeRepo, allocRepo
}

func addMonthlyIncome(incomeRepo *testutil.MockIncomeProfileRepository, userID uuid.UUID) *domain.IncomeProfile {
	income := &domain.IncomeProfile{
		ID:        1,
		UserID:    userID,
		Name:      "Salary",
		Cadence:   domain.CadenceMonthly,
		NetAmount: decimal.NewFromInt(3000),
		StartDate: time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	incomeRepo.AddIncome(income)
	return income
}

func TestCreateNextPeriod_FirstPeriodFromStartDate(t *testing.T) {
	svc, _, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)

	period, err := svc.CreateNextPeriod(userID, 1)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), period.StartDate)
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), period.EndDate)
	assert.Equal(t, 31, period.DaysInPeriod)
	assert.Equal(t, "3000.00", period.ExpectedNet.StringFixed(2))
	assert.Equal(t, domain.PeriodStatusActive, period.Status)
}

func TestCreateNextPeriod_FollowsLatestPeriod(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	periodRepo.AddPeriod(&domain.PayPeriod{
		ID:        1,
		IncomeID:  1,
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodStatusCompleted,
	})

	period, err := svc.CreateNextPeriod(userID, 1)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), period.StartDate)
	assert.Equal(t, time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC), period.EndDate)
}

func TestCreateNextPeriod_FailsWhileActivePeriodExists(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	periodRepo.AddPeriod(&domain.PayPeriod{
		ID:        1,
		IncomeID:  1,
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodStatusActive,
	})

	_, err := svc.CreateNextPeriod(userID, 1)

	assert.ErrorIs(t, err, domain.ErrActivePeriodExists)
}

func TestCreateNextPeriod_UnknownIncome(t *testing.T) {
	svc, _, _, _ := newPeriodService()

	_, err := svc.CreateNextPeriod(uuid.New(), 42)

	assert.ErrorIs(t, err, domain.ErrIncomeNotFound)
}

func TestGetPeriod_WrongUser(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	owner := uuid.New()
	addMonthlyIncome(incomeRepo, owner)
	periodRepo.AddPeriod(&domain.PayPeriod{ID: 1, IncomeID: 1, Status: domain.PeriodStatusActive})

	_, err := svc.GetPeriod(uuid.New(), 1)

	assert.ErrorIs(t, err, domain.ErrIncomeNotFound)
}

func TestGetCurrentPeriod(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	periodRepo.AddPeriod(&domain.PayPeriod{
		ID:        1,
		IncomeID:  1,
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodStatusCompleted,
	})
	periodRepo.AddPeriod(&domain.PayPeriod{
		ID:        2,
		IncomeID:  1,
		StartDate: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodStatusActive,
	})

	period, err := svc.GetCurrentPeriod(userID, 1, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, int32(2), period.ID)

	_, err = svc.GetCurrentPeriod(userID, 1, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)
}

func TestReactivate_CompletedPeriod(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	periodRepo.AddPeriod(&domain.PayPeriod{ID: 1, IncomeID: 1, Status: domain.PeriodStatusCompleted})

	period, err := svc.Reactivate(userID, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.PeriodStatusActive, period.Status)
	assert.Equal(t, domain.PeriodStatusActive, periodRepo.Periods[1].Status)
}

func TestReactivate_FailsWhenAnotherActiveExists(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	periodRepo.AddPeriod(&domain.PayPeriod{ID: 1, IncomeID: 1, Status: domain.PeriodStatusCompleted})
	periodRepo.AddPeriod(&domain.PayPeriod{ID: 2, IncomeID: 1, Status: domain.PeriodStatusActive})

	_, err := svc.Reactivate(userID, 1)

	assert.ErrorIs(t, err, domain.ErrActivePeriodExists)
	assert.Equal(t, domain.PeriodStatusCompleted, periodRepo.Periods[1].Status)
}

func TestReactivate_RequiresCompletedStatus(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	periodRepo.AddPeriod(&domain.PayPeriod{ID: 1, IncomeID: 1, Status: domain.PeriodStatusActive})

	_, err := svc.Reactivate(userID, 1)

	assert.ErrorIs(t, err, domain.ErrPeriodNotCompleted)
}

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func addCompletedPeriod(periodRepo *testutil.MockPayPeriodRepository, expectedNet float64) {
	periodRepo.AddPeriod(&domain.PayPeriod{
		ID:          1,
		IncomeID:    1,
		ExpectedNet: decimal.NewFromFloat(expectedNet),
		Status:      domain.PeriodStatusCompleted,
	})
}

func TestReconcile_Perfect(t *testing.T) {
	svc, periodRepo, incomeRepo, allocRepo := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	addCompletedPeriod(periodRepo, 3000)
	allocRepo.AddAllocation(&domain.Allocation{
		ID: 1, PeriodID: 1, RuleID: 1,
		ExpectedAmount: decimal.NewFromInt(1000),
		ActualAmount:   decPtr(1010),
		Status:         domain.AllocationStatusPaid,
	})
	allocRepo.AddAllocation(&domain.Allocation{
		ID: 2, PeriodID: 1, RuleID: 2,
		ExpectedAmount: decimal.NewFromInt(2000),
		Status:         domain.AllocationStatusPaid,
	})

	report, err := svc.Reconcile(userID, 1)

	require.NoError(t, err)
	// Unpaid actuals fall back to the expected amount: 1010 + 2000
	assert.Equal(t, "3010.00", report.ActualNet.StringFixed(2))
	assert.Equal(t, "10.00", report.NetVariance.StringFixed(2))
	assert.Equal(t, domain.ReconciliationPerfect, report.Status)
}

func TestReconcile_Minor(t *testing.T) {
	svc, periodRepo, incomeRepo, allocRepo := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	addCompletedPeriod(periodRepo, 3000)
	allocRepo.AddAllocation(&domain.Allocation{
		ID: 1, PeriodID: 1, RuleID: 1,
		ExpectedAmount: decimal.NewFromInt(3000),
		ActualAmount:   decPtr(2910),
		Status:         domain.AllocationStatusPaid,
	})

	report, err := svc.Reconcile(userID, 1)

	require.NoError(t, err)
	// Variance is -3%
	assert.Equal(t, domain.ReconciliationMinor, report.Status)
	assert.Equal(t, "-90.00", report.NetVariance.StringFixed(2))
}

func TestReconcile_Major(t *testing.T) {
	svc, periodRepo, incomeRepo, allocRepo := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	addCompletedPeriod(periodRepo, 3000)
	allocRepo.AddAllocation(&domain.Allocation{
		ID: 1, PeriodID: 1, RuleID: 1,
		ExpectedAmount: decimal.NewFromInt(3000),
		ActualAmount:   decPtr(2000),
		Status:         domain.AllocationStatusPaid,
	})

	report, err := svc.Reconcile(userID, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationMajor, report.Status)
}

func TestReconcile_IncompleteForActivePeriod(t *testing.T) {
	svc, periodRepo, incomeRepo, _ := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	periodRepo.AddPeriod(&domain.PayPeriod{
		ID:          1,
		IncomeID:    1,
		ExpectedNet: decimal.NewFromInt(3000),
		Status:      domain.PeriodStatusActive,
	})

	report, err := svc.Reconcile(userID, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationIncomplete, report.Status)
	assert.Equal(t, "-3000.00", report.NetVariance.StringFixed(2))
}

func TestReconcile_ZeroExpectedNet(t *testing.T) {
	svc, periodRepo, incomeRepo, allocRepo := newPeriodService()
	userID := uuid.New()
	addMonthlyIncome(incomeRepo, userID)
	addCompletedPeriod(periodRepo, 0)
	allocRepo.AddAllocation(&domain.Allocation{
		ID: 1, PeriodID: 1, RuleID: 1,
		ExpectedAmount: decimal.Zero,
		ActualAmount:   decPtr(50),
		Status:         domain.AllocationStatusPaid,
	})

	report, err := svc.Reconcile(userID, 1)

	require.NoError(t, err)
	// No meaningful percentage when expected is zero; any variance is major
	assert.Equal(t, domain.ReconciliationMajor, report.Status)
}
