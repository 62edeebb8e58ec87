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

func validIncome(userID uuid.UUID) *domain.IncomeProfile {
	return &domain.IncomeProfile{
		UserID:      userID,
		Name:        "Salary",
		Cadence:     domain.CadenceMonthly,
		GrossAmount: decimal.NewFromInt(4000),
		NetAmount:   decimal.NewFromInt(3000),
		StartDate:   time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateIncome_Success(t *testing.T) {
	incomeRepo := testutil.NewMockIncomeProfileRepository()
	svc := NewIncomeService(incomeRepo)
	userID := uuid.New()

	income, err := svc.CreateIncome(validIncome(userID))

	require.NoError(t, err)
	assert.Equal(t, int32(1), income.ID)
	assert.True(t, income.IsActive)
	assert.Equal(t, "Salary", income.Name)
}

func TestCreateIncome_TrimsName(t *testing.T) {
	svc := NewIncomeService(testutil.NewMockIncomeProfileRepository())
	input := validIncome(uuid.New())
	input.Name = "  Salary  "

	income, err := svc.CreateIncome(input)

	require.NoError(t, err)
	assert.Equal(t, "Salary", income.Name)
}

func TestCreateIncome_ValidationErrors(t *testing.T) {
	svc := NewIncomeService(testutil.NewMockIncomeProfileRepository())
	userID := uuid.New()

	blank := validIncome(userID)
	blank.Name = "   "
	_, err := svc.CreateIncome(blank)
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	badCadence := validIncome(userID)
	badCadence.Cadence = domain.Cadence("daily")
	_, err = svc.CreateIncome(badCadence)
	assert.ErrorIs(t, err, domain.ErrUnsupportedCadence)

	negative := validIncome(userID)
	negative.NetAmount = decimal.NewFromInt(-1)
	_, err = svc.CreateIncome(negative)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	backwards := validIncome(userID)
	end := backwards.StartDate.AddDate(0, 0, -1)
	backwards.EndDate = &end
	_, err = svc.CreateIncome(backwards)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetIncomes_ActiveOnly(t *testing.T) {
	incomeRepo := testutil.NewMockIncomeProfileRepository()
	svc := NewIncomeService(incomeRepo)
	userID := uuid.New()

	active := validIncome(userID)
	active.ID = 1
	active.IsActive = true
	incomeRepo.AddIncome(active)

	inactive := validIncome(userID)
	inactive.ID = 2
	inactive.IsActive = false
	incomeRepo.AddIncome(inactive)

	all, err := svc.GetIncomes(userID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := svc.GetIncomes(userID, true)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, int32(1), onlyActive[0].ID)
}

func TestUpdateIncome_NotFound(t *testing.T) {
	svc := NewIncomeService(testutil.NewMockIncomeProfileRepository())
	input := validIncome(uuid.New())
	input.ID = 42

	_, err := svc.UpdateIncome(input)

	assert.ErrorIs(t, err, domain.ErrIncomeNotFound)
}

func TestDeleteIncome_ScopedToUser(t *testing.T) {
	incomeRepo := testutil.NewMockIncomeProfileRepository()
	svc := NewIncomeService(incomeRepo)
	owner := uuid.New()

	income := validIncome(owner)
	income.ID = 1
	incomeRepo.AddIncome(income)

	err := svc.DeleteIncome(uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrIncomeNotFound)

	err = svc.DeleteIncome(owner, 1)
	assert.NoError(t, err)
}
