package engine

import (
	"testing"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyIncome(gross, net float64) *domain.IncomeProfile {
	return &domain.IncomeProfile{
		ID:          1,
		Name:        "Salary",
		Cadence:     domain.CadenceMonthly,
		GrossAmount: decimal.NewFromFloat(gross),
		NetAmount:   decimal.NewFromFloat(net),
		IsActive:    true,
	}
}

func TestEvaluate_Fixed(t *testing.T) {
	r := &domain.BudgetRule{
		ID:       1,
		Name:     "Rent",
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromInt(1200),
		Cadence:  domain.CadenceMonthly,
	}

	amount, trace, err := Evaluate(r, monthlyIncome(4000, 3000), nil, DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "1200.00", amount.StringFixed(2))
	assert.Equal(t, "1200", trace.BaseAmount.String())
	assert.Nil(t, trace.ProRateFactor)
	assert.Empty(t, trace.Notes)
}

func TestEvaluate_GrossPercent(t *testing.T) {
	r := &domain.BudgetRule{
		ID:       1,
		Name:     "Retirement",
		CalcType: domain.CalcTypeGrossPercent,
		Value:    decimal.NewFromInt(10),
		Cadence:  domain.CadenceMonthly,
	}

	amount, trace, err := Evaluate(r, monthlyIncome(4000, 3000), nil, DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "400.00", amount.StringFixed(2))
	assert.Equal(t, "4000", trace.BaseAmount.String())
	require.NotNil(t, trace.Percentage)
	assert.Equal(t, "10", trace.Percentage.String())
}

func TestEvaluate_NetPercent(t *testing.T) {
	r := &domain.BudgetRule{
		ID:       1,
		Name:     "Savings",
		CalcType: domain.CalcTypeNetPercent,
		Value:    decimal.NewFromInt(50),
		Cadence:  domain.CadenceMonthly,
	}

	amount, _, err := Evaluate(r, monthlyIncome(1500, 1000), nil, DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "500.00", amount.StringFixed(2))
}

func TestEvaluate_RemainingPercent(t *testing.T) {
	r := &domain.BudgetRule{
		ID:        2,
		Name:      "Fun money",
		CalcType:  domain.CalcTypeRemainingPercent,
		Value:     decimal.NewFromInt(20),
		Cadence:   domain.CadenceMonthly,
		DependsOn: []int32{1},
	}
	prior := []*domain.Allocation{
		{RuleID: 1, ExpectedAmount: decimal.NewFromInt(1000)},
		// Not a dependency, must not affect the base
		{RuleID: 9, ExpectedAmount: decimal.NewFromInt(500)},
	}

	amount, trace, err := Evaluate(r, monthlyIncome(4000, 3000), prior, DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "400.00", amount.StringFixed(2))
	assert.Equal(t, "2000", trace.BaseAmount.String())
	require.NotNil(t, trace.DependencyTotal)
	assert.Equal(t, "1000", trace.DependencyTotal.String())
}

func TestEvaluate_RemainingPercent_NegativeBaseClampedToZero(t *testing.T) {
	r := &domain.BudgetRule{
		ID:        2,
		CalcType:  domain.CalcTypeRemainingPercent,
		Value:     decimal.NewFromInt(20),
		Cadence:   domain.CadenceMonthly,
		DependsOn: []int32{1},
	}
	prior := []*domain.Allocation{
		{RuleID: 1, ExpectedAmount: decimal.NewFromInt(5000)},
	}

	amount, trace, err := Evaluate(r, monthlyIncome(4000, 3000), prior, DefaultConfig())

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
	assert.Contains(t, trace.Notes, "dependency total exceeds net income; remaining base is negative")
	assert.Contains(t, trace.Notes, "negative result adjusted to 0")
}

func TestEvaluate_NegativeRuleValue(t *testing.T) {
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromInt(-100),
		Cadence:  domain.CadenceMonthly,
	}

	_, _, err := Evaluate(r, monthlyIncome(4000, 3000), nil, DefaultConfig())

	assert.ErrorIs(t, err, domain.ErrInvalidRuleValue)
}

func TestEvaluate_UnknownCalcType(t *testing.T) {
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcType("TITHE"),
		Value:    decimal.NewFromInt(10),
		Cadence:  domain.CadenceMonthly,
	}

	amount, _, err := Evaluate(r, monthlyIncome(4000, 3000), nil, DefaultConfig())

	assert.ErrorIs(t, err, domain.ErrUnknownCalcType)
	assert.True(t, amount.IsZero())
}

func TestEvaluate_ProRating_MonthlyRuleOnWeeklyIncome(t *testing.T) {
	income := monthlyIncome(1000, 800)
	income.Cadence = domain.CadenceWeekly
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromFloat(304.40),
		Cadence:  domain.CadenceMonthly,
	}

	amount, trace, err := Evaluate(r, income, nil, DefaultConfig())

	require.NoError(t, err)
	// factor = 7 / 30.44, so 304.40 * 7/30.44 = 70
	assert.Equal(t, "70.00", amount.StringFixed(2))
	require.NotNil(t, trace.ProRateFactor)
	assert.Len(t, trace.Notes, 1)
}

func TestEvaluate_ProRating_Disabled(t *testing.T) {
	income := monthlyIncome(1000, 800)
	income.Cadence = domain.CadenceWeekly
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromInt(300),
		Cadence:  domain.CadenceMonthly,
	}
	cfg := DefaultConfig()
	cfg.EnableProRating = false

	amount, trace, err := Evaluate(r, income, nil, cfg)

	require.NoError(t, err)
	assert.Equal(t, "300.00", amount.StringFixed(2))
	assert.Nil(t, trace.ProRateFactor)
}

func TestEvaluate_ProRating_Override(t *testing.T) {
	income := monthlyIncome(1000, 800)
	income.Cadence = domain.CadenceWeekly
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromInt(300),
		Cadence:  domain.CadenceMonthly,
	}
	cfg := DefaultConfig()
	override := decimal.NewFromFloat(0.5)
	cfg.ProRateOverride = &override

	amount, trace, err := Evaluate(r, income, nil, cfg)

	require.NoError(t, err)
	assert.Equal(t, "150.00", amount.StringFixed(2))
	require.NotNil(t, trace.ProRateFactor)
	assert.True(t, trace.ProRateFactor.Equal(override))
}

func TestEvaluate_ProRating_OverrideIgnoredForMatchingCadence(t *testing.T) {
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromInt(300),
		Cadence:  domain.CadenceMonthly,
	}
	cfg := DefaultConfig()
	override := decimal.NewFromFloat(0.5)
	cfg.ProRateOverride = &override

	amount, trace, err := Evaluate(r, monthlyIncome(1000, 800), nil, cfg)

	require.NoError(t, err)
	assert.Equal(t, "300.00", amount.StringFixed(2))
	assert.Nil(t, trace.ProRateFactor)
}

func TestEvaluate_ProRating_UnsupportedRuleCadence(t *testing.T) {
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromInt(300),
		Cadence:  domain.Cadence("daily"),
	}

	_, _, err := Evaluate(r, monthlyIncome(4000, 3000), nil, DefaultConfig())

	assert.ErrorIs(t, err, domain.ErrUnsupportedCadence)
}

func TestRounding_Modes(t *testing.T) {
	// 33.333% of 30.00 net is 9.9999
	income := monthlyIncome(40, 30)
	r := &domain.BudgetRule{
		ID:       1,
		CalcType: domain.CalcTypeNetPercent,
		Value:    decimal.NewFromFloat(33.333),
		Cadence:  domain.CadenceMonthly,
	}

	tests := []struct {
		mode RoundingMode
		want string
	}{
		{RoundUp, "10.00"},
		{RoundDown, "9.99"},
		{RoundNearest, "10.00"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Rounding = tt.mode

		amount, _, err := Evaluate(r, income, nil, cfg)

		require.NoError(t, err)
		assert.Equal(t, tt.want, amount.StringFixed(2), "mode %s", tt.mode)
	}
}

func TestRounding_HalfAwayFromZero(t *testing.T) {
	// 10.005 must round to 10.01 under nearest, not 10.00
	cfg := DefaultConfig()
	got := cfg.round(decimal.NewFromFloat(10.005))

	assert.Equal(t, "10.01", got.StringFixed(2))
}
