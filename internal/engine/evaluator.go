package engine

import (
	"fmt"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Evaluate computes the amount one rule should receive from the income,
// given the already-computed allocations of earlier rules in dependency
// order. Only configuration-class problems (unsupported cadence, malformed
// rule value, unknown calc type) return an error; everything else is captured
// in the trace notes.
func Evaluate(rule *domain.BudgetRule, income *domain.IncomeProfile, prior []*domain.Allocation, cfg Config) (decimal.Decimal, domain.CalculationTrace, error) {
	trace := domain.CalculationTrace{CalculationType: rule.CalcType}

	if rule.Value.IsNegative() {
		return decimal.Zero, trace, domain.ErrInvalidRuleValue
	}

	factor, err := proRateFactor(rule, income, cfg)
	if err != nil {
		return decimal.Zero, trace, err
	}
	if !factor.Equal(decimal.NewFromInt(1)) {
		f := factor
		trace.ProRateFactor = &f
		trace.AddNote(fmt.Sprintf("amount pro-rated by %s for %s rule against %s income",
			factor.StringFixed(4), rule.Cadence, income.Cadence))
	}

	var amount decimal.Decimal
	switch rule.CalcType {
	case domain.CalcTypeFixed:
		trace.BaseAmount = rule.Value
		amount = rule.Value.Mul(factor)
	case domain.CalcTypeGrossPercent:
		pct := rule.Value
		trace.BaseAmount = income.GrossAmount
		trace.Percentage = &pct
		amount = income.GrossAmount.Mul(rule.Value).Div(oneHundred).Mul(factor)
	case domain.CalcTypeNetPercent:
		pct := rule.Value
		trace.BaseAmount = income.NetAmount
		trace.Percentage = &pct
		amount = income.NetAmount.Mul(rule.Value).Div(oneHundred).Mul(factor)
	case domain.CalcTypeRemainingPercent:
		pct := rule.Value
		depTotal := dependencyTotal(rule, prior)
		base := income.NetAmount.Sub(depTotal)
		trace.BaseAmount = base
		trace.Percentage = &pct
		trace.DependencyTotal = &depTotal
		if base.IsNegative() {
			trace.AddNote("dependency total exceeds net income; remaining base is negative")
		}
		amount = base.Mul(rule.Value).Div(oneHundred).Mul(factor)
	default:
		trace.AddNote(fmt.Sprintf("unknown calculation type %q; amount set to 0", rule.CalcType))
		return decimal.Zero, trace, domain.ErrUnknownCalcType
	}

	amount = cfg.round(amount)
	if amount.IsNegative() {
		trace.AddNote("negative result adjusted to 0")
		amount = decimal.Zero
	}
	return amount, trace, nil
}

// proRateFactor corrects for the rule's cadence differing from the income's.
// An explicit override wins over the canonical day-length table.
func proRateFactor(rule *domain.BudgetRule, income *domain.IncomeProfile, cfg Config) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if !cfg.EnableProRating {
		return one, nil
	}
	if rule.Cadence == income.Cadence {
		return one, nil
	}
	// The override replaces the canonical day-length table, so it only
	// applies once cadences actually differ
	if cfg.ProRateOverride != nil {
		return *cfg.ProRateOverride, nil
	}
	incomeDays, err := income.Cadence.CanonicalDays()
	if err != nil {
		return decimal.Zero, err
	}
	ruleDays, err := rule.Cadence.CanonicalDays()
	if err != nil {
		return decimal.Zero, err
	}
	return incomeDays.Div(ruleDays), nil
}

// dependencyTotal sums the expected amounts of the rule's dependencies among
// the already-evaluated allocations. Missing dependencies contribute zero.
func dependencyTotal(rule *domain.BudgetRule, prior []*domain.Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, alloc := range prior {
		if rule.DependsOnRule(alloc.RuleID) {
			total = total.Add(alloc.ExpectedAmount)
		}
	}
	return total
}
