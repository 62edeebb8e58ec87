package engine

import (
	"fmt"
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary aggregates one generation batch
type Summary struct {
	TotalAllocated    decimal.Decimal `json:"totalAllocated"`
	TotalRemaining    decimal.Decimal `json:"totalRemaining"`
	ItemsProcessed    int             `json:"itemsProcessed"`
	CalculationErrors []string        `json:"calculationErrors"`
}

// BatchResult is the output of generating allocations for one pay period.
// Success is true iff no rule produced a recorded error; a false Success still
// carries a usable partial result.
type BatchResult struct {
	Allocations      []*domain.Allocation `json:"allocations"`
	Summary          Summary              `json:"summary"`
	CalculationOrder []int32              `json:"calculationOrder"`
	UnresolvedRules  []int32              `json:"unresolvedRules,omitempty"`
	GeneratedAt      time.Time            `json:"generatedAt"`
	Success          bool                 `json:"success"`
}

// Generate evaluates the whole rule set against one pay period's income.
// Rules are processed in dependency order, each evaluation seeing the amounts
// of the rules before it. A per-rule failure does not abort the batch: the
// rule gets a zero-amount allocation carrying the error in its trace notes and
// processing continues.
func Generate(rules []*domain.BudgetRule, income *domain.IncomeProfile, periodID int32, cfg Config) *BatchResult {
	ordered, unresolved := Resolve(rules, cfg.MaxIterations)

	result := &BatchResult{
		Allocations:      make([]*domain.Allocation, 0, len(ordered)),
		CalculationOrder: make([]int32, 0, len(ordered)),
		UnresolvedRules:  unresolved,
		GeneratedAt:      time.Now().UTC(),
	}

	total := decimal.Zero
	var calcErrors []string

	for _, rule := range ordered {
		amount, trace, err := Evaluate(rule, income, result.Allocations, cfg)
		if err != nil {
			msg := fmt.Sprintf("rule %d (%s): %v", rule.ID, rule.Name, err)
			trace.AddNote(msg)
			calcErrors = append(calcErrors, msg)
			amount = decimal.Zero
		}

		result.Allocations = append(result.Allocations, &domain.Allocation{
			PeriodID:       periodID,
			RuleID:         rule.ID,
			ExpectedAmount: amount,
			Status:         domain.AllocationStatusUnpaid,
			Trace:          trace,
		})
		result.CalculationOrder = append(result.CalculationOrder, rule.ID)
		total = total.Add(amount)
	}

	result.Summary = Summary{
		TotalAllocated:    total,
		TotalRemaining:    income.NetAmount.Sub(total),
		ItemsProcessed:    len(result.Allocations),
		CalculationErrors: calcErrors,
	}
	result.Success = len(calcErrors) == 0
	return result
}
