package engine

import (
	"sort"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
)

// Resolve orders the active rules so every rule appears after all rules in its
// dependency set, ties broken by ascending priority. Resolution never fails:
// when no progress can be made (a cycle, or a dependency on an inactive or
// missing rule) the remaining rules are appended in their current relative
// order and their ids are returned as unresolved. The returned slice always
// contains exactly the active input rules, no drops and no duplicates.
func Resolve(rules []*domain.BudgetRule, maxIterations int) (ordered []*domain.BudgetRule, unresolved []int32) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	remaining := make([]*domain.BudgetRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IsActive {
			remaining = append(remaining, rule)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Priority < remaining[j].Priority
	})

	ordered = make([]*domain.BudgetRule, 0, len(remaining))
	resolved := make(map[int32]bool, len(remaining))

	for iter := 0; iter < maxIterations && len(remaining) > 0; iter++ {
		// Scan back to front so removals keep earlier indices stable, then
		// restore the pass's moves to ascending-priority order.
		var moved []*domain.BudgetRule
		for i := len(remaining) - 1; i >= 0; i-- {
			if !depsResolved(remaining[i], resolved) {
				continue
			}
			moved = append(moved, remaining[i])
			remaining = append(remaining[:i], remaining[i+1:]...)
		}
		if len(moved) == 0 {
			break
		}
		for i := len(moved) - 1; i >= 0; i-- {
			ordered = append(ordered, moved[i])
			resolved[moved[i].ID] = true
		}
	}

	// Unresolvable tail: availability over correctness. Keep the rules in
	// their current relative order and let the caller surface the ids as a
	// warning.
	for _, rule := range remaining {
		ordered = append(ordered, rule)
		unresolved = append(unresolved, rule.ID)
	}
	return ordered, unresolved
}

func depsResolved(rule *domain.BudgetRule, resolved map[int32]bool) bool {
	for _, dep := range rule.DependsOn {
		if !resolved[dep] {
			return false
		}
	}
	return true
}
