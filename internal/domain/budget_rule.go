package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalcType selects the formula a budget rule uses to derive its amount
type CalcType string

const (
	CalcTypeFixed            CalcType = "FIXED"
	CalcTypeGrossPercent     CalcType = "GROSS_PERCENT"
	CalcTypeNetPercent       CalcType = "NET_PERCENT"
	CalcTypeRemainingPercent CalcType = "REMAINING_PERCENT"
)

// Valid reports whether t is one of the four evaluable calculation types.
// Unknown types are tolerated at evaluation time (zero amount, error note),
// not rejected at the boundary.
func (t CalcType) Valid() bool {
	switch t {
	case CalcTypeFixed, CalcTypeGrossPercent, CalcTypeNetPercent, CalcTypeRemainingPercent:
		return true
	}
	return false
}

// BudgetRule is a named calculation instruction. Value is a currency amount
// for FIXED and a percentage for the percent types. DependsOn lists other rule
// ids and only matters for REMAINING_PERCENT; dangling or cyclic references
// are tolerated and degrade to best-effort ordering.
type BudgetRule struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	CalcType  CalcType        `json:"calcType"`
	Value     decimal.Decimal `json:"value"`
	Cadence   Cadence         `json:"cadence"`
	Priority  int32           `json:"priority"`
	DependsOn []int32         `json:"dependsOn"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DependsOnRule reports whether the rule lists id as a dependency
func (r *BudgetRule) DependsOnRule(id int32) bool {
	for _, dep := range r.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}

type BudgetRuleRepository interface {
	Create(rule *BudgetRule) (*BudgetRule, error)
	GetByID(userID uuid.UUID, id int32) (*BudgetRule, error)
	ListByUser(userID uuid.UUID, activeOnly bool) ([]*BudgetRule, error)
	Update(rule *BudgetRule) (*BudgetRule, error)
	Delete(userID uuid.UUID, id int32) error
}
