package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AllocationStatus string

const (
	AllocationStatusUnpaid AllocationStatus = "UNPAID"
	AllocationStatusPaid   AllocationStatus = "PAID"
)

// Allocation is the computed result of evaluating one budget rule against one
// pay period. ExpectedAmount is immutable once generated for the period;
// regeneration replaces the whole set. ActualAmount is set by the lifecycle
// layer when the allocation is marked paid.
type Allocation struct {
	ID             int32            `json:"id"`
	PeriodID       int32            `json:"periodId"`
	RuleID         int32            `json:"ruleId"`
	ExpectedAmount decimal.Decimal  `json:"expectedAmount"`
	ActualAmount   *decimal.Decimal `json:"actualAmount,omitempty"`
	Status         AllocationStatus `json:"status"`
	Trace          CalculationTrace `json:"calculationDetails"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// CalculationTrace is the per-rule diagnostic attached to an allocation at
// generation time. Notes carry warnings, not errors.
type CalculationTrace struct {
	BaseAmount      decimal.Decimal  `json:"baseAmount"`
	CalculationType CalcType         `json:"calculationType"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
	ProRateFactor   *decimal.Decimal `json:"proRatedFactor,omitempty"`
	DependencyTotal *decimal.Decimal `json:"dependencyTotal,omitempty"`
	Notes           []string         `json:"notes,omitempty"`
}

// AddNote appends a free-text note to the trace
func (t *CalculationTrace) AddNote(note string) {
	t.Notes = append(t.Notes, note)
}

type AllocationRepository interface {
	GetByID(id int32) (*Allocation, error)
	ListByPeriod(periodID int32) ([]*Allocation, error)
	// ReplaceForPeriod deletes all allocations for the period and inserts the
	// given set in a single transaction
	ReplaceForPeriod(periodID int32, allocations []*Allocation) ([]*Allocation, error)
	// UpdateStatus sets status and actual amount together; passing a nil
	// actual clears the stored value
	UpdateStatus(id int32, status AllocationStatus, actual *decimal.Decimal) (*Allocation, error)
}
