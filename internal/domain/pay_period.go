package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodStatus string

const (
	PeriodStatusActive    PeriodStatus = "ACTIVE"
	PeriodStatusCompleted PeriodStatus = "COMPLETED"
)

// PayPeriod is one concrete pay interval for an income profile. At most one
// ACTIVE period may exist per income profile at any time.
type PayPeriod struct {
	ID           int32           `json:"id"`
	IncomeID     int32           `json:"incomeId"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	ExpectedNet  decimal.Decimal `json:"expectedNet"`
	DaysInPeriod int             `json:"daysInPeriod"`
	Status       PeriodStatus    `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Contains reports whether the given date falls within the period, endpoints
// inclusive. The comparison uses the caller's wall date, so the zone offset
// never shifts a date across a period boundary.
func (p *PayPeriod) Contains(date time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// ReconciliationStatus classifies actual-vs-expected variance for a period
type ReconciliationStatus string

const (
	ReconciliationPerfect    ReconciliationStatus = "PERFECT"
	ReconciliationMinor      ReconciliationStatus = "MINOR"
	ReconciliationMajor      ReconciliationStatus = "MAJOR"
	ReconciliationIncomplete ReconciliationStatus = "INCOMPLETE"
)

// ReconciliationReport is a derived, read-only view; it is never stored
type ReconciliationReport struct {
	PeriodID    int32                `json:"periodId"`
	ExpectedNet decimal.Decimal      `json:"expectedNet"`
	ActualNet   decimal.Decimal      `json:"actualNet"`
	NetVariance decimal.Decimal      `json:"netVariance"`
	VariancePct decimal.Decimal      `json:"variancePct"`
	Status      ReconciliationStatus `json:"status"`
}

type PayPeriodRepository interface {
	Create(period *PayPeriod) (*PayPeriod, error)
	GetByID(id int32) (*PayPeriod, error)
	GetLatest(incomeID int32) (*PayPeriod, error)
	ListByIncome(incomeID int32) ([]*PayPeriod, error)
	// CountActiveExcluding counts ACTIVE periods for the income profile other
	// than excludeID, used to enforce the single-active-period invariant
	CountActiveExcluding(incomeID int32, excludeID int32) (int, error)
	UpdateStatus(id int32, status PeriodStatus) error
}
