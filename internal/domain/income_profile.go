package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeProfile identifies one recurring income stream. Calculations treat it
// as an immutable snapshot; edits elsewhere produce a new effective snapshot.
type IncomeProfile struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Name        string          `json:"name"`
	Cadence     Cadence         `json:"cadence"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type IncomeProfileRepository interface {
	Create(income *IncomeProfile) (*IncomeProfile, error)
	GetByID(userID uuid.UUID, id int32) (*IncomeProfile, error)
	ListByUser(userID uuid.UUID, activeOnly bool) ([]*IncomeProfile, error)
	Update(income *IncomeProfile) (*IncomeProfile, error)
	Delete(userID uuid.UUID, id int32) error
}
