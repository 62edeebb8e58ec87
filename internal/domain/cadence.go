package domain

import "github.com/shopspring/decimal"

// Cadence is a recurrence frequency for incomes and budget rules
type Cadence string

const (
	CadenceWeekly      Cadence = "weekly"
	CadenceBiWeekly    Cadence = "bi-weekly"
	CadenceSemiMonthly Cadence = "semi-monthly"
	CadenceMonthly     Cadence = "monthly"
	CadenceQuarterly   Cadence = "quarterly"
	CadenceAnnual      Cadence = "annual"
)

// canonicalDays maps each cadence to its average length in days, used for
// pro-rating between mismatched cadences
var canonicalDays = map[Cadence]decimal.Decimal{
	CadenceWeekly:      decimal.NewFromInt(7),
	CadenceBiWeekly:    decimal.NewFromInt(14),
	CadenceSemiMonthly: decimal.NewFromFloat(15.22),
	CadenceMonthly:     decimal.NewFromFloat(30.44),
	CadenceQuarterly:   decimal.NewFromFloat(91.31),
	CadenceAnnual:      decimal.NewFromFloat(365.25),
}

// Valid reports whether c is one of the six supported cadences
func (c Cadence) Valid() bool {
	_, ok := canonicalDays[c]
	return ok
}

// CanonicalDays returns the average period length in days for the cadence
func (c Cadence) CanonicalDays() (decimal.Decimal, error) {
	days, ok := canonicalDays[c]
	if !ok {
		return decimal.Zero, ErrUnsupportedCadence
	}
	return days, nil
}
