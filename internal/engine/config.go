// Package engine implements the allocation calculation engine: dependency
// ordering of budget rules, per-rule amount evaluation with cadence pro-rating
// and rounding, and whole-batch generation for one pay period. All functions
// are pure; callers pass an explicit Config into every batch.
package engine

import "github.com/shopspring/decimal"

// RoundingMode selects how evaluated amounts are rounded to the configured
// precision
type RoundingMode string

const (
	RoundUp      RoundingMode = "up"
	RoundDown    RoundingMode = "down"
	RoundNearest RoundingMode = "nearest"
)

const (
	// DefaultPrecision is the number of decimal places amounts are rounded to
	DefaultPrecision int32 = 2
	// DefaultMaxIterations bounds the dependency resolver's scan passes
	DefaultMaxIterations = 10
)

// Config carries per-call calculation settings. There is no hidden global
// default; use DefaultConfig and override fields as needed.
type Config struct {
	EnableProRating bool
	Rounding        RoundingMode
	Precision       int32
	MaxIterations   int
	// ProRateOverride, when set, takes precedence over the canonical
	// day-length table for every rule in the batch
	ProRateOverride *decimal.Decimal
}

// DefaultConfig returns the standard calculation settings
func DefaultConfig() Config {
	return Config{
		EnableProRating: true,
		Rounding:        RoundNearest,
		Precision:       DefaultPrecision,
		MaxIterations:   DefaultMaxIterations,
	}
}

// round applies the configured rounding mode at the configured precision
func (c Config) round(d decimal.Decimal) decimal.Decimal {
	precision := c.Precision
	if precision == 0 {
		precision = DefaultPrecision
	}
	switch c.Rounding {
	case RoundUp:
		return d.RoundCeil(precision)
	case RoundDown:
		return d.RoundFloor(precision)
	default:
		// Half rounds away from zero: 10.005 -> 10.01
		return d.Round(precision)
	}
}
