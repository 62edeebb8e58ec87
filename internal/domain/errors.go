package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalError      = errors.New("internal error")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncomeNotFound     = errors.New("income profile not found")
	ErrRuleNotFound       = errors.New("budget rule not found")
	ErrPeriodNotFound     = errors.New("pay period not found")
	ErrAllocationNotFound = errors.New("allocation not found")

	// Configuration-class errors: fail the specific operation immediately
	ErrUnsupportedCadence = errors.New("unsupported cadence")
	ErrInvalidRuleValue   = errors.New("invalid rule value")
	ErrUnknownCalcType    = errors.New("unknown calculation type")

	// Lifecycle invariant violations: hard errors, no partial mutation
	ErrActivePeriodExists = errors.New("another active pay period already exists for this income profile")
	ErrPeriodNotCompleted = errors.New("pay period is not completed")

	ErrNameRequired  = errors.New("name is required")
	ErrNameTooLong   = errors.New("name exceeds maximum length")
	ErrInvalidAmount = errors.New("amount must be non-negative")
)

// Validation constants
const (
	MaxNameLength = 255
)
