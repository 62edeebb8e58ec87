package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/dvoss/paygrid/paygrid-backend/internal/engine"
	"github.com/dvoss/paygrid/paygrid-backend/internal/middleware"
	"github.com/dvoss/paygrid/paygrid-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AllocationHandler handles allocation HTTP requests
type AllocationHandler struct {
	allocationService *service.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// MarkPaidRequest represents the mark-paid request body
type MarkPaidRequest struct {
	ActualAmount string `json:"actualAmount,omitempty"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID             int32                   `json:"id"`
	PeriodID       int32                   `json:"periodId"`
	RuleID         int32                   `json:"ruleId"`
	ExpectedAmount string                  `json:"expectedAmount"`
	ActualAmount   *string                 `json:"actualAmount,omitempty"`
	Status         string                  `json:"status"`
	Details        domain.CalculationTrace `json:"calculationDetails"`
	CreatedAt      string                  `json:"createdAt"`
}

// BatchResultResponse represents a generation batch in API responses
type BatchResultResponse struct {
	Allocations      []*AllocationResponse `json:"allocations"`
	TotalAllocated   string                `json:"totalAllocated"`
	TotalRemaining   string                `json:"totalRemaining"`
	ItemsProcessed   int                   `json:"itemsProcessed"`
	CalculationOrder []int32               `json:"calculationOrder"`
	Errors           []string              `json:"calculationErrors"`
	UnresolvedRules  []int32               `json:"unresolvedRules,omitempty"`
	GeneratedAt      string                `json:"generatedAt"`
	Success          bool                  `json:"success"`
}

// GenerateAllocations handles POST /api/v1/periods/:id/allocations/generate
func (h *AllocationHandler) GenerateAllocations(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	periodID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid period id", nil)
	}

	result, err := h.allocationService.GenerateForPeriod(userID, periodID)
	if err != nil {
		return h.mapAllocationError(c, err, "Failed to generate allocations")
	}
	return c.JSON(http.StatusOK, toBatchResponse(result))
}

// GetAllocations handles GET /api/v1/periods/:id/allocations
func (h *AllocationHandler) GetAllocations(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	periodID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid period id", nil)
	}

	allocations, err := h.allocationService.GetAllocations(userID, periodID)
	if err != nil {
		return h.mapAllocationError(c, err, "Failed to list allocations")
	}

	resp := make([]*AllocationResponse, len(allocations))
	for i, alloc := range allocations {
		resp[i] = toAllocationResponse(alloc)
	}
	return c.JSON(http.StatusOK, resp)
}

// MarkPaid handles POST /api/v1/allocations/:id/pay
func (h *AllocationHandler) MarkPaid(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	allocationID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid allocation id", nil)
	}

	var req MarkPaidRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var actual *decimal.Decimal
	if req.ActualAmount != "" {
		amount, err := decimal.NewFromString(req.ActualAmount)
		if err != nil {
			return NewValidationError(c, "Invalid actual amount", []ValidationError{
				{Field: "actualAmount", Message: "Must be a valid decimal number"},
			})
		}
		actual = &amount
	}

	alloc, err := h.allocationService.MarkPaid(userID, allocationID, actual)
	if err != nil {
		return h.mapAllocationError(c, err, "Failed to mark allocation paid")
	}
	return c.JSON(http.StatusOK, toAllocationResponse(alloc))
}

// MarkUnpaid handles POST /api/v1/allocations/:id/unpay
func (h *AllocationHandler) MarkUnpaid(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	allocationID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid allocation id", nil)
	}

	alloc, err := h.allocationService.MarkUnpaid(userID, allocationID)
	if err != nil {
		return h.mapAllocationError(c, err, "Failed to mark allocation unpaid")
	}
	return c.JSON(http.StatusOK, toAllocationResponse(alloc))
}

func (h *AllocationHandler) mapAllocationError(c echo.Context, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrAllocationNotFound):
		return NewNotFoundError(c, "Allocation not found")
	case errors.Is(err, domain.ErrPeriodNotFound):
		return NewNotFoundError(c, "Pay period not found")
	case errors.Is(err, domain.ErrIncomeNotFound):
		return NewNotFoundError(c, "Income profile not found")
	case errors.Is(err, domain.ErrActivePeriodExists):
		return NewConflictError(c, "Another active pay period already exists for this income profile")
	default:
		log.Error().Err(err).Msg(detail)
		return NewInternalError(c, detail)
	}
}

func toAllocationResponse(alloc *domain.Allocation) *AllocationResponse {
	resp := &AllocationResponse{
		ID:             alloc.ID,
		PeriodID:       alloc.PeriodID,
		RuleID:         alloc.RuleID,
		ExpectedAmount: alloc.ExpectedAmount.StringFixed(2),
		Status:         string(alloc.Status),
		Details:        alloc.Trace,
		CreatedAt:      alloc.CreatedAt.Format(time.RFC3339),
	}
	if alloc.ActualAmount != nil {
		actual := alloc.ActualAmount.StringFixed(2)
		resp.ActualAmount = &actual
	}
	return resp
}

func toBatchResponse(result *engine.BatchResult) *BatchResultResponse {
	allocations := make([]*AllocationResponse, len(result.Allocations))
	for i, alloc := range result.Allocations {
		allocations[i] = toAllocationResponse(alloc)
	}
	errs := result.Summary.CalculationErrors
	if errs == nil {
		errs = []string{}
	}
	return &BatchResultResponse{
		Allocations:      allocations,
		TotalAllocated:   result.Summary.TotalAllocated.StringFixed(2),
		TotalRemaining:   result.Summary.TotalRemaining.StringFixed(2),
		ItemsProcessed:   result.Summary.ItemsProcessed,
		CalculationOrder: result.CalculationOrder,
		Errors:           errs,
		UnresolvedRules:  result.UnresolvedRules,
		GeneratedAt:      result.GeneratedAt.Format(time.RFC3339),
		Success:          result.Success,
	}
}
