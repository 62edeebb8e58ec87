package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/dvoss/paygrid/paygrid-backend/internal/middleware"
	"github.com/dvoss/paygrid/paygrid-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PeriodHandler handles pay period HTTP requests
type PeriodHandler struct {
	periodService *service.PeriodService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periodService *service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

// PeriodResponse represents a pay period in API responses
type PeriodResponse struct {
	ID           int32  `json:"id"`
	IncomeID     int32  `json:"incomeId"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	ExpectedNet  string `json:"expectedNet"`
	DaysInPeriod int    `json:"daysInPeriod"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// ReconciliationResponse represents a reconciliation report in API responses
type ReconciliationResponse struct {
	PeriodID    int32  `json:"periodId"`
	ExpectedNet string `json:"expectedNet"`
	ActualNet   string `json:"actualNet"`
	NetVariance string `json:"netVariance"`
	VariancePct string `json:"variancePct"`
	Status      string `json:"status"`
}

// CreatePeriod handles POST /api/v1/incomes/:id/periods
func (h *PeriodHandler) CreatePeriod(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	incomeID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid income id", nil)
	}

	period, err := h.periodService.CreateNextPeriod(userID, incomeID)
	if err != nil {
		return h.mapPeriodError(c, err, "Failed to create pay period")
	}
	return c.JSON(http.StatusCreated, toPeriodResponse(period))
}

// GetPeriods handles GET /api/v1/incomes/:id/periods
func (h *PeriodHandler) GetPeriods(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	incomeID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid income id", nil)
	}

	periods, err := h.periodService.GetPeriods(userID, incomeID)
	if err != nil {
		return h.mapPeriodError(c, err, "Failed to list pay periods")
	}

	resp := make([]*PeriodResponse, len(periods))
	for i, period := range periods {
		resp[i] = toPeriodResponse(period)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetCurrentPeriod handles GET /api/v1/incomes/:id/periods/current
func (h *PeriodHandler) GetCurrentPeriod(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	incomeID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid income id", nil)
	}

	period, err := h.periodService.GetCurrentPeriod(userID, incomeID, time.Now().UTC())
	if err != nil {
		return h.mapPeriodError(c, err, "Failed to get current pay period")
	}
	return c.JSON(http.StatusOK, toPeriodResponse(period))
}

// GetPeriod handles GET /api/v1/periods/:id
func (h *PeriodHandler) GetPeriod(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	periodID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid period id", nil)
	}

	period, err := h.periodService.GetPeriod(userID, periodID)
	if err != nil {
		return h.mapPeriodError(c, err, "Failed to get pay period")
	}
	return c.JSON(http.StatusOK, toPeriodResponse(period))
}

// ReactivatePeriod handles POST /api/v1/periods/:id/reactivate
func (h *PeriodHandler) ReactivatePeriod(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	periodID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid period id", nil)
	}

	period, err := h.periodService.Reactivate(userID, periodID)
	if err != nil {
		return h.mapPeriodError(c, err, "Failed to reactivate pay period")
	}
	return c.JSON(http.StatusOK, toPeriodResponse(period))
}

// GetReconciliation handles GET /api/v1/periods/:id/reconciliation
func (h *PeriodHandler) GetReconciliation(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	periodID, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid period id", nil)
	}

	report, err := h.periodService.Reconcile(userID, periodID)
	if err != nil {
		return h.mapPeriodError(c, err, "Failed to reconcile pay period")
	}
	return c.JSON(http.StatusOK, &ReconciliationResponse{
		PeriodID:    report.PeriodID,
		ExpectedNet: report.ExpectedNet.StringFixed(2),
		ActualNet:   report.ActualNet.StringFixed(2),
		NetVariance: report.NetVariance.StringFixed(2),
		VariancePct: report.VariancePct.StringFixed(2),
		Status:      string(report.Status),
	})
}

func (h *PeriodHandler) mapPeriodError(c echo.Context, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrIncomeNotFound):
		return NewNotFoundError(c, "Income profile not found")
	case errors.Is(err, domain.ErrPeriodNotFound):
		return NewNotFoundError(c, "Pay period not found")
	case errors.Is(err, domain.ErrActivePeriodExists):
		return NewConflictError(c, "Another active pay period already exists for this income profile")
	case errors.Is(err, domain.ErrPeriodNotCompleted):
		return NewConflictError(c, "Only completed pay periods can be reactivated")
	case errors.Is(err, domain.ErrUnsupportedCadence):
		return NewValidationError(c, "Unsupported cadence", nil)
	default:
		log.Error().Err(err).Msg(detail)
		return NewInternalError(c, detail)
	}
}

func toPeriodResponse(period *domain.PayPeriod) *PeriodResponse {
	return &PeriodResponse{
		ID:           period.ID,
		IncomeID:     period.IncomeID,
		StartDate:    period.StartDate.Format("2006-01-02"),
		EndDate:      period.EndDate.Format("2006-01-02"),
		ExpectedNet:  period.ExpectedNet.StringFixed(2),
		DaysInPeriod: period.DaysInPeriod,
		Status:       string(period.Status),
		CreatedAt:    period.CreatedAt.Format(time.RFC3339),
	}
}
