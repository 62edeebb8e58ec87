package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/dvoss/paygrid/paygrid-backend/internal/middleware"
	"github.com/dvoss/paygrid/paygrid-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// IncomeHandler handles income profile HTTP requests
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents the create/update income profile request body
type IncomeRequest struct {
	Name        string `json:"name" validate:"required"`
	Cadence     string `json:"cadence" validate:"required,cadence"`
	GrossAmount string `json:"grossAmount" validate:"required"`
	NetAmount   string `json:"netAmount" validate:"required"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate,omitempty"`
}

// IncomeResponse represents an income profile in API responses
type IncomeResponse struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Cadence     string  `json:"cadence"`
	GrossAmount string  `json:"grossAmount"`
	NetAmount   string  `json:"netAmount"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate,omitempty"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	income, ok := h.bindIncome(c, userID)
	if !ok {
		return nil
	}

	created, err := h.incomeService.CreateIncome(income)
	if err != nil {
		return h.mapIncomeError(c, err, "Failed to create income profile")
	}
	return c.JSON(http.StatusCreated, toIncomeResponse(created))
}

// GetIncomes handles GET /api/v1/incomes
func (h *IncomeHandler) GetIncomes(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	activeOnly := c.QueryParam("active") == "true"
	incomes, err := h.incomeService.GetIncomes(userID, activeOnly)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list income profiles")
		return NewInternalError(c, "Failed to list income profiles")
	}

	resp := make([]*IncomeResponse, len(incomes))
	for i, income := range incomes {
		resp[i] = toIncomeResponse(income)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetIncome handles GET /api/v1/incomes/:id
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid income id", nil)
	}

	income, err := h.incomeService.GetIncome(userID, id)
	if err != nil {
		return h.mapIncomeError(c, err, "Failed to get income profile")
	}
	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// UpdateIncome handles PUT /api/v1/incomes/:id
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid income id", nil)
	}

	income, ok := h.bindIncome(c, userID)
	if !ok {
		return nil
	}
	income.ID = id

	updated, err := h.incomeService.UpdateIncome(income)
	if err != nil {
		return h.mapIncomeError(c, err, "Failed to update income profile")
	}
	return c.JSON(http.StatusOK, toIncomeResponse(updated))
}

// DeleteIncome handles DELETE /api/v1/incomes/:id
func (h *IncomeHandler) DeleteIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid income id", nil)
	}

	if err := h.incomeService.DeleteIncome(userID, id); err != nil {
		return h.mapIncomeError(c, err, "Failed to delete income profile")
	}
	return c.NoContent(http.StatusNoContent)
}

// bindIncome parses and validates the request body; on failure it writes the
// error response and returns false
func (h *IncomeHandler) bindIncome(c echo.Context, userID uuid.UUID) (*domain.IncomeProfile, bool) {
	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		_ = NewValidationError(c, "Invalid request body", nil)
		return nil, false
	}
	if err := c.Validate(&req); err != nil {
		_ = NewValidationError(c, err.Error(), nil)
		return nil, false
	}

	gross, err := decimal.NewFromString(req.GrossAmount)
	if err != nil {
		_ = NewValidationError(c, "Invalid gross amount", []ValidationError{
			{Field: "grossAmount", Message: "Must be a valid decimal number"},
		})
		return nil, false
	}
	net, err := decimal.NewFromString(req.NetAmount)
	if err != nil {
		_ = NewValidationError(c, "Invalid net amount", []ValidationError{
			{Field: "netAmount", Message: "Must be a valid decimal number"},
		})
		return nil, false
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		_ = NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be an ISO 8601 date"},
		})
		return nil, false
	}

	income := &domain.IncomeProfile{
		UserID:      userID,
		Name:        req.Name,
		Cadence:     domain.Cadence(req.Cadence),
		GrossAmount: gross,
		NetAmount:   net,
		StartDate:   startDate,
		IsActive:    true,
	}
	if req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			_ = NewValidationError(c, "Invalid end date", []ValidationError{
				{Field: "endDate", Message: "Must be an ISO 8601 date"},
			})
			return nil, false
		}
		income.EndDate = &endDate
	}
	return income, true
}

func (h *IncomeHandler) mapIncomeError(c echo.Context, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrIncomeNotFound):
		return NewNotFoundError(c, "Income profile not found")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name exceeds maximum length"},
		})
	case errors.Is(err, domain.ErrUnsupportedCadence):
		return NewValidationError(c, "Unsupported cadence", nil)
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Invalid income profile", nil)
	default:
		log.Error().Err(err).Msg(detail)
		return NewInternalError(c, detail)
	}
}

func toIncomeResponse(income *domain.IncomeProfile) *IncomeResponse {
	resp := &IncomeResponse{
		ID:          income.ID,
		Name:        income.Name,
		Cadence:     string(income.Cadence),
		GrossAmount: income.GrossAmount.StringFixed(2),
		NetAmount:   income.NetAmount.StringFixed(2),
		StartDate:   income.StartDate.Format("2006-01-02"),
		IsActive:    income.IsActive,
		CreatedAt:   income.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   income.UpdatedAt.Format(time.RFC3339),
	}
	if income.EndDate != nil {
		end := income.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}

// parseID parses an int32 path parameter
func parseID(c echo.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}
