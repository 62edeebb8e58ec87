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
	"github.com/shopspring/decimal"
)

// BudgetRuleHandler handles budget rule HTTP requests
type BudgetRuleHandler struct {
	ruleService *service.BudgetRuleService
}

// NewBudgetRuleHandler creates a new BudgetRuleHandler
func NewBudgetRuleHandler(ruleService *service.BudgetRuleService) *BudgetRuleHandler {
	return &BudgetRuleHandler{ruleService: ruleService}
}

// BudgetRuleRequest represents the create/update budget rule request body
type BudgetRuleRequest struct {
	Name      string  `json:"name" validate:"required"`
	Category  string  `json:"category"`
	CalcType  string  `json:"calcType" validate:"required,calc_type"`
	Value     string  `json:"value" validate:"required"`
	Cadence   string  `json:"cadence" validate:"required,cadence"`
	Priority  int32   `json:"priority"`
	DependsOn []int32 `json:"dependsOn"`
	IsActive  *bool   `json:"isActive"`
}

// BudgetRuleResponse represents a budget rule in API responses
type BudgetRuleResponse struct {
	ID        int32   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	CalcType  string  `json:"calcType"`
	Value     string  `json:"value"`
	Cadence   string  `json:"cadence"`
	Priority  int32   `json:"priority"`
	DependsOn []int32 `json:"dependsOn"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateRule handles POST /api/v1/rules
func (h *BudgetRuleHandler) CreateRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	rule, ok := h.bindRule(c, userID)
	if !ok {
		return nil
	}

	created, err := h.ruleService.CreateRule(rule)
	if err != nil {
		return h.mapRuleError(c, err, "Failed to create budget rule")
	}
	return c.JSON(http.StatusCreated, toRuleResponse(created))
}

// GetRules handles GET /api/v1/rules
func (h *BudgetRuleHandler) GetRules(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	activeOnly := c.QueryParam("active") == "true"
	rules, err := h.ruleService.GetRules(userID, activeOnly)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list budget rules")
		return NewInternalError(c, "Failed to list budget rules")
	}

	resp := make([]*BudgetRuleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toRuleResponse(rule)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRule handles GET /api/v1/rules/:id
func (h *BudgetRuleHandler) GetRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid rule id", nil)
	}

	rule, err := h.ruleService.GetRule(userID, id)
	if err != nil {
		return h.mapRuleError(c, err, "Failed to get budget rule")
	}
	return c.JSON(http.StatusOK, toRuleResponse(rule))
}

// UpdateRule handles PUT /api/v1/rules/:id
func (h *BudgetRuleHandler) UpdateRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid rule id", nil)
	}

	rule, ok := h.bindRule(c, userID)
	if !ok {
		return nil
	}
	rule.ID = id

	updated, err := h.ruleService.UpdateRule(rule)
	if err != nil {
		return h.mapRuleError(c, err, "Failed to update budget rule")
	}
	return c.JSON(http.StatusOK, toRuleResponse(updated))
}

// DeleteRule handles DELETE /api/v1/rules/:id
func (h *BudgetRuleHandler) DeleteRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid rule id", nil)
	}

	if err := h.ruleService.DeleteRule(userID, id); err != nil {
		return h.mapRuleError(c, err, "Failed to delete budget rule")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BudgetRuleHandler) bindRule(c echo.Context, userID uuid.UUID) (*domain.BudgetRule, bool) {
	var req BudgetRuleRequest
	if err := c.Bind(&req); err != nil {
		_ = NewValidationError(c, "Invalid request body", nil)
		return nil, false
	}
	if err := c.Validate(&req); err != nil {
		_ = NewValidationError(c, err.Error(), nil)
		return nil, false
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		_ = NewValidationError(c, "Invalid rule value", []ValidationError{
			{Field: "value", Message: "Must be a valid decimal number"},
		})
		return nil, false
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &domain.BudgetRule{
		UserID:    userID,
		Name:      req.Name,
		Category:  req.Category,
		CalcType:  domain.CalcType(req.CalcType),
		Value:     value,
		Cadence:   domain.Cadence(req.Cadence),
		Priority:  req.Priority,
		DependsOn: req.DependsOn,
		IsActive:  isActive,
	}, true
}

func (h *BudgetRuleHandler) mapRuleError(c echo.Context, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrRuleNotFound):
		return NewNotFoundError(c, "Budget rule not found")
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
	case errors.Is(err, domain.ErrInvalidRuleValue):
		return NewValidationError(c, "Rule value must be non-negative", nil)
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "A rule cannot depend on itself", nil)
	default:
		log.Error().Err(err).Msg(detail)
		return NewInternalError(c, detail)
	}
}

func toRuleResponse(rule *domain.BudgetRule) *BudgetRuleResponse {
	dependsOn := rule.DependsOn
	if dependsOn == nil {
		dependsOn = []int32{}
	}
	return &BudgetRuleResponse{
		ID:        rule.ID,
		Name:      rule.Name,
		Category:  rule.Category,
		CalcType:  string(rule.CalcType),
		Value:     rule.Value.String(),
		Cadence:   string(rule.Cadence),
		Priority:  rule.Priority,
		DependsOn: dependsOn,
		IsActive:  rule.IsActive,
		CreatedAt: rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rule.UpdatedAt.Format(time.RFC3339),
	}
}
