package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
	"github.com/dvoss/paygrid/paygrid-backend/internal/engine"
	"github.com/dvoss/paygrid/paygrid-backend/internal/service"
	"github.com/dvoss/paygrid/paygrid-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type allocationHandlerFixture struct {
	handler    *AllocationHandler
	allocRepo  *testutil.MockAllocationRepository
	periodRepo *testutil.MockPayPeriodRepository
	ruleRepo   *testutil.MockBudgetRuleRepository
	userID     uuid.UUID
}

func newAllocationHandlerFixture() *allocationHandlerFixture {
	allocRepo := testutil.NewMockAllocationRepository()
	periodRepo := testutil.NewMockPayPeriodRepository()
	ruleRepo := testutil.NewMockBudgetRuleRepository()
	incomeRepo := testutil.NewMockIncomeProfileRepository()
	userID := uuid.New()

	incomeRepo.AddIncome(&domain.IncomeProfile{
		ID:        1,
		UserID:    userID,
		Name:      "Salary",
		Cadence:   domain.CadenceMonthly,
		NetAmount: decimal.NewFromInt(3000),
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	periodRepo.AddPeriod(&domain.PayPeriod{
		ID:          1,
		IncomeID:    1,
		StartDate:   time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		ExpectedNet: decimal.NewFromInt(3000),
		Status:      domain.PeriodStatusActive,
	})

	svc := service.NewAllocationService(allocRepo, periodRepo, ruleRepo, incomeRepo, engine.DefaultConfig())
	return &allocationHandlerFixture{
		handler:    NewAllocationHandler(svc),
		allocRepo:  allocRepo,
		periodRepo: periodRepo,
		ruleRepo:   ruleRepo,
		userID:     userID,
	}
}

func TestGenerateAllocations_Success(t *testing.T) {
	e := newEcho()
	f := newAllocationHandlerFixture()
	f.ruleRepo.AddRule(&domain.BudgetRule{
		ID:       1,
		UserID:   f.userID,
		Name:     "Rent",
		CalcType: domain.CalcTypeFixed,
		Value:    decimal.NewFromInt(1000),
		Cadence:  domain.CadenceMonthly,
		IsActive: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/periods/1/allocations/generate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, f.userID)

	if err := f.handler.GenerateAllocations(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response BatchResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !response.Success {
		t.Error("Expected successful batch")
	}
	if len(response.Allocations) != 1 {
		t.Fatalf("Expected 1 allocation, got %d", len(response.Allocations))
	}
	if response.Allocations[0].ExpectedAmount != "1000.00" {
		t.Errorf("Expected amount '1000.00', got %s", response.Allocations[0].ExpectedAmount)
	}
	if response.TotalRemaining != "2000.00" {
		t.Errorf("Expected remaining '2000.00', got %s", response.TotalRemaining)
	}
}

func TestGenerateAllocations_PeriodNotFound(t *testing.T) {
	e := newEcho()
	f := newAllocationHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/periods/99/allocations/generate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	setupAuthContext(c, f.userID)

	if err := f.handler.GenerateAllocations(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestMarkPaid_WithActual(t *testing.T) {
	e := newEcho()
	f := newAllocationHandlerFixture()
	f.allocRepo.AddAllocation(&domain.Allocation{
		ID:             1,
		PeriodID:       1,
		RuleID:         1,
		ExpectedAmount: decimal.NewFromInt(1000),
		Status:         domain.AllocationStatusUnpaid,
	})

	reqBody := `{"actualAmount": "1015.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations/1/pay", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, f.userID)

	if err := f.handler.MarkPaid(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response AllocationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Status != "PAID" {
		t.Errorf("Expected status 'PAID', got %s", response.Status)
	}
	if response.ActualAmount == nil || *response.ActualAmount != "1015.50" {
		t.Errorf("Expected actual amount '1015.50', got %v", response.ActualAmount)
	}

	// Single allocation paid, so the owning period auto-completes
	if f.periodRepo.Periods[1].Status != domain.PeriodStatusCompleted {
		t.Errorf("Expected period to auto-complete, got %s", f.periodRepo.Periods[1].Status)
	}
}

func TestMarkPaid_InvalidActualAmount(t *testing.T) {
	e := newEcho()
	f := newAllocationHandlerFixture()

	reqBody := `{"actualAmount": "not-a-number"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations/1/pay", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, f.userID)

	if err := f.handler.MarkPaid(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestMarkUnpaid_ConflictWithOtherActivePeriod(t *testing.T) {
	e := newEcho()
	f := newAllocationHandlerFixture()
	f.allocRepo.AddAllocation(&domain.Allocation{
		ID:             1,
		PeriodID:       1,
		RuleID:         1,
		ExpectedAmount: decimal.NewFromInt(1000),
		Status:         domain.AllocationStatusPaid,
	})
	f.periodRepo.Periods[1].Status = domain.PeriodStatusCompleted
	f.periodRepo.AddPeriod(&domain.PayPeriod{
		ID:       2,
		IncomeID: 1,
		Status:   domain.PeriodStatusActive,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations/1/unpay", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, f.userID)

	if err := f.handler.MarkUnpaid(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeConflict {
		t.Errorf("Expected problem type %s, got %s", ErrorTypeConflict, problem.Type)
	}
}
