package handler

import (
	"github.com/dvoss/paygrid/paygrid-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, incomeHandler *IncomeHandler, ruleHandler *BudgetRuleHandler, periodHandler *PeriodHandler, allocationHandler *AllocationHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Income profile routes
	api.POST("/incomes", incomeHandler.CreateIncome)
	api.GET("/incomes", incomeHandler.GetIncomes)
	api.GET("/incomes/:id", incomeHandler.GetIncome)
	api.PUT("/incomes/:id", incomeHandler.UpdateIncome)
	api.DELETE("/incomes/:id", incomeHandler.DeleteIncome)

	// Budget rule routes
	api.POST("/rules", ruleHandler.CreateRule)
	api.GET("/rules", ruleHandler.GetRules)
	api.GET("/rules/:id", ruleHandler.GetRule)
	api.PUT("/rules/:id", ruleHandler.UpdateRule)
	api.DELETE("/rules/:id", ruleHandler.DeleteRule)

	// Pay period routes
	api.POST("/incomes/:id/periods", periodHandler.CreatePeriod)
	api.GET("/incomes/:id/periods", periodHandler.GetPeriods)
	api.GET("/incomes/:id/periods/current", periodHandler.GetCurrentPeriod)
	api.GET("/periods/:id", periodHandler.GetPeriod)
	api.POST("/periods/:id/reactivate", periodHandler.ReactivatePeriod)
	api.GET("/periods/:id/reconciliation", periodHandler.GetReconciliation)

	// Allocation routes
	api.POST("/periods/:id/allocations/generate", allocationHandler.GenerateAllocations)
	api.GET("/periods/:id/allocations", allocationHandler.GetAllocations)
	api.POST("/allocations/:id/pay", allocationHandler.MarkPaid)
	api.POST("/allocations/:id/unpay", allocationHandler.MarkUnpaid)
}
