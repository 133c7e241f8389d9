package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/student-finance/backend/internal/analytics"
	"example.com/student-finance/backend/internal/auth"
	"example.com/student-finance/backend/internal/models"
	"example.com/student-finance/backend/internal/repository"
)

type BudgetHandler struct {
	Transactions *repository.TransactionRepository
	Goals        *repository.GoalRepository
}

// NewBudgetHandler создает обработчик расчета бюджета.
func NewBudgetHandler(transactions *repository.TransactionRepository, goals *repository.GoalRepository) *BudgetHandler {
	return &BudgetHandler{
		Transactions: transactions,
		Goals:        goals,
	}
}

type BillRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Amount  float64 `json:"amount" validate:"gt=0"`
	DueDate string  `json:"due_date" validate:"required"`
}

type AffordabilityRequest struct {
	CurrentBalance *float64      `json:"current_balance"`
	Bills          []BillRequest `json:"bills" validate:"omitempty,dive"`
	MonthlyIncome  float64       `json:"monthly_income" validate:"gte=0"`
}

type AffordabilityResponse struct {
	analytics.AffordabilityResult
	Advice          []string `json:"advice"`
	FormattedAmount string   `json:"formatted_available"`
}

type PurchaseCheckRequest struct {
	PurchaseAmount float64       `json:"purchase_amount" validate:"gt=0"`
	CurrentBalance *float64      `json:"current_balance"`
	Bills          []BillRequest `json:"bills" validate:"omitempty,dive"`
	MonthlyIncome  float64       `json:"monthly_income" validate:"gte=0"`
}

// Affordability считает свободные деньги после счетов и резерва на цель.
// Баланс берется из транзакций, если явно не передан в запросе.
func (h *BudgetHandler) Affordability(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AffordabilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	bills, err := parseBills(req.Bills)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.calculate(c, userID, req.CurrentBalance, bills, req.MonthlyIncome)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, AffordabilityResponse{
		AffordabilityResult: result,
		Advice:              analytics.SpendingAdvice(result),
		FormattedAmount:     analytics.FormatMoney(result.AvailableMoney),
	})
}

// CanAfford оценивает гипотетическую покупку на фоне текущего бюджета.
func (h *BudgetHandler) CanAfford(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req PurchaseCheckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	bills, err := parseBills(req.Bills)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.calculate(c, userID, req.CurrentBalance, bills, req.MonthlyIncome)
	if err != nil {
		return serverError(c)
	}

	check := analytics.CanAfford(result, req.PurchaseAmount)
	return c.JSON(http.StatusOK, check)
}

func (h *BudgetHandler) calculate(c echo.Context, userID uuid.UUID, balanceOverride *float64, bills []models.Bill, monthlyIncome float64) (analytics.AffordabilityResult, error) {
	ctx := c.Request().Context()

	transactions, err := h.Transactions.ListByUser(ctx, userID)
	if err != nil {
		return analytics.AffordabilityResult{}, err
	}

	balance := 0.0
	if balanceOverride != nil {
		balance = *balanceOverride
	} else {
		summary, err := h.Transactions.Summary(ctx, userID)
		if err != nil {
			return analytics.AffordabilityResult{}, err
		}
		balance = summary.Balance
	}

	goals := make([]models.SavingsGoal, 0, 1)
	stored, err := h.Goals.Get(ctx, userID)
	if err == nil {
		goals = append(goals, stored)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return analytics.AffordabilityResult{}, err
	}

	input := analytics.AffordabilityInput{
		CurrentBalance: balance,
		Transactions:   transactions,
		UpcomingBills:  bills,
		Goals:          goals,
		MonthlyIncome:  monthlyIncome,
	}

	return analytics.CalculateAvailableMoney(input, time.Now()), nil
}

func parseBills(requests []BillRequest) ([]models.Bill, error) {
	bills := make([]models.Bill, 0, len(requests))
	for _, req := range requests {
		dueDate, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return nil, errors.New("bill due_date must be in YYYY-MM-DD format")
		}
		bills = append(bills, models.Bill{
			Name:    req.Name,
			Amount:  req.Amount,
			DueDate: dueDate,
		})
	}

	return bills, nil
}
