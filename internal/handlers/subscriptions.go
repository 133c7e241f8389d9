package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/student-finance/backend/internal/analytics"
	"example.com/student-finance/backend/internal/auth"
	"example.com/student-finance/backend/internal/repository"
)

type SubscriptionHandler struct {
	Transactions *repository.TransactionRepository
}

// NewSubscriptionHandler создает обработчик анализа подписок.
func NewSubscriptionHandler(transactions *repository.TransactionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{Transactions: transactions}
}

type SubscriptionResponse struct {
	analytics.SubscriptionReport
	Summary string `json:"summary"`
}

// List возвращает найденные подписки, рекомендации и итоговую сводку.
func (h *SubscriptionHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transactions, err := h.Transactions.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	report := analytics.DetectSubscriptions(transactions, time.Now())
	return c.JSON(http.StatusOK, SubscriptionResponse{
		SubscriptionReport: report,
		Summary:            analytics.SubscriptionSummary(report.Subscriptions),
	})
}
