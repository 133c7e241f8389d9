package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/student-finance/backend/internal/auth"
	"example.com/student-finance/backend/internal/goal"
	"example.com/student-finance/backend/internal/models"
	"example.com/student-finance/backend/internal/notifications"
	"example.com/student-finance/backend/internal/repository"
)

type GoalHandler struct {
	Goals    *repository.GoalRepository
	Notifier *notifications.Hub
}

// NewGoalHandler создает обработчик цели накоплений.
func NewGoalHandler(goals *repository.GoalRepository, notifier *notifications.Hub) *GoalHandler {
	return &GoalHandler{
		Goals:    goals,
		Notifier: notifier,
	}
}

type CreateGoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	Deadline     string  `json:"deadline" validate:"required"`
}

type GoalAmountRequest struct {
	Amount float64 `json:"amount"`
}

type GoalCheckRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

type GoalResponse struct {
	Goal     models.SavingsGoal `json:"goal"`
	Snapshot goal.Snapshot      `json:"snapshot"`
}

// Create заменяет активную цель пользователя новой.
func (h *GoalHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	deadline, err := time.Parse(dateLayout, req.Deadline)
	if err != nil {
		return badRequest(c, "deadline must be in YYYY-MM-DD format")
	}

	now := time.Now()
	created, err := goal.New(req.Name, req.TargetAmount, deadline, now)
	if err != nil {
		return goalError(c, err)
	}

	stored, err := h.Goals.Replace(c.Request().Context(), userID, created)
	if err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.EventGoalUpdated, stored)
	return c.JSON(http.StatusCreated, GoalResponse{
		Goal:     stored,
		Snapshot: goal.Progress(stored, now),
	})
}

// Get возвращает активную цель вместе с прогрессом.
func (h *GoalHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	stored, err := h.Goals.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, GoalResponse{
		Goal:     stored,
		Snapshot: goal.Progress(stored, time.Now()),
	})
}

// Deposit пополняет накопления и публикует событие о новом рубеже.
func (h *GoalHandler) Deposit(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GoalAmountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	ctx := c.Request().Context()
	stored, err := h.Goals.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return goalError(c, goal.ErrNoActiveGoal)
		}
		return serverError(c)
	}

	now := time.Now()
	updated, err := goal.AddSavings(stored, req.Amount, now)
	if err != nil {
		return goalError(c, err)
	}

	if err := h.Goals.Save(ctx, userID, updated); err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.EventGoalUpdated, updated)
	if len(updated.Milestones) > len(stored.Milestones) {
		h.Notifier.Publish(userID, notifications.EventGoalMilestone, updated.Milestones[len(updated.Milestones)-1])
	}

	return c.JSON(http.StatusOK, GoalResponse{
		Goal:     updated,
		Snapshot: goal.Progress(updated, now),
	})
}

// Withdraw списывает накопления. Без активной цели запрос ничего не меняет.
func (h *GoalHandler) Withdraw(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GoalAmountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	ctx := c.Request().Context()
	stored, err := h.Goals.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, map[string]interface{}{"goal": nil})
		}
		return serverError(c)
	}

	updated, err := goal.Spend(stored, req.Amount)
	if err != nil {
		return goalError(c, err)
	}

	if err := h.Goals.Save(ctx, userID, updated); err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.EventGoalUpdated, updated)
	return c.JSON(http.StatusOK, GoalResponse{
		Goal:     updated,
		Snapshot: goal.Progress(updated, time.Now()),
	})
}

// CanAfford проверяет, хватает ли накоплений на сумму.
func (h *GoalHandler) CanAfford(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GoalCheckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	var active *models.SavingsGoal
	stored, err := h.Goals.Get(c.Request().Context(), userID)
	if err == nil {
		active = &stored
	} else if !errors.Is(err, repository.ErrNotFound) {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"amount":     req.Amount,
		"can_afford": goal.CanAfford(active, req.Amount),
	})
}

// Delete удаляет цель пользователя. Отсутствие цели не считается ошибкой.
func (h *GoalHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.Goals.Delete(c.Request().Context(), userID); err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(userID, notifications.EventGoalUpdated, nil)
	return c.NoContent(http.StatusNoContent)
}

func goalError(c echo.Context, err error) error {
	var validation *goal.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": validation.Message,
			"code":  string(validation.Code),
		})
	}
	return serverError(c)
}
