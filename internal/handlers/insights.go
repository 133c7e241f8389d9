package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/student-finance/backend/internal/ai"
	"example.com/student-finance/backend/internal/auth"
	"example.com/student-finance/backend/internal/insights"
	"example.com/student-finance/backend/internal/models"
	"example.com/student-finance/backend/internal/notifications"
	"example.com/student-finance/backend/internal/repository"
)

type InsightsHandler struct {
	Service      *ai.Service
	Transactions *repository.TransactionRepository
	Cache        *insights.Cache
	Log          *repository.InsightLogRepository
	Notifier     *notifications.Hub
	Provider     string
	Model        string
}

// NewInsightsHandler создает обработчик ИИ-инсайтов.
func NewInsightsHandler(service *ai.Service, transactions *repository.TransactionRepository, cache *insights.Cache, logRepo *repository.InsightLogRepository, notifier *notifications.Hub, provider, model string) *InsightsHandler {
	return &InsightsHandler{
		Service:      service,
		Transactions: transactions,
		Cache:        cache,
		Log:          logRepo,
		Notifier:     notifier,
		Provider:     provider,
		Model:        model,
	}
}

type GenerateInsightsRequest struct {
	Force bool `json:"force"`
}

type InsightsResponse struct {
	Insights    []models.Insight `json:"insights"`
	GeneratedAt time.Time        `json:"generated_at"`
	Cached      bool             `json:"cached"`
}

// Generate запрашивает у провайдера четыре инсайта по тратам пользователя.
// Свежий кэш отдается без обращения к провайдеру, если не передан force.
func (h *InsightsHandler) Generate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GenerateInsightsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	now := time.Now()
	if !req.Force {
		if entry, state := h.Cache.Get(userID, now); state == insights.CacheFresh {
			return c.JSON(http.StatusOK, InsightsResponse{
				Insights:    entry.Insights,
				GeneratedAt: entry.GeneratedAt,
				Cached:      true,
			})
		}
	}

	ctx := c.Request().Context()
	transactions, err := h.Transactions.ListByUser(ctx, userID)
	if err != nil {
		return serverError(c)
	}
	if len(transactions) == 0 {
		return badRequest(c, "add some transactions first to get insights")
	}

	generated, prompt, raw, genErr := h.Service.GenerateInsights(ctx, transactions)
	h.logAttempt(c, userID, prompt, generated, raw, genErr)
	if genErr != nil {
		return h.renderGenerateError(c, genErr)
	}

	h.Cache.Put(userID, generated, now)
	h.Notifier.Publish(userID, notifications.EventInsightsGenerated, map[string]interface{}{"count": len(generated)})

	return c.JSON(http.StatusOK, InsightsResponse{
		Insights:    generated,
		GeneratedAt: now,
		Cached:      false,
	})
}

// Get возвращает последние сгенерированные инсайты, даже устаревшие.
func (h *InsightsHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	entry, state := h.Cache.Get(userID, time.Now())
	if state == insights.CacheMiss {
		return notFound(c, "no insights generated yet")
	}

	return c.JSON(http.StatusOK, InsightsResponse{
		Insights:    entry.Insights,
		GeneratedAt: entry.GeneratedAt,
		Cached:      true,
	})
}

// Clear сбрасывает кэш инсайтов пользователя.
func (h *InsightsHandler) Clear(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	h.Cache.Clear(userID)
	return c.NoContent(http.StatusNoContent)
}

func (h *InsightsHandler) renderGenerateError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		return c.JSON(http.StatusPaymentRequired, map[string]string{"error": "ai provider quota exceeded, try again later"})
	case errors.Is(err, ai.ErrInvalidAPIKey):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "ai provider rejected the api key"})
	case errors.Is(err, ai.ErrBadInsights):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "ai provider returned an unusable response"})
	default:
		return serverError(c)
	}
}

// logAttempt сохраняет запрос к провайдеру целиком, включая неудачные попытки.
func (h *InsightsHandler) logAttempt(c echo.Context, userID uuid.UUID, prompt string, generated []models.Insight, raw []byte, genErr error) {
	var response []byte
	if len(generated) > 0 {
		response, _ = json.Marshal(generated)
	}

	var errorMessage *string
	if genErr != nil {
		message := genErr.Error()
		errorMessage = &message
	}

	if err := h.Log.Create(c.Request().Context(), userID, h.Provider, h.Model, prompt, response, raw, errorMessage); err != nil {
		slog.Error("failed to log insight request", "error", err, "user_id", userID)
	}
}
