package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InsightLogRepository ведет журнал обращений к AI-провайдеру:
// промпт, сырой ответ и ошибка, если генерация не удалась.
type InsightLogRepository struct {
	db *pgxpool.Pool
}

// NewInsightLogRepository создает репозиторий журнала AI-запросов.
func NewInsightLogRepository(db *pgxpool.Pool) *InsightLogRepository {
	return &InsightLogRepository{db: db}
}

// Create записывает попытку генерации инсайтов.
func (r *InsightLogRepository) Create(ctx context.Context, userID uuid.UUID, provider, model, prompt string, response, raw []byte, errorMessage *string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO insight_requests (user_id, provider, model, prompt, response, raw_response, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, provider, model, prompt, response, raw, errorMessage,
	)
	return err
}
