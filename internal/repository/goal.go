package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/student-finance/backend/internal/models"
)

// GoalRepository хранит по одной цели накоплений на пользователя:
// создание новой цели замещает предыдущую.
type GoalRepository struct {
	db *pgxpool.Pool
}

// NewGoalRepository создает репозиторий целей.
func NewGoalRepository(db *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{db: db}
}

// Get возвращает текущую цель пользователя.
func (r *GoalRepository) Get(ctx context.Context, userID uuid.UUID) (models.SavingsGoal, error) {
	var g models.SavingsGoal
	var milestones []byte

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline, created_at, milestones
		 FROM savings_goals
		 WHERE user_id = $1`,
		userID,
	).Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.CreatedAt, &milestones)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return g, ErrNotFound
		}
		return g, err
	}

	if err := unmarshalMilestones(milestones, &g); err != nil {
		return g, err
	}

	return g, nil
}

// Replace записывает новую цель взамен существующей.
func (r *GoalRepository) Replace(ctx context.Context, userID uuid.UUID, g models.SavingsGoal) (models.SavingsGoal, error) {
	milestones, err := marshalMilestones(g)
	if err != nil {
		return g, err
	}

	var stored models.SavingsGoal
	var rawMilestones []byte

	err = r.db.QueryRow(ctx,
		`INSERT INTO savings_goals (user_id, name, target_amount, current_amount, deadline, created_at, milestones)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE
		 SET name = EXCLUDED.name,
		     target_amount = EXCLUDED.target_amount,
		     current_amount = EXCLUDED.current_amount,
		     deadline = EXCLUDED.deadline,
		     created_at = EXCLUDED.created_at,
		     milestones = EXCLUDED.milestones
		 RETURNING id, user_id, name, target_amount, current_amount, deadline, created_at, milestones`,
		userID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.CreatedAt, milestones,
	).Scan(&stored.ID, &stored.UserID, &stored.Name, &stored.TargetAmount, &stored.CurrentAmount, &stored.Deadline, &stored.CreatedAt, &rawMilestones)
	if err != nil {
		return stored, err
	}

	if err := unmarshalMilestones(rawMilestones, &stored); err != nil {
		return stored, err
	}

	return stored, nil
}

// Save обновляет накопления и рубежи существующей цели.
func (r *GoalRepository) Save(ctx context.Context, userID uuid.UUID, g models.SavingsGoal) error {
	milestones, err := marshalMilestones(g)
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`UPDATE savings_goals
		 SET current_amount = $2, milestones = $3
		 WHERE user_id = $1`,
		userID, g.CurrentAmount, milestones,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete безусловно удаляет цель пользователя; отсутствие цели не ошибка.
func (r *GoalRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM savings_goals WHERE user_id = $1`,
		userID,
	)
	return err
}

func marshalMilestones(g models.SavingsGoal) ([]byte, error) {
	if g.Milestones == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(g.Milestones)
}

func unmarshalMilestones(raw []byte, g *models.SavingsGoal) error {
	g.Milestones = []models.Milestone{}
	if len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, &g.Milestones)
}
