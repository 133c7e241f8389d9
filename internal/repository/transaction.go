package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/student-finance/backend/internal/models"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

type TransactionSummary struct {
	Income   float64
	Expenses float64
	Balance  float64
}

// NewTransactionRepository создает репозиторий транзакций.
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create сохраняет транзакцию пользователя.
func (r *TransactionRepository) Create(ctx context.Context, userID uuid.UUID, date time.Time, merchant string, amount float64, category models.Category, txnType models.TransactionType) (models.Transaction, error) {
	var txn models.Transaction

	if strings.TrimSpace(merchant) == "" {
		return txn, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO transactions (user_id, transaction_date, merchant, amount, category, txn_type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, transaction_date, merchant, amount, category, txn_type, created_at, updated_at`,
		userID, date, merchant, amount, category, txnType,
	).Scan(&txn.ID, &txn.UserID, &txn.Date, &txn.Merchant, &txn.Amount, &txn.Category, &txn.Type, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return txn, err
	}

	return txn, nil
}

// GetByID возвращает транзакцию пользователя по идентификатору.
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Transaction, error) {
	var txn models.Transaction

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, transaction_date, merchant, amount, category, txn_type, created_at, updated_at
		 FROM transactions
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&txn.ID, &txn.UserID, &txn.Date, &txn.Merchant, &txn.Amount, &txn.Category, &txn.Type, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return txn, ErrNotFound
		}
		return txn, err
	}

	return txn, nil
}

// Update перезаписывает поля транзакции.
func (r *TransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, date time.Time, merchant string, amount float64, category models.Category, txnType models.TransactionType) (models.Transaction, error) {
	var txn models.Transaction

	if strings.TrimSpace(merchant) == "" {
		return txn, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`UPDATE transactions
		 SET transaction_date = $3, merchant = $4, amount = $5, category = $6, txn_type = $7, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, transaction_date, merchant, amount, category, txn_type, created_at, updated_at`,
		id, userID, date, merchant, amount, category, txnType,
	).Scan(&txn.ID, &txn.UserID, &txn.Date, &txn.Merchant, &txn.Amount, &txn.Category, &txn.Type, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return txn, ErrNotFound
		}
		return txn, err
	}

	return txn, nil
}

// Delete удаляет транзакцию пользователя.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListByUser возвращает транзакции пользователя, новые первыми.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, transaction_date, merchant, amount, category, txn_type, created_at, updated_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY transaction_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(&txn.ID, &txn.UserID, &txn.Date, &txn.Merchant, &txn.Amount, &txn.Category, &txn.Type, &txn.CreatedAt, &txn.UpdatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

// Summary считает доходы, расходы и баланс пользователя.
// Расход определяется по типу либо по отрицательной сумме.
func (r *TransactionRepository) Summary(ctx context.Context, userID uuid.UUID) (TransactionSummary, error) {
	var summary TransactionSummary

	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN txn_type = 'income' OR amount > 0 THEN amount ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN txn_type = 'income' OR amount > 0 THEN 0 ELSE ABS(amount) END), 0)
		 FROM transactions
		 WHERE user_id = $1`,
		userID,
	).Scan(&summary.Income, &summary.Expenses)
	if err != nil {
		return summary, err
	}

	summary.Balance = summary.Income - summary.Expenses
	return summary, nil
}
