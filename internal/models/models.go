package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

type TransactionType string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryBills         Category = "Bills"
	CategoryIncome        Category = "Income"
	CategoryOther         Category = "Other"

	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Transaction хранит сумму со знаком: положительная значит доход, отрицательная расход.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Date      time.Time       `json:"date"`
	Merchant  string          `json:"merchant"`
	Amount    float64         `json:"amount"`
	Category  Category        `json:"category"`
	Type      TransactionType `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Bill описывает предстоящий платеж; не персистится, приходит в запросе расчета бюджета.
type Bill struct {
	Name    string    `json:"name"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

type Milestone struct {
	Percentage int       `json:"percentage"`
	Date       time.Time `json:"date"`
}

// SavingsGoal представляет единственную активную цель накоплений пользователя.
// Milestones упорядочены по возрастанию процента, каждый порог записывается один раз.
type SavingsGoal struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	Name          string      `json:"name"`
	TargetAmount  float64     `json:"target_amount"`
	CurrentAmount float64     `json:"current_amount"`
	Deadline      time.Time   `json:"deadline"`
	CreatedAt     time.Time   `json:"created_at"`
	Milestones    []Milestone `json:"milestones"`
}

type Insight struct {
	Title   string `json:"title"`
	Finding string `json:"finding"`
	Impact  string `json:"impact"`
	Tip     string `json:"tip"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
