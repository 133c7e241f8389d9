// Package goal реализует машину состояний единственной цели накоплений:
// создание, пополнение, снятие и производные показатели прогресса.
package goal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"example.com/student-finance/backend/internal/models"
)

type ErrorCode string

const (
	CodeEmptyName         ErrorCode = "empty_name"
	CodeNonPositiveAmount ErrorCode = "non_positive_amount"
	CodePastDeadline      ErrorCode = "past_deadline"
	CodeNoActiveGoal      ErrorCode = "no_active_goal"
)

// ValidationError возвращается при некорректных действиях с целью;
// сообщение предназначено для показа пользователю.
type ValidationError struct {
	Code    ErrorCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrEmptyName         = &ValidationError{Code: CodeEmptyName, Message: "Your goal needs a name! What are you saving for?"}
	ErrNonPositiveTarget = &ValidationError{Code: CodeNonPositiveAmount, Message: "Target amount must be greater than 0"}
	ErrNonPositiveAmount = &ValidationError{Code: CodeNonPositiveAmount, Message: "Amount must be positive"}
	ErrPastDeadline      = &ValidationError{Code: CodePastDeadline, Message: "Deadline can't be in the past"}
	ErrNoActiveGoal      = &ValidationError{Code: CodeNoActiveGoal, Message: "Create a goal first before adding savings"}
)

var milestoneThresholds = []int{25, 50, 75, 100}

const hoursPerDay = 24

// New валидирует параметры и возвращает свежую цель без накоплений.
// Идентификаторы заполняет хранилище при сохранении.
func New(name string, targetAmount float64, deadline time.Time, now time.Time) (models.SavingsGoal, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.SavingsGoal{}, ErrEmptyName
	}
	if targetAmount <= 0 {
		return models.SavingsGoal{}, ErrNonPositiveTarget
	}
	if startOfDay(deadline).Before(startOfDay(now)) {
		return models.SavingsGoal{}, ErrPastDeadline
	}

	return models.SavingsGoal{
		Name:          trimmed,
		TargetAmount:  targetAmount,
		CurrentAmount: 0,
		Deadline:      startOfDay(deadline),
		CreatedAt:     startOfDay(now),
		Milestones:    []models.Milestone{},
	}, nil
}

// AddSavings увеличивает накопления и записывает не более одного нового
// рубежа за вызов: высший из впервые пройденных порогов 25/50/75/100.
func AddSavings(g models.SavingsGoal, amount float64, now time.Time) (models.SavingsGoal, error) {
	if amount <= 0 {
		return g, ErrNonPositiveAmount
	}

	before := progressPercent(g.CurrentAmount, g.TargetAmount)
	g.CurrentAmount += amount
	after := progressPercent(g.CurrentAmount, g.TargetAmount)

	if milestone, ok := crossedMilestone(g.Milestones, before, after); ok {
		g.Milestones = append(g.Milestones, models.Milestone{
			Percentage: milestone,
			Date:       now,
		})
	}

	return g, nil
}

// Spend уменьшает накопления, не опускаясь ниже нуля.
func Spend(g models.SavingsGoal, amount float64) (models.SavingsGoal, error) {
	if amount <= 0 {
		return g, ErrNonPositiveAmount
	}

	g.CurrentAmount = math.Max(0, g.CurrentAmount-amount)
	return g, nil
}

// CanAfford сообщает, хватает ли накоплений на покупку. Без цели всегда false.
func CanAfford(g *models.SavingsGoal, amount float64) bool {
	if g == nil {
		return false
	}

	return g.CurrentAmount >= amount
}

// Snapshot содержит производные показатели цели, пересчитываемые при каждом чтении.
type Snapshot struct {
	Progress        float64 `json:"progress"`
	DaysLeft        int     `json:"days_left"`
	DailyTarget     float64 `json:"daily_target"`
	IsOnTrack       bool    `json:"is_on_track"`
	AmountRemaining float64 `json:"amount_remaining"`
	Message         string  `json:"message"`
}

// Progress считает прогресс, дневную норму и мотивационное сообщение.
// Прогресс может превышать 100, daysLeft бывает отрицательным.
func Progress(g models.SavingsGoal, now time.Time) Snapshot {
	progress := progressPercent(g.CurrentAmount, g.TargetAmount)
	daysLeft := daysBetween(startOfDay(now), startOfDay(g.Deadline))
	remaining := math.Max(0, g.TargetAmount-g.CurrentAmount)

	dailyTarget := 0.0
	if daysLeft > 0 {
		dailyTarget = remaining / float64(daysLeft)
	}

	onTrack := isOnTrack(g, progress, daysLeft)

	return Snapshot{
		Progress:        progress,
		DaysLeft:        daysLeft,
		DailyTarget:     dailyTarget,
		IsOnTrack:       onTrack,
		AmountRemaining: remaining,
		Message:         motivationalMessage(progress, daysLeft, onTrack, dailyTarget),
	}
}

func isOnTrack(g models.SavingsGoal, progress float64, daysLeft int) bool {
	if progress >= 100 {
		return true
	}
	if daysLeft <= 0 {
		return false
	}

	totalDays := daysBetween(startOfDay(g.CreatedAt), startOfDay(g.Deadline))
	if totalDays <= 0 {
		return true
	}

	daysPassed := totalDays - daysLeft
	expectedProgress := float64(daysPassed) / float64(totalDays) * 100

	// Щедрый допуск: отставание до 10 процентных пунктов еще считается графиком.
	return progress >= expectedProgress-10
}

func motivationalMessage(progress float64, daysLeft int, onTrack bool, dailyTarget float64) string {
	switch {
	case progress >= 100:
		return "🎉 Goal reached! Time to treat yourself!"
	case progress >= 75:
		return "So close! You got this! 💪"
	case daysLeft <= 0:
		return "Deadline passed, but it's not too late to keep saving!"
	case onTrack:
		return fmt.Sprintf("On track! Keep saving ₹%.0f/day 🎯", math.Ceil(dailyTarget))
	default:
		return fmt.Sprintf("Need ₹%.0f/day to make it. You can do it! 💰", math.Ceil(dailyTarget))
	}
}

func crossedMilestone(recorded []models.Milestone, before, after float64) (int, bool) {
	highestRecorded := 0
	for _, milestone := range recorded {
		if milestone.Percentage > highestRecorded {
			highestRecorded = milestone.Percentage
		}
	}

	crossed := 0
	for _, threshold := range milestoneThresholds {
		if before < float64(threshold) && after >= float64(threshold) && threshold > highestRecorded {
			crossed = threshold
		}
	}

	return crossed, crossed > 0
}

func progressPercent(current, target float64) float64 {
	if target == 0 {
		return 0
	}

	return current / target * 100
}

func startOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func daysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / hoursPerDay))
}

