package goal

import (
	"errors"
	"testing"
	"time"

	"example.com/student-finance/backend/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// TestNew проверяет создание цели и нормализацию полей.
func TestNew(t *testing.T) {
	now := day(2025, time.March, 1)

	g, err := New("  Laptop  ", 50000, day(2025, time.June, 1), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "Laptop" {
		t.Fatalf("expected trimmed name, got %q", g.Name)
	}
	if g.CurrentAmount != 0 {
		t.Fatalf("expected zero savings, got %v", g.CurrentAmount)
	}
	if len(g.Milestones) != 0 {
		t.Fatalf("expected no milestones, got %d", len(g.Milestones))
	}
}

// TestNewValidation проверяет ошибки валидации при создании.
func TestNewValidation(t *testing.T) {
	now := day(2025, time.March, 1)

	if _, err := New("   ", 1000, day(2025, time.June, 1), now); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := New("Laptop", 0, day(2025, time.June, 1), now); !errors.Is(err, ErrNonPositiveTarget) {
		t.Fatalf("expected ErrNonPositiveTarget, got %v", err)
	}
	if _, err := New("Laptop", 1000, day(2025, time.February, 28), now); !errors.Is(err, ErrPastDeadline) {
		t.Fatalf("expected ErrPastDeadline, got %v", err)
	}

	// Дедлайн сегодня еще допустим.
	if _, err := New("Laptop", 1000, now, now); err != nil {
		t.Fatalf("unexpected error for same-day deadline: %v", err)
	}
}

// TestAddSavingsMilestones проверяет запись высшего впервые пройденного рубежа.
func TestAddSavingsMilestones(t *testing.T) {
	now := day(2025, time.March, 10)
	g := models.SavingsGoal{TargetAmount: 1000, CurrentAmount: 200}

	g, err := AddSavings(g, 100, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Milestones) != 1 || g.Milestones[0].Percentage != 25 {
		t.Fatalf("expected single 25%% milestone, got %+v", g.Milestones)
	}

	// Скачок с 30% на 90% записывает только 75.
	g, err = AddSavings(g, 600, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Milestones) != 2 || g.Milestones[1].Percentage != 75 {
		t.Fatalf("expected 75%% milestone, got %+v", g.Milestones)
	}

	g, err = AddSavings(g, 100, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Milestones) != 3 || g.Milestones[2].Percentage != 100 {
		t.Fatalf("expected 100%% milestone, got %+v", g.Milestones)
	}
}

// TestAddSavingsValidation проверяет отказ на неположительную сумму.
func TestAddSavingsValidation(t *testing.T) {
	g := models.SavingsGoal{TargetAmount: 1000}

	if _, err := AddSavings(g, 0, day(2025, time.March, 10)); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	if _, err := AddSavings(g, -50, day(2025, time.March, 10)); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
}

// TestSpend проверяет списание с полом в ноль.
func TestSpend(t *testing.T) {
	g := models.SavingsGoal{TargetAmount: 1000, CurrentAmount: 100}

	g, err := Spend(g, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.CurrentAmount != 0 {
		t.Fatalf("expected floor at zero, got %v", g.CurrentAmount)
	}

	if _, err := Spend(g, -10); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
}

// TestCanAfford проверяет проверку покупки из накоплений.
func TestCanAfford(t *testing.T) {
	if CanAfford(nil, 100) {
		t.Fatal("expected false without a goal")
	}

	g := models.SavingsGoal{CurrentAmount: 500}
	if !CanAfford(&g, 300) {
		t.Fatal("expected true for affordable amount")
	}
	if CanAfford(&g, 600) {
		t.Fatal("expected false for amount above savings")
	}
}

// TestProgress проверяет производные показатели и сообщения.
func TestProgress(t *testing.T) {
	now := day(2025, time.March, 11)
	g := models.SavingsGoal{
		TargetAmount:  1000,
		CurrentAmount: 500,
		CreatedAt:     day(2025, time.March, 1),
		Deadline:      day(2025, time.March, 21),
	}

	snap := Progress(g, now)
	if snap.Progress != 50 {
		t.Fatalf("expected progress 50, got %v", snap.Progress)
	}
	if snap.DaysLeft != 10 {
		t.Fatalf("expected 10 days left, got %d", snap.DaysLeft)
	}
	if snap.DailyTarget != 50 {
		t.Fatalf("expected daily target 50, got %v", snap.DailyTarget)
	}
	if !snap.IsOnTrack {
		t.Fatal("expected on track at half time, half progress")
	}
	if snap.Message != "On track! Keep saving ₹50/day 🎯" {
		t.Fatalf("unexpected message: %q", snap.Message)
	}
}

// TestProgressCompleted проверяет сообщение о достигнутой цели.
func TestProgressCompleted(t *testing.T) {
	g := models.SavingsGoal{
		TargetAmount:  1000,
		CurrentAmount: 1000,
		CreatedAt:     day(2025, time.January, 1),
		Deadline:      day(2025, time.June, 1),
	}

	snap := Progress(g, day(2025, time.March, 11))
	if snap.Message != "🎉 Goal reached! Time to treat yourself!" {
		t.Fatalf("unexpected message: %q", snap.Message)
	}
	if snap.AmountRemaining != 0 {
		t.Fatalf("expected nothing remaining, got %v", snap.AmountRemaining)
	}
}

// TestProgressDeadlinePassed проверяет сообщение после дедлайна.
func TestProgressDeadlinePassed(t *testing.T) {
	g := models.SavingsGoal{
		TargetAmount:  1000,
		CurrentAmount: 300,
		CreatedAt:     day(2025, time.January, 1),
		Deadline:      day(2025, time.February, 1),
	}

	snap := Progress(g, day(2025, time.March, 11))
	if snap.DaysLeft >= 0 {
		t.Fatalf("expected negative days left, got %d", snap.DaysLeft)
	}
	if snap.Message != "Deadline passed, but it's not too late to keep saving!" {
		t.Fatalf("unexpected message: %q", snap.Message)
	}
	if snap.IsOnTrack {
		t.Fatal("expected off track after deadline")
	}
}
