package analytics

import (
	"testing"
	"time"

	"example.com/student-finance/backend/internal/models"
)

// TestCalculateAvailableMoney проверяет расчет свободных денег после
// предстоящих счетов и резерва на цель.
func TestCalculateAvailableMoney(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	input := AffordabilityInput{
		CurrentBalance: 15000,
		Transactions: []models.Transaction{
			{Date: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), Amount: -2000},
			{Date: time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC), Amount: -9999},
		},
		UpcomingBills: []models.Bill{
			{Name: "Rent", Amount: 5000, DueDate: time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)},
			{Name: "Far away", Amount: 700, DueDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		},
		Goals: []models.SavingsGoal{
			{
				TargetAmount:  10000,
				CurrentAmount: 5000,
				Deadline:      time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
			},
		},
		MonthlyIncome: 20000,
	}

	result := CalculateAvailableMoney(input, now)

	// До дедлайна 55.5 дней, два расчетных месяца: 5000 / 2 = 2500.
	if result.GoalAllocation != 2500 {
		t.Fatalf("expected goal allocation 2500, got %v", result.GoalAllocation)
	}
	if result.UpcomingBills != 5000 {
		t.Fatalf("expected upcoming bills 5000, got %v", result.UpcomingBills)
	}
	if result.AvailableMoney != 7500 {
		t.Fatalf("expected available 7500, got %v", result.AvailableMoney)
	}
	if result.TotalSpentThisMonth != -2000 {
		t.Fatalf("expected total spent -2000, got %v", result.TotalSpentThisMonth)
	}
	if result.Status != StatusGood {
		t.Fatalf("expected status good, got %q", result.Status)
	}
	if result.DaysLeftInMonth != 16 {
		t.Fatalf("expected 16 days left, got %d", result.DaysLeftInMonth)
	}
	if result.DailyBudget != 469 {
		t.Fatalf("expected daily budget 469, got %v", result.DailyBudget)
	}
}

// TestGoalAllocationIncomeCap проверяет ограничение резерва долей дохода.
func TestGoalAllocationIncomeCap(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	input := AffordabilityInput{
		CurrentBalance: 15000,
		Goals: []models.SavingsGoal{
			{
				TargetAmount:  10000,
				CurrentAmount: 5000,
				Deadline:      time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
			},
		},
		MonthlyIncome: 5000,
	}

	result := CalculateAvailableMoney(input, now)
	if result.GoalAllocation != 1500 {
		t.Fatalf("expected capped allocation 1500, got %v", result.GoalAllocation)
	}
}

// TestGoalAllocationSkipsIncomplete проверяет, что завершенные цели и цели
// без дедлайна не резервируют денег.
func TestGoalAllocationSkipsIncomplete(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	input := AffordabilityInput{
		CurrentBalance: 10000,
		Goals: []models.SavingsGoal{
			{TargetAmount: 5000, CurrentAmount: 5000, Deadline: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)},
			{TargetAmount: 5000, CurrentAmount: 0},
			{TargetAmount: 0, CurrentAmount: 0, Deadline: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	result := CalculateAvailableMoney(input, now)
	if result.GoalAllocation != 0 {
		t.Fatalf("expected zero allocation, got %v", result.GoalAllocation)
	}
}

// TestSpendingStatusCritical проверяет статус при отрицательном остатке.
func TestSpendingStatusCritical(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	input := AffordabilityInput{
		CurrentBalance: 1000,
		UpcomingBills: []models.Bill{
			{Name: "Rent", Amount: 5000, DueDate: time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)},
		},
	}

	result := CalculateAvailableMoney(input, now)
	if result.Status != StatusCritical {
		t.Fatalf("expected critical, got %q", result.Status)
	}
	if result.Color != "red" {
		t.Fatalf("expected red, got %q", result.Color)
	}
	if result.AvailableMoney != -4000 {
		t.Fatalf("expected -4000, got %v", result.AvailableMoney)
	}
}

// TestFormatMoney проверяет форматирование сумм с суффиксами K и L.
func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{150000, "₹1.5L"},
		{100000, "₹1.0L"},
		{2500, "₹2.5K"},
		{750, "₹750"},
	}

	for _, tc := range cases {
		if got := FormatMoney(tc.amount); got != tc.want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

// TestSpendingAdvice проверяет совет о конце месяца.
func TestSpendingAdvice(t *testing.T) {
	result := AffordabilityResult{Status: StatusGood, DailyBudget: 500, DaysLeftInMonth: 3}

	advice := SpendingAdvice(result)
	if len(advice) != 3 {
		t.Fatalf("expected 3 advice lines, got %d", len(advice))
	}
	if advice[2] != "📅 Month is almost over - stay strong!" {
		t.Fatalf("unexpected closing advice: %q", advice[2])
	}
}

// TestCanAfford проверяет рекомендации по гипотетической покупке.
func TestCanAfford(t *testing.T) {
	result := AffordabilityResult{AvailableMoney: 9000, DailyBudget: 300}

	cases := []struct {
		amount float64
		want   PurchaseRecommendation
		afford bool
	}{
		{900, PurchaseYes, true},
		{3000, PurchaseCareful, true},
		{6000, PurchaseRisky, true},
		{10000, PurchaseNo, false},
	}

	for _, tc := range cases {
		check := CanAfford(result, tc.amount)
		if check.Recommendation != tc.want {
			t.Fatalf("CanAfford(%v) = %q, want %q", tc.amount, check.Recommendation, tc.want)
		}
		if check.CanAfford != tc.afford {
			t.Fatalf("CanAfford(%v) affordability = %v, want %v", tc.amount, check.CanAfford, tc.afford)
		}
	}

	check := CanAfford(result, 3000)
	if check.Reasoning != "This equals 10 days of your daily budget. Make sure it's worth it." {
		t.Fatalf("unexpected reasoning: %q", check.Reasoning)
	}
	if check.RemainingAfter != 6000 {
		t.Fatalf("expected remaining 6000, got %v", check.RemainingAfter)
	}
}
