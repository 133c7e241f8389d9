package analytics

import (
	"fmt"
	"math"
	"time"

	"example.com/student-finance/backend/internal/models"
)

type SpendingStatus string

const (
	StatusCritical SpendingStatus = "critical"
	StatusLow      SpendingStatus = "low"
	StatusModerate SpendingStatus = "moderate"
	StatusGood     SpendingStatus = "good"
)

const (
	// Доля месячного дохода, выше которой накопления на цели не резервируются.
	goalAllocationIncomeCap = 0.3

	daysPerMonth = 30
	hoursPerDay  = 24
)

type AffordabilityInput struct {
	CurrentBalance float64
	Transactions   []models.Transaction
	UpcomingBills  []models.Bill
	Goals          []models.SavingsGoal
	MonthlyIncome  float64
}

type Breakdown struct {
	Balance   float64 `json:"balance"`
	Bills     float64 `json:"bills"`
	Goals     float64 `json:"goals"`
	Available float64 `json:"available"`
}

type AffordabilityResult struct {
	AvailableMoney      float64        `json:"available_money"`
	CurrentBalance      float64        `json:"current_balance"`
	UpcomingBills       float64        `json:"upcoming_bills"`
	GoalAllocation      float64        `json:"goal_allocation"`
	TotalSpentThisMonth float64        `json:"total_spent_this_month"`
	Status              SpendingStatus `json:"status"`
	Color               string         `json:"color"`
	Message             string         `json:"message"`
	DailyBudget         float64        `json:"daily_budget"`
	DaysLeftInMonth     int            `json:"days_left_in_month"`
	Breakdown           Breakdown      `json:"breakdown"`
}

// CalculateAvailableMoney считает свободные деньги после предстоящих платежей
// и резерва на цели накоплений. Функция чистая, не ошибается: некорректные
// необязательные поля дают нулевой вклад.
func CalculateAvailableMoney(input AffordabilityInput, now time.Time) AffordabilityResult {
	// TotalSpentThisMonth суммирует суммы со знаком, доходы уменьшают итог.
	// Поле только диагностическое и в формулу availableMoney не входит.
	totalSpentThisMonth := sumThisMonth(input.Transactions, now)

	upcomingBillsTotal := sumUpcomingBills(input.UpcomingBills, now)
	goalAllocation := calculateGoalAllocation(input.Goals, input.MonthlyIncome, now)
	availableMoney := input.CurrentBalance - upcomingBillsTotal - goalAllocation

	status, color, message := spendingStatus(availableMoney, input.CurrentBalance)

	daysLeft := daysLeftInMonth(now)
	dailyBudget := 0.0
	if daysLeft > 0 {
		dailyBudget = availableMoney / float64(daysLeft)
	}

	return AffordabilityResult{
		AvailableMoney:      math.Round(availableMoney),
		CurrentBalance:      math.Round(input.CurrentBalance),
		UpcomingBills:       math.Round(upcomingBillsTotal),
		GoalAllocation:      math.Round(goalAllocation),
		TotalSpentThisMonth: math.Round(totalSpentThisMonth),
		Status:              status,
		Color:               color,
		Message:             message,
		DailyBudget:         math.Round(dailyBudget),
		DaysLeftInMonth:     daysLeft,
		Breakdown: Breakdown{
			Balance:   math.Round(input.CurrentBalance),
			Bills:     math.Round(upcomingBillsTotal),
			Goals:     math.Round(goalAllocation),
			Available: math.Round(availableMoney),
		},
	}
}

func sumThisMonth(transactions []models.Transaction, now time.Time) float64 {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var total float64
	for _, txn := range transactions {
		if txn.Date.Before(firstOfMonth) || txn.Date.After(now) {
			continue
		}
		total += txn.Amount
	}

	return total
}

func sumUpcomingBills(bills []models.Bill, now time.Time) float64 {
	horizon := now.AddDate(0, 0, daysPerMonth)

	var total float64
	for _, bill := range bills {
		if bill.DueDate.Before(now) || bill.DueDate.After(horizon) {
			continue
		}
		total += bill.Amount
	}

	return total
}

func calculateGoalAllocation(goals []models.SavingsGoal, monthlyIncome float64, now time.Time) float64 {
	var total float64

	for _, goal := range goals {
		if goal.TargetAmount <= 0 || goal.Deadline.IsZero() {
			continue
		}

		remaining := goal.TargetAmount - goal.CurrentAmount
		if remaining <= 0 {
			continue
		}

		daysLeft := goal.Deadline.Sub(now).Hours() / hoursPerDay
		monthsLeft := math.Max(1, math.Ceil(daysLeft/daysPerMonth))
		total += remaining / monthsLeft
	}

	if monthlyIncome > 0 {
		return math.Min(total, monthlyIncome*goalAllocationIncomeCap)
	}

	return total
}

func spendingStatus(available, balance float64) (SpendingStatus, string, string) {
	percentage := 0.0
	if balance > 0 {
		percentage = available / balance * 100
	}

	switch {
	case available < 0:
		return StatusCritical, "red", "⚠️ Warning: You may not have enough for upcoming bills and goals!"
	case percentage < 20 || available < 1000:
		return StatusLow, "orange", "⚡ Low funds: Spend carefully!"
	case percentage < 40 || available < 3000:
		return StatusModerate, "yellow", "💡 Moderate funds: Watch your spending"
	default:
		return StatusGood, "green", "✅ Good to go! You can spend comfortably"
	}
}

func daysLeftInMonth(now time.Time) int {
	lastOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
	daysLeft := int(math.Ceil(lastOfMonth.Sub(now).Hours() / hoursPerDay))
	if daysLeft < 0 {
		return 0
	}

	return daysLeft
}

// FormatMoney форматирует сумму с суффиксами K и L (лакх).
func FormatMoney(amount float64) string {
	if amount >= 100000 {
		return fmt.Sprintf("₹%.1fL", amount/100000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("₹%.1fK", amount/1000)
	}

	return fmt.Sprintf("₹%.0f", math.Round(amount))
}

// SpendingAdvice возвращает советы по тратам с учетом статуса бюджета.
func SpendingAdvice(result AffordabilityResult) []string {
	advice := make([]string, 0, 3)

	switch result.Status {
	case StatusCritical:
		advice = append(advice,
			"🚨 Critical: Consider postponing non-essential purchases",
			"💳 Review if you can delay any bills or adjust goal timelines",
		)
	case StatusLow:
		advice = append(advice,
			"⚠️ Keep spending minimal - stick to essentials only",
			fmt.Sprintf("💰 Try to stay under ₹%.0f per day", math.Round(result.DailyBudget)),
		)
	case StatusModerate:
		advice = append(advice,
			"👍 You're doing okay, but be mindful of discretionary spending",
			fmt.Sprintf("💵 Daily budget: ₹%.0f", math.Round(result.DailyBudget)),
		)
	default:
		advice = append(advice,
			"🎉 You're in good shape financially!",
			fmt.Sprintf("💸 You can comfortably spend up to ₹%.0f daily", math.Round(result.DailyBudget)),
		)
	}

	if result.DaysLeftInMonth <= 5 {
		advice = append(advice, "📅 Month is almost over - stay strong!")
	}

	return advice
}

type PurchaseRecommendation string

const (
	PurchaseNo      PurchaseRecommendation = "no"
	PurchaseRisky   PurchaseRecommendation = "risky"
	PurchaseCareful PurchaseRecommendation = "careful"
	PurchaseYes     PurchaseRecommendation = "yes"
)

type PurchaseCheck struct {
	CanAfford             bool                   `json:"can_afford"`
	Recommendation        PurchaseRecommendation `json:"recommendation"`
	Reasoning             string                 `json:"reasoning"`
	PercentageOfAvailable float64                `json:"percentage_of_available"`
	RemainingAfter        float64                `json:"remaining_after"`
}

// CanAfford оценивает гипотетическую покупку относительно свободных денег.
func CanAfford(result AffordabilityResult, purchaseAmount float64) PurchaseCheck {
	isAffordable := purchaseAmount <= result.AvailableMoney

	percentage := 0.0
	if result.AvailableMoney > 0 {
		percentage = purchaseAmount / result.AvailableMoney * 100
	}

	daysOfBudget := 0.0
	if result.DailyBudget > 0 {
		daysOfBudget = purchaseAmount / result.DailyBudget
	}

	var recommendation PurchaseRecommendation
	var reasoning string

	switch {
	case !isAffordable:
		recommendation = PurchaseNo
		reasoning = fmt.Sprintf("This would exceed your available funds by ₹%.0f", math.Round(purchaseAmount-result.AvailableMoney))
	case percentage > 50:
		recommendation = PurchaseRisky
		reasoning = fmt.Sprintf("This would use %.0f%% of your available money. Consider if it's essential.", math.Round(percentage))
	case percentage > 25:
		recommendation = PurchaseCareful
		reasoning = fmt.Sprintf("This equals %.0f days of your daily budget. Make sure it's worth it.", math.Round(daysOfBudget))
	default:
		recommendation = PurchaseYes
		reasoning = fmt.Sprintf("You can afford this comfortably. It's only %.0f%% of your available funds.", math.Round(percentage))
	}

	return PurchaseCheck{
		CanAfford:             isAffordable,
		Recommendation:        recommendation,
		Reasoning:             reasoning,
		PercentageOfAvailable: math.Round(percentage),
		RemainingAfter:        math.Round(result.AvailableMoney - purchaseAmount),
	}
}
