package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"example.com/student-finance/backend/internal/models"
)

const (
	// Допустимое отклонение суммы от среднего внутри группы.
	amountVariance = 0.1

	// Диапазон среднего интервала между списаниями, похожий на ежемесячный.
	minIntervalDays = 20
	maxIntervalDays = 35

	// Подписка считается активной, если использовалась за последние 40 дней.
	activeWindowDays = 40

	defaultFrequencyDays = 30
)

var knownSubscriptions = []string{
	"netflix", "prime", "amazon prime", "spotify", "hotstar",
	"zee5", "sonyliv", "jio", "airtel", "gym", "youtube premium",
	"apple music", "disney", "swiggy one", "zomato gold",
}

var streamingServices = []string{"netflix", "prime", "hotstar", "zee5", "sonyliv", "disney"}

type Subscription struct {
	Merchant          string          `json:"merchant"`
	Amount            float64         `json:"amount"`
	Frequency         int             `json:"frequency"`
	LastUsed          time.Time       `json:"last_used"`
	DaysSinceLastUsed int             `json:"days_since_last_used"`
	TotalTransactions int             `json:"total_transactions"`
	Category          models.Category `json:"category"`
	IsActive          bool            `json:"is_active"`
}

type RecommendationType string

const (
	RecommendationCancel      RecommendationType = "cancel"
	RecommendationConsolidate RecommendationType = "consolidate"
	RecommendationReview      RecommendationType = "review"
)

type Recommendation struct {
	Type             RecommendationType `json:"type"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	PotentialSavings float64            `json:"potential_savings"`
	Subscriptions    []string           `json:"subscriptions"`
}

type SubscriptionReport struct {
	Subscriptions    []Subscription   `json:"subscriptions"`
	TotalMonthlyCost float64          `json:"total_monthly_cost"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// DetectSubscriptions находит повторяющиеся списания в истории транзакций.
// Группа продавца попадает в отчет, если это известный подписочный сервис
// или суммы стабильны и средний интервал близок к месячному.
func DetectSubscriptions(transactions []models.Transaction, now time.Time) SubscriptionReport {
	report := SubscriptionReport{
		Subscriptions:   []Subscription{},
		Recommendations: []Recommendation{},
	}
	if len(transactions) == 0 {
		return report
	}

	groups := groupByMerchant(transactions)

	for _, group := range groups {
		if sub, ok := detectGroup(group, now); ok {
			report.Subscriptions = append(report.Subscriptions, sub)
		}
	}

	sort.SliceStable(report.Subscriptions, func(i, j int) bool {
		return report.Subscriptions[i].Amount > report.Subscriptions[j].Amount
	})

	var total float64
	for _, sub := range report.Subscriptions {
		total += sub.Amount
	}
	report.TotalMonthlyCost = math.Round(total)

	report.Recommendations = buildRecommendations(report.Subscriptions)
	return report
}

func groupByMerchant(transactions []models.Transaction) [][]models.Transaction {
	index := make(map[string]int)
	groups := make([][]models.Transaction, 0)

	for _, txn := range transactions {
		key := strings.ToLower(strings.TrimSpace(txn.Merchant))
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], txn)
	}

	return groups
}

func detectGroup(group []models.Transaction, now time.Time) (Subscription, bool) {
	if len(group) < 2 {
		return Subscription{}, false
	}

	// Работаем с модулем суммы: расходы приходят отрицательными.
	var sum float64
	for _, txn := range group {
		sum += math.Abs(txn.Amount)
	}
	avgAmount := sum / float64(len(group))

	similarAmounts := avgAmount > 0
	for _, txn := range group {
		if avgAmount <= 0 || math.Abs(math.Abs(txn.Amount)-avgAmount)/avgAmount >= amountVariance {
			similarAmounts = false
			break
		}
	}

	sorted := make([]models.Transaction, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var gapSum float64
	for i := 1; i < len(sorted); i++ {
		gapSum += sorted[i].Date.Sub(sorted[i-1].Date).Hours() / hoursPerDay
	}
	avgGap := gapSum / float64(len(sorted)-1)

	merchantKey := strings.ToLower(strings.TrimSpace(sorted[0].Merchant))
	known := containsAny(merchantKey, knownSubscriptions)

	monthlyCadence := similarAmounts && avgGap >= minIntervalDays && avgGap <= maxIntervalDays
	if !known && !monthlyCadence {
		return Subscription{}, false
	}

	last := sorted[len(sorted)-1]
	daysSinceLastUsed := int(math.Floor(now.Sub(last.Date).Hours() / hoursPerDay))

	frequency := defaultFrequencyDays
	if avgGap > 0 {
		frequency = int(math.Round(avgGap))
	}

	category := last.Category
	if category == "" {
		category = models.Category("Subscription")
	}

	return Subscription{
		Merchant:          last.Merchant,
		Amount:            math.Round(avgAmount),
		Frequency:         frequency,
		LastUsed:          last.Date,
		DaysSinceLastUsed: daysSinceLastUsed,
		TotalTransactions: len(group),
		Category:          category,
		IsActive:          daysSinceLastUsed < activeWindowDays,
	}, true
}

func buildRecommendations(subscriptions []Subscription) []Recommendation {
	recommendations := []Recommendation{}

	unused := make([]Subscription, 0)
	for _, sub := range subscriptions {
		if sub.DaysSinceLastUsed > 30 {
			unused = append(unused, sub)
		}
	}
	if len(unused) > 0 {
		var waste float64
		merchants := make([]string, 0, len(unused))
		for _, sub := range unused {
			waste += sub.Amount
			merchants = append(merchants, sub.Merchant)
		}
		recommendations = append(recommendations, Recommendation{
			Type:             RecommendationCancel,
			Title:            fmt.Sprintf("Cancel %d Unused Subscription%s", len(unused), plural(len(unused))),
			Description:      fmt.Sprintf("You haven't used %s in over 30 days", strings.Join(merchants, ", ")),
			PotentialSavings: math.Round(waste),
			Subscriptions:    merchants,
		})
	}

	streaming := make([]Subscription, 0)
	for _, sub := range subscriptions {
		if containsAny(strings.ToLower(sub.Merchant), streamingServices) {
			streaming = append(streaming, sub)
		}
	}
	if len(streaming) > 2 {
		var cost float64
		merchants := make([]string, 0, len(streaming))
		for _, sub := range streaming {
			cost += sub.Amount
			merchants = append(merchants, sub.Merchant)
		}
		recommendations = append(recommendations, Recommendation{
			Type:             RecommendationConsolidate,
			Title:            fmt.Sprintf("Consider Consolidating %d Streaming Services", len(streaming)),
			Description:      fmt.Sprintf("You're spending ₹%.0f/month on streaming. Consider sharing family plans or rotating subscriptions.", cost),
			PotentialSavings: math.Round(cost * 0.4),
			Subscriptions:    merchants,
		})
	}

	expensive := make([]Subscription, 0)
	for _, sub := range subscriptions {
		if sub.Amount > 500 {
			expensive = append(expensive, sub)
		}
	}
	if len(expensive) > 0 {
		merchants := make([]string, 0, len(expensive))
		for _, sub := range expensive {
			merchants = append(merchants, sub.Merchant)
		}
		recommendations = append(recommendations, Recommendation{
			Type:             RecommendationReview,
			Title:            "Review High-Cost Subscriptions",
			Description:      fmt.Sprintf("%s cost over ₹500/month. Are you using them enough?", strings.Join(merchants, ", ")),
			PotentialSavings: 0,
			Subscriptions:    merchants,
		})
	}

	return recommendations
}

// SubscriptionSummary возвращает однострочную сводку по подпискам.
func SubscriptionSummary(subscriptions []Subscription) string {
	if len(subscriptions) == 0 {
		return "No subscriptions detected"
	}

	active := 0
	var total float64
	for _, sub := range subscriptions {
		if sub.IsActive {
			active++
		}
		total += sub.Amount
	}
	inactive := len(subscriptions) - active

	return fmt.Sprintf("%d subscription%s detected (%d active, %d unused) • ₹%.0f/month",
		len(subscriptions), plural(len(subscriptions)), active, inactive, math.Round(total))
}

func containsAny(value string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}

	return false
}

func plural(count int) string {
	if count > 1 {
		return "s"
	}

	return ""
}
