package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"example.com/student-finance/backend/internal/models"
)

// Ответ модели принимается только в строгой форме: ровно 4 инсайта,
// каждый с заполненными полями. Все остальное считается ErrBadInsights.
var ErrBadInsights = errors.New("ai returned malformed insights")

const requiredInsightCount = 4

type Service struct {
	client Client
}

// NewService создает сервис генерации поведенческих инсайтов.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// GenerateInsights запрашивает у модели ровно 4 поведенческих паттерна
// по истории транзакций и валидирует ответ.
func (s *Service) GenerateInsights(ctx context.Context, transactions []models.Transaction) ([]models.Insight, string, []byte, error) {
	prompt, err := buildInsightsPrompt(transactions)
	if err != nil {
		return nil, "", nil, err
	}

	messages := []Message{
		{Role: "system", Content: "You are a behavioral finance expert. Always return valid JSON array with exactly 4 insights."},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	if err != nil {
		return nil, prompt, raw, err
	}

	insights, err := parseInsights(content)
	if err != nil {
		return nil, prompt, raw, err
	}

	return insights, prompt, raw, nil
}

func buildInsightsPrompt(transactions []models.Transaction) (string, error) {
	var summary strings.Builder
	var totalSpent float64
	categories := make(map[string]float64)

	for _, txn := range transactions {
		fmt.Fprintf(&summary, "%s: %s - ₹%.0f (%s)\n", txn.Date.Format("2006-01-02"), txn.Merchant, txn.Amount, txn.Category)
		totalSpent += txn.Amount
		categories[string(txn.Category)] += txn.Amount
	}

	categoryPayload, err := json.Marshal(categories)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are a behavioral finance expert analyzing spending patterns of a student/young professional in India.

Here are their recent transactions:
%s
Total spent: ₹%.0f
Spending by category: %s

Analyze these transactions and identify exactly 4 behavioral finance patterns or biases. For each pattern, provide:
1. A clear, catchy title (e.g., "Weekend Warrior Spending", "The Latte Factor")
2. A specific finding based on the data (with numbers)
3. The financial impact (how much this costs them)
4. One actionable tip to improve

Focus on patterns like:
- Present bias (immediate gratification over future savings)
- Social influence (spending more with friends)
- Mental accounting (treating different money sources differently)
- Anchoring (being influenced by first price seen)
- Loss aversion (fear of missing out on deals)
- Lifestyle inflation (spending increases with income)

Return the response as a JSON array with this exact structure:
[
  {
    "title": "Pattern name",
    "finding": "What you discovered in their spending",
    "impact": "Financial impact with numbers",
    "tip": "Specific actionable advice"
  }
]

Be specific, use the actual data, and make it relevant to Indian students/young professionals.`, summary.String(), totalSpent, string(categoryPayload))

	return prompt, nil
}

func parseInsights(content string) ([]models.Insight, error) {
	payload := extractJSONArray(content)
	if payload == "" {
		return nil, fmt.Errorf("%w: response does not contain a json array", ErrBadInsights)
	}

	var insights []models.Insight
	if err := json.Unmarshal([]byte(payload), &insights); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInsights, err)
	}

	if len(insights) != requiredInsightCount {
		return nil, fmt.Errorf("%w: expected %d insights, got %d", ErrBadInsights, requiredInsightCount, len(insights))
	}

	for i, insight := range insights {
		if strings.TrimSpace(insight.Title) == "" ||
			strings.TrimSpace(insight.Finding) == "" ||
			strings.TrimSpace(insight.Impact) == "" ||
			strings.TrimSpace(insight.Tip) == "" {
			return nil, fmt.Errorf("%w: insight %d has blank fields", ErrBadInsights, i+1)
		}
	}

	return insights, nil
}

func extractJSONArray(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return trimmed[start : end+1]
}
