package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"example.com/student-finance/backend/internal/models"
)

type fakeClient struct {
	content string
	err     error
}

func (f *fakeClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.content, []byte(f.content), nil
}

const validInsights = `[
  {"title": "Weekend Warrior", "finding": "60% of spending happens on weekends", "impact": "₹4000/month", "tip": "Plan weekend budgets in advance"},
  {"title": "The Latte Factor", "finding": "Daily coffee adds up", "impact": "₹1500/month", "tip": "Brew at home twice a week"},
  {"title": "Delivery Habit", "finding": "Food delivery 12 times a month", "impact": "₹2400/month", "tip": "Cook on Sundays"},
  {"title": "Subscription Creep", "finding": "3 overlapping streaming services", "impact": "₹700/month", "tip": "Rotate subscriptions"}
]`

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Merchant: "Swiggy", Amount: -450, Category: models.CategoryFood},
		{Date: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), Merchant: "Netflix", Amount: -199, Category: models.CategoryEntertainment},
	}
}

// TestGenerateInsights проверяет успешный разбор ответа модели.
func TestGenerateInsights(t *testing.T) {
	service := NewService(&fakeClient{content: validInsights})

	insights, prompt, raw, err := service.GenerateInsights(context.Background(), sampleTransactions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights) != 4 {
		t.Fatalf("expected 4 insights, got %d", len(insights))
	}
	if insights[0].Title != "Weekend Warrior" {
		t.Fatalf("unexpected first title: %q", insights[0].Title)
	}
	if !strings.Contains(prompt, "Swiggy") {
		t.Fatal("expected prompt to include transaction data")
	}
	if len(raw) == 0 {
		t.Fatal("expected raw response to be captured")
	}
}

// TestGenerateInsightsFencedResponse проверяет срез markdown-ограждения.
func TestGenerateInsightsFencedResponse(t *testing.T) {
	fenced := "```json\n" + validInsights + "\n```"
	service := NewService(&fakeClient{content: fenced})

	insights, _, _, err := service.GenerateInsights(context.Background(), sampleTransactions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights) != 4 {
		t.Fatalf("expected 4 insights, got %d", len(insights))
	}
}

// TestGenerateInsightsWrongCount проверяет отказ при неполном ответе.
func TestGenerateInsightsWrongCount(t *testing.T) {
	short := `[{"title": "A", "finding": "B", "impact": "C", "tip": "D"}]`
	service := NewService(&fakeClient{content: short})

	_, _, _, err := service.GenerateInsights(context.Background(), sampleTransactions())
	if !errors.Is(err, ErrBadInsights) {
		t.Fatalf("expected ErrBadInsights, got %v", err)
	}
}

// TestGenerateInsightsBlankFields проверяет отказ при пустых полях.
func TestGenerateInsightsBlankFields(t *testing.T) {
	blank := `[
  {"title": "A", "finding": "B", "impact": "C", "tip": "D"},
  {"title": "A", "finding": "B", "impact": "C", "tip": "D"},
  {"title": "A", "finding": "B", "impact": "C", "tip": "D"},
  {"title": "", "finding": "B", "impact": "C", "tip": "D"}
]`
	service := NewService(&fakeClient{content: blank})

	_, _, _, err := service.GenerateInsights(context.Background(), sampleTransactions())
	if !errors.Is(err, ErrBadInsights) {
		t.Fatalf("expected ErrBadInsights, got %v", err)
	}
}

// TestGenerateInsightsNoArray проверяет отказ на ответе без JSON-массива.
func TestGenerateInsightsNoArray(t *testing.T) {
	service := NewService(&fakeClient{content: "Sorry, I cannot help with that."})

	_, _, _, err := service.GenerateInsights(context.Background(), sampleTransactions())
	if !errors.Is(err, ErrBadInsights) {
		t.Fatalf("expected ErrBadInsights, got %v", err)
	}
}

// TestGenerateInsightsProviderError проверяет проброс ошибки провайдера.
func TestGenerateInsightsProviderError(t *testing.T) {
	service := NewService(&fakeClient{err: ErrQuotaExceeded})

	_, prompt, _, err := service.GenerateInsights(context.Background(), sampleTransactions())
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if prompt == "" {
		t.Fatal("expected prompt to be returned for logging")
	}
}
