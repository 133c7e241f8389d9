package analytics

import (
	"testing"

	"example.com/student-finance/backend/internal/models"
)

// TestCategorize проверяет подбор категории по названию продавца.
func TestCategorize(t *testing.T) {
	cases := []struct {
		merchant string
		want     models.Category
	}{
		{"Starbucks Coffee", models.CategoryFood},
		{"UBER *TRIP", models.CategoryTransport},
		{"Netflix.com", models.CategoryEntertainment},
		{"Amazon Marketplace", models.CategoryShopping},
		{"Airtel Broadband", models.CategoryBills},
		{"Random Merchant 42", models.CategoryOther},
	}

	for _, tc := range cases {
		if got := Categorize(tc.merchant); got != tc.want {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.merchant, got, tc.want)
		}
	}
}

// TestCategorizePriority проверяет, что при пересечении ключевых слов
// побеждает более ранняя категория.
func TestCategorizePriority(t *testing.T) {
	// "gas" есть и в транспорте, и в счетах; транспорт проверяется раньше.
	if got := Categorize("Indian Oil Gas Station"); got != models.CategoryTransport {
		t.Fatalf("expected Transport, got %q", got)
	}
}

// TestCategorizeEmpty проверяет пустое и пробельное название.
func TestCategorizeEmpty(t *testing.T) {
	if got := Categorize(""); got != models.CategoryOther {
		t.Fatalf("expected Other for empty merchant, got %q", got)
	}
	if got := Categorize("   "); got != models.CategoryOther {
		t.Fatalf("expected Other for blank merchant, got %q", got)
	}
}
