package handlers

import (
	"testing"

	"example.com/student-finance/backend/internal/models"
)

// TestNormalizeAmount проверяет приведение суммы к знаковому виду.
func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		amount   float64
		txnType  models.TransactionType
		wantAmt  float64
		wantType models.TransactionType
	}{
		{500, models.TransactionTypeIncome, 500, models.TransactionTypeIncome},
		{-500, models.TransactionTypeIncome, 500, models.TransactionTypeIncome},
		{500, models.TransactionTypeExpense, -500, models.TransactionTypeExpense},
		{-500, models.TransactionTypeExpense, -500, models.TransactionTypeExpense},
		{500, "", 500, models.TransactionTypeIncome},
		{-500, "", -500, models.TransactionTypeExpense},
	}

	for _, tc := range cases {
		amount, txnType := normalizeAmount(tc.amount, tc.txnType)
		if amount != tc.wantAmt || txnType != tc.wantType {
			t.Fatalf("normalizeAmount(%v, %q) = (%v, %q), want (%v, %q)",
				tc.amount, tc.txnType, amount, txnType, tc.wantAmt, tc.wantType)
		}
	}
}

// TestParseBills проверяет разбор счетов из запроса.
func TestParseBills(t *testing.T) {
	bills, err := parseBills([]BillRequest{
		{Name: "Rent", Amount: 5000, DueDate: "2025-03-20"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bills) != 1 || bills[0].Name != "Rent" {
		t.Fatalf("unexpected bills: %+v", bills)
	}
	if bills[0].DueDate.Format(dateLayout) != "2025-03-20" {
		t.Fatalf("unexpected due date: %v", bills[0].DueDate)
	}
}

// TestParseBillsInvalidDate проверяет отказ на неверной дате.
func TestParseBillsInvalidDate(t *testing.T) {
	if _, err := parseBills([]BillRequest{{Name: "Rent", Amount: 5000, DueDate: "20-03-2025"}}); err == nil {
		t.Fatal("expected error for malformed due date")
	}
}
