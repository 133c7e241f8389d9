package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestTokenPairRoundTrip проверяет выпуск и разбор пары токенов.
func TestTokenPairRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", "student-finance", 15*time.Minute, 24*time.Hour)
	userID := uuid.New()
	refreshID := uuid.New()

	pair, err := manager.NewTokenPair(userID, refreshID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("expected subject %s, got %s", userID, claims.Subject)
	}

	refreshClaims, err := manager.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshClaims.ID != refreshID.String() {
		t.Fatalf("expected token id %s, got %s", refreshID, refreshClaims.ID)
	}
}

// TestParseRejectsWrongType проверяет, что refresh-токен не проходит как access.
func TestParseRejectsWrongType(t *testing.T) {
	manager := NewTokenManager("secret", "student-finance", 15*time.Minute, 24*time.Hour)

	pair, err := manager.NewTokenPair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := manager.ParseAccessToken(pair.RefreshToken); err == nil {
		t.Fatal("expected error for refresh token used as access")
	}
}

// TestParseRejectsWrongIssuer проверяет проверку издателя.
func TestParseRejectsWrongIssuer(t *testing.T) {
	issuing := NewTokenManager("secret", "someone-else", 15*time.Minute, 24*time.Hour)
	verifying := NewTokenManager("secret", "student-finance", 15*time.Minute, 24*time.Hour)

	pair, err := issuing.NewTokenPair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := verifying.ParseAccessToken(pair.AccessToken); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

// TestBearerToken проверяет разбор заголовка Authorization.
func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"Basic abc123", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := bearerToken(tc.header)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("bearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}
