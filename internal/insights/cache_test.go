package insights

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/student-finance/backend/internal/kvstore"
	"example.com/student-finance/backend/internal/models"
)

func testInsights() []models.Insight {
	return []models.Insight{
		{Title: "A", Finding: "B", Impact: "C", Tip: "D"},
	}
}

// TestCacheFreshness проверяет переходы свежий - устаревший - промах.
func TestCacheFreshness(t *testing.T) {
	cache := NewCache(kvstore.New(), time.Hour, 24*time.Hour)
	userID := uuid.New()
	generatedAt := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	cache.Put(userID, testInsights(), generatedAt)

	if _, state := cache.Get(userID, generatedAt.Add(30*time.Minute)); state != CacheFresh {
		t.Fatalf("expected fresh entry, got state %d", state)
	}

	entry, state := cache.Get(userID, generatedAt.Add(3*time.Hour))
	if state != CacheStale {
		t.Fatalf("expected stale entry, got state %d", state)
	}
	if len(entry.Insights) != 1 {
		t.Fatalf("expected stored insights, got %d", len(entry.Insights))
	}

	if _, state := cache.Get(userID, generatedAt.Add(25*time.Hour)); state != CacheMiss {
		t.Fatalf("expected miss after max age, got state %d", state)
	}

	// Просроченная запись удалена и не возвращается даже для свежего времени.
	if _, state := cache.Get(userID, generatedAt); state != CacheMiss {
		t.Fatalf("expected entry to be evicted, got state %d", state)
	}
}

// TestCacheMissForUnknownUser проверяет промах без записи.
func TestCacheMissForUnknownUser(t *testing.T) {
	cache := NewCache(kvstore.New(), time.Hour, 24*time.Hour)

	if _, state := cache.Get(uuid.New(), time.Now()); state != CacheMiss {
		t.Fatalf("expected miss, got state %d", state)
	}
}

// TestCacheClear проверяет сброс записи.
func TestCacheClear(t *testing.T) {
	cache := NewCache(kvstore.New(), time.Hour, 24*time.Hour)
	userID := uuid.New()
	generatedAt := time.Now()

	cache.Put(userID, testInsights(), generatedAt)
	cache.Clear(userID)

	if _, state := cache.Get(userID, generatedAt); state != CacheMiss {
		t.Fatalf("expected miss after clear, got state %d", state)
	}
}

// TestCachePutOverwrites проверяет затирание прежней записи.
func TestCachePutOverwrites(t *testing.T) {
	cache := NewCache(kvstore.New(), time.Hour, 24*time.Hour)
	userID := uuid.New()
	first := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	cache.Put(userID, testInsights(), first)
	cache.Put(userID, testInsights(), second)

	entry, state := cache.Get(userID, second.Add(10*time.Minute))
	if state != CacheFresh {
		t.Fatalf("expected fresh entry after overwrite, got state %d", state)
	}
	if !entry.GeneratedAt.Equal(second) {
		t.Fatalf("expected generated at %v, got %v", second, entry.GeneratedAt)
	}
}
