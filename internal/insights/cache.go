// Package insights хранит сгенерированные инсайты с окном свежести:
// моложе часа отдаем без повторного запроса, старше суток выбрасываем.
package insights

import (
	"time"

	"github.com/google/uuid"

	"example.com/student-finance/backend/internal/kvstore"
	"example.com/student-finance/backend/internal/models"
)

type CacheState int

const (
	CacheMiss CacheState = iota
	CacheFresh
	CacheStale
)

type Entry struct {
	Insights    []models.Insight `json:"insights"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type Cache struct {
	store    *kvstore.Store
	freshFor time.Duration
	maxAge   time.Duration
}

// NewCache создает кэш инсайтов поверх key-value хранилища.
func NewCache(store *kvstore.Store, freshFor, maxAge time.Duration) *Cache {
	return &Cache{
		store:    store,
		freshFor: freshFor,
		maxAge:   maxAge,
	}
}

// Get возвращает запись пользователя и ее состояние. Записи старше maxAge
// удаляются при чтении.
func (c *Cache) Get(userID uuid.UUID, now time.Time) (Entry, CacheState) {
	raw, ok := c.store.Get(cacheKey(userID))
	if !ok {
		return Entry{}, CacheMiss
	}

	entry, ok := raw.(Entry)
	if !ok {
		c.store.Remove(cacheKey(userID))
		return Entry{}, CacheMiss
	}

	age := now.Sub(entry.GeneratedAt)
	switch {
	case age > c.maxAge:
		c.store.Remove(cacheKey(userID))
		return Entry{}, CacheMiss
	case age < c.freshFor:
		return entry, CacheFresh
	default:
		return entry, CacheStale
	}
}

// Put сохраняет инсайты пользователя, затирая прежнюю запись.
func (c *Cache) Put(userID uuid.UUID, insightList []models.Insight, generatedAt time.Time) {
	c.store.Set(cacheKey(userID), kvstore.Value(Entry{
		Insights:    insightList,
		GeneratedAt: generatedAt,
	}))
}

// Clear удаляет запись пользователя.
func (c *Cache) Clear(userID uuid.UUID) {
	c.store.Remove(cacheKey(userID))
}

func cacheKey(userID uuid.UUID) string {
	return "insights:" + userID.String()
}
