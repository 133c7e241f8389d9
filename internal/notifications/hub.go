package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

// События доставляются всем открытым сессиям пользователя: так другие
// вкладки узнают об изменениях и перечитывают данные.
const (
	EventConnected          EventType = "connected"
	EventTransactionCreated EventType = "transaction_created"
	EventTransactionUpdated EventType = "transaction_updated"
	EventTransactionDeleted EventType = "transaction_deleted"
	EventGoalUpdated        EventType = "goal_updated"
	EventGoalMilestone      EventType = "goal_milestone"
	EventInsightsGenerated  EventType = "insights_generated"
)

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe подписывает пользователя на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	userSubs, ok := h.subscribers[userID]
	if !ok {
		userSubs = make(map[chan Event]struct{})
		h.subscribers[userID] = userSubs
	}
	userSubs[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if subs, exists := h.subscribers[userID]; exists {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, userID)
			}
		}
		close(ch)
	}
}

// Publish отправляет событие всем подписчикам пользователя.
// Медленные подписчики событие пропускают, доставка без блокировки.
func (h *Hub) Publish(userID uuid.UUID, eventType EventType, data interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscribers[userID]
	if !ok {
		return
	}

	for ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}
