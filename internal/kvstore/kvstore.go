// Package kvstore реализует процессное key-value хранилище с уведомлениями об
// изменениях. Запись по принципу "последний пишущий побеждает", подписчики
// получают сигнал асинхронно и могут какое-то время видеть старое значение.
package kvstore

import (
	"sync"
	"time"
)

type Change struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value,omitempty"`
	Deleted   bool        `json:"deleted,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Update задает явное теговое объединение: либо готовое значение, либо функция
// вывода нового значения из предыдущего. Хранилище диспетчеризует по тегу.
type Update struct {
	value  interface{}
	derive func(prev interface{}, ok bool) interface{}
}

// Value создает обновление с литеральным значением.
func Value(v interface{}) Update {
	return Update{value: v}
}

// Derive создает обновление, вычисляемое из предыдущего значения ключа.
func Derive(fn func(prev interface{}, ok bool) interface{}) Update {
	return Update{derive: fn}
}

type Store struct {
	mu          sync.RWMutex
	values      map[string]interface{}
	subscribers map[string]map[chan Change]struct{}
}

// New создает пустое хранилище.
func New() *Store {
	return &Store{
		values:      make(map[string]interface{}),
		subscribers: make(map[string]map[chan Change]struct{}),
	}
}

// Get возвращает значение ключа и признак его наличия.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok
}

// Set применяет обновление и уведомляет подписчиков ключа.
func (s *Store) Set(key string, update Update) interface{} {
	s.mu.Lock()

	next := update.value
	if update.derive != nil {
		prev, ok := s.values[key]
		next = update.derive(prev, ok)
	}
	s.values[key] = next

	change := Change{Key: key, Value: next, Timestamp: time.Now().UTC()}
	s.notifyLocked(key, change)
	s.mu.Unlock()

	return next
}

// Remove удаляет ключ и уведомляет подписчиков.
func (s *Store) Remove(key string) {
	s.mu.Lock()

	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.notifyLocked(key, Change{Key: key, Deleted: true, Timestamp: time.Now().UTC()})
	}
	s.mu.Unlock()
}

// Subscribe подписывает на изменения ключа и возвращает канал и функцию отписки.
func (s *Store) Subscribe(key string) (<-chan Change, func()) {
	ch := make(chan Change, 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	keySubs, ok := s.subscribers[key]
	if !ok {
		keySubs = make(map[chan Change]struct{})
		s.subscribers[key] = keySubs
	}
	keySubs[ch] = struct{}{}

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if subs, exists := s.subscribers[key]; exists {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(s.subscribers, key)
			}
		}
		close(ch)
	}
}

func (s *Store) notifyLocked(key string, change Change) {
	for ch := range s.subscribers[key] {
		select {
		case ch <- change:
		default:
		}
	}
}
