package kvstore

import (
	"testing"
	"time"
)

// TestSetValue проверяет запись литерального значения.
func TestSetValue(t *testing.T) {
	store := New()

	store.Set("balance", Value(1500))

	got, ok := store.Get("balance")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got.(int) != 1500 {
		t.Fatalf("expected 1500, got %v", got)
	}
}

// TestSetDerive проверяет вывод нового значения из предыдущего.
func TestSetDerive(t *testing.T) {
	store := New()
	store.Set("counter", Value(1))

	next := store.Set("counter", Derive(func(prev interface{}, ok bool) interface{} {
		if !ok {
			return 0
		}
		return prev.(int) + 1
	}))

	if next.(int) != 2 {
		t.Fatalf("expected 2, got %v", next)
	}
}

// TestSetDeriveMissing проверяет признак отсутствия предыдущего значения.
func TestSetDeriveMissing(t *testing.T) {
	store := New()

	next := store.Set("fresh", Derive(func(prev interface{}, ok bool) interface{} {
		if ok {
			t.Fatal("expected no previous value")
		}
		return "initial"
	}))

	if next.(string) != "initial" {
		t.Fatalf("expected initial, got %v", next)
	}
}

// TestRemove проверяет удаление ключа.
func TestRemove(t *testing.T) {
	store := New()
	store.Set("temp", Value("x"))

	store.Remove("temp")
	if _, ok := store.Get("temp"); ok {
		t.Fatal("expected key to be removed")
	}
}

// TestSubscribe проверяет доставку уведомлений об изменении и удалении.
func TestSubscribe(t *testing.T) {
	store := New()
	ch, unsubscribe := store.Subscribe("watched")
	defer unsubscribe()

	store.Set("watched", Value(42))

	select {
	case change := <-ch:
		if change.Key != "watched" || change.Value.(int) != 42 || change.Deleted {
			t.Fatalf("unexpected change: %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}

	store.Remove("watched")

	select {
	case change := <-ch:
		if !change.Deleted {
			t.Fatalf("expected deletion notice, got %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for deletion")
	}
}

// TestUnsubscribe проверяет, что отписка закрывает канал.
func TestUnsubscribe(t *testing.T) {
	store := New()
	ch, unsubscribe := store.Subscribe("watched")

	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}

	// Запись после отписки не должна паниковать.
	store.Set("watched", Value(1))
}
