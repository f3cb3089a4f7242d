package session

import (
	"sync"
	"testing"

	"test-rol/internal/domain"
)

func TestHubPublishOrderAndUnsubscribe(t *testing.T) {
	h := NewHub()
	var got []string

	unsubA := h.Subscribe(func(ev Event) { got = append(got, "a:"+string(ev.Kind)) })
	h.Subscribe(func(ev Event) { got = append(got, "b:"+string(ev.Kind)) })

	h.Publish(Event{Kind: LoggedIn, Postulante: domain.Postulante{ID: "p1"}})
	unsubA()
	unsubA()
	h.Publish(Event{Kind: LoggedOut})

	want := []string{"a:logged_in", "b:logged_in", "b:logged_out"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestHubPublishSetsTimestamp(t *testing.T) {
	h := NewHub()
	var ev Event
	h.Subscribe(func(e Event) { ev = e })
	h.Publish(Event{Kind: LoggedIn})
	if ev.At.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestHubNilPublish(t *testing.T) {
	var h *Hub
	h.Publish(Event{Kind: LoggedIn})
}

func TestHubConcurrentUse(t *testing.T) {
	h := NewHub()
	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := h.Subscribe(func(Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			h.Publish(Event{Kind: LoggedIn})
			unsub()
		}()
	}
	wg.Wait()
	if count < 10 {
		t.Fatalf("expected at least 10 deliveries, got %d", count)
	}
}

func TestStateIsAdmin(t *testing.T) {
	s := State{Postulante: domain.Postulante{EsAdmin: true}}
	if s.IsAdmin() {
		t.Fatalf("logged out state must not be admin")
	}
	s.LoggedIn = true
	if !s.IsAdmin() {
		t.Fatalf("expected admin")
	}
}
