// Package session reemplaza la bandera global de "logueado" por estado
// explícito y un mecanismo de suscripción.
package session

import (
	"sync"
	"time"

	"test-rol/internal/domain"
)

type EventKind string

const (
	LoggedIn  EventKind = "logged_in"
	LoggedOut EventKind = "logged_out"
)

// Event notifica un cambio de sesión.
type Event struct {
	Kind       EventKind
	Postulante domain.Postulante
	At         time.Time
}

// Listener recibe eventos de sesión.
type Listener func(Event)

// Hub distribuye eventos a los listeners suscriptos, en orden de suscripción.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registra l y devuelve la función para darlo de baja.
func (h *Hub) Subscribe(l Listener) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, subscription{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.listeners {
				if s.id == id {
					h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish entrega ev a todos los listeners de forma sincrónica.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.RLock()
	snapshot := make([]subscription, len(h.listeners))
	copy(snapshot, h.listeners)
	h.mu.RUnlock()

	for _, s := range snapshot {
		s.fn(ev)
	}
}

// State es la identidad de un request autenticado.
type State struct {
	Postulante domain.Postulante
	LoggedIn   bool
}

func (s State) IsAdmin() bool {
	return s.LoggedIn && s.Postulante.EsAdmin
}
