package mocks

import (
	"context"
	"sync"

	"github.com/metinatakli/movie-reservation-core/internal/events"
)

// MockPublisher records published events and fails with Err when set.
type MockPublisher struct {
	mu     sync.Mutex
	Err    error
	events []events.Event
}

func (m *MockPublisher) Publish(_ context.Context, event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.events = append(m.events, event)

	return nil
}

func (m *MockPublisher) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]events.Event(nil), m.events...)
}
