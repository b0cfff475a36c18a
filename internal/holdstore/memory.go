package holdstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

type memoryEntry struct {
	hold      domain.Hold
	expiresAt time.Time
}

// MemoryStore expires holds lazily against its clock.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}

	return &MemoryStore{
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, hold domain.Hold, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold.Seats = slices.Clone(hold.Seats)
	s.entries[holdKey(hold.ShowID, hold.HolderID)] = memoryEntry{
		hold:      hold,
		expiresAt: s.now().Add(ttl),
	}

	return nil
}

func (s *MemoryStore) Get(_ context.Context, showID uuid.UUID, holderID string) (*domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdKey(showID, holderID)

	entry, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, domain.ErrRecordNotFound
	}

	hold := entry.hold
	hold.Seats = slices.Clone(hold.Seats)

	return &hold, nil
}

func (s *MemoryStore) ListByShow(_ context.Context, showID uuid.UUID) ([]domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	holds := make([]domain.Hold, 0)

	for key, entry := range s.entries {
		if entry.hold.ShowID != showID {
			continue
		}

		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			continue
		}

		hold := entry.hold
		hold.Seats = slices.Clone(hold.Seats)
		holds = append(holds, hold)
	}

	return holds, nil
}

func (s *MemoryStore) Delete(_ context.Context, showID uuid.UUID, holderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, holdKey(showID, holderID))

	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
