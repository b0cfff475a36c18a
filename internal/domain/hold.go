package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Hold is a time-bounded, non-durable claim on a set of seats. There is at
// most one hold per (show, holder); re-issuing replaces it.
type Hold struct {
	ShowID    uuid.UUID `json:"showId"`
	HolderID  string    `json:"holderId"`
	Seats     []string  `json:"seats"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h Hold) Overlaps(seatIDs []string) bool {
	for _, id := range seatIDs {
		if slices.Contains(h.Seats, id) {
			return true
		}
	}

	return false
}

// Matches reports whether the hold covers exactly the given seats, same
// elements and same cardinality.
func (h Hold) Matches(seatIDs []string) bool {
	if len(h.Seats) != len(seatIDs) {
		return false
	}

	held := make(map[string]struct{}, len(h.Seats))
	for _, id := range h.Seats {
		held[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := held[id]; !ok {
			return false
		}
		seen[id] = struct{}{}
	}

	return len(seen) == len(held)
}

// HoldStore is the ephemeral, TTL-bounded lock store. Get returns
// ErrRecordNotFound when no live hold exists for the key.
type HoldStore interface {
	Put(ctx context.Context, hold Hold, ttl time.Duration) error
	Get(ctx context.Context, showID uuid.UUID, holderID string) (*Hold, error)
	ListByShow(ctx context.Context, showID uuid.UUID) ([]Hold, error)
	Delete(ctx context.Context, showID uuid.UUID, holderID string) error
	Ping(ctx context.Context) error
}
