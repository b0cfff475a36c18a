package holdstore

import (
	"fmt"

	"github.com/google/uuid"
)

func holdKeyPrefix(showID uuid.UUID) string {
	return fmt.Sprintf("lock:showtime:%s:user:", showID)
}

func holdKey(showID uuid.UUID, holderID string) string {
	return holdKeyPrefix(showID) + holderID
}

// holdersKey indexes the holders of a show so listing never needs KEYS.
func holdersKey(showID uuid.UUID) string {
	return fmt.Sprintf("lock:showtime:%s:holders", showID)
}
