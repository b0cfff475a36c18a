package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

// MemoryLedger is an in-process ledger for tests and single-node runs. Writers
// of one show are serialized by a per-show mutex and their changes are staged
// on a copy of the show, then committed in one step.
type MemoryLedger struct {
	mu           sync.RWMutex
	showLocks    map[uuid.UUID]*sync.Mutex
	shows        map[uuid.UUID]*domain.Show
	reservations map[uuid.UUID]*domain.Reservation
	rewards      map[string]int
	addOns       map[uuid.UUID]domain.AddOn
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		showLocks:    make(map[uuid.UUID]*sync.Mutex),
		shows:        make(map[uuid.UUID]*domain.Show),
		reservations: make(map[uuid.UUID]*domain.Reservation),
		rewards:      make(map[string]int),
		addOns:       make(map[uuid.UUID]domain.AddOn),
	}
}

func (m *MemoryLedger) CreateShow(_ context.Context, show *domain.Show) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if show.CreatedAt.IsZero() {
		show.CreatedAt = time.Now()
	}

	m.shows[show.ID] = show.Clone()
	m.showLocks[show.ID] = &sync.Mutex{}

	return nil
}

func (m *MemoryLedger) GetShow(_ context.Context, id uuid.UUID) (*domain.Show, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	show, ok := m.shows[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return show.Clone(), nil
}

func (m *MemoryLedger) GetReservation(_ context.Context, id uuid.UUID) (*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reservation, ok := m.reservations[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return cloneReservation(reservation), nil
}

func (m *MemoryLedger) GetReservationsByHolder(
	_ context.Context,
	holderID string,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]domain.Reservation, 0)
	for _, r := range m.reservations {
		if r.HolderID == holderID {
			all = append(all, *cloneReservation(r))
		}
	}

	slices.SortFunc(all, func(a, b domain.Reservation) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	start := min(pagination.Offset(), len(all))
	end := min(start+pagination.Limit(), len(all))

	return all[start:end], domain.NewMetadata(len(all), pagination.Page, pagination.PageSize), nil
}

func (m *MemoryLedger) GetRewardPoints(_ context.Context, holderID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.rewards[holderID], nil
}

func (m *MemoryLedger) RunInShowTx(
	ctx context.Context,
	showID uuid.UUID,
	fn func(tx domain.LedgerTx) error) error {

	m.mu.RLock()
	lock, ok := m.showLocks[showID]
	m.mu.RUnlock()

	if !ok {
		return domain.ErrRecordNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	show, err := m.GetShow(ctx, showID)
	if err != nil {
		return err
	}

	tx := &memoryLedgerTx{
		ledger:  m,
		show:    show,
		staged:  make(map[uuid.UUID]*domain.Reservation),
		rewards: make(map[string]int),
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return m.commit(tx)
}

func (m *MemoryLedger) commit(tx *memoryLedgerTx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.shows[tx.show.ID]
	if len(current.BookedAmong(tx.booked)) > 0 {
		return domain.ErrSeatsJustBooked
	}

	m.shows[tx.show.ID] = tx.show

	for id, reservation := range tx.staged {
		m.reservations[id] = reservation
	}

	for holderID, delta := range tx.rewards {
		m.rewards[holderID] += delta
	}

	return nil
}

// AddAddOn seeds the add-on catalog.
func (m *MemoryLedger) AddAddOn(addOn domain.AddOn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addOns[addOn.ID] = addOn
}

func (m *MemoryLedger) GetAll(_ context.Context, category domain.AddOnCategory) ([]domain.AddOn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	addOns := make([]domain.AddOn, 0)
	for _, addOn := range m.addOns {
		if !addOn.Available {
			continue
		}

		if category != "" && addOn.Category != category {
			continue
		}

		addOns = append(addOns, addOn)
	}

	slices.SortFunc(addOns, func(a, b domain.AddOn) int {
		if a.Category != b.Category {
			if a.Category < b.Category {
				return -1
			}
			return 1
		}

		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})

	return addOns, nil
}

func (m *MemoryLedger) GetById(_ context.Context, id uuid.UUID) (*domain.AddOn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	addOn, ok := m.addOns[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &addOn, nil
}

type memoryLedgerTx struct {
	ledger  *MemoryLedger
	show    *domain.Show
	staged  map[uuid.UUID]*domain.Reservation
	rewards map[string]int
	booked  []string
}

func (t *memoryLedgerTx) Show() *domain.Show {
	return t.show
}

func (t *memoryLedgerTx) ResolveAddOn(ctx context.Context, id uuid.UUID) (*domain.AddOn, error) {
	return t.ledger.GetById(ctx, id)
}

func (t *memoryLedgerTx) GetReservationForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	if reservation, ok := t.staged[id]; ok {
		return cloneReservation(reservation), nil
	}

	return t.ledger.GetReservation(ctx, id)
}

func (t *memoryLedgerTx) InsertReservation(_ context.Context, reservation *domain.Reservation) error {
	t.staged[reservation.ID] = cloneReservation(reservation)

	return nil
}

func (t *memoryLedgerTx) CancelReservation(ctx context.Context, id uuid.UUID, at time.Time) error {
	reservation, err := t.GetReservationForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if !reservation.Cancellable() {
		return domain.ErrNotCancellable
	}

	reservation.Cancel(at)
	t.staged[id] = reservation

	return nil
}

func (t *memoryLedgerTx) BookSeats(_ context.Context, _ uuid.UUID, seatIDs []string) error {
	if len(t.show.BookedAmong(seatIDs)) > 0 {
		return domain.ErrSeatsJustBooked
	}

	t.show.Book(seatIDs)
	t.booked = append(t.booked, seatIDs...)

	return nil
}

func (t *memoryLedgerTx) ReleaseSeats(_ context.Context, _ uuid.UUID, seatIDs []string) error {
	t.show.Release(seatIDs)

	return nil
}

func (t *memoryLedgerTx) AdjustRewardPoints(_ context.Context, holderID string, delta int) error {
	t.rewards[holderID] += delta

	return nil
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	c := *r
	c.Seats = slices.Clone(r.Seats)
	c.LineItems = slices.Clone(r.LineItems)

	return &c
}
