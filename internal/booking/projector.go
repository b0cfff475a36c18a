package booking

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

// Projector merges the ledger's booked set with live holds into a per-seat
// view for one viewer. It never writes.
type Projector struct {
	settings
	ledger domain.Ledger
	holds  domain.HoldStore
	logger *slog.Logger
}

func NewProjector(ledger domain.Ledger, holds domain.HoldStore, logger *slog.Logger, opts ...Option) *Projector {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Projector{
		settings: s,
		ledger:   ledger,
		holds:    holds,
		logger:   logger,
	}
}

// GetAvailability reports each seat as booked, locked-by-other, locked-by-me
// or available, in that order of precedence. An empty viewerID never owns a
// hold.
func (p *Projector) GetAvailability(
	ctx context.Context,
	showID uuid.UUID,
	viewerID string) (*domain.Availability, error) {

	show, err := p.ledger.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	mine := make(map[string]bool)
	others := make(map[string]bool)

	for _, hold := range p.liveHolds(ctx, showID) {
		for _, seatID := range hold.Seats {
			if viewerID != "" && hold.HolderID == viewerID {
				mine[seatID] = true
			} else {
				others[seatID] = true
			}
		}
	}

	availability := &domain.Availability{
		ShowID:         show.ID,
		TotalSeats:     show.TotalSeats,
		AvailableSeats: show.AvailableSeats,
		BookedSeats:    len(show.Booked),
		AlmostFull:     show.AlmostFull(),
		Seats:          make([]domain.SeatAvailability, 0, len(show.Seats)),
	}

	for _, seat := range show.Seats {
		status := domain.SeatStatusAvailable

		switch {
		case show.IsBooked(seat.ID):
			status = domain.SeatStatusBooked
		case others[seat.ID]:
			status = domain.SeatStatusLockedByOther
			availability.LockedByOther++
		case mine[seat.ID]:
			status = domain.SeatStatusLockedByMe
			availability.LockedByMe++
		}

		availability.Seats = append(availability.Seats, domain.SeatAvailability{
			Seat:   seat,
			Status: status,
		})
	}

	return availability, nil
}

func (p *Projector) liveHolds(ctx context.Context, showID uuid.UUID) []domain.Hold {
	if !p.lockStoreAvailable {
		return nil
	}

	holds, err := p.holds.ListByShow(ctx, showID)
	if err != nil {
		p.logger.Warn("failed to list seat holds, showing seats as unheld",
			"show_id", showID,
			"error", err)

		return nil
	}

	return holds
}
