package booking

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/metinatakli/movie-reservation-core/internal/booking"

type metrics struct {
	holds         metric.Int64Counter
	reservations  metric.Int64Counter
	cancellations metric.Int64Counter
	conflicts     metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter(instrumentationName)

	// instrument names are static and valid, creation cannot fail
	holds, _ := meter.Int64Counter("booking.holds",
		metric.WithDescription("Seat holds granted"))
	reservations, _ := meter.Int64Counter("booking.reservations",
		metric.WithDescription("Reservations committed to the ledger"))
	cancellations, _ := meter.Int64Counter("booking.cancellations",
		metric.WithDescription("Reservations cancelled"))
	conflicts, _ := meter.Int64Counter("booking.conflicts",
		metric.WithDescription("Requests rejected because seats were taken or held"))

	return &metrics{
		holds:         holds,
		reservations:  reservations,
		cancellations: cancellations,
		conflicts:     conflicts,
	}
}

// conflict records a rejection. reason must be one of the domain sentinel
// errors so the attribute stays low cardinality.
func (m *metrics) conflict(ctx context.Context, operation string, reason error) {
	m.conflicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason.Error()),
	))
}

func (m *metrics) count(ctx context.Context, counter metric.Int64Counter, kind string) {
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("holder_kind", kind)))
}
