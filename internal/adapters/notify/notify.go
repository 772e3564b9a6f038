// Package notify carries the booking lifecycle hook points. The log
// notifier stands in for the guest email service; a real adapter would
// render and send the corresponding messages.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"pvt_hostel/internal/adapters/observability"
	"pvt_hostel/internal/domain"
)

type LogNotifier struct{ log zerolog.Logger }

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) event(b *domain.Booking, kind string) {
	observability.ObserveBookingTransition(string(b.Status))
	n.log.Info().
		Str("event", kind).
		Str("booking", b.ID).
		Str("reference", b.Reference).
		Str("status", string(b.Status)).
		Msg("booking notification")
}

func (n *LogNotifier) BookingCreated(ctx context.Context, b *domain.Booking) {
	n.event(b, "booking_created")
}

func (n *LogNotifier) BookingModified(ctx context.Context, b *domain.Booking) {
	n.event(b, "booking_modified")
}

func (n *LogNotifier) BookingCancelled(ctx context.Context, b *domain.Booking) {
	n.event(b, "booking_cancelled")
}

func (n *LogNotifier) BookingCheckedOut(ctx context.Context, b *domain.Booking) {
	n.event(b, "booking_checked_out")
}
