package domain

import (
	"context"
	"time"
)

// BookingRepository is the persistence boundary for the booking aggregate.
// Get returns ErrNotFound for unknown ids.
type BookingRepository interface {
	Get(ctx context.Context, id string) (*Booking, error)
	Put(ctx context.Context, b *Booking) error
	FindByReference(ctx context.Context, reference string) (*Booking, error)
	FindByGuestEmail(ctx context.Context, email string) ([]*Booking, error)
}

// RoomCatalog serves the static room list. Implementations must return
// rooms that callers can hold without copying (the catalog never mutates).
type RoomCatalog interface {
	Rooms(ctx context.Context) ([]Room, error)
	Room(ctx context.Context, id string) (Room, error)
}

// OccupancySource reports the simulated remaining bed count for a room on a
// date. Deterministic implementations keep availability reproducible.
type OccupancySource interface {
	Available(roomID string, date time.Time, capacity int) int
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SettlementRequest is what the gateway needs to attempt a charge.
type SettlementRequest struct {
	BookingID   string
	PaymentID   string
	Amount      float64
	Currency    string
	Method      PaymentMethod
	Description string
}

type SettlementResult struct {
	TransactionID string
	SettledAt     time.Time
}

// PaymentGateway attempts settlement of a single payment. The simulated
// adapter resolves locally; a production adapter calls a real PSP.
type PaymentGateway interface {
	Settle(ctx context.Context, req SettlementRequest) (SettlementResult, error)
}

// Notifier exposes booking state transitions as hook points for the
// email/notification service. Implementations must not block the caller
// beyond the request deadline.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking)
	BookingModified(ctx context.Context, b *Booking)
	BookingCancelled(ctx context.Context, b *Booking)
	BookingCheckedOut(ctx context.Context, b *Booking)
}
