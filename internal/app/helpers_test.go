package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pvt_hostel/internal/app"
	"pvt_hostel/internal/domain"
	memstore "pvt_hostel/internal/storage/memory"
)

// ---- fakes ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, _ := json.Marshal(v)
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// countingOccupancy wraps a source and counts lookups, to observe cache hits.
type countingOccupancy struct {
	inner domain.OccupancySource
	mu    sync.Mutex
	calls int
}

func (c *countingOccupancy) Available(roomID string, date time.Time, capacity int) int {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Available(roomID, date, capacity)
}

func (c *countingOccupancy) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// fakeGateway settles instantly; Fail makes every settlement error.
type fakeGateway struct {
	mu      sync.Mutex
	Fail    bool
	settled []string
}

type gatewayError struct{}

func (gatewayError) Error() string { return "card declined" }

func (g *fakeGateway) Settle(ctx context.Context, req domain.SettlementRequest) (domain.SettlementResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Fail {
		return domain.SettlementResult{}, gatewayError{}
	}
	g.settled = append(g.settled, req.PaymentID)
	return domain.SettlementResult{TransactionID: "TXN-test-1", SettledAt: time.Now().UTC()}, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) record(e string) {
	n.mu.Lock()
	n.events = append(n.events, e)
	n.mu.Unlock()
}

func (n *fakeNotifier) BookingCreated(ctx context.Context, b *domain.Booking)    { n.record("created") }
func (n *fakeNotifier) BookingModified(ctx context.Context, b *domain.Booking)   { n.record("modified") }
func (n *fakeNotifier) BookingCancelled(ctx context.Context, b *domain.Booking)  { n.record("cancelled") }
func (n *fakeNotifier) BookingCheckedOut(ctx context.Context, b *domain.Booking) { n.record("checked-out") }

// fakeClock is a mutable wall clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// ---- wiring helpers ----

func alwaysAvailable() domain.OccupancySource {
	return &memstore.FixedOccupancy{Default: 2}
}

func newAvailability(occ domain.OccupancySource) *app.AvailabilityService {
	return app.NewAvailabilityService(
		memstore.NewCatalog(memstore.SeedRooms()), occ, &fakeCache{}, 2*time.Minute,
	)
}

type testEnv struct {
	repo     *memstore.Repo
	avail    *app.AvailabilityService
	gateway  *fakeGateway
	notifier *fakeNotifier
	clock    *fakeClock
	svc      *app.BookingService
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		repo:     memstore.NewRepo(),
		avail:    newAvailability(alwaysAvailable()),
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
		clock:    &fakeClock{t: now},
	}
	env.svc = app.NewBookingService(
		env.repo, env.avail, env.gateway, env.notifier, zerolog.Nop(), "CAD",
	).WithClock(env.clock.now)
	return env
}

func day(s string) time.Time {
	t, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func validRequest() domain.BookingRequest {
	return domain.BookingRequest{
		CheckInDate:  "2026-02-13",
		CheckOutDate: "2026-02-14",
		RoomID:       "private-double",
		Guests: []domain.GuestInfo{{
			FirstName:   "Ana",
			LastName:    "Moreau",
			Email:       "ana@example.com",
			Phone:       "+1-514-555-0199",
			Nationality: "FR",
		}},
	}
}
