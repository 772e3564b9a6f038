package memory

import (
	"context"
	"encoding/json"
	"sync"

	"pvt_hostel/internal/domain"
)

// Repo is the in-memory BookingRepository. Bookings are stored as deep
// copies so callers can never mutate the store without going through Put.
type Repo struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Booking
	byRef map[string]string // reference -> id
}

func NewRepo() *Repo {
	return &Repo{
		byID:  map[string]*domain.Booking{},
		byRef: map[string]string{},
	}
}

func clone(b *domain.Booking) *domain.Booking {
	raw, _ := json.Marshal(b)
	var out domain.Booking
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (r *Repo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(b), nil
}

func (r *Repo) Put(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[b.ID] = clone(b)
	r.byRef[b.Reference] = b.ID
	return nil
}

func (r *Repo) FindByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRef[reference]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *Repo) FindByGuestEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Booking
	for _, b := range r.byID {
		for _, guest := range b.Request.Guests {
			if guest.Email == email {
				out = append(out, clone(b))
				break
			}
		}
	}
	return out, nil
}
