package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"pvt_hostel/internal/domain"
)

// Repo is the durable BookingRepository. The whole aggregate is stored as a
// JSON payload; lookup columns are derived on every write.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// emailIndex flattens guest emails into "|a@b.c|d@e.f|" for LIKE lookup.
func emailIndex(b *domain.Booking) string {
	var sb strings.Builder
	sb.WriteByte('|')
	for _, g := range b.Request.Guests {
		sb.WriteString(strings.ToLower(g.Email))
		sb.WriteByte('|')
	}
	return sb.String()
}

func (r *Repo) Put(ctx context.Context, b *domain.Booking) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertBookingSQL,
		b.ID,
		b.Reference,
		string(b.Status),
		emailIndex(b),
		string(payload),
	)
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return scanOne(r.db.QueryRowContext(ctx, getBookingSQL, id))
}

func (r *Repo) FindByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return scanOne(r.db.QueryRowContext(ctx, getByReferenceSQL, reference))
}

func scanOne(row *sql.Row) (*domain.Booking, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var b domain.Booking
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) FindByGuestEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	pattern := "%|" + strings.ToLower(email) + "|%"
	rows, err := r.db.QueryContext(ctx, findByEmailSQL, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Booking
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var b domain.Booking
		if err := json.Unmarshal(payload, &b); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
