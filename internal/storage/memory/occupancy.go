package memory

import (
	"hash/fnv"
	"time"

	"pvt_hostel/internal/domain"
)

// Occupancy is the deterministic stand-in for a real occupancy feed: the
// remaining count for a room/date is a stable function of the seed, so
// searches are reproducible across runs and tests.
type Occupancy struct {
	seed uint64
}

func NewOccupancy(seed uint64) *Occupancy { return &Occupancy{seed: seed} }

// Available returns a count in [1, capacity].
func (o *Occupancy) Available(roomID string, date time.Time, capacity int) int {
	if capacity < 1 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(roomID))
	_, _ = h.Write([]byte(date.Format(domain.DateFormat)))
	var seed [8]byte
	for i := 0; i < 8; i++ {
		seed[i] = byte(o.seed >> (8 * i))
	}
	_, _ = h.Write(seed[:])
	return int(h.Sum64()%uint64(capacity)) + 1
}

// FixedOccupancy pins explicit remaining counts per room/date; anything not
// listed falls back to Default. Intended for test fixtures.
type FixedOccupancy struct {
	Counts  map[string]int // key: roomID + "|" + date
	Default int
}

func (f *FixedOccupancy) Available(roomID string, date time.Time, capacity int) int {
	if n, ok := f.Counts[roomID+"|"+date.Format(domain.DateFormat)]; ok {
		return n
	}
	return f.Default
}
