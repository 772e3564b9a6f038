package app

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pvt_hostel/internal/domain"
)

// alternativeProbes bounds how many shifted-date searches run concurrently.
const alternativeProbes = 3

// AvailabilityService computes priced availability over the static room
// catalog. Responses are cached per serialized query for a short TTL.
type AvailabilityService struct {
	catalog   domain.RoomCatalog
	occupancy domain.OccupancySource
	cache     domain.Cache
	cacheTTL  time.Duration

	mu        sync.Mutex
	cacheKeys map[string]struct{}
}

func NewAvailabilityService(catalog domain.RoomCatalog, occ domain.OccupancySource, cache domain.Cache, ttl time.Duration) *AvailabilityService {
	return &AvailabilityService{
		catalog:   catalog,
		occupancy: occ,
		cache:     cache,
		cacheTTL:  ttl,
		cacheKeys: map[string]struct{}{},
	}
}

// CheckAvailability returns every room bookable for the query, priced and
// sorted cheapest first, plus alternative suggestions when nothing matches.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.AvailabilityResponse, error) {
	checkIn, checkOut, err := validateWindow(q)
	if err != nil {
		return domain.AvailabilityResponse{}, err
	}

	key := cacheKey(q)
	var cached domain.AvailabilityResponse
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	results, err := s.search(ctx, q, checkIn, checkOut)
	if err != nil {
		return domain.AvailabilityResponse{}, err
	}
	alternatives, err := s.findAlternatives(ctx, q, checkIn, checkOut, results)
	if err != nil {
		return domain.AvailabilityResponse{}, err
	}

	resp := domain.AvailabilityResponse{
		Query:        q,
		Results:      results,
		Alternatives: alternatives,
		TotalResults: len(results),
		PriceRange:   aggregatePriceRange(results),
		CheckedAt:    time.Now().UTC(),
	}

	_ = s.cache.Set(ctx, key, resp, int(s.cacheTTL.Seconds()))
	s.mu.Lock()
	s.cacheKeys[key] = struct{}{}
	s.mu.Unlock()

	return resp, nil
}

// ClearCache drops every cached response this service has written.
func (s *AvailabilityService) ClearCache(ctx context.Context) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.cacheKeys))
	for k := range s.cacheKeys {
		keys = append(keys, k)
	}
	s.cacheKeys = map[string]struct{}{}
	s.mu.Unlock()

	for _, k := range keys {
		_ = s.cache.Del(ctx, k)
	}
}

// validateWindow rejects inverted windows and non-positive guest counts
// before any date-range iteration happens.
func validateWindow(q domain.AvailabilityQuery) (time.Time, time.Time, error) {
	ve := &domain.ValidationError{}
	checkIn, errIn := domain.ParseDay(q.CheckInDate)
	if errIn != nil {
		ve.Add("checkInDate", "check-in date must be YYYY-MM-DD", "INVALID_DATE")
	}
	checkOut, errOut := domain.ParseDay(q.CheckOutDate)
	if errOut != nil {
		ve.Add("checkOutDate", "check-out date must be YYYY-MM-DD", "INVALID_DATE")
	}
	if errIn == nil && errOut == nil && !checkOut.After(checkIn) {
		ve.Add("checkOutDate", "check-out date must be after check-in date", "INVALID_DATE")
	}
	if q.Guests < 1 {
		ve.Add("guests", "at least one guest is required", "MISSING_GUESTS")
	}
	if len(ve.Errors) > 0 {
		return time.Time{}, time.Time{}, ve
	}
	return checkIn, checkOut, nil
}

func cacheKey(q domain.AvailabilityQuery) string {
	b, _ := json.Marshal(q)
	return "availability:" + string(b)
}

func (s *AvailabilityService) search(ctx context.Context, q domain.AvailabilityQuery, checkIn, checkOut time.Time) ([]domain.AvailableRoom, error) {
	rooms, err := s.catalog.Rooms(ctx)
	if err != nil {
		return nil, err
	}

	nights := domain.Nights(checkIn, checkOut)
	available := make([]domain.AvailableRoom, 0, len(rooms))

	for _, room := range rooms {
		if !matchesFilters(room, q) {
			continue
		}

		slots := s.roomSlots(room, checkIn, checkOut)
		if !allAvailable(slots) {
			continue
		}

		breakdown := stayBreakdown(room, checkIn, checkOut, q.Guests)
		total := breakdown.Total * float64(nights)
		if q.PriceRange != nil && (total < q.PriceRange.Min || total > q.PriceRange.Max) {
			continue
		}

		available = append(available, domain.AvailableRoom{
			RoomID:             room.ID,
			Room:               room,
			Availability:       slots,
			TotalPrice:         total,
			Breakdown:          breakdown,
			Restrictions:       stayRestrictions(room, checkIn),
			CancellationPolicy: cancellationPolicyFor(room.Type.Category),
			Available:          minAvailable(slots),
			AverageNightlyRate: total / float64(nights),
		})
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].TotalPrice < available[j].TotalPrice
	})
	return available, nil
}

// matchesFilters applies the static catalog filters: capacity, room type
// (id, category, or exact room id), accessibility, and amenities
// (case-insensitive substring match, all required).
func matchesFilters(room domain.Room, q domain.AvailabilityQuery) bool {
	if room.Capacity < q.Guests {
		return false
	}
	if len(q.RoomTypes) > 0 {
		match := false
		for _, rt := range q.RoomTypes {
			if rt == room.ID || rt == room.Type.ID || rt == string(room.Type.Category) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if q.Accessibility && !room.IsAccessible {
		return false
	}
	for _, want := range q.Amenities {
		found := false
		for _, have := range room.Amenities {
			if strings.Contains(strings.ToLower(have), strings.ToLower(want)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *AvailabilityService) roomSlots(room domain.Room, checkIn, checkOut time.Time) []domain.AvailabilitySlot {
	var slots []domain.AvailabilitySlot
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		slots = append(slots, domain.AvailabilitySlot{
			Date:      d.Format(domain.DateFormat),
			Available: s.occupancy.Available(room.ID, d, room.Capacity),
			Total:     room.Capacity,
			Price:     dynamicNightlyPrice(room.BasePrice, d),
			Breakdown: dailyBreakdown(room, d),
		})
	}
	return slots
}

func allAvailable(slots []domain.AvailabilitySlot) bool {
	for _, slot := range slots {
		if slot.Available <= 0 {
			return false
		}
	}
	return len(slots) > 0
}

func minAvailable(slots []domain.AvailabilitySlot) int {
	min := slots[0].Available
	for _, slot := range slots[1:] {
		if slot.Available < min {
			min = slot.Available
		}
	}
	return min
}

func stayRestrictions(room domain.Room, checkIn time.Time) []domain.BookingRestriction {
	var rs []domain.BookingRestriction
	if isHighSeason(checkIn) {
		rs = append(rs, domain.BookingRestriction{
			Type: "minStay", Value: 2, Reason: "Minimum 2-night stay during high season",
		})
	}
	if room.Type.Category == domain.CategoryDorm {
		rs = append(rs, domain.BookingRestriction{
			Type: "maxStay", Value: 30, Reason: "Maximum 30-night stay in dormitories",
		})
	}
	return rs
}

func aggregatePriceRange(results []domain.AvailableRoom) domain.PriceRange {
	if len(results) == 0 {
		return domain.PriceRange{}
	}
	pr := domain.PriceRange{Min: results[0].TotalPrice, Max: results[0].TotalPrice}
	for _, r := range results[1:] {
		if r.TotalPrice < pr.Min {
			pr.Min = r.TotalPrice
		}
		if r.TotalPrice > pr.Max {
			pr.Max = r.TotalPrice
		}
	}
	return pr
}

// findAlternatives probes nearby date windows and a type-relaxed query when
// the primary search came back empty. Probe failures are skipped, not fatal.
func (s *AvailabilityService) findAlternatives(ctx context.Context, q domain.AvailabilityQuery, checkIn, checkOut time.Time, results []domain.AvailableRoom) ([]domain.AlternativeOption, error) {
	if len(results) > 0 {
		return nil, nil
	}

	var alternatives []domain.AlternativeOption

	if dates := s.probeDateAlternatives(ctx, q, checkIn, checkOut); len(dates) > 0 {
		alternatives = append(alternatives, domain.AlternativeOption{
			Type:           "dates",
			Suggestion:     "Try different dates",
			AvailableRooms: dates,
			Description:    "These dates have better availability",
		})
	}

	if len(q.RoomTypes) > 0 {
		relaxed := q
		relaxed.RoomTypes = nil
		if rooms, err := s.search(ctx, relaxed, checkIn, checkOut); err == nil && len(rooms) > 0 {
			alternatives = append(alternatives, domain.AlternativeOption{
				Type:           "room-type",
				Suggestion:     "Consider different room types",
				AvailableRooms: rooms,
				Description:    "Similar rooms that might meet your needs",
			})
		}
	}

	return alternatives, nil
}

// probeDateAlternatives shifts the window by ±1..3 days (skipping the
// original) and keeps up to two results per offset, in offset order.
func (s *AvailabilityService) probeDateAlternatives(ctx context.Context, q domain.AvailabilityQuery, checkIn, checkOut time.Time) []domain.AvailableRoom {
	offsets := []int{-3, -2, -1, 1, 2, 3}
	stayLength := domain.Nights(checkIn, checkOut)
	perOffset := make([][]domain.AvailableRoom, len(offsets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(alternativeProbes)
	for i, offset := range offsets {
		i, offset := i, offset
		g.Go(func() error {
			newIn := checkIn.AddDate(0, 0, offset)
			newOut := newIn.AddDate(0, 0, stayLength)

			shifted := q
			shifted.CheckInDate = newIn.Format(domain.DateFormat)
			shifted.CheckOutDate = newOut.Format(domain.DateFormat)

			rooms, err := s.search(gctx, shifted, newIn, newOut)
			if err != nil {
				return nil // probe failures are not fatal
			}
			if len(rooms) > 2 {
				rooms = rooms[:2]
			}
			perOffset[i] = rooms
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.AvailableRoom
	for _, rooms := range perOffset {
		out = append(out, rooms...)
	}
	return out
}
