package domain

import "time"

// DateFormat is the wire format for stay dates (calendar days, no time component).
const DateFormat = "2006-01-02"

// PriceRange bounds the stay total, inclusive on both ends.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AvailabilityQuery describes a stay search. Dates are half-open: [CheckIn, CheckOut).
type AvailabilityQuery struct {
	CheckInDate   string      `json:"checkInDate"`
	CheckOutDate  string      `json:"checkOutDate"`
	Guests        int         `json:"guests"`
	RoomTypes     []string    `json:"roomTypes,omitempty"` // matches type id, category, or room id
	PriceRange    *PriceRange `json:"priceRange,omitempty"`
	Amenities     []string    `json:"amenities,omitempty"`
	Accessibility bool        `json:"accessibility,omitempty"`
}

type ServiceFee struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"` // fixed|percentage
	Description string  `json:"description"`
	Mandatory   bool    `json:"mandatory"`
}

type PriceBreakdown struct {
	BasePrice            float64      `json:"basePrice"`
	SeasonalMultiplier   float64      `json:"seasonalMultiplier"`
	OccupancyMultiplier  float64      `json:"occupancyMultiplier"`
	LengthOfStayDiscount float64      `json:"lengthOfStayDiscount"` // 0..1 fraction
	Taxes                float64      `json:"taxes"`
	Fees                 []ServiceFee `json:"fees"`
	Total                float64      `json:"total"` // nightly total, integer currency units
}

type BookingRestriction struct {
	Type   string `json:"type"` // minStay|maxStay|closedForArrival|closedForDeparture
	Value  int    `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// AvailabilitySlot is the per-date projection for a room. Derived, never stored.
type AvailabilitySlot struct {
	Date         string               `json:"date"`
	Available    int                  `json:"available"`
	Total        int                  `json:"total"`
	Price        float64              `json:"price"`
	Breakdown    PriceBreakdown       `json:"priceBreakdown"`
	Restrictions []BookingRestriction `json:"restrictions,omitempty"`
}

type CancellationDeadline struct {
	HoursBeforeCheckIn int `json:"hoursBeforeCheckIn"`
	RefundPercentage   int `json:"refundPercentage"`
}

type RefundRule struct {
	Condition      string `json:"condition"`
	RefundAmount   int    `json:"refundAmount"` // percentage
	ProcessingDays int    `json:"processingDays"`
}

type CancellationPolicy struct {
	Type        string                 `json:"type"` // flexible|moderate|strict|non-refundable
	Description string                 `json:"description"`
	Deadlines   []CancellationDeadline `json:"deadlines"`
	RefundRules []RefundRule           `json:"refundRules"`
}

type AvailableRoom struct {
	RoomID             string               `json:"roomId"`
	Room               Room                 `json:"room"`
	Availability       []AvailabilitySlot   `json:"availability"`
	TotalPrice         float64              `json:"totalPrice"`
	Breakdown          PriceBreakdown       `json:"priceBreakdown"`
	Restrictions       []BookingRestriction `json:"restrictions"`
	CancellationPolicy CancellationPolicy   `json:"cancellationPolicy"`
	Available          int                  `json:"available"` // min remaining across the stay
	AverageNightlyRate float64              `json:"averageNightlyRate"`
}

type AlternativeOption struct {
	Type           string          `json:"type"` // dates|room-type
	Suggestion     string          `json:"suggestion"`
	AvailableRooms []AvailableRoom `json:"availableRooms"`
	Description    string          `json:"description"`
}

type AvailabilityResponse struct {
	Query        AvailabilityQuery   `json:"query"`
	Results      []AvailableRoom     `json:"results"`
	Alternatives []AlternativeOption `json:"alternatives,omitempty"`
	TotalResults int                 `json:"totalResults"`
	PriceRange   PriceRange          `json:"priceRange"`
	CheckedAt    time.Time           `json:"checkedAt"`
}

// ParseDay parses a wire date into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// Nights counts nights in the half-open interval [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
