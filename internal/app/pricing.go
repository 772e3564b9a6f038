package app

import (
	"math"
	"time"

	"pvt_hostel/internal/domain"
)

const (
	taxRate     = 0.15
	depositRate = 0.2
)

// isHighSeason: summer months plus the winter holidays.
func isHighSeason(t time.Time) bool {
	switch t.Month() {
	case time.June, time.July, time.August, time.December, time.January:
		return true
	}
	return false
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// dynamicNightlyPrice applies the weekend and high-season surcharges to the
// base rate and rounds to whole currency units.
func dynamicNightlyPrice(basePrice float64, date time.Time) float64 {
	multiplier := 1.0
	if isWeekend(date) {
		multiplier += 0.2
	}
	if isHighSeason(date) {
		multiplier += 0.3
	}
	return math.Round(basePrice * multiplier)
}

// seasonalMultiplier averages each night's high-season factor across the stay.
func seasonalMultiplier(checkIn, checkOut time.Time) float64 {
	var total float64
	var days int
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		if isHighSeason(d) {
			total += 1.3
		} else {
			total += 1.0
		}
		days++
	}
	if days == 0 {
		return 1.0
	}
	return total / float64(days)
}

func occupancyMultiplier(guests, capacity int) float64 {
	rate := float64(guests) / float64(capacity)
	switch {
	case rate >= 1:
		return 1.1
	case rate >= 0.75:
		return 1.05
	}
	return 1.0
}

// lengthOfStayDiscount returns the discount fraction for the tier the stay
// falls into. Tiers are non-decreasing with length.
func lengthOfStayDiscount(nights int) float64 {
	switch {
	case nights >= 30:
		return 0.25
	case nights >= 14:
		return 0.15
	case nights >= 7:
		return 0.10
	case nights >= 3:
		return 0.05
	}
	return 0
}

func serviceFees() []domain.ServiceFee {
	return []domain.ServiceFee{
		{Name: "Cleaning Fee", Amount: 15, Type: "fixed", Description: "One-time cleaning fee", Mandatory: true},
		{Name: "City Tax", Amount: 3.50, Type: "fixed", Description: "Per person per night", Mandatory: true},
	}
}

// stayBreakdown computes the nightly price breakdown for a whole stay.
// The stay total is Breakdown.Total times the night count.
func stayBreakdown(room domain.Room, checkIn, checkOut time.Time, guests int) domain.PriceBreakdown {
	nights := domain.Nights(checkIn, checkOut)

	seasonal := seasonalMultiplier(checkIn, checkOut)
	occupancy := occupancyMultiplier(guests, room.Capacity)
	discount := lengthOfStayDiscount(nights)

	adjusted := room.BasePrice * seasonal * occupancy * (1 - discount)

	fees := serviceFees()
	var totalFees float64
	for _, fee := range fees {
		if fee.Type == "fixed" {
			totalFees += fee.Amount
		} else {
			totalFees += adjusted * (fee.Amount / 100)
		}
	}

	taxes := math.Round((adjusted + totalFees) * taxRate)

	return domain.PriceBreakdown{
		BasePrice:            room.BasePrice,
		SeasonalMultiplier:   seasonal,
		OccupancyMultiplier:  occupancy,
		LengthOfStayDiscount: discount,
		Taxes:                taxes,
		Fees:                 fees,
		Total:                math.Round(adjusted + totalFees + taxes),
	}
}

func stayTotal(room domain.Room, checkIn, checkOut time.Time, guests int) float64 {
	nights := domain.Nights(checkIn, checkOut)
	return stayBreakdown(room, checkIn, checkOut, guests).Total * float64(nights)
}

// dailyBreakdown is the single-night projection attached to availability
// slots; occupancy and length-of-stay factors do not apply per day.
func dailyBreakdown(room domain.Room, date time.Time) domain.PriceBreakdown {
	seasonal := 1.0
	if isHighSeason(date) {
		seasonal = 1.3
	}
	adjusted := room.BasePrice * seasonal
	taxes := math.Round(adjusted * taxRate)
	return domain.PriceBreakdown{
		BasePrice:           room.BasePrice,
		SeasonalMultiplier:  seasonal,
		OccupancyMultiplier: 1.0,
		Taxes:               taxes,
		Fees:                []domain.ServiceFee{},
		Total:               adjusted + taxes,
	}
}

// cancellationPolicyFor maps a room category to its refund tier table.
// Unknown categories fall back to the moderate policy.
func cancellationPolicyFor(category domain.RoomCategory) domain.CancellationPolicy {
	switch category {
	case domain.CategoryDorm:
		return domain.CancellationPolicy{
			Type:        "flexible",
			Description: "Free cancellation up to 24 hours before check-in",
			Deadlines: []domain.CancellationDeadline{
				{HoursBeforeCheckIn: 24, RefundPercentage: 100},
				{HoursBeforeCheckIn: 0, RefundPercentage: 0},
			},
			RefundRules: []domain.RefundRule{
				{Condition: "Cancelled 24+ hours before", RefundAmount: 100, ProcessingDays: 3},
				{Condition: "No-show or late cancellation", RefundAmount: 0, ProcessingDays: 0},
			},
		}
	case domain.CategorySuite:
		return domain.CancellationPolicy{
			Type:        "strict",
			Description: "Free cancellation up to 7 days before check-in",
			Deadlines: []domain.CancellationDeadline{
				{HoursBeforeCheckIn: 168, RefundPercentage: 100},
				{HoursBeforeCheckIn: 72, RefundPercentage: 50},
				{HoursBeforeCheckIn: 0, RefundPercentage: 0},
			},
			RefundRules: []domain.RefundRule{
				{Condition: "Cancelled 7+ days before", RefundAmount: 100, ProcessingDays: 7},
				{Condition: "Cancelled 3-7 days before", RefundAmount: 50, ProcessingDays: 7},
				{Condition: "No-show or late cancellation", RefundAmount: 0, ProcessingDays: 0},
			},
		}
	default:
		return domain.CancellationPolicy{
			Type:        "moderate",
			Description: "Free cancellation up to 48 hours before check-in",
			Deadlines: []domain.CancellationDeadline{
				{HoursBeforeCheckIn: 48, RefundPercentage: 100},
				{HoursBeforeCheckIn: 24, RefundPercentage: 50},
				{HoursBeforeCheckIn: 0, RefundPercentage: 0},
			},
			RefundRules: []domain.RefundRule{
				{Condition: "Cancelled 48+ hours before", RefundAmount: 100, ProcessingDays: 5},
				{Condition: "Cancelled 24-48 hours before", RefundAmount: 50, ProcessingDays: 5},
				{Condition: "No-show or late cancellation", RefundAmount: 0, ProcessingDays: 0},
			},
		}
	}
}
