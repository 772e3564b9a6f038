package app

import (
	"fmt"
	"net/mail"

	"pvt_hostel/internal/domain"
)

// ValidateBooking runs every check and returns the full accumulated result;
// it never fails fast on the first error. Warnings do not block creation.
func (s *BookingService) ValidateBooking(req domain.BookingRequest) domain.BookingValidation {
	var errs []domain.FieldError
	var warns []domain.FieldWarning

	today := startOfDay(s.now())

	checkIn, errIn := domain.ParseDay(req.CheckInDate)
	if errIn != nil {
		errs = append(errs, domain.FieldError{
			Field: "checkInDate", Message: "Check-in date must be YYYY-MM-DD", Code: "INVALID_DATE",
		})
	} else if checkIn.Before(today) {
		errs = append(errs, domain.FieldError{
			Field: "checkInDate", Message: "Check-in date cannot be in the past", Code: "INVALID_DATE",
		})
	}

	checkOut, errOut := domain.ParseDay(req.CheckOutDate)
	if errOut != nil {
		errs = append(errs, domain.FieldError{
			Field: "checkOutDate", Message: "Check-out date must be YYYY-MM-DD", Code: "INVALID_DATE",
		})
	} else if errIn == nil && !checkOut.After(checkIn) {
		errs = append(errs, domain.FieldError{
			Field: "checkOutDate", Message: "Check-out date must be after check-in date", Code: "INVALID_DATE",
		})
	}

	if len(req.Guests) == 0 {
		errs = append(errs, domain.FieldError{
			Field: "guests", Message: "At least one guest is required", Code: "MISSING_GUESTS",
		})
	}

	for i, guest := range req.Guests {
		if guest.FirstName == "" || guest.LastName == "" {
			errs = append(errs, domain.FieldError{
				Field: fmt.Sprintf("guests[%d]", i), Message: "Guest name is required", Code: "MISSING_NAME",
			})
		}
		if guest.Email == "" || !validEmail(guest.Email) {
			errs = append(errs, domain.FieldError{
				Field: fmt.Sprintf("guests[%d].email", i), Message: "Valid email is required", Code: "INVALID_EMAIL",
			})
		}
		if guest.Phone == "" {
			errs = append(errs, domain.FieldError{
				Field: fmt.Sprintf("guests[%d].phone", i), Message: "Phone number is required", Code: "MISSING_PHONE",
			})
		}
		if guest.Nationality == "" {
			warns = append(warns, domain.FieldWarning{
				Field:       fmt.Sprintf("guests[%d].nationality", i),
				Message:     "Nationality is recommended for international travelers",
				Code:        "MISSING_NATIONALITY",
				Dismissible: true,
			})
		}
	}

	if req.RoomID == "" {
		errs = append(errs, domain.FieldError{
			Field: "roomId", Message: "Room selection is required", Code: "MISSING_ROOM",
		})
	}

	if errIn == nil && errOut == nil {
		if nights := domain.Nights(checkIn, checkOut); nights > 30 {
			warns = append(warns, domain.FieldWarning{
				Field:       "dates",
				Message:     "For stays longer than 30 nights, consider our extended stay rates",
				Code:        "LONG_STAY",
				Dismissible: true,
			})
		}
	}

	return domain.BookingValidation{IsValid: len(errs) == 0, Errors: errs, Warnings: warns}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
