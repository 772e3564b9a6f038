package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pvt_hostel/internal/domain"
)

const depositNote = "Booking deposit"

// BookingService owns the booking state machine. Every read-modify-write
// operation runs under a per-booking mutex; the repository itself stays a
// plain key-value store.
type BookingService struct {
	repo         domain.BookingRepository
	availability *AvailabilityService
	gateway      domain.PaymentGateway
	notifier     domain.Notifier
	log          zerolog.Logger
	currency     string
	now          func() time.Time

	locks keyedLocks
}

func NewBookingService(
	repo domain.BookingRepository,
	availability *AvailabilityService,
	gateway domain.PaymentGateway,
	notifier domain.Notifier,
	log zerolog.Logger,
	currency string,
) *BookingService {
	return &BookingService{
		repo:         repo,
		availability: availability,
		gateway:      gateway,
		notifier:     notifier,
		log:          log,
		currency:     currency,
		now:          time.Now,
	}
}

// WithClock overrides the wall clock. Refund tiers and the check-in day
// match depend on it; tests pin it to a fixed instant.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// keyedLocks serializes mutations per booking id.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedLocks) lock(id string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = map[string]*sync.Mutex{}
	}
	l, ok := k.m[id]
	if !ok {
		l = &sync.Mutex{}
		k.m[id] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateBooking validates the request, prices the stay through the
// availability engine, persists the pending booking, and immediately
// settles the deposit. On settlement success the booking is confirmed.
func (s *BookingService) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if v := s.ValidateBooking(req); !v.IsValid {
		return nil, &domain.ValidationError{Errors: v.Errors}
	}

	resp, err := s.availability.CheckAvailability(ctx, domain.AvailabilityQuery{
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Guests:       len(req.Guests),
		RoomTypes:    []string{req.RoomID},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, &domain.RoomUnavailableError{
			RoomID: req.RoomID, CheckInDate: req.CheckInDate, CheckOutDate: req.CheckOutDate,
		}
	}
	selected := resp.Results[0]

	id, reference, err := s.uniqueIdentifiers(ctx)
	if err != nil {
		return nil, err
	}

	totalAmount := selected.TotalPrice
	depositAmount := math.Round(totalAmount * depositRate)

	assignments := make([]domain.RoomAssignment, len(req.Guests))
	for i, guest := range req.Guests {
		guestID := guest.ID
		if guestID == "" {
			guestID = fmt.Sprintf("guest-%d", i)
		}
		assignments[i] = domain.RoomAssignment{
			GuestID:      guestID,
			RoomID:       req.RoomID,
			BedNumber:    fmt.Sprintf("bed-%d", i+1),
			CheckInDate:  req.CheckInDate,
			CheckOutDate: req.CheckOutDate,
			KeyCode:      newKeyCode(),
		}
	}

	now := s.now()
	booking := &domain.Booking{
		ID:        id,
		Reference: reference,
		Status:    domain.StatusPending,
		Request:   req,
		Confirmation: &domain.BookingConfirmation{
			ConfirmedAt:         now,
			TotalAmount:         totalAmount,
			Breakdown:           selected.Breakdown,
			RoomAssignments:     assignments,
			CheckInInstructions: checkInInstructions,
			CancellationPolicy:  selected.CancellationPolicy,
			ConfirmationNumber:  reference,
		},
		Payments: []domain.PaymentRecord{{
			ID:       newPaymentID(),
			Amount:   depositAmount,
			Currency: s.currency,
			Method:   domain.MethodCreditCard,
			Status:   domain.PaymentPending,
			Notes:    depositNote,
		}},
		Modifications: []domain.BookingModification{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Put(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info().Str("booking", id).Str("reference", reference).
		Str("room", req.RoomID).Float64("total", totalAmount).Msg("booking created")
	s.notifier.BookingCreated(ctx, booking)

	if _, err := s.ProcessPayment(ctx, id, booking.Payments[0].ID); err != nil {
		// The booking survives in payment-failed; the caller sees its status.
		s.log.Warn().Str("booking", id).Err(err).Msg("deposit settlement failed")
	}
	return s.repo.Get(ctx, id)
}

func (s *BookingService) uniqueIdentifiers(ctx context.Context) (string, string, error) {
	var id, reference string
	for i := 0; i < 5; i++ {
		id = newBookingID()
		if _, err := s.repo.Get(ctx, id); errors.Is(err, domain.ErrNotFound) {
			break
		} else if err != nil {
			return "", "", err
		}
		id = ""
	}
	for i := 0; i < 5; i++ {
		reference = newBookingReference()
		if _, err := s.repo.FindByReference(ctx, reference); errors.Is(err, domain.ErrNotFound) {
			break
		} else if err != nil {
			return "", "", err
		}
		reference = ""
	}
	if id == "" || reference == "" {
		return "", "", errors.New("could not allocate a unique booking identifier")
	}
	return id, reference, nil
}

// ProcessPayment settles one payment through the gateway. Settling the
// deposit of a pending booking advances it to confirmed.
func (s *BookingService) ProcessPayment(ctx context.Context, bookingID, paymentID string) (*domain.PaymentRecord, error) {
	unlock := s.locks.lock(bookingID)
	defer unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range booking.Payments {
		if booking.Payments[i].ID == paymentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrPaymentNotFound
	}
	payment := &booking.Payments[idx]

	result, err := s.gateway.Settle(ctx, domain.SettlementRequest{
		BookingID:   bookingID,
		PaymentID:   paymentID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Method:      payment.Method,
		Description: payment.Notes,
	})
	if err != nil {
		payment.Status = domain.PaymentFailed
		if booking.Status == domain.StatusPending && payment.Notes == depositNote {
			booking.Status = domain.StatusPaymentFailed
		}
		booking.UpdatedAt = s.now()
		if perr := s.repo.Put(ctx, booking); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("settle payment %s: %w", paymentID, err)
	}

	settledAt := result.SettledAt
	payment.Status = domain.PaymentCompleted
	payment.TransactionID = result.TransactionID
	payment.ProcessedAt = &settledAt

	if booking.Status == domain.StatusPending && payment.Notes == depositNote {
		booking.Status = domain.StatusConfirmed
		s.log.Info().Str("booking", bookingID).Msg("deposit settled, booking confirmed")
	}
	booking.UpdatedAt = s.now()

	if err := s.repo.Put(ctx, booking); err != nil {
		return nil, err
	}
	record := *payment
	return &record, nil
}

// CancelBooking moves the booking to its terminal cancelled state and
// refunds completed payments according to the cancellation policy tier.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, reason string) (*domain.Booking, error) {
	unlock := s.locks.lock(bookingID)
	defer unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case domain.StatusCancelled:
		return nil, &domain.StateError{Op: "cancel", Status: booking.Status, Reason: "Booking is already cancelled"}
	case domain.StatusCheckedIn:
		return nil, &domain.StateError{Op: "cancel", Status: booking.Status, Reason: "Cannot cancel a booking that has already checked in"}
	case domain.StatusCheckedOut:
		return nil, &domain.StateError{Op: "cancel", Status: booking.Status, Reason: "Cannot cancel a booking that has already checked out"}
	}

	refund := s.calculateRefund(booking)
	now := s.now()

	if reason == "" {
		reason = "Guest requested cancellation"
	}
	booking.Modifications = append(booking.Modifications, domain.BookingModification{
		ID:          newModificationID(),
		Type:        domain.ModCancellation,
		RequestedAt: now,
		ProcessedAt: &now,
		Status:      "approved",
		Changes: []domain.ModificationChange{{
			Field:    "status",
			OldValue: string(booking.Status),
			NewValue: string(domain.StatusCancelled),
			Impact:   "Booking cancelled",
		}},
		RefundAmount: refund,
		Notes:        reason,
	})
	booking.Status = domain.StatusCancelled
	booking.UpdatedAt = now

	if refund > 0 {
		booking.Payments = append(booking.Payments, domain.PaymentRecord{
			ID:          newPaymentID(),
			Amount:      -refund,
			Currency:    s.currency,
			Method:      domain.MethodCreditCard,
			Status:      domain.PaymentCompleted,
			ProcessedAt: &now,
			Notes:       "Cancellation refund",
		})
	}

	if err := s.repo.Put(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info().Str("booking", bookingID).Float64("refund", refund).Msg("booking cancelled")
	s.notifier.BookingCancelled(ctx, booking)
	return booking, nil
}

// calculateRefund picks the first policy deadline (descending by hours)
// whose threshold has not yet passed and applies its percentage to the
// completed positive payments. Past every deadline means no refund.
func (s *BookingService) calculateRefund(booking *domain.Booking) float64 {
	checkIn, err := domain.ParseDay(booking.Request.CheckInDate)
	if err != nil {
		return 0
	}
	hoursUntil := checkIn.Sub(s.now()).Hours()
	paid := booking.CompletedPaid()

	deadlines := append([]domain.CancellationDeadline(nil), booking.Confirmation.CancellationPolicy.Deadlines...)
	sort.Slice(deadlines, func(i, j int) bool {
		return deadlines[i].HoursBeforeCheckIn > deadlines[j].HoursBeforeCheckIn
	})
	for _, d := range deadlines {
		if hoursUntil >= float64(d.HoursBeforeCheckIn) {
			return math.Round(paid * float64(d.RefundPercentage) / 100)
		}
	}
	return 0
}

// ModifyBooking applies a partial date change. A patch matching current
// values is a no-op; a real change is re-priced against availability and
// its cost or refund delta recorded on the modification.
func (s *BookingService) ModifyBooking(ctx context.Context, bookingID string, patch domain.BookingPatch) (*domain.Booking, error) {
	unlock := s.locks.lock(bookingID)
	defer unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.StatusCancelled || booking.Status == domain.StatusCheckedOut {
		return nil, &domain.StateError{
			Op: "modify", Status: booking.Status,
			Reason: fmt.Sprintf("Cannot modify a %s booking", booking.Status),
		}
	}

	var changes []domain.ModificationChange
	newCheckIn := booking.Request.CheckInDate
	newCheckOut := booking.Request.CheckOutDate

	if patch.CheckInDate != nil && *patch.CheckInDate != booking.Request.CheckInDate {
		changes = append(changes, domain.ModificationChange{
			Field:    "checkInDate",
			OldValue: booking.Request.CheckInDate,
			NewValue: *patch.CheckInDate,
			Impact:   "Date change may affect room availability",
		})
		newCheckIn = *patch.CheckInDate
	}
	if patch.CheckOutDate != nil && *patch.CheckOutDate != booking.Request.CheckOutDate {
		changes = append(changes, domain.ModificationChange{
			Field:    "checkOutDate",
			OldValue: booking.Request.CheckOutDate,
			NewValue: *patch.CheckOutDate,
			Impact:   "Date change may affect total price",
		})
		newCheckOut = *patch.CheckOutDate
	}
	if len(changes) == 0 {
		return booking, nil
	}

	resp, err := s.availability.CheckAvailability(ctx, domain.AvailabilityQuery{
		CheckInDate:  newCheckIn,
		CheckOutDate: newCheckOut,
		Guests:       len(booking.Request.Guests),
		RoomTypes:    []string{booking.Request.RoomID},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, &domain.RoomUnavailableError{
			RoomID: booking.Request.RoomID, CheckInDate: newCheckIn, CheckOutDate: newCheckOut,
		}
	}

	repriced := resp.Results[0]
	priceDifference := repriced.TotalPrice - booking.Confirmation.TotalAmount
	now := s.now()

	modification := domain.BookingModification{
		ID:          newModificationID(),
		Type:        domain.ModDateChange,
		RequestedAt: now,
		ProcessedAt: &now,
		Status:      "approved",
		Changes:     changes,
		Notes:       "Date modification processed",
	}
	if priceDifference > 0 {
		modification.AdditionalCosts = priceDifference
	} else if priceDifference < 0 {
		modification.RefundAmount = -priceDifference
	}

	booking.Modifications = append(booking.Modifications, modification)
	booking.Confirmation.TotalAmount = repriced.TotalPrice
	booking.Confirmation.Breakdown = repriced.Breakdown
	booking.Request.CheckInDate = newCheckIn
	booking.Request.CheckOutDate = newCheckOut
	booking.Status = domain.StatusModified
	booking.UpdatedAt = now

	if err := s.repo.Put(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info().Str("booking", bookingID).Float64("price_difference", priceDifference).Msg("booking modified")
	s.notifier.BookingModified(ctx, booking)
	return booking, nil
}

// CheckInGuest admits a confirmed booking on its exact check-in day and
// produces the keys and welcome package.
func (s *BookingService) CheckInGuest(ctx context.Context, bookingID string) (*domain.CheckInRecord, error) {
	unlock := s.locks.lock(bookingID)
	defer unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.StatusConfirmed {
		return nil, &domain.StateError{
			Op: "check in", Status: booking.Status,
			Reason: "Only confirmed bookings can be checked in",
		}
	}
	today := s.now().Format(domain.DateFormat)
	if booking.Request.CheckInDate != today {
		return nil, &domain.StateError{
			Op: "check in", Status: booking.Status,
			Reason: "Check-in date does not match booking",
		}
	}

	keys := make([]domain.RoomKey, len(booking.Confirmation.RoomAssignments))
	for i, assignment := range booking.Confirmation.RoomAssignments {
		code := assignment.KeyCode
		if code == "" {
			code = newKeyCode()
		}
		keys[i] = domain.RoomKey{
			Type:        "digital",
			KeyID:       newKeyID(),
			AccessCode:  code,
			ValidFrom:   booking.Request.CheckInDate,
			ValidTo:     booking.Request.CheckOutDate,
			Permissions: []string{"room", "common-areas", "entrance"},
		}
	}

	var deposits []domain.PaymentRecord
	for _, p := range booking.Payments {
		if strings.Contains(p.Notes, "deposit") {
			deposits = append(deposits, p)
		}
	}

	now := s.now()
	record := &domain.CheckInRecord{
		ProcessedAt:       now,
		ProcessedBy:       "system",
		Method:            "self-service",
		RoomKeys:          keys,
		DocumentsVerified: true,
		DepositsCollected: deposits,
		WelcomePackage:    newWelcomePackage(now),
	}

	booking.CheckIn = record
	booking.Status = domain.StatusCheckedIn
	booking.UpdatedAt = now

	if err := s.repo.Put(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info().Str("booking", bookingID).Int("keys", len(keys)).Msg("guest checked in")
	return record, nil
}

// CheckOutGuest inspects the room, charges any remaining balance, returns
// the deposit when no damages were found, and closes the booking.
func (s *BookingService) CheckOutGuest(ctx context.Context, bookingID string, feedback *domain.GuestFeedback) (*domain.CheckOutRecord, error) {
	unlock := s.locks.lock(bookingID)
	defer unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.StatusCheckedIn {
		return nil, &domain.StateError{
			Op: "check out", Status: booking.Status,
			Reason: "Only checked-in bookings can be checked out",
		}
	}

	now := s.now()
	inspection := domain.RoomInspectionResult{
		InspectedAt:         now,
		InspectedBy:         "system",
		Condition:           "good",
		Damages:             []domain.RoomDamage{},
		CleaningRequired:    true,
		MaintenanceRequired: false,
	}

	var finalCharges []domain.PaymentRecord
	remaining := booking.Confirmation.TotalAmount - booking.CompletedPaid()
	if remaining > 0 {
		finalCharges = append(finalCharges, domain.PaymentRecord{
			ID:       newPaymentID(),
			Amount:   remaining,
			Currency: s.currency,
			Method:   domain.MethodCreditCard,
			Status:   domain.PaymentPending,
			Notes:    "Final balance payment",
		})
	}

	var depositAmount float64
	for _, p := range booking.Payments {
		if strings.Contains(p.Notes, "deposit") && p.Status == domain.PaymentCompleted {
			depositAmount += p.Amount
		}
	}
	var depositsReturned []domain.PaymentRecord
	if depositAmount > 0 && len(inspection.Damages) == 0 {
		depositsReturned = append(depositsReturned, domain.PaymentRecord{
			ID:       newPaymentID(),
			Amount:   -depositAmount,
			Currency: s.currency,
			Method:   domain.MethodCreditCard,
			Status:   domain.PaymentProcessing,
			Notes:    "Deposit refund",
		})
	}

	record := &domain.CheckOutRecord{
		ProcessedAt:      now,
		ProcessedBy:      "system",
		Method:           "express",
		RoomInspection:   inspection,
		FinalCharges:     finalCharges,
		DepositsReturned: depositsReturned,
		Feedback:         feedback,
	}

	booking.Payments = append(booking.Payments, finalCharges...)
	booking.Payments = append(booking.Payments, depositsReturned...)
	booking.CheckOut = record
	booking.Status = domain.StatusCheckedOut
	booking.UpdatedAt = now

	if err := s.repo.Put(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info().Str("booking", bookingID).Float64("balance_due", remaining).Msg("guest checked out")
	s.notifier.BookingCheckedOut(ctx, booking)
	return record, nil
}

// MarkNoShow moves a confirmed booking past its check-in date into the
// terminal no-show state.
func (s *BookingService) MarkNoShow(ctx context.Context, bookingID string) (*domain.Booking, error) {
	unlock := s.locks.lock(bookingID)
	defer unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.StatusNoShow) {
		return nil, &domain.StateError{
			Op: "mark no-show", Status: booking.Status,
			Reason: "Only confirmed bookings can be marked as no-show",
		}
	}
	checkIn, err := domain.ParseDay(booking.Request.CheckInDate)
	if err != nil {
		return nil, err
	}
	if !startOfDay(s.now()).After(checkIn) {
		return nil, &domain.StateError{
			Op: "mark no-show", Status: booking.Status,
			Reason: "Check-in date has not passed yet",
		}
	}

	booking.Status = domain.StatusNoShow
	booking.UpdatedAt = s.now()
	if err := s.repo.Put(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info().Str("booking", bookingID).Msg("booking marked no-show")
	return booking, nil
}

// GetBooking is the read path; unknown ids surface ErrNotFound.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.repo.Get(ctx, bookingID)
}

func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return s.repo.FindByReference(ctx, reference)
}

// GetUserBookings returns every booking any of whose guests uses the email,
// most recent first.
func (s *BookingService) GetUserBookings(ctx context.Context, email string) ([]*domain.Booking, error) {
	bookings, err := s.repo.FindByGuestEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}
