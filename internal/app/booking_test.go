package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pvt_hostel/internal/domain"
)

var baseNow = time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)

func TestCreateBookingConfirmsAfterDeposit(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", booking.Status)
	}
	if booking.Reference == "" || !strings.HasPrefix(booking.Reference, "PVT") {
		t.Fatalf("unexpected reference %q", booking.Reference)
	}

	// One February night in private-double at 85 base prices out at 120;
	// the deposit is a fifth of that.
	if booking.Confirmation.TotalAmount != 120 {
		t.Fatalf("TotalAmount = %v, want 120", booking.Confirmation.TotalAmount)
	}
	if len(booking.Payments) != 1 {
		t.Fatalf("expected one deposit payment, got %d", len(booking.Payments))
	}
	deposit := booking.Payments[0]
	if deposit.Amount != 24 {
		t.Fatalf("deposit = %v, want 24", deposit.Amount)
	}
	if deposit.Status != domain.PaymentCompleted || deposit.TransactionID == "" {
		t.Fatalf("deposit not settled: %+v", deposit)
	}
	if len(booking.Confirmation.RoomAssignments) != 1 {
		t.Fatalf("expected one room assignment, got %d", len(booking.Confirmation.RoomAssignments))
	}
	if booking.Confirmation.CancellationPolicy.Type != "moderate" {
		t.Fatalf("private rooms use the moderate policy, got %s", booking.Confirmation.CancellationPolicy.Type)
	}

	if len(env.gateway.settled) != 1 {
		t.Fatalf("gateway settled %d payments, want 1", len(env.gateway.settled))
	}
	if len(env.notifier.events) == 0 || env.notifier.events[0] != "created" {
		t.Fatalf("expected a created notification, got %v", env.notifier.events)
	}
}

func TestCreateBookingSurvivesDeclinedDeposit(t *testing.T) {
	env := newTestEnv(baseNow)
	env.gateway.Fail = true

	booking, err := env.svc.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.Status != domain.StatusPaymentFailed {
		t.Fatalf("status = %s, want payment-failed", booking.Status)
	}
	if booking.Payments[0].Status != domain.PaymentFailed {
		t.Fatalf("deposit status = %s, want failed", booking.Payments[0].Status)
	}

	// A retry against a working gateway settles the payment record.
	env.gateway.Fail = false
	booking.Payments[0].Status = domain.PaymentPending
	if err := env.repo.Put(context.Background(), booking); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := env.svc.ProcessPayment(context.Background(), booking.ID, booking.Payments[0].ID); err != nil {
		t.Fatalf("ProcessPayment retry: %v", err)
	}
	after, _ := env.svc.GetBooking(context.Background(), booking.ID)
	if after.Payments[0].Status != domain.PaymentCompleted {
		t.Fatalf("retried deposit status = %s, want completed", after.Payments[0].Status)
	}
}

func TestCreateBookingRejectsInvalidRequests(t *testing.T) {
	env := newTestEnv(baseNow)

	req := validRequest()
	req.CheckInDate = "2026-02-09" // yesterday
	_, err := env.svc.CreateBooking(context.Background(), req)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, fe := range ve.Errors {
		if fe.Field == "checkInDate" && fe.Code == "INVALID_DATE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing past-date error, got %+v", ve.Errors)
	}

	req = validRequest()
	req.Guests = nil
	if _, err := env.svc.CreateBooking(context.Background(), req); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty guests, got %v", err)
	}

	req = validRequest()
	req.Guests[0].Email = "not-an-email"
	if _, err := env.svc.CreateBooking(context.Background(), req); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for bad email, got %v", err)
	}
}

func TestCreateBookingUnavailableRoom(t *testing.T) {
	env := newTestEnv(baseNow)

	req := validRequest()
	req.RoomID = "no-such-room"
	_, err := env.svc.CreateBooking(context.Background(), req)
	var unavailable *domain.RoomUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected RoomUnavailableError, got %v", err)
	}
	if unavailable.RoomID != "no-such-room" {
		t.Fatalf("unexpected room id %q", unavailable.RoomID)
	}
}

func TestValidateBookingWarnings(t *testing.T) {
	env := newTestEnv(baseNow)

	req := validRequest()
	req.Guests[0].Nationality = ""
	req.CheckInDate = "2026-03-01"
	req.CheckOutDate = "2026-04-05" // 35 nights

	v := env.svc.ValidateBooking(req)
	if !v.IsValid {
		t.Fatalf("request should be valid, errors: %+v", v.Errors)
	}
	codes := map[string]bool{}
	for _, w := range v.Warnings {
		codes[w.Code] = true
	}
	if !codes["MISSING_NATIONALITY"] || !codes["LONG_STAY"] {
		t.Fatalf("expected nationality and long-stay warnings, got %+v", v.Warnings)
	}
}

func TestCancelBookingRefundTiers(t *testing.T) {
	// The private-double moderate policy: 100% at 48h+, 50% at 24-48h, 0 under 24h.
	cases := []struct {
		name   string
		now    time.Time
		refund float64
	}{
		{"three days out", day("2026-02-13").Add(-72 * time.Hour), 24},
		{"thirty six hours out", day("2026-02-13").Add(-36 * time.Hour), 12},
		{"twelve hours out", day("2026-02-13").Add(-12 * time.Hour), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(baseNow)
			ctx := context.Background()

			booking, err := env.svc.CreateBooking(ctx, validRequest())
			if err != nil {
				t.Fatalf("CreateBooking: %v", err)
			}

			env.clock.set(tc.now)
			cancelled, err := env.svc.CancelBooking(ctx, booking.ID, "change of plans")
			if err != nil {
				t.Fatalf("CancelBooking: %v", err)
			}
			if cancelled.Status != domain.StatusCancelled {
				t.Fatalf("status = %s, want cancelled", cancelled.Status)
			}

			mod := cancelled.Modifications[len(cancelled.Modifications)-1]
			if mod.Type != domain.ModCancellation {
				t.Fatalf("modification type = %s", mod.Type)
			}
			if mod.RefundAmount != tc.refund {
				t.Fatalf("refund = %v, want %v", mod.RefundAmount, tc.refund)
			}

			var refunds int
			for _, p := range cancelled.Payments {
				if p.Amount < 0 {
					refunds++
					if p.Amount != -tc.refund {
						t.Fatalf("refund payment = %v, want %v", p.Amount, -tc.refund)
					}
				}
			}
			if tc.refund > 0 && refunds != 1 {
				t.Fatalf("expected one refund payment, got %d", refunds)
			}
			if tc.refund == 0 && refunds != 0 {
				t.Fatalf("no refund payment expected, got %d", refunds)
			}
		})
	}
}

func TestCancelBookingStateGuards(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := env.svc.CancelBooking(ctx, booking.ID, ""); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	_, err = env.svc.CancelBooking(ctx, booking.ID, "")
	var se *domain.StateError
	if !errors.As(err, &se) || !strings.Contains(se.Reason, "already cancelled") {
		t.Fatalf("expected already-cancelled StateError, got %v", err)
	}

	// A checked-out booking can no longer be cancelled either.
	done := &domain.Booking{
		ID: "BK-done", Reference: "PVTDONE1", Status: domain.StatusCheckedOut,
		Request:      validRequest(),
		Confirmation: &domain.BookingConfirmation{},
	}
	if err := env.repo.Put(ctx, done); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_, err = env.svc.CancelBooking(ctx, done.ID, "")
	if !errors.As(err, &se) || !strings.Contains(se.Reason, "checked out") {
		t.Fatalf("expected checked-out StateError, got %v", err)
	}
}

func TestModifyBookingRepricesDateChange(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	originalTotal := booking.Confirmation.TotalAmount

	newOut := "2026-02-15" // one extra night
	modified, err := env.svc.ModifyBooking(ctx, booking.ID, domain.BookingPatch{CheckOutDate: &newOut})
	if err != nil {
		t.Fatalf("ModifyBooking: %v", err)
	}
	if modified.Status != domain.StatusModified {
		t.Fatalf("status = %s, want modified", modified.Status)
	}
	if modified.Request.CheckOutDate != newOut {
		t.Fatalf("check-out not updated: %s", modified.Request.CheckOutDate)
	}
	if modified.Confirmation.TotalAmount <= originalTotal {
		t.Fatalf("total %v should have grown from %v", modified.Confirmation.TotalAmount, originalTotal)
	}

	mod := modified.Modifications[len(modified.Modifications)-1]
	if mod.Type != domain.ModDateChange {
		t.Fatalf("modification type = %s", mod.Type)
	}
	if want := modified.Confirmation.TotalAmount - originalTotal; mod.AdditionalCosts != want {
		t.Fatalf("AdditionalCosts = %v, want %v", mod.AdditionalCosts, want)
	}
	if len(env.notifier.events) < 2 || env.notifier.events[len(env.notifier.events)-1] != "modified" {
		t.Fatalf("expected a modified notification, got %v", env.notifier.events)
	}
}

func TestModifyBookingNoOpPatch(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	sameIn := booking.Request.CheckInDate
	sameOut := booking.Request.CheckOutDate
	after, err := env.svc.ModifyBooking(ctx, booking.ID, domain.BookingPatch{
		CheckInDate: &sameIn, CheckOutDate: &sameOut,
	})
	if err != nil {
		t.Fatalf("ModifyBooking: %v", err)
	}
	if after.Status != booking.Status {
		t.Fatalf("no-op patch changed status to %s", after.Status)
	}
	if len(after.Modifications) != len(booking.Modifications) {
		t.Fatal("no-op patch must not append a modification")
	}
}

func TestCheckInOnWrongDayIsRejected(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// Still 2026-02-10; the stay starts on the 13th.
	_, err = env.svc.CheckInGuest(ctx, booking.ID)
	var se *domain.StateError
	if !errors.As(err, &se) || !strings.Contains(se.Reason, "does not match") {
		t.Fatalf("expected date-mismatch StateError, got %v", err)
	}
	after, _ := env.svc.GetBooking(ctx, booking.ID)
	if after.Status != domain.StatusConfirmed {
		t.Fatalf("failed check-in must not change status, got %s", after.Status)
	}
}

func TestCheckInRequiresConfirmedBooking(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	pending := &domain.Booking{
		ID: "BK-pending", Reference: "PVTPEND1", Status: domain.StatusPending,
		Request:      validRequest(),
		Confirmation: &domain.BookingConfirmation{},
	}
	if err := env.repo.Put(ctx, pending); err != nil {
		t.Fatalf("Put: %v", err)
	}

	env.clock.set(day("2026-02-13").Add(10 * time.Hour))
	_, err := env.svc.CheckInGuest(ctx, pending.ID)
	var se *domain.StateError
	if !errors.As(err, &se) || !strings.Contains(se.Reason, "Only confirmed") {
		t.Fatalf("expected confirmed-only StateError, got %v", err)
	}
}

func TestCheckInAndCheckOutFlow(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	env.clock.set(day("2026-02-13").Add(15 * time.Hour))
	checkin, err := env.svc.CheckInGuest(ctx, booking.ID)
	if err != nil {
		t.Fatalf("CheckInGuest: %v", err)
	}
	if len(checkin.RoomKeys) != 1 {
		t.Fatalf("expected one room key, got %d", len(checkin.RoomKeys))
	}
	key := checkin.RoomKeys[0]
	if key.Type != "digital" || key.AccessCode == "" {
		t.Fatalf("unexpected key %+v", key)
	}
	if key.ValidFrom != booking.Request.CheckInDate || key.ValidTo != booking.Request.CheckOutDate {
		t.Fatalf("key validity %s..%s does not match the stay", key.ValidFrom, key.ValidTo)
	}
	if len(checkin.DepositsCollected) != 1 {
		t.Fatalf("expected the settled deposit to be listed, got %d", len(checkin.DepositsCollected))
	}
	if checkin.WelcomePackage.WifiCredentials.NetworkName == "" {
		t.Fatal("welcome package is missing wifi credentials")
	}

	env.clock.set(day("2026-02-14").Add(11 * time.Hour))
	feedback := &domain.GuestFeedback{OverallRating: 5, WouldRecommend: true, SubmittedAt: env.clock.now()}
	checkout, err := env.svc.CheckOutGuest(ctx, booking.ID, feedback)
	if err != nil {
		t.Fatalf("CheckOutGuest: %v", err)
	}

	// Total 120 with a settled 24 deposit leaves a 96 balance, and the
	// deposit comes back once the inspection finds no damage.
	if len(checkout.FinalCharges) != 1 || checkout.FinalCharges[0].Amount != 96 {
		t.Fatalf("unexpected final charges %+v", checkout.FinalCharges)
	}
	if len(checkout.DepositsReturned) != 1 || checkout.DepositsReturned[0].Amount != -24 {
		t.Fatalf("unexpected deposit returns %+v", checkout.DepositsReturned)
	}
	if checkout.Feedback == nil || checkout.Feedback.OverallRating != 5 {
		t.Fatal("feedback not carried on the checkout record")
	}

	final, _ := env.svc.GetBooking(ctx, booking.ID)
	if final.Status != domain.StatusCheckedOut {
		t.Fatalf("status = %s, want checked-out", final.Status)
	}
	if len(final.Payments) != 3 {
		t.Fatalf("expected deposit, balance, and refund records, got %d", len(final.Payments))
	}
	if env.notifier.events[len(env.notifier.events)-1] != "checked-out" {
		t.Fatalf("expected a checked-out notification, got %v", env.notifier.events)
	}

	// checked-out is terminal for check-out too.
	_, err = env.svc.CheckOutGuest(ctx, booking.ID, nil)
	var se *domain.StateError
	if !errors.As(err, &se) {
		t.Fatalf("expected StateError for double check-out, got %v", err)
	}
}

func TestMarkNoShow(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// Check-in day itself is too early.
	env.clock.set(day("2026-02-13").Add(23 * time.Hour))
	_, err = env.svc.MarkNoShow(ctx, booking.ID)
	var se *domain.StateError
	if !errors.As(err, &se) || !strings.Contains(se.Reason, "not passed") {
		t.Fatalf("expected not-passed StateError, got %v", err)
	}

	env.clock.set(day("2026-02-14").Add(2 * time.Hour))
	marked, err := env.svc.MarkNoShow(ctx, booking.ID)
	if err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}
	if marked.Status != domain.StatusNoShow {
		t.Fatalf("status = %s, want no-show", marked.Status)
	}

	// no-show is terminal.
	if _, err := env.svc.MarkNoShow(ctx, booking.ID); !errors.As(err, &se) {
		t.Fatalf("expected StateError for repeated no-show, got %v", err)
	}
}

func TestGetUserBookingsNewestFirst(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	first, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	env.clock.set(baseNow.Add(2 * time.Hour))
	req := validRequest()
	req.CheckInDate = "2026-02-20"
	req.CheckOutDate = "2026-02-22"
	second, err := env.svc.CreateBooking(ctx, req)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	bookings, err := env.svc.GetUserBookings(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserBookings: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].ID != second.ID || bookings[1].ID != first.ID {
		t.Fatalf("bookings not sorted newest first: %s, %s", bookings[0].ID, bookings[1].ID)
	}

	none, err := env.svc.GetUserBookings(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserBookings: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no bookings, got %d", len(none))
	}
}

func TestGetBookingByReference(t *testing.T) {
	env := newTestEnv(baseNow)
	ctx := context.Background()

	booking, err := env.svc.CreateBooking(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	found, err := env.svc.GetBookingByReference(ctx, booking.Reference)
	if err != nil {
		t.Fatalf("GetBookingByReference: %v", err)
	}
	if found.ID != booking.ID {
		t.Fatalf("found %s, want %s", found.ID, booking.ID)
	}

	if _, err := env.svc.GetBooking(ctx, "BK-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
