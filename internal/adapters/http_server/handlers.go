package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pvt_hostel/internal/app"
	"pvt_hostel/internal/domain"
)

type Handlers struct {
	Availability *app.AvailabilityService
	Bookings     *app.BookingService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Errors any    `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/availability", h.checkAvailability)
	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/bookings", h.listUserBookings)
	s.mux.Get("/v1/bookings/ref/{reference}", h.getBookingByReference)
	s.mux.Get("/v1/bookings/{id}", h.getBooking)
	s.mux.Patch("/v1/bookings/{id}", h.modifyBooking)
	s.mux.Post("/v1/bookings/{id}/cancel", h.cancelBooking)
	s.mux.Post("/v1/bookings/{id}/payments/{paymentID}/process", h.processPayment)
	s.mux.Post("/v1/bookings/{id}/checkin", h.checkIn)
	s.mux.Post("/v1/bookings/{id}/checkout", h.checkOut)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemWith(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemWith(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeProblemWith(w, problem{
			Type: "about:blank", Title: "Validation Failed",
			Status: http.StatusUnprocessableEntity, Detail: ve.Error(), Errors: ve.Errors,
		})
		return
	}
	var ue *domain.RoomUnavailableError
	if errors.As(err, &ue) {
		writeProblem(w, http.StatusConflict, "Room Unavailable", ue.Error())
		return
	}
	var se *domain.StateError
	if errors.As(err, &se) {
		writeProblem(w, http.StatusConflict, "Illegal Booking State", se.Error())
		return
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrPaymentNotFound) || errors.Is(err, domain.ErrRoomNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	return true
}

// availabilityQuery parses the search parameters from the URL.
func availabilityQuery(r *http.Request) (domain.AvailabilityQuery, error) {
	vals := r.URL.Query()
	q := domain.AvailabilityQuery{
		CheckInDate:  vals.Get("check_in"),
		CheckOutDate: vals.Get("check_out"),
	}
	if g := vals.Get("guests"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil {
			return q, errors.New("guests must be an integer")
		}
		q.Guests = n
	}
	if rt := vals.Get("room_types"); rt != "" {
		q.RoomTypes = strings.Split(rt, ",")
	}
	if am := vals.Get("amenities"); am != "" {
		q.Amenities = strings.Split(am, ",")
	}
	minS, maxS := vals.Get("min_price"), vals.Get("max_price")
	if minS != "" || maxS != "" {
		pr := domain.PriceRange{Min: 0, Max: 1e12}
		if minS != "" {
			v, err := strconv.ParseFloat(minS, 64)
			if err != nil {
				return q, errors.New("min_price must be a number")
			}
			pr.Min = v
		}
		if maxS != "" {
			v, err := strconv.ParseFloat(maxS, 64)
			if err != nil {
				return q, errors.New("max_price must be a number")
			}
			pr.Max = v
		}
		q.PriceRange = &pr
	}
	if acc := vals.Get("accessible"); acc != "" {
		q.Accessibility = acc == "true" || acc == "1"
	}
	return q, nil
}

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	q, err := availabilityQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	resp, err := h.Availability.CheckAvailability(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	booking, err := h.Bookings.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Bookings.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) getBookingByReference(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Bookings.GetBookingByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) listUserBookings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", "email query parameter is required")
		return
	}
	bookings, err := h.Bookings.GetUserBookings(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handlers) modifyBooking(w http.ResponseWriter, r *http.Request) {
	var patch domain.BookingPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	booking, err := h.Bookings.ModifyBooking(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength > 0 && !decodeBody(w, r, &body) {
		return
	}
	booking, err := h.Bookings.CancelBooking(r.Context(), chi.URLParam(r, "id"), body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) processPayment(w http.ResponseWriter, r *http.Request) {
	record, err := h.Bookings.ProcessPayment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "paymentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handlers) checkIn(w http.ResponseWriter, r *http.Request) {
	record, err := h.Bookings.CheckInGuest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handlers) checkOut(w http.ResponseWriter, r *http.Request) {
	var feedback *domain.GuestFeedback
	if r.ContentLength > 0 {
		var fb domain.GuestFeedback
		if !decodeBody(w, r, &fb) {
			return
		}
		feedback = &fb
	}
	record, err := h.Bookings.CheckOutGuest(r.Context(), chi.URLParam(r, "id"), feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
