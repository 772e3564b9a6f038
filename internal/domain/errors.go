package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrRoomNotFound    = errors.New("room not found")
)

// FieldError is one caller-fixable problem with a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FieldWarning is advisory only; it never blocks an operation.
type FieldWarning struct {
	Field       string `json:"field"`
	Message     string `json:"message"`
	Code        string `json:"code"`
	Dismissible bool   `json:"dismissible"`
}

// ValidationError aggregates every failed check; callers get the full list,
// never just the first failure.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Add(field, message, code string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message, Code: code})
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "booking validation failed: " + strings.Join(msgs, ", ")
}

// AsValidationError unwraps err into a ValidationError, or returns nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// BookingValidation is the full outcome of request validation. Warnings are
// advisory and never block creation.
type BookingValidation struct {
	IsValid  bool           `json:"isValid"`
	Errors   []FieldError   `json:"errors"`
	Warnings []FieldWarning `json:"warnings"`
}

// StateError marks an operation attempted from an illegal booking status.
// These are business-rule violations, not retryable.
type StateError struct {
	Op     string
	Status BookingStatus
	Reason string
}

func (e *StateError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("cannot %s a %s booking", e.Op, e.Status)
}

// RoomUnavailableError is raised when a room disappears between search and
// booking, or when a date modification lands on an unavailable window.
// The caller is expected to re-search.
type RoomUnavailableError struct {
	RoomID       string
	CheckInDate  string
	CheckOutDate string
}

func (e *RoomUnavailableError) Error() string {
	return fmt.Sprintf("room %q is not available for %s to %s", e.RoomID, e.CheckInDate, e.CheckOutDate)
}
