package dispatch

import (
	"errors"
	"fmt"
	"net/http"

	"pawdispatch/clients/marketplace"
)

// ErrorKind classifies everything that can go wrong with a booking
// action, normalized at the backend-client boundary so UI-facing code
// only ever branches on the kind.
type ErrorKind string

const (
	KindEligibility ErrorKind = "eligibility" // local distance gate, never reaches the backend
	KindConflict    ErrorKind = "conflict"    // 409: another provider already accepted
	KindValidation  ErrorKind = "validation"  // 4xx other than 409
	KindServer      ErrorKind = "server"      // 5xx
	KindNetwork     ErrorKind = "network"     // transport failure
)

// ActionError is the tagged error for booking actions.
type ActionError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ActionError) Unwrap() error {
	return e.cause
}

// NewEligibilityError reports a booking too far away to accept, citing
// the exact computed distance and the configured limit.
func NewEligibilityError(distanceKm, limitKm float64) *ActionError {
	return &ActionError{
		Kind: KindEligibility,
		Message: fmt.Sprintf("This booking is %.1fkm away. You can only accept bookings within %.0fkm of your location.",
			distanceKm, limitKm),
	}
}

// NormalizeError folds a backend or transport error into an ActionError.
// Validation messages are surfaced verbatim where the backend supplied
// one; server errors get a generic message.
func NormalizeError(err error) *ActionError {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr
	}

	var apiErr *marketplace.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusConflict:
			msg := apiErr.Message
			if msg == "" || msg == http.StatusText(http.StatusConflict) {
				msg = "This booking was already accepted by another provider."
			}
			return &ActionError{Kind: KindConflict, Message: msg, cause: err}
		case apiErr.Status >= 400 && apiErr.Status < 500:
			msg := apiErr.Message
			if msg == "" || msg == http.StatusText(apiErr.Status) {
				msg = "Invalid booking request."
			}
			return &ActionError{Kind: KindValidation, Message: msg, cause: err}
		default:
			return &ActionError{
				Kind:    KindServer,
				Message: "Server error occurred. Please try again later.",
				cause:   err,
			}
		}
	}

	return &ActionError{
		Kind:    KindNetwork,
		Message: "Failed to update booking. Please try again.",
		cause:   err,
	}
}
