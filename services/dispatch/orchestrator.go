package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pawdispatch/models"
	"pawdispatch/services/notification"
)

// Accept runs the full accept path for one booking: eligibility gate,
// per-booking in-flight lock, confirm call with retry, then an
// authoritative refresh on success. The retry policy is up to
// AcceptMaxAttempts total attempts with 2^attempt seconds between
// them, but only for server and transport failures; a 409 means
// another provider won the race and a 4xx means the request itself is
// wrong, so neither is retried.
func (e *Engine) Accept(ctx context.Context, s *Session, bookingID int64) error {
	booking, ok := s.FindAnnotated(bookingID)
	if !ok {
		return &ActionError{Kind: KindValidation, Message: "Booking not found in your worklist."}
	}
	if err := CheckAcceptable(booking, e.opts.AcceptanceRadiusKm); err != nil {
		return err
	}

	if !s.tryMarkInFlight(bookingID) {
		return &ActionError{Kind: KindValidation, Message: "An accept for this booking is already in progress."}
	}
	defer s.clearInFlight(bookingID)

	var lastErr *ActionError
	for attempt := 1; attempt <= e.opts.AcceptMaxAttempts; attempt++ {
		_, err := e.backend.ConfirmBooking(ctx, s.Token, bookingID)
		if err == nil {
			// The backend list is the source of truth after a
			// confirm, not an optimistic local patch.
			e.refreshBookings(ctx, s)
			e.notifier.Notify(s.ID, notification.Notification{
				Title:    "Booking Accepted",
				Message:  "You have successfully accepted this booking. An OTP has been sent to the customer.",
				Severity: "info",
			})
			return nil
		}

		lastErr = NormalizeError(err)
		switch lastErr.Kind {
		case KindConflict:
			// Someone else already accepted: recoverable, but the
			// local entry is stale, so force a refresh and stop.
			e.logger.Info("booking lost to another provider",
				zap.String("session", s.ID), zap.Int64("booking", bookingID))
			e.refreshBookings(ctx, s)
			e.notifier.Notify(s.ID, notification.Notification{
				Title:    "Booking Unavailable",
				Message:  lastErr.Message,
				Severity: "error",
			})
			return lastErr
		case KindValidation:
			return lastErr
		}

		e.logger.Warn("accept attempt failed",
			zap.String("session", s.ID), zap.Int64("booking", bookingID),
			zap.Int("attempt", attempt), zap.Error(err))
		if attempt < e.opts.AcceptMaxAttempts {
			e.sleep(time.Duration(1<<attempt) * time.Second)
		}
	}
	return lastErr
}

// Reject cancels the booking with a single attempt. Only direct
// (SPECIFIC) requests are rejectable: broadcast DISCOVERY requests are
// simply left unanswered, and CONFIRMED requests are already locked in.
// Success patches the local entry CANCELLED optimistically: a
// cancellation cannot race with another provider, so no refresh is
// forced. When the cancel call itself fails, the booking is hidden from
// the local view instead, as a declared best-effort degradation, and
// the user is told so.
func (e *Engine) Reject(ctx context.Context, s *Session, bookingID int64) error {
	booking, ok := s.FindAnnotated(bookingID)
	if !ok {
		return &ActionError{Kind: KindValidation, Message: "Booking not found in your worklist."}
	}
	if booking.RequestType != models.RequestSpecific {
		return &ActionError{Kind: KindValidation, Message: "Only direct booking requests can be rejected."}
	}

	if _, err := e.backend.CancelBooking(ctx, s.Token, bookingID); err != nil {
		e.logger.Warn("cancel failed, hiding booking locally",
			zap.String("session", s.ID), zap.Int64("booking", bookingID), zap.Error(err))
		s.remove(bookingID)
		e.notifier.Notify(s.ID, notification.Notification{
			Title:    "Booking Hidden",
			Message:  "This booking request has been hidden from your view.",
			Severity: "info",
		})
		return nil
	}

	s.markStatus(bookingID, models.StatusCancelled)
	e.notifier.Notify(s.ID, notification.Notification{
		Title:    "Booking Rejected",
		Message:  "You have rejected this booking request.",
		Severity: "info",
	})
	return nil
}

// Complete closes out a confirmed booking with the customer's OTP.
// Single attempt; on failure the booking stays CONFIRMED and the user
// may re-enter the OTP.
func (e *Engine) Complete(ctx context.Context, s *Session, bookingID int64, otp string) error {
	if otp == "" {
		return &ActionError{Kind: KindValidation, Message: "An OTP is required to complete the booking."}
	}
	if _, ok := s.FindAnnotated(bookingID); !ok {
		return &ActionError{Kind: KindValidation, Message: "Booking not found in your worklist."}
	}

	if _, err := e.backend.CompleteBooking(ctx, s.Token, bookingID, otp); err != nil {
		actionErr := NormalizeError(err)
		if actionErr.Kind == KindServer {
			actionErr.Message = "Server error occurred while completing booking. Please try again later."
		} else {
			actionErr.Message = "Failed to complete booking. Please check the OTP and try again."
		}
		e.notifier.Notify(s.ID, notification.Notification{
			Title:    "Error",
			Message:  actionErr.Message,
			Severity: "error",
		})
		return actionErr
	}

	s.markStatus(bookingID, models.StatusCompleted)
	e.notifier.Notify(s.ID, notification.Notification{
		Title:    "Booking Completed",
		Message:  fmt.Sprintf("Booking #%d has been completed.", bookingID),
		Severity: "info",
	})
	return nil
}
