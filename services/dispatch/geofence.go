package dispatch

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"pawdispatch/models"
	"pawdispatch/services/notification"
)

// checkGeofence scans the working set for bookings inside the alert
// radius of the provider's current position. Distance is measured
// directly, independent of the visibility and acceptance gates. Each
// booking alerts at most once per session; the AlertStore is the
// de-duplication authority.
func (e *Engine) checkGeofence(ctx context.Context, s *Session) {
	loc := s.Location()
	if loc == nil {
		return
	}

	s.mu.Lock()
	bookings := make([]models.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	s.mu.Unlock()

	for _, b := range bookings {
		if b.Location == nil {
			continue
		}
		meters := DistanceMeters(*loc, *b.Location)
		if meters > e.opts.GeofenceRadiusMeters {
			continue
		}

		newly, err := e.alerts.MarkAlerted(ctx, s.ID, b.ID)
		if err != nil {
			e.logger.Warn("geofence alert store failed",
				zap.String("session", s.ID), zap.Int64("booking", b.ID), zap.Error(err))
			continue
		}
		if !newly {
			continue
		}

		alert := models.GeofenceAlert{
			BookingID:      b.ID,
			DistanceMeters: int(math.Round(meters)),
		}
		s.addAlert(alert)
		e.notifier.Notify(s.ID, notification.Notification{
			Title:    "Geofence Alert",
			Message:  fmt.Sprintf("Order #%d is within %dm of your location!", alert.BookingID, alert.DistanceMeters),
			Severity: "info",
		})
	}
}
