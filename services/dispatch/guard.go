package dispatch

import "pawdispatch/models"

// CanAccept reports whether the distance gate permits accepting the
// booking. An unknown distance permits: the acceptance radius only
// blocks when we positively know the booking is too far. This gate is
// stricter than, and independent of, the visibility cutoff.
func CanAccept(b models.AnnotatedBooking, limitKm float64) bool {
	return b.DistanceKm == nil || *b.DistanceKm <= limitKm
}

// CheckAcceptable returns an eligibility error when the gate rejects,
// carrying the exact distance for the user-facing message. No backend
// call is made on rejection.
func CheckAcceptable(b models.AnnotatedBooking, limitKm float64) error {
	if CanAccept(b, limitKm) {
		return nil
	}
	return NewEligibilityError(*b.DistanceKm, limitKm)
}
