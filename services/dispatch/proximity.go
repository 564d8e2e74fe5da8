package dispatch

import (
	"sort"

	"pawdispatch/models"
)

// Annotate derives the provider-relevant view of a booking list: each
// booking is annotated with its distance from the provider, bookings
// beyond the visibility radius are dropped, and the result is optionally
// ordered nearest-first.
//
// A nil distance (unknown provider location or no service coordinate)
// never drops a booking; absence of data is not "far away". Pure
// function of its inputs, recomputed on every refresh.
func Annotate(bookings []models.Booking, provider *models.Coordinate, sortByDistance bool, visibilityKm float64) []models.AnnotatedBooking {
	annotated := make([]models.AnnotatedBooking, 0, len(bookings))
	for _, b := range bookings {
		var distance *float64
		if provider != nil && b.Location != nil {
			d := DistanceKm(*provider, *b.Location)
			distance = &d
		}
		if distance != nil && *distance > visibilityKm {
			continue
		}
		annotated = append(annotated, models.AnnotatedBooking{Booking: b, DistanceKm: distance})
	}

	if sortByDistance {
		// Stable: bookings with unknown distance keep their relative
		// order and sort after every known distance.
		sort.SliceStable(annotated, func(i, j int) bool {
			di, dj := annotated[i].DistanceKm, annotated[j].DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	}

	return annotated
}
