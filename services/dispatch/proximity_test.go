package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawdispatch/models"
)

var testOrigin = models.Coordinate{Latitude: 17.3850, Longitude: 78.4867}

func TestAnnotateDropsBookingsBeyondVisibility(t *testing.T) {
	bookings := []models.Booking{
		pendingBooking(1, coordKmNorth(testOrigin, 5)),
		pendingBooking(2, coordKmNorth(testOrigin, 55)),
		pendingBooking(3, coordKmNorth(testOrigin, 49)),
	}

	out := Annotate(bookings, &testOrigin, false, 50)

	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
	require.NotNil(t, out[0].DistanceKm)
	assert.InDelta(t, 5, *out[0].DistanceKm, 0.01)
}

func TestAnnotateRetainsUnknownDistance(t *testing.T) {
	// No service coordinate: unknown is never treated as far away.
	bookings := []models.Booking{
		pendingBooking(1, nil),
		pendingBooking(2, coordKmNorth(testOrigin, 70)),
	}

	for _, sortFlag := range []bool{false, true} {
		out := Annotate(bookings, &testOrigin, sortFlag, 50)
		require.Len(t, out, 1)
		assert.Equal(t, int64(1), out[0].ID)
		assert.Nil(t, out[0].DistanceKm)
	}
}

func TestAnnotateWithoutProviderLocationKeepsEverything(t *testing.T) {
	bookings := []models.Booking{
		pendingBooking(1, coordKmNorth(testOrigin, 200)),
		pendingBooking(2, nil),
	}

	out := Annotate(bookings, nil, false, 50)

	require.Len(t, out, 2)
	for _, b := range out {
		assert.Nil(t, b.DistanceKm)
	}
}

func TestAnnotateSortsByDistanceNilLast(t *testing.T) {
	bookings := []models.Booking{
		pendingBooking(1, coordKmNorth(testOrigin, 30)),
		pendingBooking(2, nil),
		pendingBooking(3, coordKmNorth(testOrigin, 2)),
		pendingBooking(4, nil),
		pendingBooking(5, coordKmNorth(testOrigin, 12)),
	}

	out := Annotate(bookings, &testOrigin, true, 50)

	require.Len(t, out, 5)
	var order []int64
	for _, b := range out {
		order = append(order, b.ID)
	}
	// Ascending by distance, unknown distances last in input order.
	assert.Equal(t, []int64{3, 5, 1, 2, 4}, order)
}

func TestAnnotateSortIsStableForUnknownDistances(t *testing.T) {
	bookings := []models.Booking{
		pendingBooking(7, nil),
		pendingBooking(8, nil),
		pendingBooking(9, nil),
	}

	out := Annotate(bookings, &testOrigin, true, 50)

	require.Len(t, out, 3)
	assert.Equal(t, int64(7), out[0].ID)
	assert.Equal(t, int64(8), out[1].ID)
	assert.Equal(t, int64(9), out[2].ID)
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	bookings := []models.Booking{
		pendingBooking(1, coordKmNorth(testOrigin, 3)),
		pendingBooking(2, coordKmNorth(testOrigin, 1)),
	}

	_ = Annotate(bookings, &testOrigin, true, 50)

	assert.Equal(t, int64(1), bookings[0].ID)
	assert.Equal(t, int64(2), bookings[1].ID)
}
