package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawdispatch/models"
)

func annotatedAtKm(km float64) models.AnnotatedBooking {
	return models.AnnotatedBooking{
		Booking:    pendingBooking(1, nil),
		DistanceKm: &km,
	}
}

func TestCanAccept(t *testing.T) {
	cases := []struct {
		name     string
		distance *float64
		want     bool
	}{
		{"unknown distance permits", nil, true},
		{"well inside", ptr(3.2), true},
		{"exactly at the limit", ptr(10.0), true},
		{"just beyond", ptr(10.01), false},
		{"far beyond", ptr(48.0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := models.AnnotatedBooking{Booking: pendingBooking(1, nil), DistanceKm: tc.distance}
			assert.Equal(t, tc.want, CanAccept(b, 10))
		})
	}
}

func TestCheckAcceptableMessageCitesDistanceAndLimit(t *testing.T) {
	err := CheckAcceptable(annotatedAtKm(12.04), 10)
	require.Error(t, err)

	actionErr, ok := err.(*ActionError)
	require.True(t, ok)
	assert.Equal(t, KindEligibility, actionErr.Kind)
	assert.Contains(t, actionErr.Message, "12.0km away")
	assert.Contains(t, actionErr.Message, "within 10km")
}

func TestCheckAcceptablePassesUnknownDistance(t *testing.T) {
	b := models.AnnotatedBooking{Booking: pendingBooking(1, nil)}
	assert.NoError(t, CheckAcceptable(b, 10))
}

func ptr(f float64) *float64 { return &f }
