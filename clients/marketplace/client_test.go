package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawdispatch/models"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestGetProviderBookingsSendsAuthAndLocation(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/provider/bookings", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "17.385", r.URL.Query().Get("latitude"))
		assert.Equal(t, "78.4867", r.URL.Query().Get("longitude"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":5,"customerId":11,"packageId":2,"status":"PENDING","requestType":"SPECIFIC","latitude":17.4,"longitude":78.5,"totalPrice":899}]`))
	})
	defer srv.Close()

	loc := &models.Coordinate{Latitude: 17.385, Longitude: 78.4867}
	bookings, err := client.GetProviderBookings(context.Background(), "tok-123", loc)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(5), bookings[0].ID)
	assert.Equal(t, models.RequestSpecific, bookings[0].RequestType)
	require.NotNil(t, bookings[0].Location)
	assert.Equal(t, 17.4, bookings[0].Location.Latitude)
}

func TestGetProviderBookingsOmitsLocationWhenUnknown(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery, "no location params when the coordinate is unknown")
		_, _ = w.Write([]byte(`[]`))
	})
	defer srv.Close()

	bookings, err := client.GetProviderBookings(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookingWithoutCoordinatesHasNilLocation(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":5,"status":"PENDING"}]`))
	})
	defer srv.Close()

	bookings, err := client.GetProviderBookings(context.Background(), "tok", nil)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Nil(t, bookings[0].Location)
}

func TestConfirmBookingDecodesErrorShapes(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusConflict, `{"error":"Booking already confirmed by another provider"}`, "Booking already confirmed by another provider"},
		{"message field", http.StatusBadRequest, `{"message":"booking is cancelled"}`, "booking is cancelled"},
		{"opaque body", http.StatusInternalServerError, `boom`, "Internal Server Error"},
		{"empty body", http.StatusBadGateway, ``, "Bad Gateway"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/api/provider/5/confirm", r.URL.Path)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			defer srv.Close()

			_, err := client.ConfirmBooking(context.Background(), "tok", 5)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestCompleteBookingSendsOTP(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/provider/9/complete", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, jsonDecode(r, &body))
		assert.Equal(t, "482913", body["otp"])

		_, _ = w.Write([]byte(`{"id":9,"status":"COMPLETED"}`))
	})
	defer srv.Close()

	booking, err := client.CompleteBooking(context.Background(), "tok", 9, "482913")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, booking.Status)
}

func jsonDecode(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func TestNetworkFailureIsNotAnAPIError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := client.ConfirmBooking(context.Background(), "tok", 1)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures must stay plain errors")
}
