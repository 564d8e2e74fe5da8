package models

// GeofenceAlert records a booking crossing into the provider's alert
// radius. Alerts are derived per dispatch session and never persisted;
// they live until the session is torn down.
type GeofenceAlert struct {
	BookingID      int64 `json:"bookingId"`
	DistanceMeters int   `json:"distanceMeters"`
}
