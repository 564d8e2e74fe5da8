package models

import "time"

// Booking status values as reported by the marketplace backend.
// The backend is the authority on assignment: a booking has at most
// one provider, and a 409 on confirm means someone else got there first.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
	StatusRejected  = "REJECTED"
)

// Request routing types: how a booking reached this provider.
const (
	RequestConfirmed = "CONFIRMED" // already locked to this provider
	RequestSpecific  = "SPECIFIC"  // direct request from the customer
	RequestDiscovery = "DISCOVERY" // broadcast to nearby providers
)

// Booking is a single service request linking a customer, a package
// and (once assigned) a provider.
type Booking struct {
	ID          int64       `json:"id"`
	CustomerID  int64       `json:"customerId"`
	PackageID   int64       `json:"packageId"`
	ProviderID  int64       `json:"providerId"` // zero until assigned
	Status      string      `json:"status"`
	RequestType string      `json:"requestType,omitempty"`
	Location    *Coordinate `json:"location,omitempty"`
	TotalPrice  float64     `json:"totalPrice"`
	BookingDate string      `json:"bookingDate"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	OTP         string      `json:"otp,omitempty"` // issued at confirmation, consumed at completion
}

// AnnotatedBooking is a Booking plus the computed distance from the
// provider's live location. DistanceKm is nil when either coordinate is
// unknown. Derived on every refresh, never persisted.
type AnnotatedBooking struct {
	Booking
	DistanceKm *float64 `json:"distanceKm"`
}

// AssignedElsewhere reports whether the booking has been confirmed for
// a different provider than the one given.
func (b Booking) AssignedElsewhere(providerID int64) bool {
	return b.Status == StatusConfirmed && b.ProviderID != 0 && b.ProviderID != providerID
}
