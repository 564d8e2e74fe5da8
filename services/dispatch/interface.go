package dispatch

import (
	"context"

	"pawdispatch/models"
)

// BackendClient is the slice of the marketplace backend the dispatch
// engine needs. The production implementation is clients/marketplace;
// tests script their own.
type BackendClient interface {
	GetProviderBookings(ctx context.Context, token string, loc *models.Coordinate) ([]models.Booking, error)
	GetProviderProfile(ctx context.Context, token string) (*models.ProviderProfile, error)
	ConfirmBooking(ctx context.Context, token string, bookingID int64) (*models.Booking, error)
	CancelBooking(ctx context.Context, token string, bookingID int64) (*models.Booking, error)
	CompleteBooking(ctx context.Context, token string, bookingID int64, otp string) (*models.Booking, error)
}
