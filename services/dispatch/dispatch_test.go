package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"pawdispatch/models"
	"pawdispatch/services/notification"
)

// fakeBackend scripts the marketplace backend for engine tests.
type fakeBackend struct {
	mu sync.Mutex

	bookings    []models.Booking
	bookingsErr error
	profile     models.ProviderProfile
	profileErr  error

	// confirmErrs are consumed one per ConfirmBooking call; a nil entry
	// or an exhausted script means success.
	confirmErrs []error
	cancelErr   error
	completeErr error

	fetchCalls    int
	profileCalls  int
	confirmCalls  int
	cancelCalls   int
	completeCalls int
}

func (f *fakeBackend) GetProviderBookings(_ context.Context, _ string, _ *models.Coordinate) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	out := make([]models.Booking, len(f.bookings))
	copy(out, f.bookings)
	return out, nil
}

func (f *fakeBackend) GetProviderProfile(_ context.Context, _ string) (*models.ProviderProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	profile := f.profile
	return &profile, nil
}

func (f *fakeBackend) ConfirmBooking(_ context.Context, _ string, bookingID int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	if len(f.confirmErrs) > 0 {
		err := f.confirmErrs[0]
		f.confirmErrs = f.confirmErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			f.bookings[i].Status = models.StatusConfirmed
			f.bookings[i].ProviderID = f.profile.ID
		}
	}
	return &models.Booking{ID: bookingID, Status: models.StatusConfirmed}, nil
}

func (f *fakeBackend) CancelBooking(_ context.Context, _ string, bookingID int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &models.Booking{ID: bookingID, Status: models.StatusCancelled}, nil
}

func (f *fakeBackend) CompleteBooking(_ context.Context, _ string, bookingID int64, _ string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &models.Booking{ID: bookingID, Status: models.StatusCompleted}, nil
}

func (f *fakeBackend) counts() (fetch, confirm, cancel, complete int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls, f.confirmCalls, f.cancelCalls, f.completeCalls
}

func (f *fakeBackend) setBookingsErr(err error) {
	f.mu.Lock()
	f.bookingsErr = err
	f.mu.Unlock()
}

func testOptions() Options {
	return Options{
		VisibilityRadiusKm:   50,
		AcceptanceRadiusKm:   10,
		GeofenceRadiusMeters: 500,
		RefreshInterval:      time.Hour, // ticks are irrelevant unless a test shrinks this
		AcceptMaxAttempts:    3,
		LoadMaxRetries:       3,
	}
}

func newTestEngine(backend BackendClient, opts Options) (*Engine, *notification.InboxNotifier) {
	notifier := notification.NewInboxNotifier(zap.NewNop())
	engine := NewEngine(opts, backend, NewMemoryAlertStore(), notifier, zap.NewNop())
	engine.sleep = func(time.Duration) {}
	return engine, notifier
}

func openTestSession(t *testing.T, engine *Engine, loc *models.Coordinate) *Session {
	t.Helper()
	session, err := engine.OpenSession(context.Background(), "test-token", loc)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	t.Cleanup(func() {
		_ = engine.CloseSession(context.Background(), session.ID)
	})
	return session
}

// One degree of latitude is ~111.195 km on the reference sphere.
const kmPerLatDegree = 111.19493

// coordKmNorth places a point the given number of kilometers due north
// of the origin.
func coordKmNorth(origin models.Coordinate, km float64) *models.Coordinate {
	return &models.Coordinate{
		Latitude:  origin.Latitude + km/kmPerLatDegree,
		Longitude: origin.Longitude,
	}
}

func pendingBooking(id int64, loc *models.Coordinate) models.Booking {
	return models.Booking{
		ID:          id,
		CustomerID:  id * 10,
		PackageID:   1,
		Status:      models.StatusPending,
		RequestType: models.RequestDiscovery,
		Location:    loc,
		TotalPrice:  499,
	}
}
