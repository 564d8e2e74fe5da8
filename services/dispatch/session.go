package dispatch

import (
	"context"
	"sync"

	"pawdispatch/models"
)

// LoadState tracks the outcome of the initial load. Bookings and
// profile are fetched independently; one failing must not blank out
// the other's data.
type LoadState struct {
	BookingsFailed bool `json:"bookingsFailed"`
	ProfileFailed  bool `json:"profileFailed"`
	RetryCount     int  `json:"retryCount"`
}

// Message renders the partial-failure state for the dashboard, or ""
// when both fetches succeeded.
func (ls LoadState) Message() string {
	switch {
	case ls.BookingsFailed && ls.ProfileFailed:
		return "Failed to load both bookings and profile data. Please try again."
	case ls.BookingsFailed:
		return "Failed to load bookings data, but profile loaded successfully."
	case ls.ProfileFailed:
		return "Failed to load profile data, but bookings loaded successfully."
	}
	return ""
}

// Session is one provider's live dispatch view: identity, current
// location and the working set of bookings. All derived state here is
// recomputed from the backend list; nothing is persisted.
type Session struct {
	ID    string
	Token string

	mu             sync.Mutex
	location       *models.Coordinate
	profile        *models.ProviderProfile
	bookings       []models.Booking
	inFlight       map[int64]bool
	sortByDistance bool
	load           LoadState
	alerts         []models.GeofenceAlert

	kick   chan struct{}
	cancel context.CancelFunc
}

func newSession(id, token string, loc *models.Coordinate) *Session {
	return &Session{
		ID:       id,
		Token:    token,
		location: loc,
		inFlight: make(map[int64]bool),
		kick:     make(chan struct{}, 1),
	}
}

// SetLocation updates the provider's live coordinate.
func (s *Session) SetLocation(loc *models.Coordinate) {
	s.mu.Lock()
	s.location = loc
	s.mu.Unlock()
}

// Location returns a copy of the current coordinate, nil while unknown.
func (s *Session) Location() *models.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == nil {
		return nil
	}
	loc := *s.location
	return &loc
}

// SetSortByDistance toggles nearest-first ordering of the worklist.
func (s *Session) SetSortByDistance(enabled bool) {
	s.mu.Lock()
	s.sortByDistance = enabled
	s.mu.Unlock()
}

// Profile returns the provider profile, nil if the fetch failed.
func (s *Session) Profile() *models.ProviderProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) setProfile(p *models.ProviderProfile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}

// Worklist derives the filtered, annotated, optionally sorted view of
// the working set against the provider's newest coordinate.
func (s *Session) Worklist(visibilityKm float64) []models.AnnotatedBooking {
	s.mu.Lock()
	bookings := make([]models.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	loc := s.location
	sortFlag := s.sortByDistance
	s.mu.Unlock()
	return Annotate(bookings, loc, sortFlag, visibilityKm)
}

// FindAnnotated locates one booking in the working set with its
// computed distance.
func (s *Session) FindAnnotated(bookingID int64) (models.AnnotatedBooking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID != bookingID {
			continue
		}
		annotated := models.AnnotatedBooking{Booking: b}
		if s.location != nil && b.Location != nil {
			d := DistanceKm(*s.location, *b.Location)
			annotated.DistanceKm = &d
		}
		return annotated, true
	}
	return models.AnnotatedBooking{}, false
}

// applyRefresh replaces the working set wholesale. The backend list is
// authoritative: it supersedes any optimistic local patch.
func (s *Session) applyRefresh(bookings []models.Booking) {
	s.mu.Lock()
	s.bookings = bookings
	s.load.BookingsFailed = false
	s.mu.Unlock()
}

// markStatus patches one booking's status optimistically. The patch is
// authoritative only until the next refresh overwrites it.
func (s *Session) markStatus(bookingID int64, status string) {
	s.mu.Lock()
	for i := range s.bookings {
		if s.bookings[i].ID == bookingID {
			s.bookings[i].Status = status
			break
		}
	}
	s.mu.Unlock()
}

// remove hides a booking from the local view without reflecting true
// backend state. Best-effort degradation for a failed cancel.
func (s *Session) remove(bookingID int64) {
	s.mu.Lock()
	kept := s.bookings[:0]
	for _, b := range s.bookings {
		if b.ID != bookingID {
			kept = append(kept, b)
		}
	}
	s.bookings = kept
	s.mu.Unlock()
}

// tryMarkInFlight claims the per-booking submission lock. It is
// fine-grained: an outstanding accept on one booking never blocks
// actions on another.
func (s *Session) tryMarkInFlight(bookingID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[bookingID] {
		return false
	}
	s.inFlight[bookingID] = true
	return true
}

func (s *Session) clearInFlight(bookingID int64) {
	s.mu.Lock()
	delete(s.inFlight, bookingID)
	s.mu.Unlock()
}

// Load returns the initial-load bookkeeping.
func (s *Session) Load() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load
}

// Alerts returns the geofence alerts raised so far this session.
func (s *Session) Alerts() []models.GeofenceAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := make([]models.GeofenceAlert, len(s.alerts))
	copy(alerts, s.alerts)
	return alerts
}

func (s *Session) addAlert(alert models.GeofenceAlert) {
	s.mu.Lock()
	s.alerts = append(s.alerts, alert)
	s.mu.Unlock()
}

// Kick requests an immediate refresh from the session's coordinator
// without waiting for the next tick. Non-blocking; a pending kick is
// enough.
func (s *Session) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}
