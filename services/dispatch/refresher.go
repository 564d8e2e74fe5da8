package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pawdispatch/models"
)

// runRefresher is the session's live refresh coordinator: a fixed
// interval plus kicks fired after mutating actions or location changes.
// It is owned by the session and stops the moment the session context
// is cancelled, so no periodic work leaks past teardown.
func (e *Engine) runRefresher(ctx context.Context, s *Session) {
	ticker := time.NewTicker(e.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.refreshBookings(ctx, s)
		case <-s.kick:
			e.refreshBookings(ctx, s)
		}
	}
}

// refreshBookings pulls the authoritative booking list. A failed
// refresh keeps the last-known-good working set: stale-but-available
// beats empty.
func (e *Engine) refreshBookings(ctx context.Context, s *Session) {
	bookings, err := e.backend.GetProviderBookings(ctx, s.Token, s.Location())
	if err != nil {
		e.logger.Warn("booking refresh failed, keeping last known list",
			zap.String("session", s.ID), zap.Error(err))
		return
	}
	s.applyRefresh(bookings)
	e.flagReassigned(s)
	e.checkGeofence(ctx, s)
}

// initialLoad fetches bookings and profile in parallel. The two are
// independent: one failing must not prevent the other's data from
// being shown.
func (e *Engine) initialLoad(ctx context.Context, s *Session) {
	var (
		wg       sync.WaitGroup
		bookings []models.Booking
		profile  *models.ProviderProfile
		bErr     error
		pErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, bErr = e.backend.GetProviderBookings(ctx, s.Token, s.Location())
	}()
	go func() {
		defer wg.Done()
		profile, pErr = e.backend.GetProviderProfile(ctx, s.Token)
	}()
	wg.Wait()

	s.mu.Lock()
	if bErr != nil {
		e.logger.Warn("failed to fetch bookings", zap.String("session", s.ID), zap.Error(bErr))
		s.load.BookingsFailed = true
	} else {
		s.bookings = bookings
		s.load.BookingsFailed = false
	}
	if pErr != nil {
		e.logger.Warn("failed to fetch profile", zap.String("session", s.ID), zap.Error(pErr))
		s.load.ProfileFailed = true
	} else {
		s.profile = profile
		s.load.ProfileFailed = false
	}
	s.mu.Unlock()

	if bErr == nil {
		e.flagReassigned(s)
		e.checkGeofence(ctx, s)
	}
}

// flagReassigned notifies once per refresh about bookings that came
// back CONFIRMED for somebody else, so the stale local entries explain
// themselves before the next action fails with a conflict.
func (e *Engine) flagReassigned(s *Session) {
	profile := s.Profile()
	if profile == nil {
		return
	}
	s.mu.Lock()
	var taken []int64
	for _, b := range s.bookings {
		if b.AssignedElsewhere(profile.ID) {
			taken = append(taken, b.ID)
		}
	}
	s.mu.Unlock()
	for _, id := range taken {
		e.logger.Debug("booking assigned to another provider",
			zap.String("session", s.ID), zap.Int64("booking", id))
	}
}
