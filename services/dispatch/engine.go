package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pawdispatch/config"
	"pawdispatch/models"
	"pawdispatch/services/notification"
)

// Options are the dispatch thresholds. Visibility and acceptance are
// two independent gates; neither is a literal in the engine.
type Options struct {
	VisibilityRadiusKm   float64
	AcceptanceRadiusKm   float64
	GeofenceRadiusMeters float64
	RefreshInterval      time.Duration
	AcceptMaxAttempts    int
	LoadMaxRetries       int
}

// OptionsFromConfig builds engine options from the loaded app config.
func OptionsFromConfig() Options {
	return Options{
		VisibilityRadiusKm:   config.AppConfig.VisibilityRadiusKm,
		AcceptanceRadiusKm:   config.AppConfig.AcceptanceRadiusKm,
		GeofenceRadiusMeters: config.AppConfig.GeofenceRadiusMeters,
		RefreshInterval:      config.AppConfig.RefreshInterval,
		AcceptMaxAttempts:    config.AppConfig.AcceptMaxAttempts,
		LoadMaxRetries:       config.AppConfig.LoadMaxRetries,
	}
}

// Engine turns the stream of booking requests and each provider's live
// location into an actionable, safely-ordered worklist. It owns the
// per-session refresh loops and all booking actions.
type Engine struct {
	opts     Options
	backend  BackendClient
	alerts   AlertStore
	notifier notification.Notifier
	logger   *zap.Logger

	// sleep is swapped out in tests to observe the backoff schedule.
	sleep func(time.Duration)

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewEngine(opts Options, backend BackendClient, alerts AlertStore, notifier notification.Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		opts:     opts,
		backend:  backend,
		alerts:   alerts,
		notifier: notifier,
		logger:   logger,
		sleep:    time.Sleep,
		sessions: make(map[string]*Session),
	}
}

// OpenSession starts a dispatch session for a provider: loads profile
// and bookings (independently, partial success allowed) and starts the
// session's refresh coordinator.
func (e *Engine) OpenSession(ctx context.Context, token string, loc *models.Coordinate) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("missing provider credential")
	}

	session := newSession(uuid.New().String(), token, loc)
	e.initialLoad(ctx, session)

	runCtx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel
	go e.runRefresher(runCtx, session)

	e.mu.Lock()
	e.sessions[session.ID] = session
	e.mu.Unlock()

	e.logger.Info("dispatch session opened", zap.String("session", session.ID))
	return session, nil
}

// Session looks up an active session.
func (e *Engine) Session(sessionID string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[sessionID]
	return s, ok
}

// CloseSession tears the session down: the refresh ticker is cancelled
// deterministically and the alert de-duplication set is dropped.
func (e *Engine) CloseSession(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	session, ok := e.sessions[sessionID]
	if ok {
		delete(e.sessions, sessionID)
	}
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}

	if session.cancel != nil {
		session.cancel()
	}
	if err := e.alerts.Clear(ctx, sessionID); err != nil {
		e.logger.Warn("failed to clear geofence alerts", zap.String("session", sessionID), zap.Error(err))
	}
	e.logger.Info("dispatch session closed", zap.String("session", sessionID))
	return nil
}

// UpdateLocation records the provider's newest coordinate and kicks a
// refresh so the worklist is recomputed against it.
func (e *Engine) UpdateLocation(s *Session, loc models.Coordinate) {
	s.SetLocation(&loc)
	e.checkGeofence(context.Background(), s)
	s.Kick()
}

// Worklist returns the session's current annotated view.
func (e *Engine) Worklist(s *Session) []models.AnnotatedBooking {
	return s.Worklist(e.opts.VisibilityRadiusKm)
}

// RetryLoad re-runs the initial load for a session whose first load
// failed partially or fully. Manual retries are capped.
func (e *Engine) RetryLoad(ctx context.Context, s *Session) error {
	s.mu.Lock()
	if s.load.RetryCount >= e.opts.LoadMaxRetries {
		s.mu.Unlock()
		return fmt.Errorf("retry limit of %d reached", e.opts.LoadMaxRetries)
	}
	s.load.RetryCount++
	s.mu.Unlock()

	e.initialLoad(ctx, s)
	return nil
}
