package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

// AlertStore is the de-duplication set behind geofence alerting: at
// most one alert per booking per session, cleared only on session
// teardown. Moving away and back inside the radius does not re-alert;
// there is no expiry until a product decision supplies one.
type AlertStore interface {
	// MarkAlerted records the booking as alerted for the session and
	// reports whether this is the first time.
	MarkAlerted(ctx context.Context, sessionID string, bookingID int64) (bool, error)
	// Clear drops the session's alert set.
	Clear(ctx context.Context, sessionID string) error
}

// MemoryAlertStore keeps the alert sets in process. Used in tests and
// single-instance deployments.
type MemoryAlertStore struct {
	mu      sync.Mutex
	alerted map[string]map[int64]bool
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{alerted: make(map[string]map[int64]bool)}
}

func (s *MemoryAlertStore) MarkAlerted(_ context.Context, sessionID string, bookingID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.alerted[sessionID]
	if set == nil {
		set = make(map[int64]bool)
		s.alerted[sessionID] = set
	}
	if set[bookingID] {
		return false, nil
	}
	set[bookingID] = true
	return true, nil
}

func (s *MemoryAlertStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.alerted, sessionID)
	s.mu.Unlock()
	return nil
}

// RedisAlertStore backs the alert sets with Redis so a session's
// de-duplication survives engine restarts and scales across instances.
type RedisAlertStore struct {
	Client *redis.Client
}

func NewRedisAlertStore(client *redis.Client) *RedisAlertStore {
	return &RedisAlertStore{Client: client}
}

func alertKey(sessionID string) string {
	return fmt.Sprintf("geofence:%s", sessionID)
}

func (s *RedisAlertStore) MarkAlerted(ctx context.Context, sessionID string, bookingID int64) (bool, error) {
	added, err := s.Client.SAdd(ctx, alertKey(sessionID), bookingID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark geofence alert: %w", err)
	}
	return added == 1, nil
}

func (s *RedisAlertStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, alertKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear geofence alerts: %w", err)
	}
	return nil
}
