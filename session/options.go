package session

import (
	"time"

	"go.uber.org/zap"
)

// ManagerOption is a functional option for configuring a Manager.
type ManagerOption func(*managerConfig)

// managerConfig holds configuration for session managers.
type managerConfig struct {
	maxSessionsPerUser  int
	ttl                 time.Duration
	inactivityThreshold time.Duration
	logger              *zap.SugaredLogger
	now                 func() time.Time
}

// WithMaxSessionsPerUser caps the bounded session list; the oldest
// session is evicted when a login exceeds it.
func WithMaxSessionsPerUser(n int) ManagerOption {
	return func(c *managerConfig) {
		c.maxSessionsPerUser = n
	}
}

// WithTTL sets the TTL for session records.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(c *managerConfig) {
		c.ttl = ttl
	}
}

// WithInactivityThreshold sets how long a session may go unused before
// a listing reports it inactive.
func WithInactivityThreshold(d time.Duration) ManagerOption {
	return func(c *managerConfig) {
		c.inactivityThreshold = d
	}
}

// WithLogger sets the logger used by the manager.
func WithLogger(logger *zap.SugaredLogger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(c *managerConfig) {
		c.now = now
	}
}
