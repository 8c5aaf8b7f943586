package memory

import "time"

// Config holds in-memory storage behavior settings
type Config struct {
	// SessionTTL bounds how long an untouched game session is kept.
	// Zero keeps sessions forever. Statistics never expire.
	SessionTTL time.Duration

	// SweepInterval is the minimum gap between scans for expired sessions
	SweepInterval time.Duration
}

// DefaultConfig returns the same session retention the Redis store uses
func DefaultConfig() Config {
	return Config{
		SessionTTL:    24 * time.Hour,
		SweepInterval: time.Minute,
	}
}
