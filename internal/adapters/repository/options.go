// Package repository defines the session store interface and errors.
package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxSessions bounds the number of concurrently held sessions.
func WithMaxSessions(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithTTL sets how long an idle session is kept before eviction.
// A non-positive TTL disables idle eviction.
func WithTTL(ttl time.Duration) Option {
	return func(s *MemStore) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}
