package models

import "time"

// Session represents a quiz session held in memory by the server
type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
	ExpiresAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsIdle reports whether the session has seen no activity for longer than timeout
func (s *Session) IsIdle(timeout time.Duration) bool {
	return timeout > 0 && time.Since(s.LastSeen) > timeout
}

// Touch records activity and pushes the expiry out by ttl
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.LastSeen = now
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
}
