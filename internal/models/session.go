package models

import "time"

// Session is the signed-in user context stored under session:<token>.
type Session struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// IsExpired checks if session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// TTL returns the remaining lifetime at now, capped to max.
func (s *Session) TTL(now time.Time, max time.Duration) time.Duration {
	if s.ExpiresAt.IsZero() {
		return max
	}
	remaining := s.ExpiresAt.Sub(now)
	if remaining > max {
		return max
	}
	return remaining
}
