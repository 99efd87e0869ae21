package entity

import "time"

// Session is one login of a user. Its ID travels inside the signed session cookie;
// the Redis store keeps the JSON form below.
type Session struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	UserAgent string     `json:"user_agent,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// ExpiredAt reports whether the session has reached ExpiresAt by now.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsExpired is ExpiredAt for the current time.
func (s *Session) IsExpired() bool {
	return s.ExpiredAt(time.Now())
}

// IsRevoked reports whether the session was logged out.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid reports whether the session can still authenticate requests.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}

// Revoke marks the session as logged out at the given time. An earlier revocation is kept.
func (s *Session) Revoke(at time.Time) {
	if s.RevokedAt == nil {
		s.RevokedAt = &at
	}
}

// Lifetime returns how long the record must be retained after now, zero once expired.
// Revoked sessions are retained until expiry so replays still resolve as revoked.
func (s *Session) Lifetime(now time.Time) time.Duration {
	if s.ExpiredAt(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
