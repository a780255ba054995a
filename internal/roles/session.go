package roles

import (
	"time"

	"servicenova/pkg/types"
)

// Session is the role cached for one signed-in user. It only saves a lookup
// when rendering pages; it is dropped on every sign-in and sign-out and is
// never consulted before a status mutation.
type Session struct {
	UserID     string
	Role       types.Role
	ResolvedAt time.Time
}

func NewSession(userID string, resolution Resolution, now time.Time) Session {
	return Session{
		UserID:     userID,
		Role:       resolution.Role,
		ResolvedAt: now.UTC(),
	}
}

// ValidFor reports whether the cached role may stand in for a fresh
// resolution for userID at now.
func (s Session) ValidFor(userID string, now time.Time, ttl time.Duration) bool {
	if s.UserID == "" || s.UserID != userID || s.Role == "" {
		return false
	}
	if ttl <= 0 {
		return false
	}

	age := now.Sub(s.ResolvedAt)
	return age >= 0 && age < ttl
}
