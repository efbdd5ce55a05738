package store

import "time"

// Session is the in-memory view of a shopper's authenticated session. It is
// read-only for the commerce core; minting and refreshing the backing
// cookie is an upstream collaborator's job.
type Session struct {
	ID        string    `json:"id"` // session token
	UserID    string    `json:"user_id"`
	TenantKey string    `json:"tenant_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
