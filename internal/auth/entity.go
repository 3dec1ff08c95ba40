// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is the server-side state behind a session cookie. The id itself
// is only ever handed to the client; storage is keyed by its hash.
type Session struct {
	UserID    int64     `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
