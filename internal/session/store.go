// Package session holds the durable token/expiry store behind the auth
// gate. Tokens are opaque; everything the request filter needs is the
// resolved identity.
package session

import (
	"context"
	"time"
)

type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}

// Store persists sessions with an expiry. Get returns (nil, nil) for a
// missing or expired token.
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, token string) error
}
