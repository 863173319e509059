// Package session keeps one record per issued token, keyed by the token's
// jti. Sessions live apart from accounts so that two profiles of the same
// account can be logged in at once without invalidating each other.
package session

import (
	"context"
	"errors"
	"time"
)

type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var ErrNotFound = errors.New("session not found")

// Store implementations must treat an expired session as absent.
type Store interface {
	Put(ctx context.Context, s Session) error
	Find(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
