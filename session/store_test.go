package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now().UTC()

	s := Session{
		ID:        "jti-1",
		AccountID: "acc-1",
		Username:  "ann1",
		Role:      "User",
		IssuedAt:  now,
		ExpiresAt: now.Add(6 * time.Hour),
	}

	_, err := store.Find(ctx, s.ID)
	assert.Equal(t, ErrNotFound, err)

	assert.NoError(t, store.Put(ctx, s))

	got, err := store.Find(ctx, s.ID)
	assert.NoError(t, err)
	assert.Equal(t, s, *got)

	assert.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Find(ctx, s.ID)
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now().UTC()

	s := Session{ID: "jti-expired", AccountID: "acc-1", IssuedAt: now.Add(-7 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	assert.NoError(t, store.Put(ctx, s))

	_, err := store.Find(ctx, s.ID)
	assert.Equal(t, ErrNotFound, err)
}

func TestRedisStorePutRejectsExpired(t *testing.T) {
	// the expiry guard runs before any network call, so no client needed
	store := NewRedisStore(nil)
	s := Session{ID: "jti-late", AccountID: "acc-1", ExpiresAt: time.Now().UTC().Add(-time.Minute)}

	err := store.Put(context.Background(), s)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already expired")
}

func TestSessionExpired(t *testing.T) {
	now := time.Now().UTC()
	s := Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))
}
