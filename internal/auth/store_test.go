package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Save(ctx, &Session{ID: "a", Username: "admin", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, m.Save(ctx, &Session{ID: "b", Username: "admin", ExpiresAt: now.Add(time.Hour)}))

	s, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "admin", s.Username)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	m.Prune()
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, "b"))
	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, "clicksafe:session:")
	now := time.Now()
	sess := &Session{ID: "abc", Username: "admin", CreatedAt: now, ExpiresAt: now.Add(30 * time.Minute)}
	require.NoError(t, store.Save(ctx, sess))

	assert.True(t, mr.Exists("clicksafe:session:abc"))
	ttl := mr.TTL("clicksafe:session:abc")
	assert.True(t, ttl > 29*time.Minute && ttl <= 30*time.Minute, "ttl %s", ttl)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	mr.FastForward(31 * time.Minute)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("clicksafe:session:abc"))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
