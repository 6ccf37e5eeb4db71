package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStore(rdb, ttl)
}

func TestStore_SaveAndGet(t *testing.T) {
	mr, store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess := &Session{ID: "abc", Token: "upstream-token", User: domain.User{ID: 7, Name: "张伟", Role: domain.RoleAdmin}}
	require.NoError(t, store.Save(ctx, sess))

	assert.True(t, mr.Exists("session_abc"))
	assert.Equal(t, time.Hour, mr.TTL("session_abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestStore_Expiry(t *testing.T) {
	mr, store := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "abc", Token: "t"}))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	_, store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "abc", Token: "t"}))
	require.NoError(t, store.Delete(ctx, "abc"))

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestStore_CorruptData(t *testing.T) {
	mr, store := newTestStore(t, time.Hour)
	require.NoError(t, mr.Set("session_bad", "not json"))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
