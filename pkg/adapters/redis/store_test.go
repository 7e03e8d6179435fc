package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/fsmkit/pkg/adapters/redis"
	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunCheckpointStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Now()
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Second),
		redis.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()
	sessionID := "session-ttl"

	err := store.Save(ctx, sessionID, domain.NewCheckpoint(sessionID, "waiting-for-money"))
	require.NoError(t, err)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	// Expire the key in redis and move the index clock past the TTL.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	sessionID := "my-session"

	err := store.Save(ctx, sessionID, domain.NewCheckpoint(sessionID, "start"))
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:cp:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{sessionID}, list)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set("fsmkit:session:cp:broken", "{not json"))

	_, err := store.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_ReservedLookingIDs(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("app:"))
	locker := redis.NewLocker(client, "app:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "x", time.Minute)
	require.NoError(t, err)
	defer unlock(ctx)

	// IDs spelling the index key or another session's lock key.
	for _, id := range []string{"alice", "index", "lock:x", "cp:alice"} {
		require.NoError(t, store.Save(ctx, id, domain.NewCheckpoint(id, "start")), id)
	}
	require.NoError(t, store.Save(ctx, "bob", domain.NewCheckpoint("bob", "start")))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "index", "lock:x", "cp:alice", "bob"}, list)

	cp, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", cp.SessionID)

	// The lock held for "x" is untouched by the checkpoint of "lock:x".
	assert.True(t, mr.Exists("app:lock:x"))
	assert.True(t, mr.Exists("app:cp:lock:x"))
	holder, err := mr.Get("app:lock:x")
	require.NoError(t, err)
	assert.NotContains(t, holder, "session_id")
}
