package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "Coral reefs are alive."))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Coral reefs are alive.", got)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.clock = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v"))

	now = now.Add(59 * time.Second)
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok, "still fresh")

	now = now.Add(10 * time.Second)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok, "expired past ttl plus max jitter")
	assert.Equal(t, 0, m.Len())
}

func TestMemory_NoTTLKeepsForever(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Set(ctx, "k", "v"))

	m.clock = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)
}

func TestNop(t *testing.T) {
	var c PassageCache = Nop{}
	require.NoError(t, c.Set(context.Background(), "k", "v"))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "run miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedis_GetSet(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	c := NewRedis(client, time.Hour)

	_, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "abc", "The passage."))
	assert.True(t, mr.Exists(KeyPrefix+"abc"))

	got, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "The passage.", got)

	ttl := mr.TTL(KeyPrefix + "abc")
	assert.GreaterOrEqual(t, ttl, time.Hour)
	assert.LessOrEqual(t, ttl, time.Hour+6*time.Minute)
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	c := NewRedis(client, time.Minute)

	require.NoError(t, c.Set(ctx, "abc", "v"))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDialRedis(t *testing.T) {
	mr, _ := newMiniredis(t)

	addr := mr.Addr()

	c, err := DialRedis(context.Background(), RedisOptions{Address: addr}, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	mr.Close()
	_, err = DialRedis(context.Background(), RedisOptions{Address: addr}, time.Minute)
	assert.Error(t, err)
}

func TestRedis_ServerDown(t *testing.T) {
	mr, client := newMiniredis(t)
	c := NewRedis(client, time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background(), "abc")
	assert.Error(t, err)
}
