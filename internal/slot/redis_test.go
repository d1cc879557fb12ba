package slot

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisSlot instance
func setupTestRedis(t *testing.T) (*RedisSlot, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	s := NewRedisSlot(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return s, mr, cleanup
}

func TestRedisSlot_ReadEmpty(t *testing.T) {
	s, _, cleanup := setupTestRedis(t)
	defer cleanup()

	value, err := s.Read(context.Background(), Key("nobody"))
	assert.ErrorIs(t, err, ErrSlotEmpty)
	assert.Nil(t, value)
}

func TestRedisSlot_RoundTrip(t *testing.T) {
	s, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	key := Key("s1")
	payload := []byte(`[{"id":"food-1","quantity":2}]`)

	require.NoError(t, s.Write(ctx, key, payload))

	value, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, string(payload), string(value))
}

func TestRedisSlot_WriteSetsTTL(t *testing.T) {
	s, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	key := Key("s1")
	require.NoError(t, s.Write(context.Background(), key, []byte(`x`)))

	assert.Equal(t, slotTTL, mr.TTL(key))
}

func TestRedisSlot_Delete(t *testing.T) {
	s, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	key := Key("s1")

	require.NoError(t, s.Write(ctx, key, []byte(`x`)))
	require.NoError(t, s.Delete(ctx, key))

	_, err := s.Read(ctx, key)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestRedisSlot_ReadError(t *testing.T) {
	s, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Close()

	_, err := s.Read(context.Background(), Key("s1"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotEmpty)
}
