package slot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlot_ReadEmpty(t *testing.T) {
	s := NewMemorySlot()

	value, err := s.Read(context.Background(), Key("s1"))
	assert.ErrorIs(t, err, ErrSlotEmpty)
	assert.Nil(t, value)
}

func TestMemorySlot_RoundTrip(t *testing.T) {
	s := NewMemorySlot()
	ctx := context.Background()
	key := Key("s1")

	require.NoError(t, s.Write(ctx, key, []byte(`[{"id":"a","quantity":2}]`)))

	value, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a","quantity":2}]`, string(value))
}

func TestMemorySlot_WriteReplacesWholesale(t *testing.T) {
	s := NewMemorySlot()
	ctx := context.Background()
	key := Key("s1")

	require.NoError(t, s.Write(ctx, key, []byte(`first`)))
	require.NoError(t, s.Write(ctx, key, []byte(`second`)))

	value, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", string(value))
}

func TestMemorySlot_Delete(t *testing.T) {
	s := NewMemorySlot()
	ctx := context.Background()
	key := Key("s1")

	require.NoError(t, s.Write(ctx, key, []byte(`data`)))
	require.NoError(t, s.Delete(ctx, key))

	_, err := s.Read(ctx, key)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	// Deleting again is not an error
	require.NoError(t, s.Delete(ctx, key))
}

func TestMemorySlot_ReadReturnsCopy(t *testing.T) {
	s := NewMemorySlot()
	ctx := context.Background()
	key := Key("s1")

	require.NoError(t, s.Write(ctx, key, []byte(`abc`)))

	first, err := s.Read(ctx, key)
	require.NoError(t, err)
	first[0] = 'x'

	second, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(second))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart:abc-123", Key("abc-123"))
}
