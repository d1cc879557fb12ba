package poller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/bus"
	"github.com/mascotia/storefront/internal/slot"
)

func newTestPoller(t *testing.T) (*Poller, *slot.MemorySlot, *bus.Broadcaster) {
	t.Helper()
	sl := slot.NewMemorySlot()
	b := bus.NewBroadcaster(zap.NewNop())
	p := &Poller{
		slot:   sl,
		bus:    b,
		origin: "orders-poller",
		logger: zap.NewNop(),
	}
	return p, sl, b
}

func TestProcess_ErasesSlotAndBroadcasts(t *testing.T) {
	p, sl, b := newTestPoller(t)
	ctx := context.Background()

	key := slot.Key("s1")
	require.NoError(t, sl.Write(ctx, key, []byte(`[{"id":"a","quantity":1}]`)))

	events, cancel := b.Subscribe(ctx)
	defer cancel()

	p.process(ctx, []byte(`{"session_id":"s1","order_id":"o-42"}`))

	_, err := sl.Read(ctx, key)
	assert.ErrorIs(t, err, slot.ErrSlotEmpty)

	select {
	case ev := <-events:
		assert.Equal(t, key, ev.Key)
		assert.Equal(t, "orders-poller", ev.Origin)
	default:
		t.Fatal("expected a change event after erasing the cart")
	}
}

func TestProcess_MalformedPayload(t *testing.T) {
	p, sl, b := newTestPoller(t)
	ctx := context.Background()

	key := slot.Key("s1")
	require.NoError(t, sl.Write(ctx, key, []byte(`[]`)))

	events, cancel := b.Subscribe(ctx)
	defer cancel()

	p.process(ctx, []byte(`{not json`))

	_, err := sl.Read(ctx, key)
	assert.NoError(t, err, "slot must be untouched")
	select {
	case <-events:
		t.Fatal("no event expected for a malformed message")
	default:
	}
}

func TestProcess_MissingSessionID(t *testing.T) {
	p, sl, _ := newTestPoller(t)
	ctx := context.Background()

	key := slot.Key("s1")
	require.NoError(t, sl.Write(ctx, key, []byte(`[]`)))

	p.process(ctx, []byte(`{"order_id":"o-42"}`))

	_, err := sl.Read(ctx, key)
	assert.NoError(t, err)
}

func TestProcess_UnknownSessionIsHarmless(t *testing.T) {
	p, _, b := newTestPoller(t)
	ctx := context.Background()

	events, cancel := b.Subscribe(ctx)
	defer cancel()

	p.process(ctx, []byte(`{"session_id":"nobody"}`))

	// Deleting an absent slot still broadcasts; observers reload an
	// empty cart either way.
	select {
	case ev := <-events:
		assert.Equal(t, slot.Key("nobody"), ev.Key)
	default:
		t.Fatal("expected a change event")
	}
}
