package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/bus"
)

// Hydrate performs the unconditional initial load from the slot. Call it
// once when a cart-observing surface mounts.
func (s *Store) Hydrate(ctx context.Context) {
	s.load(ctx)
}

// Sync blocks consuming change events until ctx is done. A
// foreign-origin event for this store's key wholesale-reloads the items
// from the slot (last-writer-wins, no merge). Events published by this
// store itself never trigger the reload path. Call Hydrate before Sync.
func (s *Store) Sync(ctx context.Context) {
	events, cancel := s.bus.Subscribe(ctx)
	defer cancel()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Store) handleEvent(ctx context.Context, ev bus.Event) {
	if ev.Key != s.key || ev.Origin == s.origin {
		return
	}
	s.logger.Debug("reloading cart after foreign change",
		zap.String("key", s.key), zap.String("origin", ev.Origin))
	s.load(ctx)
}
