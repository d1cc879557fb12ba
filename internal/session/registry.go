package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mascotia/storefront/internal/bus"
	"github.com/mascotia/storefront/internal/slot"
	"github.com/mascotia/storefront/internal/store"
)

// Registry maps session IDs to their cart stores, constructing and
// hydrating each store exactly once. Stores keep syncing with foreign
// slot changes until the registry's context is done.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*store.Store
	sfg    singleflight.Group // Prevents duplicate hydration for same session

	ctx    context.Context
	slot   slot.Slot
	bus    bus.Bus
	logger *zap.Logger
}

func NewRegistry(ctx context.Context, sl slot.Slot, b bus.Bus, logger *zap.Logger) *Registry {
	return &Registry{
		stores: make(map[string]*store.Store),
		ctx:    ctx,
		slot:   sl,
		bus:    b,
		logger: logger,
	}
}

// Get returns the session's store, creating and hydrating it on first
// use. Concurrent first requests for the same session share one
// hydration.
func (r *Registry) Get(ctx context.Context, sessionID string) *store.Store {
	r.mu.RLock()
	existing, ok := r.stores[sessionID]
	r.mu.RUnlock()
	if ok {
		return existing
	}

	v, _, _ := r.sfg.Do(sessionID, func() (interface{}, error) {
		r.mu.RLock()
		existing, ok := r.stores[sessionID]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		s := store.New(slot.Key(sessionID), r.slot, r.bus, r.logger)
		s.Hydrate(ctx)
		go s.Sync(r.ctx)

		r.mu.Lock()
		r.stores[sessionID] = s
		r.mu.Unlock()

		return s, nil
	})

	return v.(*store.Store)
}

// Len reports the number of live session stores.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
