package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/bus"
	"github.com/mascotia/storefront/internal/domain"
	"github.com/mascotia/storefront/internal/slot"
)

// ScrollLocker is notified when the cart panel opens or closes, so the
// surrounding UI layer can suspend and restore background scroll. The
// store triggers the effect but does not implement it.
type ScrollLocker interface {
	Lock()
	Unlock()
}

type nopScrollLocker struct{}

func (nopScrollLocker) Lock()   {}
func (nopScrollLocker) Unlock() {}

// Store holds the authoritative in-memory cart state for one session
// context. Every mutation of the items writes through to the persistence
// slot before returning, then broadcasts a change event tagged with this
// store's origin.
//
// Mutations never fail from the caller's perspective: a failed
// write-through is logged and the in-memory state stays authoritative
// for the rest of the session.
type Store struct {
	mu    sync.RWMutex
	items []domain.LineItem
	open  bool

	key      string
	origin   string
	slot     slot.Slot
	bus      bus.Bus
	scroll   ScrollLocker
	onChange func()
	logger   *zap.Logger
}

type Option func(*Store)

// WithScrollLocker installs the UI scroll side-effect hook.
func WithScrollLocker(sl ScrollLocker) Option {
	return func(s *Store) { s.scroll = sl }
}

// WithOnChange installs a same-context hook called after every
// successful save, for in-page observers such as badge counters.
func WithOnChange(fn func()) Option {
	return func(s *Store) { s.onChange = fn }
}

// WithOrigin overrides the generated origin ID.
func WithOrigin(origin string) Option {
	return func(s *Store) { s.origin = origin }
}

func New(key string, sl slot.Slot, b bus.Bus, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		key:    key,
		origin: uuid.NewString(),
		slot:   sl,
		bus:    b,
		scroll: nopScrollLocker{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the persistence slot key this store reads and writes.
func (s *Store) Key() string {
	return s.key
}

// Origin identifies this store's execution context on the change bus.
func (s *Store) Origin() string {
	return s.origin
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the total quantity across all items.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Count(s.items)
}

// Subtotal returns the cart subtotal using effective unit prices.
func (s *Store) Subtotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Subtotal(s.items)
}

// AddItem merges item into the cart. An entry with the same ID keeps its
// position and its original fields; only the quantity increments. New
// entries append at the end. The item's own Quantity field is ignored;
// quantity comes from the argument and the merged result is clamped to
// at least 1, since adding always represents presence. Adding opens the
// cart.
func (s *Store) AddItem(ctx context.Context, item domain.LineItem, quantity int) {
	s.mu.Lock()

	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity + quantity)
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = clampQuantity(quantity)
		s.items = append(s.items, item)
	}

	s.open = true
	s.mu.Unlock()

	s.scroll.Lock()
	s.persist(ctx)
}

// UpdateQuantity replaces the quantity of the entry with the given id,
// keeping its position. A quantity below 1 means removal, not an error.
// An unknown id leaves the items unchanged. Does not open the cart.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity < 1 {
		s.RemoveItem(ctx, id)
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()

	s.persist(ctx)
}

// RemoveItem deletes the entry with the given id. Removing an absent id
// is a no-op.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()

	s.persist(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.persist(ctx)
}

// IsOpen reports the transient visibility flag. It is never persisted.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// SetOpen sets the visibility flag without firing the scroll hook.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
}

func (s *Store) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
	s.scroll.Lock()
}

func (s *Store) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	s.scroll.Unlock()
}

func (s *Store) Toggle() {
	if s.IsOpen() {
		s.Close()
	} else {
		s.Open()
	}
}

// persist writes the current items through to the slot, then broadcasts
// a change event. Failures are logged; the in-memory state is kept.
func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	items := s.items
	if items == nil {
		items = []domain.LineItem{}
	}
	payload, err := json.Marshal(items)
	s.mu.RUnlock()

	if err != nil {
		s.logger.Error("failed to encode cart", zap.String("key", s.key), zap.Error(err))
		return
	}

	if err := s.slot.Write(ctx, s.key, payload); err != nil {
		s.logger.Error("cart write-through failed, in-memory state kept",
			zap.String("key", s.key), zap.Error(err))
		return
	}

	if s.onChange != nil {
		s.onChange()
	}

	if err := s.bus.Publish(ctx, bus.Event{Key: s.key, Origin: s.origin}); err != nil {
		s.logger.Warn("failed to broadcast cart change",
			zap.String("key", s.key), zap.Error(err))
	}
}

// load reads the slot and replaces the local items wholesale. An empty
// slot yields an empty cart; a malformed payload is discarded with a log
// line rather than surfacing an error. The open flag is untouched.
func (s *Store) load(ctx context.Context) {
	payload, err := s.slot.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, slot.ErrSlotEmpty) {
			s.logger.Warn("failed to read cart slot, treating as empty",
				zap.String("key", s.key), zap.Error(err))
		}
		s.replaceItems(nil)
		return
	}

	var items []domain.LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		s.logger.Warn("discarding malformed cart payload",
			zap.String("key", s.key), zap.Error(err))
		s.replaceItems(nil)
		return
	}

	s.replaceItems(items)
}

func (s *Store) replaceItems(items []domain.LineItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
