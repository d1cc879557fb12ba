package poller

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/bus"
	"github.com/mascotia/storefront/internal/slot"
)

// Poller consumes completed-order events and erases the paid session's
// cart slot, then broadcasts the change so live observers reload an
// empty cart. The poller has its own origin ID, so every store treats
// its events as foreign.
type Poller struct {
	slot   slot.Slot
	bus    bus.Bus
	reader *kafka.Reader
	origin string
	logger *zap.Logger
}

func New(sl slot.Slot, b bus.Bus, logger *zap.Logger, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "orders-completed",
		GroupID:  "storefront-cart-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{
		slot:   sl,
		bus:    b,
		reader: reader,
		origin: uuid.NewString(),
		logger: logger,
	}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			p.logger.Error("error reading order message", zap.Error(err))
			continue
		}
		p.process(ctx, m.Value)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.logger.Error("error closing reader", zap.Error(err))
	}
}

func (p *Poller) process(ctx context.Context, value []byte) {
	var payload map[string]interface{}
	if err := json.Unmarshal(value, &payload); err != nil {
		p.logger.Error("error parsing order message", zap.Error(err))
		return
	}
	sessionID, ok := payload["session_id"].(string)
	if !ok || sessionID == "" {
		p.logger.Error("order message missing session_id")
		return
	}

	key := slot.Key(sessionID)
	if err := p.slot.Delete(ctx, key); err != nil {
		p.logger.Error("failed to erase cart after order",
			zap.String("key", key), zap.Error(err))
		return
	}

	if err := p.bus.Publish(ctx, bus.Event{Key: key, Origin: p.origin}); err != nil {
		p.logger.Warn("failed to broadcast cart erasure",
			zap.String("key", key), zap.Error(err))
	}
}
