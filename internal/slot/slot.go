package slot

import (
	"context"
	"errors"
	"fmt"
)

var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a durable key-value slot holding one serialized cart per key.
// Consumers define this interface, not the backing store implementations.
type Slot interface {
	// Read returns the stored value for key, or ErrSlotEmpty when the
	// slot has never been written or was deleted.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the value for key wholesale.
	Write(ctx context.Context, key string, value []byte) error

	// Delete erases the slot. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Key builds the slot key for a session's cart.
func Key(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
