package bus

import "context"

// Event signals that a cart slot changed. Origin identifies the execution
// context that made the write, so observers can tell their own writes
// apart from foreign ones.
type Event struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// Bus fans change events out to every subscriber, including the publisher's
// own context. Filtering by Key and Origin is the subscriber's job.
type Bus interface {
	Publish(ctx context.Context, ev Event) error

	// Subscribe returns a channel of events and a cancel function that
	// stops delivery and closes the channel.
	Subscribe(ctx context.Context) (<-chan Event, func())
}
