package sinks

import "context"

// Sink delivers capture events to a destination (disk, webhook, queue, topic).
type Sink interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
