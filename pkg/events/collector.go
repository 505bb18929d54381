package events

import (
	"context"
	"slices"
)

// EventCollector is embedded in aggregates to collect domain events raised
// by state transitions until the caller publishes them.
type EventCollector struct {
	pending []DomainEvent
}

// Record appends events in the order they were raised.
func (c *EventCollector) Record(events ...DomainEvent) {
	c.pending = append(c.pending, events...)
}

// Events returns a copy of the pending events.
func (c *EventCollector) Events() []DomainEvent {
	return slices.Clone(c.pending)
}

// ClearEvents returns the pending events and forgets them.
func (c *EventCollector) ClearEvents() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}

// Flush hands the pending events to publish and clears them only when
// publish succeeds, so a failed publish can be retried. No pending events
// means publish is not called.
func (c *EventCollector) Flush(ctx context.Context, publish func(context.Context, ...DomainEvent) error) error {
	if len(c.pending) == 0 {
		return nil
	}
	if err := publish(ctx, c.pending...); err != nil {
		return err
	}
	c.pending = nil
	return nil
}
