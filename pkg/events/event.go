package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields shared by every domain event.
// Concrete events embed it and add their own payload fields.
type BaseEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	Tenant    uuid.UUID `json:"tenant_id"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a BaseEvent with a generated ID and the current UTC time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, tenantID uuid.UUID) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		AggID:     aggregateID,
		AggType:   aggregateType,
		Tenant:    tenantID,
		Timestamp: time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseEvent) EventType() string      { return e.Type }
func (e BaseEvent) AggregateID() uuid.UUID { return e.AggID }
func (e BaseEvent) AggregateType() string  { return e.AggType }
func (e BaseEvent) TenantID() uuid.UUID    { return e.Tenant }
func (e BaseEvent) OccurredAt() time.Time  { return e.Timestamp }

// Marshal serializes a domain event to JSON for transport.
func Marshal(event DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	return data, nil
}
