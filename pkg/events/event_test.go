package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleEvent struct {
	BaseEvent
	Score int `json:"score"`
}

func TestNewBaseEvent(t *testing.T) {
	aggID := uuid.New()
	tenantID := uuid.New()

	before := time.Now().UTC()
	evt := NewBaseEvent("sample.created", aggID, "Sample", tenantID)

	assert.NotEqual(t, uuid.Nil, evt.EventID())
	assert.Equal(t, "sample.created", evt.EventType())
	assert.Equal(t, aggID, evt.AggregateID())
	assert.Equal(t, "Sample", evt.AggregateType())
	assert.Equal(t, tenantID, evt.TenantID())
	assert.False(t, evt.OccurredAt().Before(before))
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("x", uuid.New(), "X", uuid.New())
	b := NewBaseEvent("x", uuid.New(), "X", uuid.New())
	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestMarshal_IncludesEnvelopeAndPayload(t *testing.T) {
	evt := sampleEvent{
		BaseEvent: NewBaseEvent("sample.created", uuid.New(), "Sample", uuid.New()),
		Score:     42,
	}

	data, err := Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sample.created", decoded["event_type"])
	assert.Equal(t, "Sample", decoded["aggregate_type"])
	assert.Equal(t, evt.ID.String(), decoded["event_id"])
	assert.EqualValues(t, 42, decoded["score"])
}

func TestEventCollector(t *testing.T) {
	var c EventCollector
	assert.Empty(t, c.Events())

	c.Record(NewBaseEvent("a", uuid.New(), "X", uuid.New()))
	c.Record(NewBaseEvent("b", uuid.New(), "X", uuid.New()))
	require.Len(t, c.Events(), 2)
	assert.Equal(t, "a", c.Events()[0].EventType())

	c.Events()[0] = nil
	assert.NotNil(t, c.Events()[0], "Events returns a copy")

	drained := c.ClearEvents()
	assert.Len(t, drained, 2)
	assert.Empty(t, c.Events())
}

func TestEventCollector_Flush(t *testing.T) {
	ctx := context.Background()

	t.Run("skips publish when nothing is pending", func(t *testing.T) {
		var c EventCollector
		called := false
		require.NoError(t, c.Flush(ctx, func(context.Context, ...DomainEvent) error {
			called = true
			return nil
		}))
		assert.False(t, called)
	})

	t.Run("keeps events when publish fails", func(t *testing.T) {
		var c EventCollector
		c.Record(NewBaseEvent("a", uuid.New(), "X", uuid.New()), NewBaseEvent("b", uuid.New(), "X", uuid.New()))

		err := c.Flush(ctx, func(context.Context, ...DomainEvent) error { return errors.New("broker down") })
		require.Error(t, err)
		assert.Len(t, c.Events(), 2)
	})

	t.Run("clears events after publish", func(t *testing.T) {
		var c EventCollector
		c.Record(NewBaseEvent("a", uuid.New(), "X", uuid.New()))

		var got []DomainEvent
		require.NoError(t, c.Flush(ctx, func(_ context.Context, evts ...DomainEvent) error {
			got = evts
			return nil
		}))
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].EventType())
		assert.Empty(t, c.Events())
	})
}
