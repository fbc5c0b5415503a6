package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source is stamped on every event published by the job board.
const Source = TopicPrefix

// SchemaVersion is bumped when a payload changes incompatibly.
const SchemaVersion = 1

// Aggregate names the entity an event describes.
type Aggregate struct {
	Type string
	ID   string
}

// Event is the envelope for every job board message. EventType is
// "<aggregate>.<action>" and the topic is the same name under TopicPrefix.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	ActorID       string          `json:"actor_id,omitempty"`
	Data          json.RawMessage `json:"data"`

	action string
	key    string
}

// NewEvent builds an event for action on agg.
func NewEvent(agg Aggregate, action string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s.%s payload: %w", agg.Type, action, err)
	}

	return &Event{
		EventID:       uuid.NewString(),
		EventType:     agg.Type + "." + action,
		AggregateType: agg.Type,
		AggregateID:   agg.ID,
		Version:       SchemaVersion,
		OccurredAt:    time.Now().UTC(),
		Source:        Source,
		Data:          payload,
		action:        action,
	}, nil
}

// Topic returns the topic the event is published to.
func (e *Event) Topic() string {
	return Topic(e.AggregateType, e.action)
}

// PartitionKey is the message key. It defaults to the aggregate id.
func (e *Event) PartitionKey() string {
	if e.key != "" {
		return e.key
	}
	return e.AggregateID
}

// WithKey overrides the partition key, e.g. to keep a job's applications
// ordered on one partition.
func (e *Event) WithKey(key string) *Event {
	e.key = key
	return e
}

// WithCorrelationID sets the correlation ID on the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithActor records the authenticated user that caused the event.
func (e *Event) WithActor(userID string) *Event {
	e.ActorID = userID
	return e
}

// Marshal serializes the event to JSON bytes.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
