package eventstore

import (
	"context"
	"time"
)

// Event is one recorded step of a publish run.
type Event interface {
	ID() int64
	RunID() string
	Type() string
	Timestamp() time.Time
	// Payload is the JSON-encoded event body.
	Payload() []byte
	Metadata() map[string]string
}

// BaseEvent is the Event read back from a Store.
type BaseEvent struct {
	EventID        int64
	EventRunID     string
	EventType      string
	EventTimestamp time.Time
	EventPayload   []byte
	EventMetadata  map[string]string
}

func (e *BaseEvent) ID() int64                   { return e.EventID }
func (e *BaseEvent) RunID() string               { return e.EventRunID }
func (e *BaseEvent) Type() string                { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time        { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte             { return e.EventPayload }
func (e *BaseEvent) Metadata() map[string]string { return e.EventMetadata }

// Store appends run events and reads them back in insertion order.
type Store interface {
	Append(ctx context.Context, runID, eventType string, payload []byte, metadata map[string]string) error
	GetByRunID(ctx context.Context, runID string) ([]Event, error)
	// GetRange returns events timestamped within [start, end].
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)
	Close() error
}

// NopStore discards events; used when no history path is configured.
type NopStore struct{}

func (NopStore) Append(context.Context, string, string, []byte, map[string]string) error {
	return nil
}
func (NopStore) GetByRunID(context.Context, string) ([]Event, error)             { return nil, nil }
func (NopStore) GetRange(context.Context, time.Time, time.Time) ([]Event, error) { return nil, nil }
func (NopStore) Close() error                                                    { return nil }
