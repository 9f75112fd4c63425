// Package events carries domain events between the API and background consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"job-board/internal/common/logger"
	"job-board/internal/common/metrics"

	"github.com/google/uuid"
)

type Type string

const (
	JobCreated           Type = "job.created"
	JobUpdated           Type = "job.updated"
	JobDeleted           Type = "job.deleted"
	ApplicationSubmitted Type = "application.submitted"
	ApplicationReviewed  Type = "application.reviewed"
)

type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// New builds an event with a fresh id and payload encoded as JSON.
func New(t Type, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode %s payload: %w", t, err)
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

// Decode unmarshals the payload into target.
func (e Event) Decode(target interface{}) error {
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// Emit builds and publishes an event. Failures are logged and counted but
// never returned: the write that produced the event has already happened.
func Emit(ctx context.Context, pub Publisher, log logger.Logger, t Type, payload interface{}) {
	if pub == nil {
		return
	}

	event, err := New(t, payload)
	if err == nil {
		err = pub.Publish(ctx, event)
	}
	if err != nil {
		metrics.EventsPublished.WithLabelValues(string(t), "failed").Inc()
		log.Warn("Failed to publish event", map[string]interface{}{
			"eventType": string(t),
			"error":     err.Error(),
		})
		return
	}
	metrics.EventsPublished.WithLabelValues(string(t), "published").Inc()
}
