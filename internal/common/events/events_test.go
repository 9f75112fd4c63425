package events

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"job-board/internal/common/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewPayload struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
}

func TestNewAndDecode(t *testing.T) {
	event, err := New(ApplicationReviewed, reviewPayload{ApplicationID: "a1", Status: "approved"})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, ApplicationReviewed, event.Type)
	assert.False(t, event.OccurredAt.IsZero())

	var got reviewPayload
	require.NoError(t, event.Decode(&got))
	assert.Equal(t, "a1", got.ApplicationID)

	_, err = New(JobCreated, make(chan int))
	assert.Error(t, err)
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher(logger.NewTestLogger(t))

	var seen []string
	d.On(JobCreated, func(ctx context.Context, e Event) error {
		seen = append(seen, "index")
		return nil
	})
	d.On(JobCreated, func(ctx context.Context, e Event) error {
		seen = append(seen, "audit")
		return stderrors.New("audit down")
	})

	event, _ := New(JobCreated, map[string]string{"id": "j1"})
	err := d.Publish(context.Background(), event)
	assert.EqualError(t, err, "audit down")
	assert.Equal(t, []string{"index", "audit"}, seen)

	other, _ := New(JobDeleted, map[string]string{"id": "j1"})
	assert.NoError(t, d.Dispatch(context.Background(), other))
}

func TestDispatcher_Async(t *testing.T) {
	d := NewDispatcher(logger.NewNoOpLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	d.On(ApplicationSubmitted, func(ctx context.Context, e Event) error {
		defer wg.Done()
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		assert.NoError(t, ctx.Err())
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	event, _ := New(ApplicationSubmitted, map[string]string{"id": "a1"})
	require.NoError(t, d.Async(time.Second).Publish(ctx, event))
	cancel()

	wg.Wait()
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestEmit(t *testing.T) {
	pub := &recordingPublisher{}
	Emit(context.Background(), pub, logger.NewTestLogger(t), JobDeleted, map[string]string{"id": "j1"})
	require.Len(t, pub.events, 1)
	assert.Equal(t, JobDeleted, pub.events[0].Type)

	// failures are swallowed
	pub.err = stderrors.New("broker down")
	Emit(context.Background(), pub, logger.NewTestLogger(t), JobDeleted, map[string]string{"id": "j2"})
	assert.Len(t, pub.events, 2)

	Emit(context.Background(), nil, logger.NewTestLogger(t), JobDeleted, nil)
	assert.NoError(t, Discard.Publish(context.Background(), Event{}))
}

type fakeAcknowledger struct {
	acked, nacked, rejected bool
	requeue                 bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.rejected, f.requeue = true, requeue
	return nil
}

func TestPublishingRoundTrip(t *testing.T) {
	event, _ := New(ApplicationReviewed, reviewPayload{ApplicationID: "a1", Status: "rejected"})

	msg, err := toPublishing(event)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, event.ID, msg.MessageId)

	got, err := fromDelivery(amqp.Delivery{Body: msg.Body, Type: msg.Type})
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, ApplicationReviewed, got.Type)

	_, err = fromDelivery(amqp.Delivery{Body: []byte(`{"id":"x"}`)})
	assert.Error(t, err)
}

func TestHandleDelivery(t *testing.T) {
	r := &RabbitMQ{log: logger.NewTestLogger(t)}
	event, _ := New(JobCreated, map[string]string{"id": "j1"})
	msg, _ := toPublishing(event)

	t.Run("ack on success", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		r.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: msg.Body}, func(context.Context, Event) error { return nil })
		assert.True(t, ack.acked)
	})

	t.Run("requeue once on failure", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		fail := func(context.Context, Event) error { return stderrors.New("es down") }

		r.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: msg.Body}, fail)
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)

		ack = &fakeAcknowledger{}
		r.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: msg.Body, Redelivered: true}, fail)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})

	t.Run("reject malformed", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		r.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("nope")}, func(context.Context, Event) error { return nil })
		assert.True(t, ack.rejected)
		assert.False(t, ack.requeue)
	})
}
