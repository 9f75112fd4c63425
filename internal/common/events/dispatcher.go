package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"job-board/internal/common/logger"
)

type Handler func(ctx context.Context, event Event) error

// Dispatcher routes events to the handlers registered for their type.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	log      logger.Logger
}

func NewDispatcher(log logger.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Type][]Handler),
		log:      log,
	}
}

func (d *Dispatcher) On(t Type, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[t] = append(d.handlers[t], h)
}

// Dispatch runs every handler for the event's type and joins their errors.
// Events without handlers are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := d.handlers[event.Type]
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			d.log.Error("Event handler failed", map[string]interface{}{
				"eventId":   event.ID,
				"eventType": string(event.Type),
				"error":     err.Error(),
			})
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Publish dispatches synchronously, so a Dispatcher can stand in for a broker.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	return d.Dispatch(ctx, event)
}

// Async returns a Publisher that dispatches on a new goroutine, detached
// from the caller's cancellation and bounded by timeout.
func (d *Dispatcher) Async(timeout time.Duration) Publisher {
	return PublisherFunc(func(ctx context.Context, event Event) error {
		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
			defer cancel()
			_ = d.Dispatch(ctx, event)
		}()
		return nil
	})
}
