// Package event implements the in-process publish/subscribe bus described in
// spec §4.8. Handlers register per concrete event type; publishing invokes
// every registered handler for that type, isolating each from the others'
// panics and errors. Grounded in shape on dittofs's pkg/registry (read-mostly
// map, explicit registration at startup) and, for the isolate-and-continue
// delivery idiom, on tenzoki-agen's EventBridge.
package event

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Envelope carries the fields every event variant has in common, per
// spec §4.8.
type Envelope struct {
	EventID       string
	EventType     string
	Timestamp     time.Time
	CorrelationID string
}

// NewEnvelope builds an Envelope stamped with eventType and correlationID.
func NewEnvelope(eventType, correlationID string) Envelope {
	return Envelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
	}
}

// Handler processes one published event. Any error it returns is logged and
// does not propagate to the publisher or to other handlers.
type Handler func(ctx context.Context, evt any) error

// Bus is a typed, in-process event dispatcher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]Handler
	onError  func(ctx context.Context, eventType reflect.Type, err error)
}

// New creates an empty Bus. onError, if non-nil, is invoked for every
// handler error or recovered panic; if nil, errors are silently swallowed
// (the caller is expected to supply a logging onError in production).
func New(onError func(ctx context.Context, eventType reflect.Type, err error)) *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]Handler),
		onError:  onError,
	}
}

// Subscribe registers handler to run whenever an event of the same concrete
// type as sample is published. sample is used only for its type; its value
// is discarded.
func (b *Bus) Subscribe(sample any, handler Handler) {
	t := reflect.TypeOf(sample)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], handler)
}

// Publish invokes every handler registered for evt's concrete type. Handlers
// run synchronously, in registration order; no ordering is guaranteed
// beyond that, per spec §4.8. A handler that panics or returns an error is
// reported via onError and does not stop the remaining handlers.
func (b *Bus) Publish(ctx context.Context, evt any) {
	t := reflect.TypeOf(evt)
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[t]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.invoke(ctx, t, h, evt)
	}
}

func (b *Bus) invoke(ctx context.Context, t reflect.Type, h Handler, evt any) {
	defer func() {
		if r := recover(); r != nil && b.onError != nil {
			b.onError(ctx, t, panicError{r})
		}
	}()

	if err := h(ctx, evt); err != nil && b.onError != nil {
		b.onError(ctx, t, err)
	}
}

type panicError struct{ value any }

func (p panicError) Error() string {
	if err, ok := p.value.(error); ok {
		return "handler panicked: " + err.Error()
	}
	return "handler panicked"
}
