package event

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishInvokesRegisteredHandler(t *testing.T) {
	bus := New(nil)
	var got ChunkStoredEvent
	var mu sync.Mutex
	bus.Subscribe(ChunkStoredEvent{}, func(_ context.Context, evt any) error {
		mu.Lock()
		defer mu.Unlock()
		got = evt.(ChunkStoredEvent)
		return nil
	})

	bus.Publish(context.Background(), ChunkStoredEvent{FileID: "f1", SequenceNumber: 2})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "f1", got.FileID)
	assert.Equal(t, uint32(2), got.SequenceNumber)
}

func TestPublishIgnoresUnregisteredType(t *testing.T) {
	bus := New(nil)
	called := false
	bus.Subscribe(ChunkStoredEvent{}, func(context.Context, any) error {
		called = true
		return nil
	})

	bus.Publish(context.Background(), FileDiscoveredEvent{FileID: "f1"})
	assert.False(t, called)
}

func TestHandlerErrorDoesNotStopOtherHandlers(t *testing.T) {
	var errType reflect.Type
	var reportedErr error
	bus := New(func(_ context.Context, t reflect.Type, err error) {
		errType = t
		reportedErr = err
	})

	secondCalled := false
	bus.Subscribe(ChunkStoredEvent{}, func(context.Context, any) error {
		return errors.New("boom")
	})
	bus.Subscribe(ChunkStoredEvent{}, func(context.Context, any) error {
		secondCalled = true
		return nil
	})

	bus.Publish(context.Background(), ChunkStoredEvent{})
	assert.True(t, secondCalled)
	assert.Equal(t, reflect.TypeOf(ChunkStoredEvent{}), errType)
	assert.ErrorContains(t, reportedErr, "boom")
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	recovered := false
	bus := New(func(context.Context, reflect.Type, error) {
		recovered = true
	})

	bus.Subscribe(ChunkStoredEvent{}, func(context.Context, any) error {
		panic("unexpected")
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), ChunkStoredEvent{})
	})
	assert.True(t, recovered)
}

func TestMultipleHandlersForSameTypeAllRun(t *testing.T) {
	bus := New(nil)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(ChunkStoredEvent{}, func(context.Context, any) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
	}
	bus.Publish(context.Background(), ChunkStoredEvent{})
	assert.Equal(t, 3, count)
}
