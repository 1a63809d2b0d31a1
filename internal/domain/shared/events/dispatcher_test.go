package events

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(eventType string) BaseEvent {
	return BaseEvent{AggregateID: "42", EventType: eventType, OccurredAt: time.Now().UTC()}
}

func TestDispatcher_RoutesByType(t *testing.T) {
	d := NewDispatcher(10, nil)
	var hits, misses atomic.Int32

	require.NoError(t, d.Subscribe("attendance.suspicious_activity", HandlerFunc(func(DomainEvent) error {
		hits.Add(1)
		return nil
	})))
	require.NoError(t, d.Subscribe("attendance.punched_out", HandlerFunc(func(DomainEvent) error {
		misses.Add(1)
		return nil
	})))
	require.NoError(t, d.Start())

	require.NoError(t, d.Publish(testEvent("attendance.suspicious_activity")))
	require.NoError(t, d.Publish(testEvent("attendance.suspicious_activity")))
	require.NoError(t, d.Publish(testEvent("attendance.unrouted")))
	require.NoError(t, d.Stop())

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int32(0), misses.Load())
}

func TestDispatcher_Lifecycle(t *testing.T) {
	d := NewDispatcher(1, nil)
	assert.ErrorIs(t, d.Publish(testEvent("a")), ErrNotRunning)
	assert.ErrorIs(t, d.Stop(), ErrNotRunning)

	require.NoError(t, d.Start())
	assert.ErrorIs(t, d.Start(), ErrAlreadyRunning)
	require.NoError(t, d.Stop())

	assert.ErrorIs(t, d.Publish(testEvent("a")), ErrNotRunning)
}

func TestDispatcher_BufferFull(t *testing.T) {
	d := NewDispatcher(1, nil)
	// Accept events without a loop draining the queue.
	d.running = true

	require.NoError(t, d.Publish(testEvent("a")))
	assert.ErrorIs(t, d.Publish(testEvent("a")), ErrBufferFull)
}

func TestDispatcher_HandlerErrorsAndPanicsAreContained(t *testing.T) {
	d := NewDispatcher(10, nil)
	var after atomic.Bool

	require.NoError(t, d.Subscribe("a", HandlerFunc(func(DomainEvent) error {
		return errors.New("smtp refused")
	})))
	require.NoError(t, d.Subscribe("a", HandlerFunc(func(DomainEvent) error {
		panic("handler panic")
	})))
	require.NoError(t, d.Subscribe("a", HandlerFunc(func(DomainEvent) error {
		after.Store(true)
		return nil
	})))
	require.NoError(t, d.Start())
	require.NoError(t, d.Publish(testEvent("a")))
	require.NoError(t, d.Stop())

	assert.True(t, after.Load())
}

func TestDispatcher_SubscribeValidation(t *testing.T) {
	d := NewDispatcher(0, nil)
	noop := HandlerFunc(func(DomainEvent) error { return nil })

	assert.Error(t, d.Subscribe("", noop))
	assert.Error(t, d.Subscribe("a", nil))
}
