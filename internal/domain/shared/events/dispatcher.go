package events

import (
	"errors"
	"sync"

	"github.com/Tatu1984/hrms-sub001/internal/shared/goroutine"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

const defaultBufferSize = 100

var (
	ErrNotRunning     = errors.New("event dispatcher is not running")
	ErrAlreadyRunning = errors.New("event dispatcher is already running")
	ErrBufferFull     = errors.New("event buffer is full")
)

// Dispatcher routes events by type to the handlers subscribed before Start.
// Publish never blocks: with the buffer full the event is rejected with
// ErrBufferFull and the caller decides whether that matters.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	running  bool

	queue    chan DomainEvent
	stop     chan struct{}
	loop     sync.WaitGroup
	inflight sync.WaitGroup
	logger   logger.Interface
}

func NewDispatcher(bufferSize int, log logger.Interface) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		queue:    make(chan DomainEvent, bufferSize),
		stop:     make(chan struct{}),
		logger:   log,
	}
}

func (d *Dispatcher) Subscribe(eventType string, handler Handler) error {
	if eventType == "" {
		return errors.New("event type cannot be empty")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	d.mu.Unlock()
	return nil
}

func (d *Dispatcher) Publish(event DomainEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		return ErrNotRunning
	}

	select {
	case d.queue <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrAlreadyRunning
	}
	d.running = true

	d.loop.Add(1)
	go func() {
		defer d.loop.Done()
		d.run()
	}()
	return nil
}

// Stop rejects new events, delivers what is already queued and waits for
// every handler to return. A stopped dispatcher cannot be restarted.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrNotRunning
	}
	d.running = false
	d.mu.Unlock()

	close(d.stop)
	d.loop.Wait()
	d.inflight.Wait()
	return nil
}

func (d *Dispatcher) run() {
	for {
		select {
		case event := <-d.queue:
			d.dispatch(event)
		case <-d.stop:
			for {
				select {
				case event := <-d.queue:
					d.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) dispatch(event DomainEvent) {
	d.mu.RLock()
	handlers := d.handlers[event.GetEventType()]
	d.mu.RUnlock()

	for _, h := range handlers {
		d.inflight.Add(1)
		goroutine.SafeGo(d.logger, "event-handler", func() {
			defer d.inflight.Done()
			if err := h.Handle(event); err != nil {
				d.logger.Errorw("failed to handle domain event",
					"event_type", event.GetEventType(),
					"aggregate_id", event.GetAggregateID(),
					"error", err,
				)
			}
		}, "event_type", event.GetEventType(), "aggregate_id", event.GetAggregateID())
	}
}
