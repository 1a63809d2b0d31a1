package heartbeat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultInterval       = 3 * time.Minute
	DefaultActivityWindow = 5 * time.Minute
	DefaultWindowSize     = 64
)

var (
	ErrAlreadyTracking = errors.New("heartbeat: emitter already tracking")
	ErrNotTracking     = errors.New("heartbeat: emitter not tracking")
)

// Emitter reports user activity on a fixed cadence.
//
// The zero state is StateStopped. Start moves it to StateTracking and sends
// one heartbeat immediately; Stop, or a precondition failure from the server,
// moves it back. RecordActivity is only accepted while tracking.
type Emitter struct {
	transport Transport
	clock     Clock
	detector  Detector
	logger    *slog.Logger

	interval       time.Duration
	activityWindow time.Duration
	windowSize     int
	onPrecondition func(error)
	onResult       func(*Result)

	mu           sync.Mutex
	state        State
	lastActivity time.Time
	window       []InputEvent
	lastResult   *Result
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// Option configures Emitter.
type Option func(*Emitter)

// WithInterval sets the heartbeat cadence.
func WithInterval(d time.Duration) Option {
	return func(e *Emitter) {
		e.interval = d
	}
}

// WithActivityWindow sets how recent the last input must be for a heartbeat
// to count as active. Keep it above the interval so one missed tick does not
// mark the user idle.
func WithActivityWindow(d time.Duration) Option {
	return func(e *Emitter) {
		e.activityWindow = d
	}
}

// WithClock sets the clock.
func WithClock(c Clock) Option {
	return func(e *Emitter) {
		e.clock = c
	}
}

// WithDetector sets the bot-pattern detector. Without one no heartbeat is
// flagged suspicious.
func WithDetector(d Detector) Option {
	return func(e *Emitter) {
		e.detector = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// WithWindowSize caps the number of recent input events kept for detection.
func WithWindowSize(n int) Option {
	return func(e *Emitter) {
		e.windowSize = n
	}
}

// WithOnPrecondition is called when the server refuses heartbeats for the
// current session. The emitter has already stopped when fn runs, so fn may
// call Start again once the user has punched in.
func WithOnPrecondition(fn func(error)) Option {
	return func(e *Emitter) {
		e.onPrecondition = fn
	}
}

// WithOnResult is called after every accepted heartbeat.
func WithOnResult(fn func(*Result)) Option {
	return func(e *Emitter) {
		e.onResult = fn
	}
}

// NewEmitter creates a stopped emitter that sends through transport.
func NewEmitter(transport Transport, opts ...Option) *Emitter {
	e := &Emitter{
		transport:      transport,
		clock:          SystemClock(),
		logger:         slog.Default(),
		interval:       DefaultInterval,
		activityWindow: DefaultActivityWindow,
		windowSize:     DefaultWindowSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.interval <= 0 {
		e.interval = DefaultInterval
	}
	if e.activityWindow <= 0 {
		e.activityWindow = DefaultActivityWindow
	}
	if e.windowSize <= 0 {
		e.windowSize = DefaultWindowSize
	}
	return e
}

// Start begins tracking. Loading the page counts as activity, so the
// immediate first heartbeat reports active.
func (e *Emitter) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateTracking {
		return ErrAlreadyTracking
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.state = StateTracking
	e.cancel = cancel
	e.lastActivity = e.clock.Now()
	e.window = e.window[:0]

	e.wg.Add(1)
	go e.loop(runCtx, cancel)

	e.logger.Info("heartbeat emitter started",
		"interval", e.interval,
		"activity_window", e.activityWindow)
	return nil
}

// Stop detaches input tracking and stops the cadence. No heartbeat is sent
// after Stop returns. Stopping a stopped emitter is a no-op.
func (e *Emitter) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	wasTracking := e.state == StateTracking
	e.state = StateStopped
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	if wasTracking {
		e.logger.Info("heartbeat emitter stopped")
	}
}

// RecordActivity notes one local input event. It never touches the network.
func (e *Emitter) RecordActivity(ev InputEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateTracking {
		return ErrNotTracking
	}

	if ev.At.IsZero() {
		ev.At = e.clock.Now()
	}
	if ev.At.After(e.lastActivity) {
		e.lastActivity = ev.At
	}

	if len(e.window) >= e.windowSize {
		copy(e.window, e.window[1:])
		e.window = e.window[:len(e.window)-1]
	}
	e.window = append(e.window, ev)
	return nil
}

// State returns the current lifecycle state.
func (e *Emitter) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastResult returns the most recent accepted heartbeat, or nil.
func (e *Emitter) LastResult() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastResult
}

func (e *Emitter) loop(ctx context.Context, cancel context.CancelFunc) {
	var refused error
	defer func() {
		cancel()
		e.wg.Done()
		// Runs after Done so the callback may call Stop or Start.
		if refused != nil && e.onPrecondition != nil {
			e.onPrecondition(refused)
		}
	}()

	if refused = e.beat(ctx); refused != nil || ctx.Err() != nil {
		return
	}

	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if refused = e.beat(ctx); refused != nil {
				return
			}
		}
	}
}

// beat sends one heartbeat. It returns the server's refusal when the session
// cannot take heartbeats; every other failure is only logged.
func (e *Emitter) beat(ctx context.Context) error {
	report := e.buildReport()

	result, err := e.transport.Send(ctx, report)
	if ctx.Err() != nil {
		return nil
	}

	if err != nil {
		if IsPrecondition(err) {
			e.logger.Warn("heartbeat refused, stopping emitter", "error", err)
			e.detach()
			return err
		}
		e.logger.Error("heartbeat failed", "error", err, "active", report.Active)
		return nil
	}

	e.mu.Lock()
	e.lastResult = result
	e.mu.Unlock()

	e.logger.Debug("heartbeat sent",
		"active", report.Active,
		"suspicious", report.Suspicious,
		"idle_hours", result.IdleTime)

	if e.onResult != nil {
		e.onResult(result)
	}
	return nil
}

func (e *Emitter) buildReport() Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	report := Report{Active: now.Sub(e.lastActivity) < e.activityWindow}

	// Only events inside the activity window are judged.
	cutoff := now.Add(-e.activityWindow)
	start := 0
	for start < len(e.window) && e.window[start].At.Before(cutoff) {
		start++
	}
	e.window = append(e.window[:0], e.window[start:]...)

	if e.detector != nil && len(e.window) > 0 {
		snapshot := make([]InputEvent, len(e.window))
		copy(snapshot, e.window)
		if v := e.detector.Detect(snapshot); v.Suspicious {
			report.Suspicious = true
			report.PatternType = v.Pattern
			report.PatternDetails = v.Detail
		}
	}

	return report
}

// detach moves the emitter to StateStopped from inside the loop.
func (e *Emitter) detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateStopped
	e.cancel = nil
}
