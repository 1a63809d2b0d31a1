package heartbeat

import "time"

// Clock abstracts time so the emitter cadence can be driven by tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the emitter needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemClock struct{}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time {
	return s.t.C
}

func (s *systemTicker) Stop() {
	s.t.Stop()
}
