// Package heartbeat provides the client-side heartbeat emitter for the HRMS
// attendance API.
//
// An Emitter samples local input activity and reports, on a fixed cadence,
// whether the user was active within the activity window. Reports are
// fire-and-forget: transport failures are logged and the next tick resends
// current state.
package heartbeat

import "time"

// EventKind classifies a local input event.
type EventKind string

const (
	EventKeyPress    EventKind = "keypress"
	EventPointerMove EventKind = "pointermove"
	EventClick       EventKind = "click"
	EventScroll      EventKind = "scroll"
)

// IsPointer reports whether the event carries pointer coordinates.
func (k EventKind) IsPointer() bool {
	return k == EventPointerMove || k == EventClick
}

// InputEvent is one observed user input. X and Y are only meaningful for
// pointer events.
type InputEvent struct {
	Kind EventKind
	At   time.Time
	X    float64
	Y    float64
}

// Verdict is a detector's judgement over a window of input events.
type Verdict struct {
	Suspicious bool
	Pattern    string
	Detail     string
}

// Detector classifies a window of input events, oldest first.
type Detector interface {
	Detect(window []InputEvent) Verdict
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(window []InputEvent) Verdict

func (f DetectorFunc) Detect(window []InputEvent) Verdict {
	return f(window)
}

// Report is the heartbeat request body.
type Report struct {
	Active         bool   `json:"active"`
	Suspicious     bool   `json:"suspicious"`
	PatternType    string `json:"patternType,omitempty"`
	PatternDetails string `json:"patternDetails,omitempty"`
}

// Result is the server's answer to a heartbeat.
type Result struct {
	Success         bool      `json:"success"`
	IdleTime        float64   `json:"idleTime"`
	LastHeartbeat   time.Time `json:"lastHeartbeat"`
	BotDetected     bool      `json:"botDetected"`
	EffectiveActive bool      `json:"effectiveActive"`
}

// State is the emitter lifecycle state.
type State int

const (
	StateStopped State = iota
	StateTracking
)

func (s State) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	default:
		return "stopped"
	}
}

// apiResponse represents the standard API response structure.
type apiResponse[T any] struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *T        `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
