package attendance

import (
	"fmt"
	"time"
)

// Source tells who produced an activity entry.
type Source string

const (
	// SourceClient marks heartbeats sent by an interactive client.
	SourceClient Source = "client"
	// SourceServer marks entries synthesized by the server, such as punch markers.
	SourceServer Source = "server"
)

func (s Source) IsValid() bool {
	return s == SourceClient || s == SourceServer
}

// Marker kinds recorded in the metadata of server-sourced entries.
const (
	MarkerPunchIn  = "punch_in"
	MarkerPunchOut = "punch_out"
)

// EffectiveActive applies the bot override: a suspicious heartbeat never
// counts as active, whatever the client reported.
func EffectiveActive(reportedActive, suspicious bool) bool {
	return reportedActive && !suspicious
}

// ActivityEntry is one immutable line of a session's activity log.
type ActivityEntry struct {
	id            uint
	sessionID     uint
	recordedAt    time.Time
	active        bool
	suspicious    bool
	patternType   string
	patternDetail string
	source        Source
	metadata      map[string]interface{}
}

// NewHeartbeatEntry builds a client-sourced entry. The stored active flag is
// the effective one.
func NewHeartbeatEntry(
	sessionID uint,
	at time.Time,
	reportedActive bool,
	suspicious bool,
	patternType string,
	patternDetail string,
	metadata map[string]interface{},
) (*ActivityEntry, error) {
	if sessionID == 0 {
		return nil, fmt.Errorf("%w: session ID is required", ErrInvalidActivityEntry)
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &ActivityEntry{
		sessionID:     sessionID,
		recordedAt:    at.UTC(),
		active:        EffectiveActive(reportedActive, suspicious),
		suspicious:    suspicious,
		patternType:   patternType,
		patternDetail: patternDetail,
		source:        SourceClient,
		metadata:      metadata,
	}, nil
}

// NewServerMarker builds a server-sourced entry recording a lifecycle event.
// Markers are always active so they never contribute idle time.
func NewServerMarker(sessionID uint, at time.Time, marker string) (*ActivityEntry, error) {
	if sessionID == 0 {
		return nil, fmt.Errorf("%w: session ID is required", ErrInvalidActivityEntry)
	}
	return &ActivityEntry{
		sessionID:  sessionID,
		recordedAt: at.UTC(),
		active:     true,
		source:     SourceServer,
		metadata:   map[string]interface{}{"marker": marker},
	}, nil
}

func ReconstructActivityEntry(
	id uint,
	sessionID uint,
	recordedAt time.Time,
	active bool,
	suspicious bool,
	patternType string,
	patternDetail string,
	source Source,
	metadata map[string]interface{},
) (*ActivityEntry, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: entry ID cannot be zero", ErrInvalidActivityEntry)
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidActivityEntry, source)
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &ActivityEntry{
		id:            id,
		sessionID:     sessionID,
		recordedAt:    recordedAt,
		active:        active,
		suspicious:    suspicious,
		patternType:   patternType,
		patternDetail: patternDetail,
		source:        source,
		metadata:      metadata,
	}, nil
}

func (e *ActivityEntry) ID() uint                         { return e.id }
func (e *ActivityEntry) SessionID() uint                  { return e.sessionID }
func (e *ActivityEntry) RecordedAt() time.Time            { return e.recordedAt }
func (e *ActivityEntry) Active() bool                     { return e.active }
func (e *ActivityEntry) Suspicious() bool                 { return e.suspicious }
func (e *ActivityEntry) PatternType() string              { return e.patternType }
func (e *ActivityEntry) PatternDetail() string            { return e.patternDetail }
func (e *ActivityEntry) Source() Source                   { return e.source }
func (e *ActivityEntry) Metadata() map[string]interface{} { return e.metadata }

// CountsAsIdle is the single predicate used by both live ingestion and
// recomputation: an inactive heartbeat from an interactive client.
func (e *ActivityEntry) CountsAsIdle() bool {
	return !e.active && e.source == SourceClient
}

// SetID is called by the repository once the row is persisted.
func (e *ActivityEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("%w: entry ID already set", ErrInvalidActivityEntry)
	}
	e.id = id
	return nil
}
