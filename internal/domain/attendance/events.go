package attendance

import (
	"strconv"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/domain/shared/events"
)

const EventTypeSuspiciousActivity = "attendance.suspicious_activity"

// SuspiciousActivityDetectedEvent is raised when a heartbeat arrives flagged
// as automated. Subscribers alert administrators.
type SuspiciousActivityDetectedEvent struct {
	events.BaseEvent
	EmployeeID    uint      `json:"employee_id"`
	SessionID     uint      `json:"session_id"`
	PatternType   string    `json:"pattern_type"`
	PatternDetail string    `json:"pattern_detail,omitempty"`
	ClientIP      string    `json:"client_ip,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

func NewSuspiciousActivityDetectedEvent(
	employeeID uint,
	sessionID uint,
	patternType string,
	patternDetail string,
	clientIP string,
	recordedAt time.Time,
) *SuspiciousActivityDetectedEvent {
	return &SuspiciousActivityDetectedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(sessionID), 10),
			EventType:   EventTypeSuspiciousActivity,
			OccurredAt:  time.Now().UTC(),
		},
		EmployeeID:    employeeID,
		SessionID:     sessionID,
		PatternType:   patternType,
		PatternDetail: patternDetail,
		ClientIP:      clientIP,
		RecordedAt:    recordedAt,
	}
}

// PatternOrUnknown returns the pattern tag, or "unknown" when the client sent none.
func (e *SuspiciousActivityDetectedEvent) PatternOrUnknown() string {
	if e.PatternType == "" {
		return "unknown"
	}
	return e.PatternType
}
