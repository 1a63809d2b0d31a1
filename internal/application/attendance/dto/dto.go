package dto

import (
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
)

type SessionDTO struct {
	ID         uint       `json:"id"`
	EmployeeID uint       `json:"employee_id"`
	WorkDate   string     `json:"work_date"`
	PunchInAt  *time.Time `json:"punch_in_at"`
	PunchOutAt *time.Time `json:"punch_out_at"`
	BreakHours float64    `json:"break_hours"`
	IdleHours  float64    `json:"idle_hours"`
	WorkHours  float64    `json:"work_hours"`
	Status     string     `json:"status"`
	IsOpen     bool       `json:"is_open"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func ToSessionDTO(s *attendance.Session) *SessionDTO {
	if s == nil {
		return nil
	}
	return &SessionDTO{
		ID:         s.ID(),
		EmployeeID: s.EmployeeID(),
		WorkDate:   biztime.FormatDate(s.WorkDate()),
		PunchInAt:  s.PunchInAt(),
		PunchOutAt: s.PunchOutAt(),
		BreakHours: s.BreakHours(),
		IdleHours:  s.IdleHours(),
		WorkHours:  s.WorkHours(),
		Status:     s.Status().String(),
		IsOpen:     s.IsOpen(),
		UpdatedAt:  s.UpdatedAt(),
	}
}

// HeartbeatResponseDTO is the heartbeat wire response. Its camelCase keys are
// shared with the client emitter.
type HeartbeatResponseDTO struct {
	Success         bool      `json:"success"`
	IdleTime        float64   `json:"idleTime"`
	LastHeartbeat   time.Time `json:"lastHeartbeat"`
	BotDetected     bool      `json:"botDetected"`
	EffectiveActive bool      `json:"effectiveActive"`
}

type ActivitySummaryDTO struct {
	SessionID                uint           `json:"session_id"`
	EmployeeID               uint           `json:"employee_id"`
	TotalEntries             int            `json:"total_entries"`
	ClientHeartbeats         int            `json:"client_heartbeats"`
	ActiveHeartbeats         int            `json:"active_heartbeats"`
	IdleHeartbeats           int            `json:"idle_heartbeats"`
	SuspiciousEntries        int            `json:"suspicious_entries"`
	FirstHeartbeatAt         *time.Time     `json:"first_heartbeat_at"`
	LastHeartbeatAt          *time.Time     `json:"last_heartbeat_at"`
	LongestIdleStreakMinutes float64        `json:"longest_idle_streak_minutes"`
	IdleHours                float64        `json:"idle_hours"`
	Patterns                 map[string]int `json:"patterns"`
}

func ToActivitySummaryDTO(s *attendance.Session, summary attendance.ActivitySummary) *ActivitySummaryDTO {
	return &ActivitySummaryDTO{
		SessionID:                s.ID(),
		EmployeeID:               s.EmployeeID(),
		TotalEntries:             summary.TotalEntries,
		ClientHeartbeats:         summary.ClientHeartbeats,
		ActiveHeartbeats:         summary.ActiveHeartbeats,
		IdleHeartbeats:           summary.IdleHeartbeats,
		SuspiciousEntries:        summary.SuspiciousEntries,
		FirstHeartbeatAt:         summary.FirstHeartbeatAt,
		LastHeartbeatAt:          summary.LastHeartbeatAt,
		LongestIdleStreakMinutes: summary.LongestIdleStreak.Minutes(),
		IdleHours:                summary.IdleHours,
		Patterns:                 summary.Patterns,
	}
}

type TodayAttendanceDTO struct {
	Date       string              `json:"date"`
	PunchedIn  bool                `json:"punched_in"`
	PunchedOut bool                `json:"punched_out"`
	Session    *SessionDTO         `json:"session"`
	Activity   *ActivitySummaryDTO `json:"activity,omitempty"`
}

type WorkHoursBreakdownDTO struct {
	ElapsedHours float64 `json:"elapsed_hours"`
	BreakHours   float64 `json:"break_hours"`
	IdleHours    float64 `json:"idle_hours"`
	RawHours     float64 `json:"raw_hours"`
	PenaltyHours float64 `json:"penalty_hours"`
	WorkHours    float64 `json:"work_hours"`
}

func ToWorkHoursBreakdownDTO(b attendance.WorkHoursBreakdown) *WorkHoursBreakdownDTO {
	return &WorkHoursBreakdownDTO{
		ElapsedHours: b.ElapsedHours,
		BreakHours:   b.BreakHours,
		IdleHours:    b.IdleHours,
		RawHours:     b.RawHours,
		PenaltyHours: b.PenaltyHours,
		WorkHours:    b.WorkHours,
	}
}
