package attendance

import (
	"fmt"
	"math"
	"time"
)

// Session is one employee's attendance record for one business day.
// Idle and work hours are derived from the activity log and punch times and
// never exceed the elapsed punched-in time.
type Session struct {
	id         uint
	employeeID uint
	workDate   time.Time
	punchInAt  *time.Time
	punchOutAt *time.Time
	breakHours float64
	idleHours  float64
	workHours  float64
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

// NewSession creates an empty session for the business day starting at workDate (UTC).
func NewSession(employeeID uint, workDate time.Time) (*Session, error) {
	if employeeID == 0 {
		return nil, fmt.Errorf("%w: employee ID is required", ErrInvalidSession)
	}
	if workDate.IsZero() {
		return nil, fmt.Errorf("%w: work date is required", ErrInvalidSession)
	}

	now := time.Now().UTC()
	return &Session{
		employeeID: employeeID,
		workDate:   workDate.UTC(),
		status:     StatusAbsent,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructSession(
	id uint,
	employeeID uint,
	workDate time.Time,
	punchInAt, punchOutAt *time.Time,
	breakHours, idleHours, workHours float64,
	status Status,
	createdAt, updatedAt time.Time,
) (*Session, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: session ID cannot be zero", ErrInvalidSession)
	}
	if employeeID == 0 {
		return nil, fmt.Errorf("%w: employee ID is required", ErrInvalidSession)
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus(string(status))
	}

	return &Session{
		id:         id,
		employeeID: employeeID,
		workDate:   workDate,
		punchInAt:  punchInAt,
		punchOutAt: punchOutAt,
		breakHours: breakHours,
		idleHours:  idleHours,
		workHours:  workHours,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (s *Session) ID() uint               { return s.id }
func (s *Session) EmployeeID() uint       { return s.employeeID }
func (s *Session) WorkDate() time.Time    { return s.workDate }
func (s *Session) PunchInAt() *time.Time  { return s.punchInAt }
func (s *Session) PunchOutAt() *time.Time { return s.punchOutAt }
func (s *Session) BreakHours() float64    { return s.breakHours }
func (s *Session) IdleHours() float64     { return s.idleHours }
func (s *Session) WorkHours() float64     { return s.workHours }
func (s *Session) Status() Status         { return s.status }
func (s *Session) CreatedAt() time.Time   { return s.createdAt }
func (s *Session) UpdatedAt() time.Time   { return s.updatedAt }
func (s *Session) GetOwnerID() uint       { return s.employeeID }
func (s *Session) HasPunchedIn() bool     { return s.punchInAt != nil }
func (s *Session) HasPunchedOut() bool    { return s.punchOutAt != nil }
func (s *Session) IsComplete() bool       { return s.punchInAt != nil && s.punchOutAt != nil }
func (s *Session) IsOpen() bool           { return s.punchInAt != nil && s.punchOutAt == nil }

// SetID is called by the repository once the row is persisted.
func (s *Session) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("%w: session ID already set", ErrInvalidSession)
	}
	if id == 0 {
		return fmt.Errorf("%w: session ID cannot be zero", ErrInvalidSession)
	}
	s.id = id
	return nil
}

// CanAcceptHeartbeat reports why a heartbeat must be rejected, or nil when the
// session is open.
func (s *Session) CanAcceptHeartbeat() error {
	if s.punchInAt == nil {
		return ErrNotPunchedIn
	}
	if s.punchOutAt != nil {
		return ErrAlreadyPunchedOut
	}
	return nil
}

func (s *Session) PunchIn(at time.Time) error {
	if s.punchInAt != nil {
		return ErrAlreadyPunchedIn
	}
	t := at.UTC()
	s.punchInAt = &t
	s.status = StatusPresent
	s.updatedAt = t
	return nil
}

func (s *Session) PunchOut(at time.Time) error {
	if s.punchInAt == nil {
		return ErrNotPunchedIn
	}
	if s.punchOutAt != nil {
		return ErrAlreadyPunchedOut
	}
	t := at.UTC()
	if t.Before(*s.punchInAt) {
		return ErrPunchOutBeforePunchIn
	}
	s.punchOutAt = &t
	s.updatedAt = t
	return nil
}

// ElapsedHours is the unrounded punched-in time. For an open session the
// interval ends at now.
func (s *Session) ElapsedHours(now time.Time) float64 {
	if s.punchInAt == nil {
		return 0
	}
	end := now
	if s.punchOutAt != nil {
		end = *s.punchOutAt
	}
	return math.Max(0, end.Sub(*s.punchInAt).Hours())
}

// ApplyIdleHours stores idle hours, capped at the elapsed time at now. Early
// in a session the stored value can sit below the raw heartbeat count; it
// catches up on later heartbeats as elapsed time grows, since the count is
// recomputed from the activity log every time.
func (s *Session) ApplyIdleHours(hours float64, now time.Time) {
	hours = math.Max(0, hours)
	if elapsed := s.ElapsedHours(now); hours > elapsed {
		hours = floor2(elapsed)
	}
	s.idleHours = Round2(hours)
	s.updatedAt = now.UTC()
}

// ApplyWorkHours stores the result of a work-hours computation.
func (s *Session) ApplyWorkHours(b WorkHoursBreakdown, now time.Time) {
	s.idleHours = b.IdleHours
	s.workHours = b.WorkHours
	s.updatedAt = now.UTC()
}

func (s *Session) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus(string(status))
	}
	s.status = status
	return nil
}
