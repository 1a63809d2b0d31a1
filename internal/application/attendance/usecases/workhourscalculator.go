package usecases

import (
	"context"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
)

// workHoursCalculator recounts a closed session's idle time from its activity
// log and derives work hours. Recompute, backfill and punch-out share it so
// all three agree on what counts as idle.
type workHoursCalculator struct {
	activityRepo attendance.ActivityLogRepository
	policy       attendance.Policy
}

type workHoursOutcome struct {
	breakdown    attendance.WorkHoursBreakdown
	previousIdle float64
	previousWork float64
	changed      bool
}

// compute must run inside the caller's transaction. The session is not modified.
func (c workHoursCalculator) compute(ctx context.Context, session *attendance.Session) (*workHoursOutcome, error) {
	idleCount, err := c.activityRepo.CountIdle(ctx, session.ID(), attendance.SourceClient)
	if err != nil {
		return nil, err
	}

	b := c.policy.ComputeWorkHours(
		*session.PunchInAt(), *session.PunchOutAt(),
		session.BreakHours(), c.policy.IdleHours(idleCount),
	)

	return &workHoursOutcome{
		breakdown:    b,
		previousIdle: session.IdleHours(),
		previousWork: session.WorkHours(),
		changed:      c.policy.NeedsUpdate(session.IdleHours(), session.WorkHours(), b.IdleHours, b.WorkHours),
	}, nil
}

func (o *workHoursOutcome) apply(session *attendance.Session, now time.Time) {
	session.ApplyWorkHours(o.breakdown, now)
}
