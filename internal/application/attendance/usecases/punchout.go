package usecases

import (
	"context"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/dto"
	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/db"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

type PunchOutCommand struct {
	Identity attendance.Identity
}

type PunchOutResult struct {
	Session   *dto.SessionDTO            `json:"session"`
	Breakdown *dto.WorkHoursBreakdownDTO `json:"breakdown"`
}

// PunchOutUseCase closes today's session, finalizes its work hours from the
// activity log and classifies the day.
type PunchOutUseCase struct {
	sessionRepo  attendance.SessionRepository
	activityRepo attendance.ActivityLogRepository
	txMgr        db.Transactor
	calc         workHoursCalculator
	policy       attendance.Policy
	logger       logger.Interface
	now          func() time.Time
}

func NewPunchOutUseCase(
	sessionRepo attendance.SessionRepository,
	activityRepo attendance.ActivityLogRepository,
	txMgr db.Transactor,
	policy attendance.Policy,
	logger logger.Interface,
) *PunchOutUseCase {
	policy = policy.Normalize()
	return &PunchOutUseCase{
		sessionRepo:  sessionRepo,
		activityRepo: activityRepo,
		txMgr:        txMgr,
		calc:         workHoursCalculator{activityRepo: activityRepo, policy: policy},
		policy:       policy,
		logger:       logger,
		now:          biztime.NowUTC,
	}
}

func (uc *PunchOutUseCase) Execute(ctx context.Context, cmd PunchOutCommand) (*PunchOutResult, error) {
	if cmd.Identity.IsZero() {
		return nil, errors.NewUnauthorizedError("employee identity is required")
	}

	now := uc.now()
	dayStart, dayEnd := biztime.DayRangeUTC(now)

	var session *attendance.Session
	var outcome *workHoursOutcome
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		session, err = uc.sessionRepo.FindByEmployeeAndDay(txCtx, cmd.Identity.EmployeeID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if err := session.PunchOut(now); err != nil {
			return err
		}

		marker, err := attendance.NewServerMarker(session.ID(), now, attendance.MarkerPunchOut)
		if err != nil {
			return err
		}
		if err := uc.activityRepo.Append(txCtx, marker); err != nil {
			return err
		}

		outcome, err = uc.calc.compute(txCtx, session)
		if err != nil {
			return err
		}
		outcome.apply(session, now)
		if err := session.SetStatus(uc.policy.ClassifyDay(outcome.breakdown.WorkHours)); err != nil {
			return err
		}

		if err := uc.sessionRepo.UpdatePunches(txCtx, session); err != nil {
			return err
		}
		return uc.sessionRepo.UpdateAggregates(txCtx, session)
	})
	if err != nil {
		if !isPrecondition(err) {
			uc.logger.Errorw("failed to punch out", "employee_id", cmd.Identity.EmployeeID, "error", err)
		}
		return nil, toAppError(err, "failed to punch out")
	}

	uc.logger.Infow("employee punched out",
		"employee_id", session.EmployeeID(),
		"session_id", session.ID(),
		"work_hours", session.WorkHours(),
		"idle_hours", session.IdleHours(),
		"status", session.Status())

	return &PunchOutResult{
		Session:   dto.ToSessionDTO(session),
		Breakdown: dto.ToWorkHoursBreakdownDTO(outcome.breakdown),
	}, nil
}
