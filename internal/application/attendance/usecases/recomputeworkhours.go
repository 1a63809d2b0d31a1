package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/dto"
	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/db"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

type RecomputeWorkHoursCommand struct {
	SessionID uint
	DryRun    bool
}

type RecomputeWorkHoursResult struct {
	SessionID     uint                       `json:"session_id"`
	Skipped       bool                       `json:"skipped"`
	Changed       bool                       `json:"changed"`
	Updated       bool                       `json:"updated"`
	IdleTimeHours float64                    `json:"idle_time_hours"`
	WorkHours     float64                    `json:"work_hours"`
	PreviousIdle  float64                    `json:"previous_idle_hours"`
	PreviousWork  float64                    `json:"previous_work_hours"`
	Breakdown     *dto.WorkHoursBreakdownDTO `json:"breakdown,omitempty"`
}

// RecomputeWorkHoursUseCase re-derives idle and work hours of one completed
// session. Sessions missing a punch are skipped, and values within the update
// tolerance are left untouched.
type RecomputeWorkHoursUseCase struct {
	sessionRepo attendance.SessionRepository
	txMgr       db.Transactor
	calc        workHoursCalculator
	logger      logger.Interface
	now         func() time.Time
}

func NewRecomputeWorkHoursUseCase(
	sessionRepo attendance.SessionRepository,
	activityRepo attendance.ActivityLogRepository,
	txMgr db.Transactor,
	policy attendance.Policy,
	logger logger.Interface,
) *RecomputeWorkHoursUseCase {
	return &RecomputeWorkHoursUseCase{
		sessionRepo: sessionRepo,
		txMgr:       txMgr,
		calc:        workHoursCalculator{activityRepo: activityRepo, policy: policy.Normalize()},
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *RecomputeWorkHoursUseCase) Execute(ctx context.Context, cmd RecomputeWorkHoursCommand) (*RecomputeWorkHoursResult, error) {
	if cmd.SessionID == 0 {
		return nil, errors.NewValidationError("session ID is required")
	}

	result, err := uc.run(ctx, cmd.SessionID, cmd.DryRun)
	if err != nil {
		if !isPrecondition(err) {
			uc.logger.Errorw("failed to recompute work hours", "session_id", cmd.SessionID, "error", err)
		}
		if stderrors.Is(err, attendance.ErrSessionNotFound) {
			return nil, errors.NewNotFoundError("attendance session not found")
		}
		return nil, toAppError(err, "failed to recompute work hours")
	}

	return result, nil
}

// run recomputes one session in its own transaction.
func (uc *RecomputeWorkHoursUseCase) run(ctx context.Context, sessionID uint, dryRun bool) (*RecomputeWorkHoursResult, error) {
	var result *RecomputeWorkHoursResult
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		session, err := uc.sessionRepo.GetByID(txCtx, sessionID)
		if err != nil {
			return err
		}
		result, err = uc.recompute(txCtx, session, dryRun)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recompute runs inside the caller's transaction.
func (uc *RecomputeWorkHoursUseCase) recompute(ctx context.Context, session *attendance.Session, dryRun bool) (*RecomputeWorkHoursResult, error) {
	result := &RecomputeWorkHoursResult{
		SessionID:     session.ID(),
		IdleTimeHours: session.IdleHours(),
		WorkHours:     session.WorkHours(),
		PreviousIdle:  session.IdleHours(),
		PreviousWork:  session.WorkHours(),
	}
	if !session.IsComplete() {
		result.Skipped = true
		return result, nil
	}

	outcome, err := uc.calc.compute(ctx, session)
	if err != nil {
		return nil, err
	}
	result.IdleTimeHours = outcome.breakdown.IdleHours
	result.WorkHours = outcome.breakdown.WorkHours
	result.Breakdown = dto.ToWorkHoursBreakdownDTO(outcome.breakdown)
	result.Changed = outcome.changed

	if !outcome.changed || dryRun {
		return result, nil
	}

	outcome.apply(session, uc.now())
	if err := uc.sessionRepo.UpdateAggregates(ctx, session); err != nil {
		return nil, err
	}
	result.Updated = true

	uc.logger.Infow("work hours recomputed",
		"session_id", session.ID(),
		"employee_id", session.EmployeeID(),
		"idle_hours", outcome.previousIdle,
		"new_idle_hours", outcome.breakdown.IdleHours,
		"work_hours", outcome.previousWork,
		"new_work_hours", outcome.breakdown.WorkHours)

	return result, nil
}
