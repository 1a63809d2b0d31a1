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

type PunchInCommand struct {
	Identity attendance.Identity
}

// PunchInUseCase opens today's session. A session row that exists without a
// punch-in (created by an HR import, for example) is punched into in place.
type PunchInUseCase struct {
	sessionRepo  attendance.SessionRepository
	activityRepo attendance.ActivityLogRepository
	txMgr        db.Transactor
	logger       logger.Interface
	now          func() time.Time
}

func NewPunchInUseCase(
	sessionRepo attendance.SessionRepository,
	activityRepo attendance.ActivityLogRepository,
	txMgr db.Transactor,
	logger logger.Interface,
) *PunchInUseCase {
	return &PunchInUseCase{
		sessionRepo:  sessionRepo,
		activityRepo: activityRepo,
		txMgr:        txMgr,
		logger:       logger,
		now:          biztime.NowUTC,
	}
}

func (uc *PunchInUseCase) Execute(ctx context.Context, cmd PunchInCommand) (*dto.SessionDTO, error) {
	if cmd.Identity.IsZero() {
		return nil, errors.NewUnauthorizedError("employee identity is required")
	}

	now := uc.now()
	dayStart, dayEnd := biztime.DayRangeUTC(now)

	var session *attendance.Session
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		existing, err := uc.sessionRepo.FindByEmployeeAndDay(txCtx, cmd.Identity.EmployeeID, dayStart, dayEnd)
		switch {
		case err == nil:
			if err := existing.PunchIn(now); err != nil {
				return err
			}
			if err := uc.sessionRepo.UpdatePunches(txCtx, existing); err != nil {
				return err
			}
			session = existing
		case stderrors.Is(err, attendance.ErrSessionNotFound):
			created, err := attendance.NewSession(cmd.Identity.EmployeeID, dayStart)
			if err != nil {
				return err
			}
			if err := created.PunchIn(now); err != nil {
				return err
			}
			if err := uc.sessionRepo.Create(txCtx, created); err != nil {
				if errors.IsDuplicateError(err) {
					return attendance.ErrAlreadyPunchedIn
				}
				return err
			}
			session = created
		default:
			return err
		}

		marker, err := attendance.NewServerMarker(session.ID(), now, attendance.MarkerPunchIn)
		if err != nil {
			return err
		}
		return uc.activityRepo.Append(txCtx, marker)
	})
	if err != nil {
		if !isPrecondition(err) {
			uc.logger.Errorw("failed to punch in", "employee_id", cmd.Identity.EmployeeID, "error", err)
		}
		return nil, toAppError(err, "failed to punch in")
	}

	uc.logger.Infow("employee punched in",
		"employee_id", session.EmployeeID(),
		"session_id", session.ID(),
		"work_date", biztime.FormatDate(session.WorkDate()))

	return dto.ToSessionDTO(session), nil
}
