package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/dto"
	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

type GetTodayAttendanceQuery struct {
	Identity attendance.Identity
}

// GetTodayAttendanceUseCase returns the caller's session for the current
// business day. A day without a session is not an error.
type GetTodayAttendanceUseCase struct {
	sessionRepo  attendance.SessionRepository
	activityRepo attendance.ActivityLogRepository
	policy       attendance.Policy
	logger       logger.Interface
	now          func() time.Time
}

func NewGetTodayAttendanceUseCase(
	sessionRepo attendance.SessionRepository,
	activityRepo attendance.ActivityLogRepository,
	policy attendance.Policy,
	logger logger.Interface,
) *GetTodayAttendanceUseCase {
	return &GetTodayAttendanceUseCase{
		sessionRepo:  sessionRepo,
		activityRepo: activityRepo,
		policy:       policy.Normalize(),
		logger:       logger,
		now:          biztime.NowUTC,
	}
}

func (uc *GetTodayAttendanceUseCase) Execute(ctx context.Context, query GetTodayAttendanceQuery) (*dto.TodayAttendanceDTO, error) {
	if query.Identity.IsZero() {
		return nil, errors.NewUnauthorizedError("employee identity is required")
	}

	now := uc.now()
	dayStart, dayEnd := biztime.DayRangeUTC(now)
	result := &dto.TodayAttendanceDTO{Date: biztime.FormatDate(now)}

	session, err := uc.sessionRepo.FindByEmployeeAndDay(ctx, query.Identity.EmployeeID, dayStart, dayEnd)
	if err != nil {
		if stderrors.Is(err, attendance.ErrSessionNotFound) {
			return result, nil
		}
		uc.logger.Errorw("failed to load today's attendance", "employee_id", query.Identity.EmployeeID, "error", err)
		return nil, errors.NewInternalError("failed to load attendance")
	}

	result.PunchedIn = session.HasPunchedIn()
	result.PunchedOut = session.HasPunchedOut()
	result.Session = dto.ToSessionDTO(session)

	entries, err := uc.activityRepo.ListBySession(ctx, session.ID())
	if err != nil {
		uc.logger.Errorw("failed to load activity log", "session_id", session.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load attendance")
	}
	result.Activity = dto.ToActivitySummaryDTO(session, uc.policy.Summarize(entries))

	return result, nil
}
