package usecases

import (
	"context"
	stderrors "errors"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/dto"
	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

type GetActivitySummaryQuery struct {
	Identity  attendance.Identity
	SessionID uint
}

type GetActivitySummaryUseCase struct {
	sessionRepo  attendance.SessionRepository
	activityRepo attendance.ActivityLogRepository
	policy       attendance.Policy
	logger       logger.Interface
}

func NewGetActivitySummaryUseCase(
	sessionRepo attendance.SessionRepository,
	activityRepo attendance.ActivityLogRepository,
	policy attendance.Policy,
	logger logger.Interface,
) *GetActivitySummaryUseCase {
	return &GetActivitySummaryUseCase{
		sessionRepo:  sessionRepo,
		activityRepo: activityRepo,
		policy:       policy.Normalize(),
		logger:       logger,
	}
}

func (uc *GetActivitySummaryUseCase) Execute(ctx context.Context, query GetActivitySummaryQuery) (*dto.ActivitySummaryDTO, error) {
	if query.Identity.IsZero() {
		return nil, errors.NewUnauthorizedError("employee identity is required")
	}
	if query.SessionID == 0 {
		return nil, errors.NewValidationError("session ID is required")
	}

	session, err := uc.sessionRepo.GetByID(ctx, query.SessionID)
	if err != nil {
		if stderrors.Is(err, attendance.ErrSessionNotFound) {
			return nil, errors.NewNotFoundError("attendance session not found")
		}
		uc.logger.Errorw("failed to get attendance session", "session_id", query.SessionID, "error", err)
		return nil, errors.NewInternalError("failed to load activity summary")
	}

	if !query.Identity.CanRead(session.GetOwnerID()) {
		uc.logger.Warnw("activity summary access denied",
			"employee_id", query.Identity.EmployeeID,
			"session_id", query.SessionID)
		return nil, errors.NewForbiddenError("access denied to this attendance session")
	}

	entries, err := uc.activityRepo.ListBySession(ctx, session.ID())
	if err != nil {
		uc.logger.Errorw("failed to list activity log", "session_id", session.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load activity summary")
	}

	return dto.ToActivitySummaryDTO(session, uc.policy.Summarize(entries)), nil
}
