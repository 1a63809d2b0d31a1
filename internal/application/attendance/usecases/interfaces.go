package usecases

import (
	"context"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/dto"
)

type RecordHeartbeatExecutor interface {
	Execute(ctx context.Context, cmd RecordHeartbeatCommand) (*RecordHeartbeatResult, error)
}

type RecomputeWorkHoursExecutor interface {
	Execute(ctx context.Context, cmd RecomputeWorkHoursCommand) (*RecomputeWorkHoursResult, error)
}

type BackfillWorkHoursExecutor interface {
	Execute(ctx context.Context, cmd BackfillWorkHoursCommand) (*BackfillWorkHoursResult, error)
}

type PunchInExecutor interface {
	Execute(ctx context.Context, cmd PunchInCommand) (*dto.SessionDTO, error)
}

type PunchOutExecutor interface {
	Execute(ctx context.Context, cmd PunchOutCommand) (*PunchOutResult, error)
}

type GetTodayAttendanceExecutor interface {
	Execute(ctx context.Context, query GetTodayAttendanceQuery) (*dto.TodayAttendanceDTO, error)
}

type GetActivitySummaryExecutor interface {
	Execute(ctx context.Context, query GetActivitySummaryQuery) (*dto.ActivitySummaryDTO, error)
}

// PatternSanitizer cleans client-supplied pattern diagnostics before they are
// stored or forwarded to administrators.
type PatternSanitizer interface {
	Sanitize(s string) string
}
