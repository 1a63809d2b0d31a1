package http

import (
	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/usecases"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
	"github.com/Tatu1984/hrms-sub001/internal/shared/services/sanitize"
)

type allUseCases struct {
	punchIn   *usecases.PunchInUseCase
	punchOut  *usecases.PunchOutUseCase
	heartbeat *usecases.RecordHeartbeatUseCase
	today     *usecases.GetTodayAttendanceUseCase
	activity  *usecases.GetActivitySummaryUseCase
	recompute *usecases.RecomputeWorkHoursUseCase
	backfill  *usecases.BackfillWorkHoursUseCase
}

func (c *Container) newUseCases() *allUseCases {
	r := c.repos
	policy := NewPolicy(c.cfg)

	recompute := usecases.NewRecomputeWorkHoursUseCase(r.sessionRepo, r.activityRepo, r.txMgr, policy, c.log)

	return &allUseCases{
		punchIn:  usecases.NewPunchInUseCase(r.sessionRepo, r.activityRepo, r.txMgr, c.log),
		punchOut: usecases.NewPunchOutUseCase(r.sessionRepo, r.activityRepo, r.txMgr, policy, c.log),
		heartbeat: usecases.NewRecordHeartbeatUseCase(
			r.sessionRepo,
			r.activityRepo,
			r.txMgr,
			sanitize.NewStrictSanitizer(),
			c.eventDispatcher,
			policy,
			c.log,
		),
		today:     usecases.NewGetTodayAttendanceUseCase(r.sessionRepo, r.activityRepo, policy, c.log),
		activity:  usecases.NewGetActivitySummaryUseCase(r.sessionRepo, r.activityRepo, policy, c.log),
		recompute: recompute,
		backfill:  usecases.NewBackfillWorkHoursUseCase(r.sessionRepo, recompute, c.log),
	}
}

// NewBackfillUseCase builds the work-hours backfill outside the HTTP
// container, for the CLI and the worker.
func NewBackfillUseCase(db *gorm.DB, cfg *config.Config, log logger.Interface) *usecases.BackfillWorkHoursUseCase {
	r := newRepositories(db)
	recompute := usecases.NewRecomputeWorkHoursUseCase(r.sessionRepo, r.activityRepo, r.txMgr, NewPolicy(cfg), log)
	return usecases.NewBackfillWorkHoursUseCase(r.sessionRepo, recompute, log)
}
