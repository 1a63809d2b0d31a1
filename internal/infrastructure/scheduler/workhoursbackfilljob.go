package scheduler

import (
	"context"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/usecases"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
)

// WorkHoursBackfillJob recomputes sessions of the last LookbackDays business
// days, today included.
type WorkHoursBackfillJob struct {
	backfill     usecases.BackfillWorkHoursExecutor
	lookbackDays int
	concurrency  int
	batchSize    int
	now          func() time.Time
}

func NewWorkHoursBackfillJob(backfill usecases.BackfillWorkHoursExecutor, lookbackDays, concurrency, batchSize int) *WorkHoursBackfillJob {
	if lookbackDays <= 0 {
		lookbackDays = 1
	}
	return &WorkHoursBackfillJob{
		backfill:     backfill,
		lookbackDays: lookbackDays,
		concurrency:  concurrency,
		batchSize:    batchSize,
		now:          biztime.NowUTC,
	}
}

func (j *WorkHoursBackfillJob) Execute(ctx context.Context) (int, error) {
	from, to := j.window()
	result, err := j.backfill.Execute(ctx, usecases.BackfillWorkHoursCommand{
		From:        from,
		To:          to,
		Concurrency: j.concurrency,
		BatchSize:   j.batchSize,
	})
	if err != nil {
		return 0, err
	}
	return int(result.Updated), nil
}

func (j *WorkHoursBackfillJob) window() (from, to time.Time) {
	now := j.now()
	to = biztime.StartOfNextDayUTC(now)
	from = biztime.StartOfDayUTC(biztime.ToBizTimezone(now).AddDate(0, 0, -(j.lookbackDays - 1)))
	return from, to
}
