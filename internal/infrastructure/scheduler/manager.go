// Package scheduler runs the worker's periodic attendance jobs on gocron.
// With a distributed locker configured each run happens on one replica only.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/goroutine"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// Job is one scheduled unit of work. Execute reports how many sessions it
// changed.
type Job interface {
	Execute(ctx context.Context) (int, error)
}

const (
	backfillJobName    = "work-hours-backfill"
	backfillJobTimeout = 2 * time.Hour
)

type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	mu      sync.Mutex
	started bool
}

// NewSchedulerManager evaluates cron expressions in the business timezone.
// locker may be nil for a single-replica deployment.
func NewSchedulerManager(log logger.Interface, locker gocron.Locker) (*SchedulerManager, error) {
	m := &SchedulerManager{logger: log}

	opts := []gocron.SchedulerOption{
		gocron.WithLocation(biztime.Location()),
		gocron.WithGlobalJobOptions(gocron.WithEventListeners(
			gocron.AfterLockError(m.onLockError),
		)),
	}
	if locker != nil {
		opts = append(opts, gocron.WithDistributedLocker(locker))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}
	m.scheduler = s
	return m, nil
}

// RegisterWorkHoursBackfillJob runs job on cronExpr. A run still going when
// the next one is due makes that next one skip.
func (m *SchedulerManager) RegisterWorkHoursBackfillJob(cronExpr string, job Job) error {
	return m.register(backfillJobName, cronExpr, backfillJobTimeout, job, "attendance", "work-hours")
}

func (m *SchedulerManager) register(name, cronExpr string, timeout time.Duration, job Job, tags ...string) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.run(ctx, name, job)
		}),
		gocron.WithName(name),
		gocron.WithTags(tags...),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("scheduled job registered", "job", name, "cron", cronExpr, "timeout", timeout)
	return nil
}

func (m *SchedulerManager) run(ctx context.Context, name string, job Job) {
	start := time.Now()
	m.logger.Debugw("scheduled job started", "job", name)

	var changed int
	err := goroutine.Guard(name, func() (err error) {
		changed, err = job.Execute(ctx)
		return err
	})
	if err != nil {
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	m.logger.Infow("scheduled job finished",
		"job", name,
		"changed", changed,
		"duration", time.Since(start),
	)
}

func (m *SchedulerManager) onLockError(_ uuid.UUID, name string, err error) {
	if errors.Is(err, ErrJobLocked) {
		m.logger.Infow("scheduled job skipped, another replica holds it", "job", name)
		return
	}
	m.logger.Warnw("scheduled job lock unavailable, run skipped", "job", name, "error", err)
}

func (m *SchedulerManager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to return. It is safe to call more than once.
func (m *SchedulerManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler shutdown failed", "error", err)
		return err
	}

	m.logger.Infow("scheduler stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
