package usecases

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/shared/errors"
	"github.com/Tatu1984/hrms-sub001/internal/shared/goroutine"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

const (
	defaultBackfillConcurrency = 4
	defaultBackfillBatchSize   = 200
	maxBackfillConcurrency     = 64
)

// BackfillWorkHoursCommand bounds the run by work date. Zero From/To leave
// that side open; To is exclusive.
type BackfillWorkHoursCommand struct {
	From        time.Time
	To          time.Time
	Concurrency int
	BatchSize   int
	DryRun      bool
}

type BackfillWorkHoursResult struct {
	Scanned  int64         `json:"scanned"`
	Updated  int64         `json:"updated"`
	Skipped  int64         `json:"skipped"`
	Failed   int64         `json:"failed"`
	DryRun   bool          `json:"dry_run"`
	Duration time.Duration `json:"duration_ns"`
}

// BackfillWorkHoursUseCase recomputes every completed session in the window.
// Each session gets its own transaction; a failing session is counted and the
// run continues. Re-running converges on the same values.
type BackfillWorkHoursUseCase struct {
	sessionRepo attendance.SessionRepository
	recompute   *RecomputeWorkHoursUseCase
	logger      logger.Interface
}

func NewBackfillWorkHoursUseCase(
	sessionRepo attendance.SessionRepository,
	recompute *RecomputeWorkHoursUseCase,
	logger logger.Interface,
) *BackfillWorkHoursUseCase {
	return &BackfillWorkHoursUseCase{
		sessionRepo: sessionRepo,
		recompute:   recompute,
		logger:      logger,
	}
}

func (uc *BackfillWorkHoursUseCase) Execute(ctx context.Context, cmd BackfillWorkHoursCommand) (*BackfillWorkHoursResult, error) {
	if !cmd.From.IsZero() && !cmd.To.IsZero() && !cmd.From.Before(cmd.To) {
		return nil, errors.NewValidationError("from must be before to")
	}
	concurrency := cmd.Concurrency
	if concurrency <= 0 {
		concurrency = defaultBackfillConcurrency
	}
	if concurrency > maxBackfillConcurrency {
		concurrency = maxBackfillConcurrency
	}
	batchSize := cmd.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBackfillBatchSize
	}

	started := time.Now()
	var scanned, updated, skipped, failed atomic.Int64

	uc.logger.Infow("work hours backfill started",
		"from", cmd.From, "to", cmd.To,
		"concurrency", concurrency, "batch_size", batchSize, "dry_run", cmd.DryRun)

	filter := attendance.CompletedSessionFilter{Limit: batchSize, From: cmd.From, To: cmd.To}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := uc.sessionRepo.ListCompleted(ctx, filter)
		if err != nil {
			uc.logger.Errorw("failed to list completed sessions", "after_id", filter.AfterID, "error", err)
			return nil, errors.NewInternalError("failed to list attendance sessions")
		}
		if len(page) == 0 {
			break
		}

		var g errgroup.Group
		g.SetLimit(concurrency)
		for _, session := range page {
			sessionID := session.ID()
			g.Go(func() error {
				scanned.Add(1)
				var res *RecomputeWorkHoursResult
				err := goroutine.Guard("recompute-session", func() (err error) {
					res, err = uc.recompute.run(ctx, sessionID, cmd.DryRun)
					return err
				})
				switch {
				case err != nil:
					failed.Add(1)
					uc.logger.Warnw("failed to recompute session", "session_id", sessionID, "error", err)
				case res.Skipped:
					skipped.Add(1)
				case res.Updated || (cmd.DryRun && res.Changed):
					updated.Add(1)
				}
				return nil
			})
		}
		_ = g.Wait()

		filter.AfterID = page[len(page)-1].ID()
		if len(page) < batchSize {
			break
		}
	}

	result := &BackfillWorkHoursResult{
		Scanned:  scanned.Load(),
		Updated:  updated.Load(),
		Skipped:  skipped.Load(),
		Failed:   failed.Load(),
		DryRun:   cmd.DryRun,
		Duration: time.Since(started),
	}

	uc.logger.Infow("work hours backfill finished",
		"scanned", result.Scanned,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", result.Duration)

	return result, nil
}
