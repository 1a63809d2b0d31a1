package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/cache"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/database"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/scheduler"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/Tatu1984/hrms-sub001/internal/interfaces/http"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// jobLockTTL bounds how long a crashed replica can hold the backfill lock.
const jobLockTTL = 3 * time.Hour

func main() {
	env := constants.EnvDevelopment
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	env = bootstrap.ResolveEnv(env)

	cfg, log, err := bootstrap.InitWithDatabase(env, "")
	if err != nil {
		fmt.Printf("failed to start worker: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("starting attendance worker", "environment", env)

	redisClient := httpRouter.InitRedis(cfg, log)
	defer redisClient.Close()

	locker := scheduler.NewDistributedLocker(cache.NewJobLockStore(redisClient), jobLockTTL)
	manager, err := scheduler.NewSchedulerManager(log, locker)
	if err != nil {
		log.Fatalw("failed to create scheduler", "error", err)
	}

	backfill := httpRouter.NewBackfillUseCase(database.Get(), cfg, log)
	job := scheduler.NewWorkHoursBackfillJob(
		backfill,
		cfg.Attendance.BackfillLookbackDays,
		cfg.Attendance.BackfillConcurrency,
		cfg.Attendance.BackfillBatchSize,
	)
	if err := manager.RegisterWorkHoursBackfillJob(cfg.Attendance.BackfillCron, job); err != nil {
		log.Fatalw("failed to register work hours backfill job", "error", err, "cron", cfg.Attendance.BackfillCron)
	}

	manager.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	if err := manager.Stop(); err != nil {
		log.Errorw("scheduler stopped with error", "error", err)
	}

	log.Infow("attendance worker stopped")
}
