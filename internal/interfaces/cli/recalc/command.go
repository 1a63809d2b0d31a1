// Package recalc runs the work-hours backfill from the command line.
package recalc

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/usecases"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/database"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/Tatu1984/hrms-sub001/internal/interfaces/http"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

var (
	env         string
	configPath  string
	fromDate    string
	toDate      string
	concurrency int
	batchSize   int
	dryRun      bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate idle and work hours for past sessions",
		Long: `Recompute idle and work hours from the activity log for every closed session
whose business day falls between --from and --to (both inclusive). Without --from the
window has no lower bound; --to defaults to today.`,
		Example: `  hrms recalc --from 2025-03-01 --to 2025-03-07 --dry-run
  hrms recalc --dry-run
  hrms recalc --from 2025-03-01 --concurrency 8`,
		RunE: run,
	}

	bootstrap.RegisterFlags(cmd.Flags(), &env, &configPath)
	cmd.Flags().StringVar(&fromDate, "from", "", "First business day, YYYY-MM-DD (default: no lower bound)")
	cmd.Flags().StringVar(&toDate, "to", "", "Last business day, YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Sessions recomputed in parallel (default: attendance.backfill_concurrency)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Sessions loaded per page (default: attendance.backfill_batch_size)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing them")

	return cmd
}

// parseWindow turns inclusive business dates into the half-open UTC range the
// backfill expects. An empty from yields a zero start, which the backfill
// treats as unbounded.
func parseWindow(from, to string, now time.Time) (time.Time, time.Time, error) {
	var start time.Time
	var err error
	if from != "" {
		start, err = biztime.ParseDateInBizTimezone(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q: %w", from, err)
		}
	}

	lastDay := now
	if to != "" {
		lastDay, err = biztime.ParseDateInBizTimezone(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q: %w", to, err)
		}
	}

	end := biztime.StartOfNextDayUTC(lastDay)
	if !start.IsZero() && !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return start, end, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.ResolveEnv(env)

	cfg, log, err := bootstrap.InitWithDatabase(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	from, to, err := parseWindow(fromDate, toDate, biztime.NowUTC())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backfill := httpRouter.NewBackfillUseCase(database.Get(), cfg, log)
	result, err := backfill.Execute(ctx, usecases.BackfillWorkHoursCommand{
		From:        from,
		To:          to,
		Concurrency: orDefault(concurrency, cfg.Attendance.BackfillConcurrency),
		BatchSize:   orDefault(batchSize, cfg.Attendance.BackfillBatchSize),
		DryRun:      dryRun,
	})
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}

	printResult(cmd, from, to, result)

	if result.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d session(s) failed, see logs for details\n", result.Failed)
	}
	return nil
}

func printResult(cmd *cobra.Command, from, to time.Time, result *usecases.BackfillWorkHoursResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nWork Hours Backfill:\n")
	first := "(earliest)"
	if !from.IsZero() {
		first = biztime.FormatDate(from)
	}
	fmt.Fprintf(out, "  Window:   %s .. %s\n", first, biztime.FormatDate(to.Add(-time.Nanosecond)))
	fmt.Fprintf(out, "  Dry run:  %t\n", result.DryRun)
	fmt.Fprintf(out, "  Scanned:  %d\n", result.Scanned)
	fmt.Fprintf(out, "  Updated:  %d\n", result.Updated)
	fmt.Fprintf(out, "  Skipped:  %d\n", result.Skipped)
	fmt.Fprintf(out, "  Failed:   %d\n", result.Failed)
	fmt.Fprintf(out, "  Duration: %s\n", result.Duration.Round(time.Millisecond))
}
