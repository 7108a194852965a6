package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ksfraser/stock-analysis/internal/scheduler"
	"github.com/ksfraser/stock-analysis/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the scheduled watchlist scan",
	Long: `Starts the job scheduler. The watchlist scan runs on the cron
schedule from SCAN_SCHEDULE (default: weekdays at 17:00).

Example:
  go run ./cmd/analyzer scheduler
  go run ./cmd/analyzer scheduler --run-now`,
	RunE: runScheduler,
}

var runNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&runNow, "run-now", false, "run the scan immediately on startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	svc, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer svc.close()

	if len(svc.cfg.Analysis.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST is empty, nothing to schedule")
	}

	sched := scheduler.New(svc.log)

	scanJob := jobs.NewScanJob(svc.scanner, svc.cfg.Analysis.Watchlist,
		svc.cfg.Analysis.ScanSchedule, svc.log)
	if err := sched.AddJob(scanJob); err != nil {
		return fmt.Errorf("add scan job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if runNow {
		if err := sched.RunJob(scanJob.Name()); err != nil {
			return fmt.Errorf("run scan job: %w", err)
		}
	}

	fmt.Printf("Scheduler running (%d symbols, schedule %q)\n",
		len(svc.cfg.Analysis.Watchlist), svc.cfg.Analysis.ScanSchedule)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
