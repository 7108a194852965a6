package jobs

import (
	"context"
	"fmt"

	"github.com/ksfraser/stock-analysis/internal/scan"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// ScanJob runs the watchlist scan on a cron schedule, typically after
// the market close.
type ScanJob struct {
	service  *scan.Service
	symbols  []string
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates a scheduled watchlist scan
func NewScanJob(service *scan.Service, symbols []string, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		service:  service,
		symbols:  symbols,
		schedule: schedule,
		logger:   log,
	}
}

// Name implements scheduler.Job
func (j *ScanJob) Name() string {
	return "watchlist-scan"
}

// Schedule implements scheduler.Job
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run implements scheduler.Job
func (j *ScanJob) Run(ctx context.Context) error {
	if len(j.symbols) == 0 {
		j.logger.Warn("Watchlist is empty, nothing to scan")
		return nil
	}

	summary, err := j.service.Scan(ctx, j.symbols)
	if err != nil {
		return fmt.Errorf("watchlist scan failed: %w", err)
	}

	if summary.Failed > 0 && summary.Succeeded == 0 {
		return fmt.Errorf("watchlist scan failed for all %d symbols", summary.Failed)
	}

	return nil
}
