// FILE: internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"time"

	"moodmuse-be/internal/pkg/logger"
	"moodmuse-be/internal/service"
)

// Scheduler drives the periodic weekly report job. It is deliberately
// dumb: a single ticker, no persistence, no catch-up for missed runs.
type Scheduler struct {
	reportService service.IReportService
	interval      time.Duration
	logger        logger.ILogger
	stopCh        chan struct{}
}

func NewScheduler(reportService service.IReportService, interval time.Duration, log logger.ILogger) *Scheduler {
	if interval <= 0 {
		interval = 7 * 24 * time.Hour
	}
	return &Scheduler{
		reportService: reportService,
		interval:      interval,
		logger:        log,
		stopCh:        make(chan struct{}),
	}
}

// Start launches the ticker loop in its own goroutine and returns
// immediately. Call Stop to shut it down.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler", "Weekly report scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.reportService.SendWeeklyReports(ctx); err != nil {
					s.logger.Error("scheduler", "Weekly report run failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
}
