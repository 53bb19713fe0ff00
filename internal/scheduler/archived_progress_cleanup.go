package scheduler

import (
	"context"
	"time"

	progressionsvc "outreach_backend/internal/progression/service"
	"outreach_backend/platform/logger"
)

const (
	defaultCleanupInterval   = time.Hour
	defaultArchivedRetention = 180 * 24 * time.Hour
)

// ArchivedProgressCleanup periodically removes archived tracker records
// past the retention window. Active records are never touched.
type ArchivedProgressCleanup struct {
	progression *progressionsvc.Service
	log         *logger.Logger
	interval    time.Duration
	retention   time.Duration
}

func NewArchivedProgressCleanup(progression *progressionsvc.Service, log *logger.Logger, interval, retention time.Duration) *ArchivedProgressCleanup {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	if retention <= 0 {
		retention = defaultArchivedRetention
	}

	return &ArchivedProgressCleanup{
		progression: progression,
		log:         log,
		interval:    interval,
		retention:   retention,
	}
}

func (c *ArchivedProgressCleanup) Run(ctx context.Context) {
	if c == nil || c.progression == nil {
		return
	}

	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ArchivedProgressCleanup) cleanup(ctx context.Context) {
	deleted, err := c.progression.PurgeArchived(ctx, c.retention)
	if err != nil {
		c.log.Warn("archived progress cleanup failed", "error", err)
		return
	}

	if deleted > 0 {
		c.log.Info("archived progress cleanup deleted records", "deleted", deleted)
	}
}
