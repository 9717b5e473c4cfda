package tasks

import (
	"context"
	"fmt"
	"time"
)

// newDBMaintenanceTask creates the scheduled task that purges expired dedup
// rows and compacts the database file.
func newDBMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "db_maintenance")

	return func(ctx context.Context) error {
		startTime := time.Now()

		cutoff := time.Now().AddDate(0, 0, -deps.Config.Database.RetentionDays)
		purged, err := deps.Store.PurgeProcessedBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Failed to purge processed updates", "error", err)
			return fmt.Errorf("purge failed: %w", err)
		}

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Database maintenance failed", "error", err)
			return fmt.Errorf("maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Database maintenance completed",
			"purged_rows", purged, "duration", time.Since(startTime))
		return nil
	}
}
