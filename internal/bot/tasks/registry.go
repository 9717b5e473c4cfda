package tasks

import (
	"context"
)

// ScheduledTaskFunc is the signature every scheduled task implements. The
// scheduler's context should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks initializes and returns the map of registered scheduled
// tasks. The keys match the task names in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	if deps.Store != nil {
		tasks["db_maintenance"] = newDBMaintenanceTask(deps)
	}
	tasks["event_announcements"] = newEventAnnouncementsTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
