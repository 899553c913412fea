package services

import (
	"context"
	"time"

	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

// OverdueTaskLister is the slice of TaskService the checker needs.
type OverdueTaskLister interface {
	ListOverdueTasks(ctx context.Context, now time.Time) ([]*models.Task, error)
}

// EventProcessor is satisfied by engine.Controller.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, event models.TaskEvent)
}

// DueDateChecker periodically emits DUE_DATE_CHECK events for tasks whose
// due date has passed, feeding DUE_DATE_PASSED rules. Terminal-status
// filtering happens in the matcher, which knows the owning project.
type DueDateChecker struct {
	tasks      OverdueTaskLister
	controller EventProcessor
	interval   time.Duration
}

func NewDueDateChecker(tasks OverdueTaskLister, controller EventProcessor, interval time.Duration) *DueDateChecker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &DueDateChecker{tasks: tasks, controller: controller, interval: interval}
}

// Run blocks until ctx is cancelled.
func (c *DueDateChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	logging.Logger.Infof("Event ID: DUE_DATE_CHECKER_STARTED, Description: Due date checker running every %s", c.interval)
	for {
		select {
		case <-ctx.Done():
			logging.Logger.Info("Event ID: DUE_DATE_CHECKER_STOPPED, Description: Due date checker stopped.")
			return
		case <-ticker.C:
			c.CheckOnce(ctx)
		}
	}
}

// CheckOnce scans for overdue tasks and emits one event per task.
func (c *DueDateChecker) CheckOnce(ctx context.Context) {
	now := time.Now()
	tasks, err := c.tasks.ListOverdueTasks(ctx, now)
	if err != nil {
		logging.Logger.Errorf("Event ID: DUE_DATE_SCAN_FAILED, Description: Overdue task scan failed: %v", err)
		return
	}

	for _, task := range tasks {
		c.controller.ProcessEvent(ctx, models.TaskEvent{
			ProjectID: task.ProjectID,
			TaskID:    task.ID.Hex(),
			Kind:      models.EventDueDateCheck,
			Before:    task,
			After:     task,
			Timestamp: now,
		})
	}
}

var _ EventProcessor = (*engine.Controller)(nil)
