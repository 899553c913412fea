package engine

import (
	"time"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

// Matches reports whether the rule's trigger fires for the event. It is a
// pure function: no partial matches, no priority between rules. terminal is
// the owning project's terminal board column, used only by DUE_DATE_PASSED.
func Matches(rule *models.AutomationRule, event models.TaskEvent, now time.Time, terminal string) bool {
	// Inactive rules never match; decided before the trigger is inspected.
	if !rule.IsActive {
		return false
	}

	switch trigger := rule.Trigger.(type) {
	case models.StatusChangeTrigger:
		if event.Kind != models.EventStatusChange || event.Before == nil || event.After == nil {
			return false
		}
		return event.Before.Status == trigger.FromStatus && event.After.Status == trigger.ToStatus

	case models.AssignmentChangeTrigger:
		if event.Kind != models.EventAssignmentChange || event.After == nil {
			return false
		}
		if trigger.AssigneeEmail == "" {
			return true
		}
		return event.After.Assignee != nil && event.After.Assignee.Email == trigger.AssigneeEmail

	case models.DueDatePassedTrigger:
		if event.Kind != models.EventDueDateCheck || event.After == nil {
			return false
		}
		if event.After.DueDate == nil || !event.After.DueDate.Before(now) {
			return false
		}
		return event.After.Status != terminal

	default:
		return false
	}
}
