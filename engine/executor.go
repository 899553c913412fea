package engine

import (
	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

// Execute turns a fired rule's action into the commands to apply. It never
// mutates state itself. owners carries the owning project's owner references
// for SEND_NOTIFICATION fan-out.
func Execute(action models.Action, event models.TaskEvent, owners []models.Member) []Command {
	switch act := action.(type) {
	case models.AssignBadgeAction:
		if event.After == nil || event.After.Assignee == nil || event.After.Assignee.UserID == "" {
			return nil
		}
		return []Command{AwardBadgeCommand{
			UserID:    event.After.Assignee.UserID,
			BadgeName: act.BadgeName,
		}}

	case models.MoveTaskAction:
		// A move to the task's current status is still emitted; the store's
		// idempotence absorbs the redundancy.
		return []Command{UpdateTaskStatusCommand{
			TaskID:    event.TaskID,
			NewStatus: act.TargetStatus,
		}}

	case models.SendNotificationAction:
		var commands []Command
		seen := make(map[string]bool)
		notify := func(email string) {
			if email == "" || seen[email] {
				return
			}
			seen[email] = true
			commands = append(commands, NotifyCommand{RecipientEmail: email, Text: act.NotificationText})
		}
		if act.NotifyAssignee && event.After != nil && event.After.Assignee != nil {
			notify(event.After.Assignee.Email)
		}
		if act.NotifyCreator && event.After != nil {
			notify(event.After.CreatedBy.Email)
		}
		if act.NotifyProjectOwners {
			for _, owner := range owners {
				notify(owner.Email)
			}
		}
		return commands

	default:
		return nil
	}
}
