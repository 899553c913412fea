package engine

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Pranjal6955/TaskBoard-Pro/models"
)

func TestExecute_AssignBadge(t *testing.T) {
	action := models.AssignBadgeAction{BadgeName: "Finisher"}

	t.Run("Given assigned task Then emits one AwardBadge", func(t *testing.T) {
		event := models.TaskEvent{
			After: &models.Task{Assignee: &models.Assignee{UserID: "u1", Email: "a@x.com"}},
		}
		commands := Execute(action, event, nil)
		if len(commands) != 1 {
			t.Fatalf("expected 1 command, got %d", len(commands))
		}
		award, ok := commands[0].(AwardBadgeCommand)
		if !ok {
			t.Fatalf("expected AwardBadgeCommand, got %T", commands[0])
		}
		if award.UserID != "u1" || award.BadgeName != "Finisher" {
			t.Errorf("unexpected command: %+v", award)
		}
	})

	t.Run("Given unassigned task Then emits nothing", func(t *testing.T) {
		event := models.TaskEvent{After: &models.Task{}}
		if commands := Execute(action, event, nil); len(commands) != 0 {
			t.Errorf("expected no commands, got %d", len(commands))
		}
	})
}

func TestExecute_MoveTask(t *testing.T) {
	taskID := primitive.NewObjectID()
	event := models.TaskEvent{
		TaskID: taskID.Hex(),
		After:  &models.Task{ID: taskID, Status: "Done"},
	}

	t.Run("Given target differs Then emits one UpdateTaskStatus", func(t *testing.T) {
		commands := Execute(models.MoveTaskAction{TargetStatus: "To Do"}, event, nil)
		if len(commands) != 1 {
			t.Fatalf("expected 1 command, got %d", len(commands))
		}
		move := commands[0].(UpdateTaskStatusCommand)
		if move.TaskID != taskID.Hex() || move.NewStatus != "To Do" {
			t.Errorf("unexpected command: %+v", move)
		}
	})

	t.Run("Given target equals current status Then still emits the command", func(t *testing.T) {
		commands := Execute(models.MoveTaskAction{TargetStatus: "Done"}, event, nil)
		if len(commands) != 1 {
			t.Fatalf("no-op move must still emit exactly 1 command, got %d", len(commands))
		}
	})
}

func TestExecute_SendNotification(t *testing.T) {
	owners := []models.Member{{UserID: "o1", Email: "owner@x.com"}}
	event := models.TaskEvent{
		After: &models.Task{
			Assignee:  &models.Assignee{UserID: "u1", Email: "a@x.com"},
			CreatedBy: models.Member{UserID: "c1", Email: "creator@x.com"},
		},
	}

	t.Run("Given no flags and no text Then emits nothing", func(t *testing.T) {
		action := models.SendNotificationAction{}
		if commands := Execute(action, event, owners); len(commands) != 0 {
			t.Errorf("expected no commands, got %d", len(commands))
		}
	})

	t.Run("Given all flags Then emits one Notify per recipient", func(t *testing.T) {
		action := models.SendNotificationAction{
			NotificationText:    "task moved",
			NotifyAssignee:      true,
			NotifyCreator:       true,
			NotifyProjectOwners: true,
		}
		commands := Execute(action, event, owners)
		if len(commands) != 3 {
			t.Fatalf("expected 3 commands, got %d", len(commands))
		}
		recipients := map[string]bool{}
		for _, command := range commands {
			notify := command.(NotifyCommand)
			if notify.Text != "task moved" {
				t.Errorf("unexpected text: %q", notify.Text)
			}
			recipients[notify.RecipientEmail] = true
		}
		for _, want := range []string{"a@x.com", "creator@x.com", "owner@x.com"} {
			if !recipients[want] {
				t.Errorf("missing recipient %s", want)
			}
		}
	})

	t.Run("Given assignee is also creator Then recipient appears once", func(t *testing.T) {
		sameEvent := models.TaskEvent{
			After: &models.Task{
				Assignee:  &models.Assignee{UserID: "u1", Email: "a@x.com"},
				CreatedBy: models.Member{UserID: "u1", Email: "a@x.com"},
			},
		}
		action := models.SendNotificationAction{
			NotificationText: "hi",
			NotifyAssignee:   true,
			NotifyCreator:    true,
		}
		if commands := Execute(action, sameEvent, nil); len(commands) != 1 {
			t.Errorf("expected deduplicated single command, got %d", len(commands))
		}
	})

	t.Run("Given assignee flag and no assignee Then emits nothing", func(t *testing.T) {
		action := models.SendNotificationAction{NotificationText: "hi", NotifyAssignee: true}
		unassigned := models.TaskEvent{After: &models.Task{}}
		if commands := Execute(action, unassigned, nil); len(commands) != 0 {
			t.Errorf("expected no commands, got %d", len(commands))
		}
	})
}
